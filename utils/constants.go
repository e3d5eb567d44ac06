package utils

// Embed colors
const (
	BotColor = 0x2C82C9
	Green    = 0x1F8B4C
	Red      = 0xE74C3C
	Yellow   = 0xF1C40F
)

// Economy
const (
	MinBlackjackBet   = 25
	DailyGrowthMin    = 40
	DailyGrowthMax    = 80 // exclusive, matches rand range [40, 80)
	GrowMin           = 1
	GrowMax           = 10
	DefaultPpName     = "Unnamed Pp"
	DefaultMultiplier = 1.0
)

// Blackjack payouts, expressed as the total returned per staked inch
const (
	DealerStandValue   = 17
	BlackjackPayout    = 2.5
	WinPayout          = 2.0
	BlackjackTimeout   = 15 // seconds the player has per decision
	BeggingMenuTimeout = 60 // seconds to pick a begging location
)

// Begging skill
const (
	BeggingSkill     = "BEGGING"
	BegExperienceMin = 5
	BegExperienceMax = 15
	BegInchesMax     = 25
)

// SkillLevelThresholds maps accumulated experience to a skill level:
// the level is the highest index whose threshold is met.
var SkillLevelThresholds = []int64{
	0, 100, 250, 500, 1000, 2000, 4000, 8000, 16000, 32000,
}

// Card System
var (
	CardSuits = []string{"♠️", "♥️", "♦️", "♣️"}
	CardRanks = map[string]int{
		"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
		"J": 10, "Q": 10, "K": 10, "A": 11,
	}
)

// Emojis and Discord elements
const (
	DealerName  = "Pp bot"
	DealerEmoji = "<:ppevil:871396299830861884>"
	ThonkEmoji  = "<:thonk:881578428506185779>"
)
