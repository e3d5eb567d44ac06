// Package cogs contains the Discord command handlers. Each cog gets its
// collaborators injected through the Bot struct; there are no ambient
// globals to swap out in tests.
package cogs

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"pp-go/begging"
	"pp-go/utils"
)

// Verdict is the explicit three-way result of an interaction filter:
// a component event is either handled, silently not applicable, or
// rejected with feedback to the user.
type Verdict int

const (
	VerdictAccepted Verdict = iota
	VerdictIgnored
	VerdictRejected
)

// Bot bundles the services the command handlers need
type Bot struct {
	Config    *utils.Config
	Cache     *utils.UserCache
	Items     *utils.ItemRegistry
	Locations []*begging.BeggingLocation
	Donators  *begging.Donators

	topggMu sync.RWMutex
	topgg   *utils.TopGGClient

	gamesMu sync.RWMutex
	games   map[int64]*blackjackSession

	begMu       sync.Mutex
	begSessions map[int64]*begSession

	cooldownMu sync.Mutex
	cooldowns  map[string]int64 // "command:userID" -> unix expiry
}

// New creates the cog container
func New(cfg *utils.Config, cache *utils.UserCache, items *utils.ItemRegistry,
	locations []*begging.BeggingLocation, donators *begging.Donators, topgg *utils.TopGGClient) *Bot {
	return &Bot{
		Config:      cfg,
		Cache:       cache,
		Items:       items,
		Locations:   locations,
		Donators:    donators,
		topgg:       topgg,
		games:       make(map[int64]*blackjackSession),
		begSessions: make(map[int64]*begSession),
		cooldowns:   make(map[string]int64),
	}
}

// SetTopGG installs the top.gg client. It arrives late, from the Ready
// handler, when command handlers may already be running.
func (b *Bot) SetTopGG(client *utils.TopGGClient) {
	b.topggMu.Lock()
	defer b.topggMu.Unlock()
	b.topgg = client
}

// topGG returns the current top.gg client, which may be nil
func (b *Bot) topGG() *utils.TopGGClient {
	b.topggMu.RLock()
	defer b.topggMu.RUnlock()
	return b.topgg
}

// Commands returns every slash command the bot registers
func (b *Bot) Commands() []*discordgo.ApplicationCommand {
	minBet := float64(utils.MinBlackjackBet)
	return []*discordgo.ApplicationCommand{
		{
			Name:        "blackjack",
			Description: "Gamble your inches in a game of Blackjack",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Inches to wager (minimum 25)",
					Required:    true,
					MinValue:    &minBet,
				},
			},
		},
		{
			Name:        "beg",
			Description: "Beg for inches, earn items, and get a large pp in the process!",
		},
		{
			Name:        "daily",
			Description: "Claim your daily inches",
		},
		{
			Name:        "show",
			Description: "Show off a pp",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Whose pp to show (defaults to yours)",
				},
			},
		},
		{
			Name:        "rename",
			Description: "Rename your pp",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "The new name",
					Required:    true,
				},
			},
		},
		{
			Name:        "grow",
			Description: "Grow your pp",
		},
	}
}

// HandleCommand routes a slash command to its cog
func (b *Bot) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "blackjack":
		b.HandleBlackjackCommand(s, i)
	case "beg":
		b.HandleBegCommand(s, i)
	case "daily":
		b.HandleDailyCommand(s, i)
	case "show":
		b.HandleShowCommand(s, i)
	case "rename":
		b.HandleRenameCommand(s, i)
	case "grow":
		b.HandleGrowCommand(s, i)
	}
}

// HandleComponent routes a component interaction to its cog
func (b *Bot) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch customID {
	case utils.CustomIDBeggingLocations:
		b.HandleBegComponent(s, i)
	default:
		// Everything else belongs to blackjack; the gambling cog
		// rejects identifiers it does not recognize
		b.HandleBlackjackComponent(s, i)
	}
}

// interactionUserID extracts the numeric user id from an interaction
func interactionUserID(i *discordgo.InteractionCreate) (int64, error) {
	user := i.User
	if i.Member != nil {
		user = i.Member.User
	}
	return strconv.ParseInt(user.ID, 10, 64)
}

// interactionUser returns the acting Discord user
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// cooldownRemaining returns the seconds left on a per-user command cooldown
func (b *Bot) cooldownRemaining(command string, userID int64, now int64) int64 {
	b.cooldownMu.Lock()
	defer b.cooldownMu.Unlock()
	if expiry, ok := b.cooldowns[cooldownKey(command, userID)]; ok && expiry > now {
		return expiry - now
	}
	return 0
}

// armCooldown starts a per-user command cooldown. Called only once the
// command's effect has actually been granted, so a failed command never
// consumes the cooldown.
func (b *Bot) armCooldown(command string, userID int64, seconds int64, now int64) {
	b.cooldownMu.Lock()
	defer b.cooldownMu.Unlock()
	b.cooldowns[cooldownKey(command, userID)] = now + seconds
}

func cooldownKey(command string, userID int64) string {
	return command + ":" + strconv.FormatInt(userID, 10)
}

func respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if err := utils.SendInteractionResponse(s, i, utils.ErrorEmbed(message), nil, true); err != nil {
		log.WithError(err).Warn("Failed to send error response")
	}
}
