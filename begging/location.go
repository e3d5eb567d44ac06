package begging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"pp-go/utils"
)

// FillInTheBlank is the fill-in-the-blank minigame text for a location
type FillInTheBlank struct {
	Approacher string `toml:"approacher"`
	Context    string `toml:"context"`
	Success    string `toml:"success"`
	Fail       string `toml:"fail"`
}

// Scramble is the scramble minigame text for a location
type Scramble struct {
	Approacher string `toml:"approacher"`
	Context    string `toml:"context"`
}

// Retype is the retype minigame text for a location
type Retype struct {
	Context   string   `toml:"context"`
	Sentences []string `toml:"sentences"`
}

// MiniGames bundles the minigame texts for a location
type MiniGames struct {
	FillInTheBlank FillInTheBlank `toml:"fill_in_the_blank"`
	Scramble       Scramble       `toml:"scramble"`
	Retype         Retype         `toml:"retype"`
}

// Quotes holds a location's flavor text. Success quotes are format strings
// that receive the rendered reward.
type Quotes struct {
	Success   []string  `toml:"success"`
	Fail      []string  `toml:"fail"`
	MiniGames MiniGames `toml:"minigames"`
}

// BeggingLocation is one place a user can beg at. Immutable after load.
type BeggingLocation struct {
	Level       int       `toml:"level"`
	ID          string    `toml:"id"`
	Name        string    `toml:"name"`
	Description string    `toml:"description"`
	Emoji       string    `toml:"emoji"`
	LootTable   LootTable `toml:"loot_table"`
	Quotes      Quotes    `toml:"quotes"`
}

// RomanNumeral renders the location's required level, e.g. "IV"
func (l *BeggingLocation) RomanNumeral() string {
	return utils.IntToRoman(l.Level)
}

// Label is the select menu label, e.g. "LEVEL IV: The park"
func (l *BeggingLocation) Label() string {
	return fmt.Sprintf("LEVEL %s: %s", l.RomanNumeral(), l.Name)
}

// SelectOption converts the location into a select menu option
func (l *BeggingLocation) SelectOption() discordgo.SelectMenuOption {
	option := discordgo.SelectMenuOption{
		Label:       l.Label(),
		Value:       l.ID,
		Description: l.Description,
	}
	if l.Emoji != "" {
		option.Emoji = &discordgo.ComponentEmoji{Name: l.Emoji}
	}
	return option
}

// LoadLocations reads every .toml file in dir as one begging location and
// validates its loot table against nothing but itself; item ids are only
// resolved at roll time.
func LoadLocations(dir string) ([]*BeggingLocation, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations directory %s: %w", dir, err)
	}

	var locations []*BeggingLocation
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		var location BeggingLocation
		if _, err := toml.DecodeFile(path, &location); err != nil {
			return nil, fmt.Errorf("failed to decode location file %s: %w", path, err)
		}
		if location.ID == "" {
			return nil, fmt.Errorf("location file %s has no id", path)
		}
		if seen[location.ID] {
			return nil, fmt.Errorf("duplicate location id %q in %s", location.ID, path)
		}
		if err := location.LootTable.Validate(); err != nil {
			return nil, fmt.Errorf("location %q: %w", location.ID, err)
		}
		seen[location.ID] = true
		locations = append(locations, &location)
	}

	log.WithField("locations", len(locations)).Info("Caching begging locations... success")
	return locations, nil
}

// BeggingLocations is a per-request view over the configured locations,
// filtered to a user's begging level and sorted by required level
// descending (most rewarding first). The holder never contains a location
// above its level.
type BeggingLocations struct {
	Level     int
	Locations []*BeggingLocation
}

// NewBeggingLocations builds the view for a user's level
func NewBeggingLocations(level int, locations ...*BeggingLocation) *BeggingLocations {
	holder := &BeggingLocations{Level: level}
	for _, location := range locations {
		if location.Level <= level {
			holder.Locations = append(holder.Locations, location)
		}
	}
	holder.sort()
	return holder
}

func (b *BeggingLocations) sort() {
	sort.SliceStable(b.Locations, func(i, j int) bool {
		return b.Locations[i].Level > b.Locations[j].Level
	})
}

// AddLocation adds a location, skipping any above the holder's level
func (b *BeggingLocations) AddLocation(location *BeggingLocation) *BeggingLocations {
	if location.Level > b.Level {
		return b
	}
	b.Locations = append(b.Locations, location)
	b.sort()
	return b
}

// RemoveLocation removes a location if present
func (b *BeggingLocations) RemoveLocation(location *BeggingLocation) *BeggingLocations {
	for i, existing := range b.Locations {
		if existing.ID == location.ID {
			b.Locations = append(b.Locations[:i], b.Locations[i+1:]...)
			break
		}
	}
	b.sort()
	return b
}

// Find returns the held location with the given id, or nil
func (b *BeggingLocations) Find(id string) *BeggingLocation {
	for _, location := range b.Locations {
		if location.ID == id {
			return location
		}
	}
	return nil
}

// SelectMenu converts the held locations into the begging select menu
func (b *BeggingLocations) SelectMenu() discordgo.SelectMenu {
	options := make([]discordgo.SelectMenuOption, 0, len(b.Locations))
	for _, location := range b.Locations {
		options = append(options, location.SelectOption())
	}
	return discordgo.SelectMenu{
		CustomID:    utils.CustomIDBeggingLocations,
		Placeholder: "Pick a location to beg at.",
		Options:     options,
	}
}
