package begging

import (
	"fmt"
	"math/rand"

	"github.com/BurntSushi/toml"
)

// DonatorQuotes are the lines a donator can say. Success quotes are format
// strings that receive the rendered reward.
type DonatorQuotes struct {
	Success []string `toml:"success"`
	Fail    []string `toml:"fail"`
}

// Donator is a persona that hands out begging rewards, with its own name,
// icon and quote pools
type Donator struct {
	Name    string        `toml:"name"`
	IconURL string        `toml:"icon_url"`
	Quotes  DonatorQuotes `toml:"quotes"`
}

// SuccessQuote picks a random success line formatted with the reward text
func (d *Donator) SuccessQuote(reward string) string {
	if len(d.Quotes.Success) == 0 {
		return fmt.Sprintf("Here, take %s.", reward)
	}
	quote := d.Quotes.Success[rand.Intn(len(d.Quotes.Success))]
	return fmt.Sprintf(quote, reward)
}

// FailQuote picks a random fail line
func (d *Donator) FailQuote() string {
	if len(d.Quotes.Fail) == 0 {
		return "No, go away."
	}
	return d.Quotes.Fail[rand.Intn(len(d.Quotes.Fail))]
}

// Donators is the set of configured donator personas
type Donators struct {
	Donators []*Donator `toml:"donators"`
}

// LoadDonators reads the donator personas from a single TOML file
func LoadDonators(path string) (*Donators, error) {
	var donators Donators
	if _, err := toml.DecodeFile(path, &donators); err != nil {
		return nil, fmt.Errorf("failed to decode donators file %s: %w", path, err)
	}
	return &donators, nil
}

// Get returns the donator with the given name, or nil
func (d *Donators) Get(name string) *Donator {
	for _, donator := range d.Donators {
		if donator.Name == name {
			return donator
		}
	}
	return nil
}

// Random returns a random donator, or nil when none are configured
func (d *Donators) Random() *Donator {
	if d == nil || len(d.Donators) == 0 {
		return nil
	}
	return d.Donators[rand.Intn(len(d.Donators))]
}
