package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// Registry lookup failures. The two cases are kept distinct so an operator
// can tell a broken startup apart from a typo in a loot table.
var (
	ErrRegistryNotLoaded = errors.New("item registry not loaded")
	ErrUnknownItem       = errors.New("item does not exist in registry")
)

// ShopSettings controls how an item behaves in the shop and auction house
type ShopSettings struct {
	Buyable     bool  `toml:"buyable"`
	Buy         int64 `toml:"buy"`
	Sell        int64 `toml:"sell"`
	Auctionable bool  `toml:"auctionable"`
}

// Lore holds an item's flavor text
type Lore struct {
	Description string   `toml:"description"`
	Quotes      []string `toml:"quotes"`
}

// Item is a static item definition loaded from configuration
type Item struct {
	ID           string         `toml:"id"`
	Name         string         `toml:"name"`
	Type         string         `toml:"type"`
	Rarity       string         `toml:"rarity"`
	Emoji        string         `toml:"emoji"`
	ShopSettings ShopSettings   `toml:"shop_settings"`
	Lore         Lore           `toml:"lore"`
	Requires     map[string]int `toml:"requires"`
}

// LootableItem is an item together with a rolled drop amount
type LootableItem struct {
	Item   *Item
	Amount int
}

// String renders a lootable item as "<emoji> **Name** x3"
func (li LootableItem) String() string {
	s := fmt.Sprintf("**%s**", li.Item.Name)
	if li.Item.Emoji != "" {
		s = li.Item.Emoji + " " + s
	}
	if li.Amount != 1 {
		s = fmt.Sprintf("%s x%d", s, li.Amount)
	}
	return s
}

// ItemRegistry is a read-only id -> item mapping loaded once at startup
type ItemRegistry struct {
	items map[string]*Item
}

// LoadItemRegistry reads every .toml file in dir as one item definition
func LoadItemRegistry(dir string) (*ItemRegistry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read items directory %s: %w", dir, err)
	}

	registry := &ItemRegistry{items: make(map[string]*Item)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		var item Item
		if _, err := toml.DecodeFile(path, &item); err != nil {
			return nil, fmt.Errorf("failed to decode item file %s: %w", path, err)
		}
		if item.ID == "" {
			return nil, fmt.Errorf("item file %s has no id", path)
		}
		if _, exists := registry.items[item.ID]; exists {
			return nil, fmt.Errorf("duplicate item id %q in %s", item.ID, path)
		}
		registry.items[item.ID] = &item
	}

	log.WithField("items", len(registry.items)).Info("Caching items... success")
	return registry, nil
}

// Get looks an item up by id
func (r *ItemRegistry) Get(id string) (*Item, error) {
	if r == nil || r.items == nil {
		return nil, fmt.Errorf("item %q: %w", id, ErrRegistryNotLoaded)
	}
	item, exists := r.items[id]
	if !exists {
		return nil, fmt.Errorf("item %q: %w", id, ErrUnknownItem)
	}
	return item, nil
}

// Len returns the number of loaded items
func (r *ItemRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// IDs returns all item ids in sorted order
func (r *ItemRegistry) IDs() []string {
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
