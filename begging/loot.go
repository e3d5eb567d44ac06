// Package begging holds the begging locations, their loot tables and the
// donator personas that hand out the loot.
package begging

import (
	"fmt"
	"math/rand"

	"pp-go/utils"
)

// LootTableItem is a single possible drop: an item id, an independent drop
// chance and an inclusive quantity range.
type LootTableItem struct {
	ID       string  `toml:"id"`
	DropRate float64 `toml:"drop_rate"`
	Min      int     `toml:"min"`
	Max      int     `toml:"max"`
}

// Validate checks the configured invariants: min <= max and a drop rate
// within [0, 1]
func (i LootTableItem) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("loot table item has no id")
	}
	if i.Min > i.Max {
		return fmt.Errorf("loot table item %q: min %d > max %d", i.ID, i.Min, i.Max)
	}
	if i.DropRate < 0 || i.DropRate > 1 {
		return fmt.Errorf("loot table item %q: drop rate %g outside [0, 1]", i.ID, i.DropRate)
	}
	return nil
}

// LootTable is an ordered list of possible drops, each rolled independently
type LootTable struct {
	Items []LootTableItem `toml:"items"`
}

// Validate checks every item in the table
func (lt LootTable) Validate() error {
	for _, item := range lt.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetRandomLoot rolls the table in configured order. Each entry is included
// when an independent uniform draw falls within its drop rate (times five
// when boosted, for premium contexts); quantities are uniform in [min, max]
// ([min, max*5] boosted) and zero quantities are silently skipped. Rolling
// stops once maxItems entries have been included; maxItems <= 0 means the
// whole table. An id that the registry cannot resolve is a configuration
// error and fails the roll.
func (lt LootTable) GetRandomLoot(registry *utils.ItemRegistry, maxItems int, boosted bool) ([]utils.LootableItem, error) {
	if maxItems <= 0 {
		maxItems = len(lt.Items)
	}

	loot := make([]utils.LootableItem, 0, maxItems)
	for _, tableItem := range lt.Items {
		if len(loot) >= maxItems {
			break
		}

		rate := tableItem.DropRate
		if boosted {
			rate *= 5
		}
		if rand.Float64() > rate {
			continue
		}

		item, err := registry.Get(tableItem.ID)
		if err != nil {
			return nil, fmt.Errorf("loot table references bad item: %w", err)
		}

		max := tableItem.Max
		if boosted {
			max *= 5
		}
		amount := tableItem.Min
		if max > tableItem.Min {
			amount += rand.Intn(max - tableItem.Min + 1)
		}
		if amount == 0 {
			continue
		}

		loot = append(loot, utils.LootableItem{Item: item, Amount: amount})
	}
	return loot, nil
}
