package begging

import (
	"os"
	"path/filepath"
	"testing"
)

func location(id string, level int) *BeggingLocation {
	return &BeggingLocation{ID: id, Name: id, Level: level}
}

func TestNewBeggingLocationsFiltersByLevel(t *testing.T) {
	holder := NewBeggingLocations(4,
		location("street_corner", 0),
		location("park", 4),
		location("mall", 7),
	)

	if len(holder.Locations) != 2 {
		t.Fatalf("holder has %d locations, want 2", len(holder.Locations))
	}
	if holder.Find("mall") != nil {
		t.Error("location above the user's level leaked into the holder")
	}
}

func TestBeggingLocationsSortedByLevelDescending(t *testing.T) {
	holder := NewBeggingLocations(10,
		location("street_corner", 0),
		location("mall", 7),
		location("park", 4),
	)

	want := []string{"mall", "park", "street_corner"}
	for i, id := range want {
		if holder.Locations[i].ID != id {
			t.Errorf("Locations[%d] = %s, want %s", i, holder.Locations[i].ID, id)
		}
	}
}

func TestAddLocationSkipsAboveLevel(t *testing.T) {
	holder := NewBeggingLocations(4, location("street_corner", 0))

	holder.AddLocation(location("mall", 7))
	if holder.Find("mall") != nil {
		t.Error("AddLocation accepted a location above the holder's level")
	}

	holder.AddLocation(location("park", 4))
	if holder.Find("park") == nil {
		t.Error("AddLocation rejected a location at the holder's level")
	}
	if holder.Locations[0].ID != "park" {
		t.Errorf("Locations[0] = %s, want park after re-sort", holder.Locations[0].ID)
	}
}

func TestRemoveLocation(t *testing.T) {
	park := location("park", 4)
	holder := NewBeggingLocations(4, location("street_corner", 0), park)

	holder.RemoveLocation(park)
	if holder.Find("park") != nil {
		t.Error("RemoveLocation left the location in the holder")
	}
	if len(holder.Locations) != 1 {
		t.Errorf("holder has %d locations, want 1", len(holder.Locations))
	}
}

func TestLocationLabel(t *testing.T) {
	park := &BeggingLocation{ID: "park", Name: "The park", Level: 4}
	if got := park.Label(); got != "LEVEL IV: The park" {
		t.Errorf("Label() = %q, want %q", got, "LEVEL IV: The park")
	}

	corner := &BeggingLocation{ID: "street_corner", Name: "The street corner", Level: 0}
	if got := corner.Label(); got != "LEVEL 0: The street corner" {
		t.Errorf("Label() = %q, want %q", got, "LEVEL 0: The street corner")
	}
}

func TestSelectMenuOptions(t *testing.T) {
	holder := NewBeggingLocations(4, location("street_corner", 0), location("park", 4))

	menu := holder.SelectMenu()
	if len(menu.Options) != 2 {
		t.Fatalf("menu has %d options, want 2", len(menu.Options))
	}
	if menu.Options[0].Value != "park" {
		t.Errorf("Options[0].Value = %s, want park", menu.Options[0].Value)
	}
}

func TestLoadLocations(t *testing.T) {
	dir := t.TempDir()
	content := `level = 0
id = "street_corner"
name = "The street corner"

[[loot_table.items]]
id = "old_can"
drop_rate = 0.3
min = 1
max = 3
`
	if err := os.WriteFile(filepath.Join(dir, "street_corner.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write location file: %v", err)
	}

	locations, err := LoadLocations(dir)
	if err != nil {
		t.Fatalf("LoadLocations() failed: %v", err)
	}
	if len(locations) != 1 || locations[0].ID != "street_corner" {
		t.Fatalf("LoadLocations() = %+v, want one street_corner", locations)
	}
	if len(locations[0].LootTable.Items) != 1 {
		t.Errorf("loot table has %d items, want 1", len(locations[0].LootTable.Items))
	}
}

func TestLoadLocationsRejectsBadConfig(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		dir := t.TempDir()
		content := "level = 0\nid = \"street_corner\"\nname = \"The street corner\"\n"
		for _, name := range []string{"a.toml", "b.toml"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
				t.Fatalf("failed to write location file: %v", err)
			}
		}
		if _, err := LoadLocations(dir); err == nil {
			t.Error("LoadLocations() accepted a duplicate id")
		}
	})

	t.Run("invalid loot table", func(t *testing.T) {
		dir := t.TempDir()
		content := `level = 0
id = "street_corner"
name = "The street corner"

[[loot_table.items]]
id = "old_can"
drop_rate = 2.0
min = 1
max = 3
`
		if err := os.WriteFile(filepath.Join(dir, "street_corner.toml"), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write location file: %v", err)
		}
		if _, err := LoadLocations(dir); err == nil {
			t.Error("LoadLocations() accepted a drop rate above 1")
		}
	})

	t.Run("missing id", func(t *testing.T) {
		dir := t.TempDir()
		content := "level = 0\nname = \"The street corner\"\n"
		if err := os.WriteFile(filepath.Join(dir, "street_corner.toml"), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write location file: %v", err)
		}
		if _, err := LoadLocations(dir); err == nil {
			t.Error("LoadLocations() accepted a location with no id")
		}
	})
}
