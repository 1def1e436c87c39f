package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oxleyk/meridian/internal/zone"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	c, err := Load(filepath.Join(t.TempDir(), "zones.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Zones) != 0 {
		t.Errorf("got %d zones, want 0", len(c.Zones))
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "zones.toml")
	if err := os.WriteFile(path, []byte("[[zones]\nid = broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed TOML")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "zones.toml")
	in := &Catalog{Zones: []Entry{
		{ID: "Asia/Tokyo", Name: "Tokyo", Country: "Japan", Latitude: 35.6762, Longitude: 139.6503, HasCoords: true},
		{ID: "mars/olympus", Name: "Olympus Base", MarsLongitudeE: 226.2},
	}}

	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out.Zones) != 2 {
		t.Fatalf("got %d zones, want 2", len(out.Zones))
	}
	tokyo, ok := out.Lookup("Asia/Tokyo")
	if !ok {
		t.Fatal("Tokyo entry lost in round trip")
	}
	if tokyo.Latitude != 35.6762 || !tokyo.HasCoords {
		t.Errorf("Tokyo coords = %+v", tokyo)
	}
	olympus, ok := out.Lookup("mars/olympus")
	if !ok {
		t.Fatal("Mars entry lost in round trip")
	}
	if olympus.MarsLongitudeE != 226.2 {
		t.Errorf("MarsLongitudeE = %v, want 226.2", olympus.MarsLongitudeE)
	}
}

func TestApply_FillsOnlyMissingFields(t *testing.T) {
	t.Parallel()
	c := &Catalog{Zones: []Entry{
		{ID: "Europe/London", Name: "London", Country: "UK", Latitude: 51.5072, Longitude: -0.1276},
		{ID: "mars/olympus", MarsLongitudeE: 226.2},
	}}

	t.Run("fills empty zone", func(t *testing.T) {
		z := c.Apply(zone.Zone{ID: "Europe/London"})
		if z.Name != "London" || z.Country != "UK" {
			t.Errorf("metadata not applied: %+v", z)
		}
		if !z.HasCoords || z.Latitude != 51.5072 {
			t.Errorf("coords not applied: %+v", z)
		}
	})

	t.Run("keeps existing values", func(t *testing.T) {
		z := c.Apply(zone.Zone{ID: "Europe/London", Name: "HQ", Latitude: 1, Longitude: 2, HasCoords: true})
		if z.Name != "HQ" {
			t.Errorf("Name = %q, overlay clobbered caller's value", z.Name)
		}
		if z.Latitude != 1 || z.Longitude != 2 {
			t.Errorf("coords clobbered: %+v", z)
		}
	})

	t.Run("mars longitude", func(t *testing.T) {
		z := c.Apply(zone.Zone{ID: "mars/olympus"})
		if z.MarsLongitudeE != 226.2 {
			t.Errorf("MarsLongitudeE = %v, want 226.2", z.MarsLongitudeE)
		}
	})

	t.Run("unknown id untouched", func(t *testing.T) {
		in := zone.Zone{ID: "Pacific/Auckland", Name: "Auckland"}
		if got := c.Apply(in); got != in {
			t.Errorf("Apply changed a zone with no catalog entry: %+v", got)
		}
	})
}

func TestZoneFor(t *testing.T) {
	t.Parallel()
	c := &Catalog{Zones: []Entry{{ID: "Asia/Tokyo", Name: "Tokyo"}}}

	z, ok := c.ZoneFor("Asia/Tokyo")
	if !ok || z.Name != "Tokyo" {
		t.Errorf("ZoneFor = %+v, %v", z, ok)
	}
	if _, ok := c.ZoneFor("ghost"); ok {
		t.Error("ZoneFor returned a zone for an unknown id")
	}
}
