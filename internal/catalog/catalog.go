// Package catalog reads and writes the zone catalog file: an optional TOML
// overlay that adds display metadata (names, coordinates) to civil zones and
// defines custom Mars zones beyond the built-in landing sites.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/oxleyk/meridian/internal/zone"
)

// DefaultFile is the conventional catalog location inside the data dir.
const DefaultFile = "zones.toml"

// Entry is one catalog record. ID decides the zone family by namespace, the
// same rule the engine applies.
type Entry struct {
	ID             string  `toml:"id"`
	Name           string  `toml:"name,omitempty"`
	Country        string  `toml:"country,omitempty"`
	Latitude       float64 `toml:"latitude,omitempty"`
	Longitude      float64 `toml:"longitude,omitempty"`
	HasCoords      bool    `toml:"has_coords,omitempty"`
	MarsLongitudeE float64 `toml:"mars_longitude_e,omitempty"`
}

// Catalog is the parsed zones file.
type Catalog struct {
	Zones []Entry `toml:"zones"`
}

// Load reads a catalog from the given path. If the file does not exist, it
// returns an empty catalog and no error, so a fresh workspace needs no
// setup step.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the catalog to the given path, creating parent directories as
// needed.
func Save(path string, c *Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Lookup finds the entry for a zone id.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	for _, e := range c.Zones {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Apply overlays the catalog's metadata for z.ID onto z, filling only what
// the zone does not already carry.
func (c *Catalog) Apply(z zone.Zone) zone.Zone {
	e, ok := c.Lookup(z.ID)
	if !ok {
		return z
	}
	if z.Name == "" {
		z.Name = e.Name
	}
	if z.Country == "" {
		z.Country = e.Country
	}
	if !z.HasCoords && (e.HasCoords || e.Latitude != 0 || e.Longitude != 0) {
		z.Latitude = e.Latitude
		z.Longitude = e.Longitude
		z.HasCoords = true
	}
	if strings.HasPrefix(z.ID, zone.MarsPrefix) && z.MarsLongitudeE == 0 {
		z.MarsLongitudeE = e.MarsLongitudeE
	}
	return z
}

// ZoneFor builds a zone value straight from a catalog entry.
func (c *Catalog) ZoneFor(id string) (zone.Zone, bool) {
	e, ok := c.Lookup(id)
	if !ok {
		return zone.Zone{}, false
	}
	return c.Apply(zone.Zone{ID: e.ID}), true
}
