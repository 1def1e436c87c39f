package mars

import (
	"sync"
	"time"

	"github.com/oxleyk/meridian/internal/zone"
)

// Built-in Mars zone identifiers.
const (
	IDMTC          = "mars/mtc"
	IDPerseverance = "mars/perseverance"
	IDCuriosity    = "mars/curiosity"
	IDInSight      = "mars/insight"
	IDSpirit       = "mars/spirit"
	IDOpportunity  = "mars/opportunity"
)

// solEpoch is the landing instant sol counts are anchored to for Mars zones
// that carry no rover of their own: the Perseverance touchdown. Landing-site
// zones use their own rover's landing instead.
var solEpoch = time.Date(2021, time.February, 18, 20, 55, 0, 0, time.UTC)

// sites is the built-in catalog of Mars zones. Longitudes are degrees east
// of the prime meridian; landing instants are the published touchdown times.
var sites = []zone.Zone{
	{
		ID:   IDMTC,
		Name: "Airy Mean Time",
		// Longitude zero: LMST here equals MTC.
	},
	{
		ID:             IDPerseverance,
		Name:           "Jezero Crater",
		MarsLongitudeE: 77.45088,
		Rover: &zone.Rover{
			Name:    "Perseverance",
			Landing: solEpoch,
		},
	},
	{
		ID:             IDCuriosity,
		Name:           "Gale Crater",
		MarsLongitudeE: 137.4417,
		Rover: &zone.Rover{
			Name:    "Curiosity",
			Landing: time.Date(2012, time.August, 6, 5, 17, 57, 0, time.UTC),
		},
	},
	{
		ID:             IDInSight,
		Name:           "Elysium Planitia",
		MarsLongitudeE: 135.6234,
		Rover: &zone.Rover{
			Name:    "InSight",
			Landing: time.Date(2018, time.November, 26, 19, 52, 59, 0, time.UTC),
		},
	},
	{
		ID:             IDSpirit,
		Name:           "Gusev Crater",
		MarsLongitudeE: 175.4785,
		Rover: &zone.Rover{
			Name:    "Spirit",
			Landing: time.Date(2004, time.January, 4, 4, 35, 0, 0, time.UTC),
		},
	},
	{
		ID:             IDOpportunity,
		Name:           "Meridiani Planum",
		MarsLongitudeE: 354.4734,
		Rover: &zone.Rover{
			Name:    "Opportunity",
			Landing: time.Date(2004, time.January, 25, 5, 5, 0, 0, time.UTC),
		},
	},
}

// Lookup returns the built-in Mars zone for id.
func Lookup(id string) (zone.Zone, bool) {
	for _, s := range sites {
		if s.ID == id {
			return s, true
		}
	}
	return zone.Zone{}, false
}

// Sites returns a copy of the built-in Mars zone catalog.
func Sites() []zone.Zone {
	out := make([]zone.Zone, len(sites))
	copy(out, sites)
	return out
}

// landingMSD memoizes the Mars Sol Date of each landing instant, so the
// per-slot sol computation pays the conversion once per mission rather than
// once per projection.
var (
	landingMu   sync.Mutex
	landingMSDs = make(map[int64]float64)
)

func landingMSD(landing time.Time) float64 {
	key := landing.UnixMilli()
	landingMu.Lock()
	defer landingMu.Unlock()
	if v, ok := landingMSDs[key]; ok {
		return v
	}
	v := MSD(landing)
	landingMSDs[key] = v
	return v
}
