// Package zone defines the zone model shared by the whole grid: a zone is
// either a civil timezone governed by the platform tz database, or a Mars
// location governed by astronomical conversion. The family is decided by the
// identifier namespace alone.
package zone

import (
	"strings"
	"time"
)

// MarsPrefix is the reserved identifier namespace for planetary zones.
// Any ID beginning with this prefix is a Mars zone; everything else is
// treated as an IANA timezone name.
const MarsPrefix = "mars/"

// Kind distinguishes the two zone families.
type Kind int

const (
	KindCivil Kind = iota
	KindMars
)

// Rover carries landing metadata for Mars zones that are real landing sites.
// Sol counts for such zones are relative to Landing.
type Rover struct {
	Name    string
	Landing time.Time
}

// Zone is one displayed column: an identifier plus display metadata.
// Civil zones use ID as an IANA timezone name. Mars zones carry a fixed
// longitude in degrees east of the Mars prime meridian and, for landing
// sites, rover metadata.
type Zone struct {
	ID      string
	Name    string
	Country string

	// Geographic coordinates, used only by collaborators (weather).
	Latitude  float64
	Longitude float64
	HasCoords bool

	// Mars zones only.
	MarsLongitudeE float64
	Rover          *Rover
}

// Kind reports the zone family, decided solely by the ID namespace.
func (z Zone) Kind() Kind {
	if strings.HasPrefix(z.ID, MarsPrefix) {
		return KindMars
	}
	return KindCivil
}

// DisplayName returns the configured name, falling back to the last path
// segment of the identifier ("America/New_York" -> "New York").
func (z Zone) DisplayName() string {
	if z.Name != "" {
		return z.Name
	}
	id := strings.TrimPrefix(z.ID, MarsPrefix)
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return strings.ReplaceAll(id, "_", " ")
}

// Projection is the result of projecting one instant into one zone's local
// representation. Civil zones fill Weekday/OffsetMinutes/DST; Mars zones set
// Mars and fill Sol instead.
type Projection struct {
	Hour   int
	Minute int
	Second int

	// Civil fields. Weekday is ISO numbering: Monday=1 .. Sunday=7.
	Weekday       int
	OffsetMinutes int
	DST           bool

	// Mars fields.
	Mars bool
	Sol  int64
}

// MinuteOfDay returns the projection's local time as minutes since local
// midnight, the unit the classifier's floor-to-step comparison works in.
func (p Projection) MinuteOfDay() int {
	return p.Hour*60 + p.Minute
}
