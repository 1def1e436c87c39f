package grid

import (
	"time"

	"github.com/oxleyk/meridian/internal/zone"
)

// NightWindow is the local-hour window considered night, wrap-around
// supported (the default 20..6 spans midnight).
type NightWindow struct {
	StartHour int
	EndHour   int
}

// DefaultNight is 20:00 through 06:00 local.
var DefaultNight = NightWindow{StartHour: 20, EndHour: 6}

// Contains reports whether the local hour falls inside the window.
// Start == End means the window is empty.
func (w NightWindow) Contains(hour int) bool {
	if w.StartHour == w.EndHour {
		return false
	}
	if w.StartHour < w.EndHour {
		return hour >= w.StartHour && hour < w.EndHour
	}
	return hour >= w.StartHour || hour < w.EndHour
}

// Flags is the classification of one (slot, zone) pair for one render tick.
type Flags struct {
	Current      bool
	Highlighted  bool
	Night        bool
	Weekend      bool
	DateBoundary bool
	NearDST      bool
}

// Input carries everything the predicates need. All fields are values; the
// predicates are pure and re-evaluated every tick because Reference moves
// every tick.
type Input struct {
	Slot        time.Time
	Proj        zone.Projection
	RefProj     zone.Projection
	StepMinutes int
	Highlighted *time.Time
	Night       NightWindow
	NearDST     bool
}

// Classify labels one slot in one zone. Each predicate is independent and
// side-effect free.
func Classify(in Input) Flags {
	return Flags{
		Current:      IsCurrent(in.Proj, in.RefProj, in.StepMinutes),
		Highlighted:  IsHighlighted(in.Slot, in.Highlighted),
		Night:        in.Night.Contains(in.Proj.Hour),
		Weekend:      IsWeekend(in.Proj),
		DateBoundary: IsDateBoundary(in.Proj),
		NearDST:      in.NearDST,
	}
}

// IsCurrent reports whether the slot's local hour+minute equals the
// reference instant's local hour+minute floored to the grid step. A slot is
// "current" for the whole step window it starts.
func IsCurrent(proj, refProj zone.Projection, stepMinutes int) bool {
	if stepMinutes <= 0 {
		return false
	}
	return proj.MinuteOfDay()/stepMinutes == refProj.MinuteOfDay()/stepMinutes
}

// IsHighlighted matches by exact timestamp equality, millisecond-exact,
// never minute-rounded.
func IsHighlighted(slot time.Time, highlighted *time.Time) bool {
	return highlighted != nil && slot.Equal(*highlighted)
}

// IsWeekend reports whether the projection's zone-local weekday is Saturday
// or Sunday. Mars projections carry no weekday and are never weekends.
func IsWeekend(proj zone.Projection) bool {
	return !proj.Mars && (proj.Weekday == 6 || proj.Weekday == 7)
}

// IsDateBoundary marks local midnight, where columns render a date-change
// marker.
func IsDateBoundary(proj zone.Projection) bool {
	return proj.Hour == 0 && proj.Minute == 0
}
