// Package grid owns the canonical time grid: the ordered sequence of day
// instants every zone column renders, and the pure predicates that label a
// (slot, zone) pair for display.
package grid

import (
	"fmt"
	"time"
)

// MinutesPerDay is the span one sequence covers at the default step/count.
const MinutesPerDay = 24 * 60

// Sequence is the canonical ordered list of slot instants for one day:
// strictly increasing, constant step, deterministic from its inputs.
type Sequence struct {
	slots []time.Time
	step  time.Duration
}

// ValidateStep rejects step sizes that do not evenly divide a day. This is
// a configuration error checked at load time; Generate assumes it passed.
func ValidateStep(stepMinutes int) error {
	if stepMinutes <= 0 || MinutesPerDay%stepMinutes != 0 {
		return fmt.Errorf("step_minutes %d must evenly divide %d", stepMinutes, MinutesPerDay)
	}
	return nil
}

// Generate computes local midnight of ref in the reference zone and emits
// count instants spaced stepMinutes apart from there. The reference zone is
// the viewer's own zone, not any displayed zone: every column renders the
// same absolute instants.
func Generate(ref time.Time, refLoc *time.Location, stepMinutes, count int) Sequence {
	local := ref.In(refLoc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, refLoc)
	step := time.Duration(stepMinutes) * time.Minute
	slots := make([]time.Time, count)
	for i := range slots {
		slots[i] = midnight.Add(time.Duration(i) * step)
	}
	return Sequence{slots: slots, step: step}
}

// Len returns the number of slots.
func (s Sequence) Len() int { return len(s.slots) }

// Step returns the spacing between consecutive slots.
func (s Sequence) Step() time.Duration { return s.step }

// At returns the slot instant at index i.
func (s Sequence) At(i int) time.Time { return s.slots[i] }

// Slots returns a copy of the instants.
func (s Sequence) Slots() []time.Time {
	out := make([]time.Time, len(s.slots))
	copy(out, s.slots)
	return out
}

// IndexOf returns the index of the slot exactly equal to t (millisecond
// exactness is what highlight matching requires; in practice slots are
// whole-second instants).
func (s Sequence) IndexOf(t time.Time) (int, bool) {
	for i, slot := range s.slots {
		if slot.Equal(t) {
			return i, true
		}
	}
	return 0, false
}

// FloorIndex returns the index of the slot whose window contains t, clamped
// to the sequence bounds. This is the "current time" row.
func (s Sequence) FloorIndex(t time.Time) int {
	if len(s.slots) == 0 || s.step <= 0 {
		return 0
	}
	d := t.Sub(s.slots[0])
	if d < 0 {
		return 0
	}
	i := int(d / s.step)
	if i >= len(s.slots) {
		return len(s.slots) - 1
	}
	return i
}

// Contains reports whether t falls inside the sequence's covered span.
func (s Sequence) Contains(t time.Time) bool {
	if len(s.slots) == 0 {
		return false
	}
	return !t.Before(s.slots[0]) && t.Before(s.slots[len(s.slots)-1].Add(s.step))
}
