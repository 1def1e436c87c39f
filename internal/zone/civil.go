package zone

import (
	"fmt"
	"sync"
	"time"
)

// CivilProjector maps instants into civil zones using the platform timezone
// database. Locations are resolved once, at registration time, so projection
// itself is total: projecting against an unresolved ID is a caller bug and
// falls back to UTC rather than failing a render pass.
type CivilProjector struct {
	mu   sync.RWMutex
	locs map[string]*time.Location
}

// NewCivilProjector returns an empty projector. Call Resolve for every zone
// ID before projecting with it.
func NewCivilProjector() *CivilProjector {
	return &CivilProjector{locs: make(map[string]*time.Location)}
}

// Resolve validates a civil zone identifier against the platform tz database
// and caches its location. This is the single point where an unknown zone
// name is rejected; everything downstream assumes resolved IDs.
func (p *CivilProjector) Resolve(id string) error {
	p.mu.RLock()
	_, ok := p.locs[id]
	p.mu.RUnlock()
	if ok {
		return nil
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", id, err)
	}
	p.mu.Lock()
	p.locs[id] = loc
	p.mu.Unlock()
	return nil
}

// Forget drops a cached location. Called when a zone leaves the display set.
func (p *CivilProjector) Forget(id string) {
	p.mu.Lock()
	delete(p.locs, id)
	p.mu.Unlock()
}

// Location returns the cached location for id, or UTC if id was never
// resolved.
func (p *CivilProjector) Location(id string) *time.Location {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if loc, ok := p.locs[id]; ok {
		return loc
	}
	return time.UTC
}

// Project maps an instant into the named zone's local calendar fields.
func (p *CivilProjector) Project(t time.Time, id string) Projection {
	loc := p.Location(id)
	local := t.In(loc)
	_, offset := local.Zone()
	return Projection{
		Hour:          local.Hour(),
		Minute:        local.Minute(),
		Second:        local.Second(),
		Weekday:       isoWeekday(local.Weekday()),
		OffsetMinutes: offset / 60,
		DST:           local.IsDST(),
	}
}

// NearDSTTransition reports whether the zone's UTC offset at t differs from
// its offset 24 hours later. This is a "transition within the next day"
// warning, not an exact boundary: a transition a few hours in the past can
// also trip it. That approximation is intentional and kept as-is.
func (p *CivilProjector) NearDSTTransition(t time.Time, id string) bool {
	loc := p.Location(id)
	_, now := t.In(loc).Zone()
	_, later := t.Add(24 * time.Hour).In(loc).Zone()
	return now != later
}

// isoWeekday converts Go's Sunday=0 numbering to ISO Monday=1 .. Sunday=7.
func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}
