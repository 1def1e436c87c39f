// Package scroll keeps N independently scrollable zone lists loosely in
// agreement. Each zone owns a handle with a "user is scrolling this" window;
// programmatic re-centering skips any zone inside that window so the system
// never fights a user who is deliberately looking elsewhere.
package scroll

import (
	"time"

	"github.com/oxleyk/meridian/internal/grid"
)

// DefaultSettle is the trailing quiet window after the last user scroll
// during which a zone is still considered user-active.
const DefaultSettle = 500 * time.Millisecond

// Request asks the presentation layer to bring one zone's list to a slot
// index. Alignment (center vs start-of-viewport) is the presenter's choice.
type Request struct {
	ZoneID string
	Index  int
}

// Sink receives scroll requests. The coordinator never touches widgets
// directly; it only emits requests for zones it decided should move.
type Sink func(req Request)

// handle is the per-zone scroll bookkeeping. The user-active window is a
// stored deadline compared against the clock on read, so there is no
// per-event timer to cancel and no stale timer can outlive the handle:
// unregistering the zone removes the deadline with it.
type handle struct {
	activeUntil time.Time
	lastOffset  int
}

// Coordinator owns one handle per displayed zone, with explicit register/
// unregister tied to zone add/remove.
type Coordinator struct {
	now    func() time.Time
	settle time.Duration
	sink   Sink

	handles map[string]*handle
	order   []string

	// lastBoundary is the most recent step boundary we re-centered on, so
	// OnReferenceTick fires once per boundary crossing rather than per tick.
	lastBoundary time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithSettle overrides the trailing user-active window.
func WithSettle(d time.Duration) Option {
	return func(c *Coordinator) { c.settle = d }
}

// NewCoordinator creates a coordinator that emits scroll requests to sink.
// A nil sink discards requests.
func NewCoordinator(sink Sink, opts ...Option) *Coordinator {
	c := &Coordinator{
		now:     time.Now,
		settle:  DefaultSettle,
		sink:    sink,
		handles: make(map[string]*handle),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sink == nil {
		c.sink = func(Request) {}
	}
	return c
}

// Register creates the handle for a newly displayed zone. Registering an
// already-known zone is a no-op.
func (c *Coordinator) Register(zoneID string) {
	if _, ok := c.handles[zoneID]; ok {
		return
	}
	c.handles[zoneID] = &handle{}
	c.order = append(c.order, zoneID)
}

// Unregister destroys a zone's handle when it leaves the display set. Any
// pending user-active window dies with it.
func (c *Coordinator) Unregister(zoneID string) {
	if _, ok := c.handles[zoneID]; !ok {
		return
	}
	delete(c.handles, zoneID)
	for i, id := range c.order {
		if id == zoneID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Registered reports whether a zone currently has a handle.
func (c *Coordinator) Registered(zoneID string) bool {
	_, ok := c.handles[zoneID]
	return ok
}

// OnUserScroll records a manual scroll on one zone, marking it user-active
// for the trailing settle window. During that window no programmatic target
// is applied to this zone; other zones are unaffected.
func (c *Coordinator) OnUserScroll(zoneID string, offset int) {
	h, ok := c.handles[zoneID]
	if !ok {
		return
	}
	h.lastOffset = offset
	h.activeUntil = c.now().Add(c.settle)
}

// UserActive reports whether the zone is inside its user-active window.
func (c *Coordinator) UserActive(zoneID string) bool {
	h, ok := c.handles[zoneID]
	if !ok {
		return false
	}
	return c.now().Before(h.activeUntil)
}

// OnSelectionChanged targets every non-user-active zone at the slot index of
// the newly selected instant. An instant outside the current sequence is
// ignored.
func (c *Coordinator) OnSelectionChanged(seq grid.Sequence, target time.Time) {
	idx, ok := seq.IndexOf(target)
	if !ok {
		return
	}
	c.recenter(idx)
}

// OnReferenceTick re-centers all non-user-active zones on the current-time
// index whenever the reference instant crosses a step boundary and no
// highlight is active, so the view tracks real time without the user
// re-scrolling. The first tick after construction always re-centers.
func (c *Coordinator) OnReferenceTick(seq grid.Sequence, ref time.Time, highlightActive bool) {
	if highlightActive {
		return
	}
	boundary := ref.Truncate(seq.Step())
	if !c.lastBoundary.IsZero() && !boundary.After(c.lastBoundary) {
		return
	}
	c.lastBoundary = boundary
	c.recenter(seq.FloorIndex(ref))
}

func (c *Coordinator) recenter(idx int) {
	now := c.now()
	for _, id := range c.order {
		h := c.handles[id]
		if now.Before(h.activeUntil) {
			continue
		}
		c.sink(Request{ZoneID: id, Index: idx})
	}
}
