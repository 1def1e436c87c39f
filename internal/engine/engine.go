// Package engine composes the time grid: slot generation, zone registration
// and projection dispatch, classification, the highlight lifecycle, and
// scroll coordination, all owned by one Engine value with an explicit
// lifecycle. The engine owns no wall clock; hosts feed it reference instants
// through Advance (or let RunTicker do it on their behalf).
package engine

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oxleyk/meridian/internal/grid"
	"github.com/oxleyk/meridian/internal/highlight"
	"github.com/oxleyk/meridian/internal/mars"
	"github.com/oxleyk/meridian/internal/scroll"
	"github.com/oxleyk/meridian/internal/telemetry"
	"github.com/oxleyk/meridian/internal/zone"
)

// Options fixes the grid's shape and timing. Validate rejects bad values at
// construction so nothing downstream has to defend per-tick.
type Options struct {
	StepMinutes      int
	SlotCount        int
	HighlightSeconds int
	Night            grid.NightWindow
	ReferenceZone    *time.Location
	Settle           time.Duration
	Clock            func() time.Time
}

// Validate checks the options for configuration errors.
func (o Options) Validate() error {
	if err := grid.ValidateStep(o.StepMinutes); err != nil {
		return err
	}
	if o.SlotCount <= 0 {
		return fmt.Errorf("slot_count %d must be positive", o.SlotCount)
	}
	if o.HighlightSeconds <= 0 {
		return fmt.Errorf("highlight_seconds %d must be positive", o.HighlightSeconds)
	}
	return nil
}

// SlotView is one rendered row of one zone column: the absolute instant, its
// local projection, and its classification for the current tick.
type SlotView struct {
	Instant time.Time
	Proj    zone.Projection
	Flags   grid.Flags
}

// Engine is the single owner of all grid state. All methods are safe for
// concurrent use; internally everything is single-writer behind one mutex,
// which also guarantees an Activity call is fully applied before the Tick
// that follows it.
type Engine struct {
	mu    sync.Mutex
	opts  Options
	civil *zone.CivilProjector

	zones []zone.Zone
	byID  map[string]zone.Zone

	seq grid.Sequence
	ref time.Time

	life  *highlight.Lifecycle
	coord *scroll.Coordinator

	// pending buffers scroll requests emitted by the coordinator until the
	// host drains them on its own thread.
	pending []scroll.Request

	tel *telemetry.Emitter
	log *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	running  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTelemetry attaches a telemetry emitter. Nil is fine.
func WithTelemetry(tel *telemetry.Emitter) Option {
	return func(e *Engine) { e.tel = tel }
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New builds an engine from validated options.
func New(opts Options, eopts ...Option) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("engine options: %w", err)
	}
	if opts.ReferenceZone == nil {
		opts.ReferenceZone = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Night == (grid.NightWindow{}) {
		opts.Night = grid.DefaultNight
	}
	if opts.Settle <= 0 {
		opts.Settle = scroll.DefaultSettle
	}

	e := &Engine{
		opts:  opts,
		civil: zone.NewCivilProjector(),
		byID:  make(map[string]zone.Zone),
		log:   zap.NewNop(),
		stop:  make(chan struct{}),
	}
	for _, opt := range eopts {
		opt(e)
	}

	e.life = highlight.New(opts.HighlightSeconds, highlight.WithClock(opts.Clock))
	e.life.OnExpire(func(cleared time.Time) {
		e.tel.Emit(telemetry.Event{Kind: telemetry.KindHighlightExpired, Data: cleared})
		e.log.Debug("highlight expired", zap.Time("instant", cleared))
	})
	e.coord = scroll.NewCoordinator(
		func(req scroll.Request) { e.pending = append(e.pending, req) },
		scroll.WithClock(opts.Clock),
		scroll.WithSettle(opts.Settle),
	)
	return e, nil
}

// RegisterZone validates a zone identifier and adds it to the display set.
// This is the single choke point for configuration errors: an unknown civil
// timezone or unknown Mars site is rejected here and never reaches a render
// pass. Mars zones from the built-in catalog are filled in from it; a Mars
// zone absent from the catalog must carry its own longitude.
func (e *Engine) RegisterZone(z zone.Zone) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if z.ID == "" {
		return fmt.Errorf("zone id must not be empty")
	}
	if _, dup := e.byID[z.ID]; dup {
		return fmt.Errorf("zone %q already registered", z.ID)
	}

	switch z.Kind() {
	case zone.KindMars:
		if site, ok := mars.Lookup(z.ID); ok {
			if z.Name == "" {
				z.Name = site.Name
			}
			z.MarsLongitudeE = site.MarsLongitudeE
			z.Rover = site.Rover
		} else if z.MarsLongitudeE == 0 && z.ID != mars.IDMTC {
			return fmt.Errorf("unknown mars zone %q: not in catalog and no longitude given", z.ID)
		}
	case zone.KindCivil:
		if err := e.civil.Resolve(z.ID); err != nil {
			return err
		}
	}

	e.zones = append(e.zones, z)
	e.byID[z.ID] = z
	e.coord.Register(z.ID)
	e.tel.Emit(telemetry.Event{Kind: telemetry.KindZoneRegistered, Zone: z.ID})
	e.log.Debug("zone registered", zap.String("zone", z.ID))
	return nil
}

// UnregisterZone removes a zone from the display set, destroying its scroll
// handle. Removing an unknown zone is a no-op.
func (e *Engine) UnregisterZone(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.byID[id]; !ok {
		return
	}
	delete(e.byID, id)
	for i, z := range e.zones {
		if z.ID == id {
			e.zones = append(e.zones[:i], e.zones[i+1:]...)
			break
		}
	}
	e.civil.Forget(id)
	e.coord.Unregister(id)
	e.tel.Emit(telemetry.Event{Kind: telemetry.KindZoneRemoved, Zone: id})
}

// Zones returns the ordered display set.
func (e *Engine) Zones() []zone.Zone {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]zone.Zone, len(e.zones))
	copy(out, e.zones)
	return out
}

// Advance feeds the engine a new reference instant: regenerates the slot
// sequence when the reference date rolls over, ticks the highlight
// countdown, and lets the coordinator re-center idle columns on step
// boundaries. Hosts call this at a nominal 1 Hz cadence.
func (e *Engine) Advance(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.ref
	e.ref = now
	if e.seq.Len() == 0 || !sameLocalDate(prev, now, e.opts.ReferenceZone) {
		e.seq = grid.Generate(now, e.opts.ReferenceZone, e.opts.StepMinutes, e.opts.SlotCount)
	}
	e.life.Tick()
	e.coord.OnReferenceTick(e.seq, now, e.life.Active())
}

// Select enters the highlight lifecycle with the given instant and targets
// every non-user-active column at its slot index.
func (e *Engine) Select(instant time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.life.Select(instant)
	e.coord.OnSelectionChanged(e.seq, instant)
	e.tel.Emit(telemetry.Event{Kind: telemetry.KindHighlightSet, Data: instant})
}

// Activity resets the highlight countdown on any recognized user
// interaction. No-op without an active highlight.
func (e *Engine) Activity() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.life.Activity()
}

// ClearHighlight drops the highlight immediately.
func (e *Engine) ClearHighlight() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.life.Active() {
		return
	}
	e.life.Clear()
	e.tel.Emit(telemetry.Event{Kind: telemetry.KindHighlightCleared})
}

// UserScroll marks a zone's column user-active for the settle window.
func (e *Engine) UserScroll(zoneID string, offset int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.coord.OnUserScroll(zoneID, offset)
}

// TakeScrollRequests drains the scroll requests accumulated since the last
// call. Hosts apply them to their widgets on their own thread.
func (e *Engine) TakeScrollRequests() []scroll.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return nil
	}
	out := e.pending
	e.pending = nil
	for _, req := range out {
		e.tel.Emit(telemetry.Event{Kind: telemetry.KindRecenter, Zone: req.ZoneID, Data: req.Index})
	}
	return out
}

// Highlight returns a snapshot of the highlight state machine.
func (e *Engine) Highlight() highlight.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.life.Status()
}

// Sequence returns the current slot sequence.
func (e *Engine) Sequence() grid.Sequence {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

// Reference returns the last reference instant fed through Advance.
func (e *Engine) Reference() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ref
}

// Project maps an instant into a registered zone, dispatching by identifier
// namespace. Unregistered ids are a caller error.
func (e *Engine) Project(t time.Time, zoneID string) (zone.Projection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.projectLocked(t, zoneID)
}

func (e *Engine) projectLocked(t time.Time, zoneID string) (zone.Projection, error) {
	z, ok := e.byID[zoneID]
	if !ok {
		return zone.Projection{}, fmt.Errorf("zone %q not registered", zoneID)
	}
	if z.Kind() == zone.KindMars {
		return mars.Project(t, z), nil
	}
	return e.civil.Project(t, z.ID), nil
}

// Classify labels one slot in one registered zone for the current tick.
func (e *Engine) Classify(slot time.Time, zoneID string) (grid.Flags, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.classifyLocked(slot, zoneID)
}

func (e *Engine) classifyLocked(slot time.Time, zoneID string) (grid.Flags, error) {
	z, ok := e.byID[zoneID]
	if !ok {
		return grid.Flags{}, fmt.Errorf("zone %q not registered", zoneID)
	}
	proj, err := e.projectLocked(slot, zoneID)
	if err != nil {
		return grid.Flags{}, err
	}
	refProj, err := e.projectLocked(e.ref, zoneID)
	if err != nil {
		return grid.Flags{}, err
	}

	var highlighted *time.Time
	if sel, ok := e.life.Selected(); ok {
		highlighted = &sel
	}
	nearDST := false
	if z.Kind() == zone.KindCivil {
		nearDST = e.civil.NearDSTTransition(slot, z.ID)
	}
	return grid.Classify(grid.Input{
		Slot:        slot,
		Proj:        proj,
		RefProj:     refProj,
		StepMinutes: e.opts.StepMinutes,
		Highlighted: highlighted,
		Night:       e.opts.Night,
		NearDST:     nearDST,
	}), nil
}

// Column renders one zone's full slot list for the current tick: every slot
// projected and classified. The per-slot functions are total once the zone
// passed registration, so this cannot fail mid-render.
func (e *Engine) Column(zoneID string) ([]SlotView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.byID[zoneID]; !ok {
		return nil, fmt.Errorf("zone %q not registered", zoneID)
	}
	views := make([]SlotView, e.seq.Len())
	for i := range views {
		slot := e.seq.At(i)
		proj, err := e.projectLocked(slot, zoneID)
		if err != nil {
			return nil, err
		}
		flags, err := e.classifyLocked(slot, zoneID)
		if err != nil {
			return nil, err
		}
		views[i] = SlotView{Instant: slot, Proj: proj, Flags: flags}
	}
	return views, nil
}

// sameLocalDate reports whether a and b fall on the same calendar date in
// loc. A zero a never matches, forcing the first Advance to generate.
func sameLocalDate(a, b time.Time, loc *time.Location) bool {
	if a.IsZero() {
		return false
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
