package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oxleyk/meridian/internal/highlight"
	"github.com/oxleyk/meridian/internal/mars"
	"github.com/oxleyk/meridian/internal/zone"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEngine(t *testing.T) (*Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 10, 8, 15, 0, 0, time.UTC)}
	eng, err := New(Options{
		StepMinutes:      30,
		SlotCount:        48,
		HighlightSeconds: 5,
		ReferenceZone:    time.UTC,
		Settle:           500 * time.Millisecond,
		Clock:            clock.Now,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng, clock
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"valid", Options{StepMinutes: 30, SlotCount: 48, HighlightSeconds: 90}, true},
		{"step does not divide day", Options{StepMinutes: 7, SlotCount: 48, HighlightSeconds: 90}, false},
		{"zero slots", Options{StepMinutes: 30, SlotCount: 0, HighlightSeconds: 90}, false},
		{"zero highlight", Options{StepMinutes: 30, SlotCount: 48, HighlightSeconds: 0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tc.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestRegisterZone(t *testing.T) {
	t.Parallel()
	eng, _ := newTestEngine(t)

	cases := []struct {
		name string
		z    zone.Zone
		ok   bool
	}{
		{"civil utc", zone.Zone{ID: "UTC"}, true},
		{"civil iana", zone.Zone{ID: "Asia/Tokyo"}, true},
		{"mars catalog site", zone.Zone{ID: mars.IDPerseverance}, true},
		{"mars mean time", zone.Zone{ID: mars.IDMTC}, true},
		{"mars custom longitude", zone.Zone{ID: "mars/olympus", MarsLongitudeE: 226.2}, true},
		{"civil unknown", zone.Zone{ID: "Nowhere/Invalid"}, false},
		{"mars unknown no longitude", zone.Zone{ID: "mars/ghost"}, false},
		{"empty id", zone.Zone{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := eng.RegisterZone(tc.z)
			if tc.ok && err != nil {
				t.Errorf("RegisterZone(%q) = %v, want nil", tc.z.ID, err)
			}
			if !tc.ok && err == nil {
				t.Errorf("RegisterZone(%q) = nil, want error", tc.z.ID)
			}
		})
	}

	if err := eng.RegisterZone(zone.Zone{ID: "UTC"}); err == nil {
		t.Error("duplicate registration accepted")
	}
}

func TestRegisterZone_CatalogFillsMarsSite(t *testing.T) {
	t.Parallel()
	eng, _ := newTestEngine(t)
	if err := eng.RegisterZone(zone.Zone{ID: mars.IDCuriosity}); err != nil {
		t.Fatalf("RegisterZone: %v", err)
	}
	zs := eng.Zones()
	if len(zs) != 1 {
		t.Fatalf("got %d zones, want 1", len(zs))
	}
	if zs[0].MarsLongitudeE == 0 {
		t.Error("catalog longitude not applied")
	}
	if zs[0].Rover == nil {
		t.Error("catalog rover not applied")
	}
}

func TestUnregisterZone(t *testing.T) {
	t.Parallel()
	eng, _ := newTestEngine(t)
	mustRegister(t, eng, "UTC", "Asia/Tokyo")

	eng.UnregisterZone("UTC")
	zs := eng.Zones()
	if len(zs) != 1 || zs[0].ID != "Asia/Tokyo" {
		t.Errorf("zones after removal = %v", zoneIDs(zs))
	}
	if _, err := eng.Project(time.Now(), "UTC"); err == nil {
		t.Error("Project succeeded for removed zone")
	}

	// Removing twice is harmless.
	eng.UnregisterZone("UTC")
}

func TestAdvance_GeneratesAndRegeneratesSequence(t *testing.T) {
	t.Parallel()
	eng, clock := newTestEngine(t)

	eng.Advance(clock.Now())
	seq := eng.Sequence()
	if seq.Len() != 48 {
		t.Fatalf("Len = %d, want 48", seq.Len())
	}
	first := seq.At(0)
	if first.Hour() != 0 || first.Minute() != 0 {
		t.Errorf("first slot %v, want reference-zone midnight", first)
	}

	// Same date: the sequence is stable.
	clock.Advance(2 * time.Hour)
	eng.Advance(clock.Now())
	if !eng.Sequence().At(0).Equal(first) {
		t.Error("sequence regenerated within the same date")
	}

	// Date rollover: regenerated from the new midnight.
	clock.Advance(24 * time.Hour)
	eng.Advance(clock.Now())
	if got := eng.Sequence().At(0); !got.Equal(first.Add(24*time.Hour)) {
		t.Errorf("after rollover first slot = %v, want %v", got, first.Add(24*time.Hour))
	}
}

func TestProject_DispatchesByNamespace(t *testing.T) {
	t.Parallel()
	eng, _ := newTestEngine(t)
	mustRegister(t, eng, "UTC", mars.IDMTC)

	at := time.Date(2024, 3, 10, 8, 15, 0, 0, time.UTC)

	civil, err := eng.Project(at, "UTC")
	if err != nil {
		t.Fatalf("Project(UTC): %v", err)
	}
	if civil.Mars {
		t.Error("civil projection flagged Mars")
	}
	if civil.Hour != 8 || civil.Minute != 15 {
		t.Errorf("civil projection %02d:%02d, want 08:15", civil.Hour, civil.Minute)
	}

	red, err := eng.Project(at, mars.IDMTC)
	if err != nil {
		t.Fatalf("Project(mtc): %v", err)
	}
	if !red.Mars {
		t.Error("mars projection not flagged Mars")
	}
	if red.Sol <= 0 {
		t.Errorf("Sol = %d, want positive", red.Sol)
	}

	if _, err := eng.Project(at, "ghost"); err == nil {
		t.Error("Project for unregistered zone succeeded")
	}
}

func TestSelect_MarksSlotAndEmitsRequests(t *testing.T) {
	t.Parallel()
	eng, clock := newTestEngine(t)
	mustRegister(t, eng, "UTC", "Asia/Tokyo")
	eng.Advance(clock.Now())
	eng.TakeScrollRequests() // drop the initial recenter

	target := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	eng.Select(target)

	st := eng.Highlight()
	if !st.Selected.Equal(target) {
		t.Fatalf("Selected = %v, want %v", st.Selected, target)
	}

	reqs := eng.TakeScrollRequests()
	if len(reqs) != 2 {
		t.Fatalf("got %d scroll requests, want one per zone", len(reqs))
	}
	for _, req := range reqs {
		if req.Index != 16 {
			t.Errorf("zone %s targeted %d, want 16", req.ZoneID, req.Index)
		}
	}

	flags, err := eng.Classify(target, "Asia/Tokyo")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !flags.Highlighted {
		t.Error("selected slot not flagged Highlighted in another zone")
	}
}

func TestSelect_SkipsUserActiveColumn(t *testing.T) {
	t.Parallel()
	eng, clock := newTestEngine(t)
	mustRegister(t, eng, "UTC", "Asia/Tokyo")
	eng.Advance(clock.Now())
	eng.TakeScrollRequests()

	eng.UserScroll("Asia/Tokyo", 9)
	eng.Select(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	reqs := eng.TakeScrollRequests()
	if len(reqs) != 1 || reqs[0].ZoneID != "UTC" {
		t.Errorf("requests = %v, want only UTC", reqs)
	}
}

func TestHighlight_ExpiresThroughAdvance(t *testing.T) {
	t.Parallel()
	eng, clock := newTestEngine(t) // 5-second highlight
	mustRegister(t, eng, "UTC")
	eng.Advance(clock.Now())

	eng.Select(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	for i := 0; i < 4; i++ {
		clock.Advance(time.Second)
		eng.Advance(clock.Now())
	}
	if st := eng.Highlight(); st.State != highlight.Active || st.Remaining != 1 {
		t.Fatalf("state=%v remaining=%d, want Active remaining=1", st.State, st.Remaining)
	}

	clock.Advance(time.Second)
	eng.Advance(clock.Now())
	if eng.Highlight().State != highlight.Idle {
		t.Fatal("highlight did not expire")
	}

	flags, err := eng.Classify(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), "UTC")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if flags.Highlighted {
		t.Error("expired slot still flagged Highlighted")
	}
}

func TestActivity_KeepsHighlightAlive(t *testing.T) {
	t.Parallel()
	eng, clock := newTestEngine(t) // 5-second highlight
	mustRegister(t, eng, "UTC")
	eng.Advance(clock.Now())
	eng.Select(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	for i := 0; i < 20; i++ {
		clock.Advance(time.Second)
		eng.Activity()
		eng.Advance(clock.Now())
	}
	if st := eng.Highlight(); st.State != highlight.Active {
		t.Error("highlight expired despite continuous activity")
	}
}

func TestClearHighlight(t *testing.T) {
	t.Parallel()
	eng, clock := newTestEngine(t)
	mustRegister(t, eng, "UTC")
	eng.Advance(clock.Now())

	eng.ClearHighlight() // idle: no-op
	eng.Select(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	eng.ClearHighlight()
	if eng.Highlight().State != highlight.Idle {
		t.Error("highlight still active after ClearHighlight")
	}
}

func TestColumn_RendersEverySlot(t *testing.T) {
	t.Parallel()
	eng, clock := newTestEngine(t)
	mustRegister(t, eng, "UTC", mars.IDPerseverance)
	eng.Advance(clock.Now())

	views, err := eng.Column("UTC")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if len(views) != 48 {
		t.Fatalf("got %d views, want 48", len(views))
	}
	currents := 0
	for _, v := range views {
		if v.Flags.Current {
			currents++
		}
	}
	if currents != 1 {
		t.Errorf("%d slots flagged Current, want exactly 1", currents)
	}

	red, err := eng.Column(mars.IDPerseverance)
	if err != nil {
		t.Fatalf("Column(mars): %v", err)
	}
	for i, v := range red {
		if !v.Proj.Mars {
			t.Fatalf("view %d not projected as Mars", i)
		}
		if v.Flags.Weekend {
			t.Fatalf("view %d flagged Weekend on Mars", i)
		}
	}

	if _, err := eng.Column("ghost"); err == nil {
		t.Error("Column for unregistered zone succeeded")
	}
}

func TestTakeScrollRequests_Drains(t *testing.T) {
	t.Parallel()
	eng, clock := newTestEngine(t)
	mustRegister(t, eng, "UTC")
	eng.Advance(clock.Now())

	if reqs := eng.TakeScrollRequests(); len(reqs) != 1 {
		t.Fatalf("first drain = %d requests, want 1 (initial recenter)", len(reqs))
	}
	if reqs := eng.TakeScrollRequests(); reqs != nil {
		t.Errorf("second drain = %v, want nil", reqs)
	}
}

func TestStartDispose(t *testing.T) {
	t.Parallel()
	eng, err := New(Options{StepMinutes: 30, SlotCount: 48, HighlightSeconds: 90, ReferenceZone: time.UTC})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mustRegister(t, eng, "UTC")

	ticks := make(chan time.Time, 1)
	eng.Start(context.Background(), func(now time.Time) {
		select {
		case ticks <- now:
		default:
		}
	})
	defer eng.Dispose()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick delivered after Start")
	}
	if eng.Reference().IsZero() {
		t.Error("Start did not advance the engine")
	}

	// Second Start is a no-op; Dispose twice is safe.
	eng.Start(context.Background(), nil)
	eng.Dispose()
	eng.Dispose()
}

func mustRegister(t *testing.T, eng *Engine, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := eng.RegisterZone(zone.Zone{ID: id}); err != nil {
			if strings.Contains(err.Error(), "unknown time zone") {
				t.Skipf("tzdata unavailable: %v", err)
			}
			t.Fatalf("RegisterZone(%q): %v", id, err)
		}
	}
}

func zoneIDs(zs []zone.Zone) []string {
	ids := make([]string, len(zs))
	for i, z := range zs {
		ids[i] = z.ID
	}
	return ids
}
