package highlight

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLifecycle(total int) (*Lifecycle, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)}
	return New(total, WithClock(clock.Now)), clock
}

func TestSelect_EntersActive(t *testing.T) {
	t.Parallel()
	l, _ := newTestLifecycle(90)
	instant := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	l.Select(instant)

	st := l.Status()
	if st.State != Active {
		t.Fatal("expected Active after Select")
	}
	if !st.Selected.Equal(instant) {
		t.Errorf("Selected = %v, want %v", st.Selected, instant)
	}
	if st.Remaining != 90 {
		t.Errorf("Remaining = %d, want 90", st.Remaining)
	}
}

func TestTick_CountsDownToIdle(t *testing.T) {
	t.Parallel()
	const total = 5
	l, clock := newTestLifecycle(total)
	l.Select(time.Now())

	var cleared []time.Time
	l.OnExpire(func(c time.Time) { cleared = append(cleared, c) })

	for i := 0; i < total-1; i++ {
		clock.Advance(time.Second)
		l.Tick()
	}
	if st := l.Status(); st.State != Active || st.Remaining != 1 {
		t.Fatalf("after %d ticks: state=%v remaining=%d, want Active remaining=1", total-1, st.State, st.Remaining)
	}

	clock.Advance(time.Second)
	l.Tick()
	if st := l.Status(); st.State != Idle {
		t.Fatalf("after %d ticks: state=%v, want Idle", total, st.State)
	}
	if len(cleared) != 1 {
		t.Errorf("expiry observers notified %d times, want 1", len(cleared))
	}
}

func TestActivity_ResetsCountdown(t *testing.T) {
	t.Parallel()
	l, clock := newTestLifecycle(10)
	l.Select(time.Now())

	clock.Advance(7 * time.Second)
	l.Tick()
	if st := l.Status(); st.Remaining != 3 {
		t.Fatalf("Remaining = %d, want 3", st.Remaining)
	}

	l.Activity()
	if st := l.Status(); st.Remaining != 10 {
		t.Errorf("Remaining after Activity = %d, want 10", st.Remaining)
	}
	// The selection itself is untouched.
	if _, ok := l.Selected(); !ok {
		t.Error("Activity must not clear the selection")
	}
}

func TestActivity_BeforeNextTickIsNotLost(t *testing.T) {
	t.Parallel()
	l, clock := newTestLifecycle(3)
	l.Select(time.Now())

	clock.Advance(2 * time.Second)
	l.Activity() // processed before the tick that follows
	clock.Advance(time.Second)
	l.Tick()

	if st := l.Status(); st.State != Active || st.Remaining != 2 {
		t.Errorf("state=%v remaining=%d, want Active remaining=2", st.State, st.Remaining)
	}
}

func TestTick_LateWakeCreditsElapsedSeconds(t *testing.T) {
	t.Parallel()
	l, clock := newTestLifecycle(60)
	l.Select(time.Now())

	// A throttled host may wake seconds late; one Tick credits all of it.
	clock.Advance(13 * time.Second)
	l.Tick()
	if st := l.Status(); st.Remaining != 47 {
		t.Errorf("Remaining = %d, want 47", st.Remaining)
	}

	// Sub-second wakes credit nothing and lose nothing.
	clock.Advance(400 * time.Millisecond)
	l.Tick()
	if st := l.Status(); st.Remaining != 47 {
		t.Errorf("Remaining after sub-second tick = %d, want 47", st.Remaining)
	}
	clock.Advance(600 * time.Millisecond)
	l.Tick()
	if st := l.Status(); st.Remaining != 46 {
		t.Errorf("Remaining after fractional sum = %d, want 46", st.Remaining)
	}
}

func TestClear_DropsSelectionImmediately(t *testing.T) {
	t.Parallel()
	l, clock := newTestLifecycle(30)
	var expired int
	l.OnExpire(func(time.Time) { expired++ })

	l.Select(time.Now())
	l.Clear()
	if l.Active() {
		t.Fatal("expected Idle after Clear")
	}

	// A tick firing after clear is a silent no-op.
	clock.Advance(time.Second)
	l.Tick()
	if l.Active() {
		t.Error("Tick after Clear must not resurrect the selection")
	}
	if expired != 0 {
		t.Errorf("explicit Clear notified expiry observers %d times, want 0", expired)
	}
}

func TestSelect_FromActiveReplacesSelection(t *testing.T) {
	t.Parallel()
	l, clock := newTestLifecycle(20)
	first := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	second := first.Add(30 * time.Minute)

	l.Select(first)
	clock.Advance(15 * time.Second)
	l.Tick()
	l.Select(second)

	st := l.Status()
	if !st.Selected.Equal(second) {
		t.Errorf("Selected = %v, want %v", st.Selected, second)
	}
	if st.Remaining != 20 {
		t.Errorf("Remaining = %d, want full total 20", st.Remaining)
	}
}

func TestTick_WhileIdleIsNoOp(t *testing.T) {
	t.Parallel()
	l, clock := newTestLifecycle(10)
	clock.Advance(time.Minute)
	l.Tick()
	if l.Active() {
		t.Error("Tick while Idle must not activate")
	}
}
