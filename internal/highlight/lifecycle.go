// Package highlight owns the selected-instant state machine: a selection
// stays alive for a bounded countdown, any recognized activity rewinds the
// countdown, and expiry clears the selection and tells observers.
package highlight

import "time"

// State is the machine's coarse state.
type State int

const (
	// Idle means no instant is selected.
	Idle State = iota
	// Active means an instant is selected and the countdown is running.
	Active
)

// DefaultTotalSeconds is the default countdown length. Surfaces may
// configure anywhere in the 60–120s range.
const DefaultTotalSeconds = 90

// Status is a read-only snapshot of the machine.
type Status struct {
	State     State
	Selected  time.Time
	Remaining int
	Total     int
}

// Lifecycle is the highlight state machine. It owns no timer: the host calls
// Tick on its own cadence and Tick credits however many whole seconds have
// really elapsed, so a throttled or late host cannot desynchronize the
// displayed countdown from the actual clear time.
//
// Not safe for concurrent use; drive it from a single goroutine, and deliver
// Activity before the Tick that follows it so a just-reset countdown is not
// decremented early.
type Lifecycle struct {
	total int
	now   func() time.Time

	state     State
	selected  time.Time
	remaining int
	credited  time.Time // last instant already accounted for by Tick

	onExpire []func(cleared time.Time)
}

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithClock substitutes the time source. Tests use a fake clock; the default
// is time.Now, whose monotonic reading makes elapsed deltas immune to wall
// clock jumps.
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) { l.now = now }
}

// New creates an Idle lifecycle with the given countdown total in seconds.
func New(totalSeconds int, opts ...Option) *Lifecycle {
	if totalSeconds <= 0 {
		totalSeconds = DefaultTotalSeconds
	}
	l := &Lifecycle{total: totalSeconds, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnExpire registers an observer called when the countdown reaches zero and
// the selection auto-clears. Explicit Clear does not notify: the caller of
// Clear already knows.
func (l *Lifecycle) OnExpire(fn func(cleared time.Time)) {
	l.onExpire = append(l.onExpire, fn)
}

// Select enters Active with a fresh countdown, from any state.
func (l *Lifecycle) Select(instant time.Time) {
	l.state = Active
	l.selected = instant
	l.remaining = l.total
	l.credited = l.now()
}

// Activity rewinds the countdown to the full total without changing the
// selection. No-op while Idle.
func (l *Lifecycle) Activity() {
	if l.state != Active {
		return
	}
	l.remaining = l.total
	l.credited = l.now()
}

// Clear drops the selection immediately. A Tick arriving after Clear is a
// silent no-op: current state is ground truth.
func (l *Lifecycle) Clear() {
	l.state = Idle
	l.selected = time.Time{}
	l.remaining = 0
}

// Tick advances the countdown by the number of whole seconds elapsed since
// the last credited instant. Called on a nominal 1-second cadence; a late
// wake credits every second it missed in one call. On reaching zero the
// machine transitions to Idle and notifies expiry observers.
func (l *Lifecycle) Tick() {
	if l.state != Active {
		return
	}
	whole := int(l.now().Sub(l.credited) / time.Second)
	if whole <= 0 {
		return
	}
	l.credited = l.credited.Add(time.Duration(whole) * time.Second)
	l.remaining -= whole
	if l.remaining > 0 {
		return
	}
	cleared := l.selected
	l.state = Idle
	l.selected = time.Time{}
	l.remaining = 0
	for _, fn := range l.onExpire {
		fn(cleared)
	}
}

// Status returns a snapshot of the current state.
func (l *Lifecycle) Status() Status {
	return Status{
		State:     l.state,
		Selected:  l.selected,
		Remaining: l.remaining,
		Total:     l.total,
	}
}

// Active reports whether a selection is live.
func (l *Lifecycle) Active() bool { return l.state == Active }

// Selected returns the selected instant, if any.
func (l *Lifecycle) Selected() (time.Time, bool) {
	if l.state != Active {
		return time.Time{}, false
	}
	return l.selected, true
}
