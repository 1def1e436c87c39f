// Package telemetry provides a JSONL event stream for recording engine state
// transitions: zone registrations, highlight lifecycle changes, and scroll
// re-centering. Each dashboard session gets its own id so interleaved runs
// against the same file stay attributable.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds identify the type of telemetry event.
const (
	KindSessionStart     = "session_start"
	KindZoneRegistered   = "zone_registered"
	KindZoneRemoved      = "zone_removed"
	KindHighlightSet     = "highlight_set"
	KindHighlightCleared = "highlight_cleared"
	KindHighlightExpired = "highlight_expired"
	KindRecenter         = "recenter"
)

// Event represents a single telemetry record: a timestamp, a kind tag, the
// session it belongs to, and optional zone context plus structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Session   string    `json:"session,omitempty"`
	Zone      string    `json:"zone,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events to a JSONL file. It is safe for concurrent
// use. A nil *Emitter is a valid no-op emitter, so callers can thread one
// through unconditionally.
type Emitter struct {
	file    *os.File
	enc     *json.Encoder
	session string
	mu      sync.Mutex
}

// NewEmitter creates an emitter appending to the file at path and records a
// session_start event with a fresh session id.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	e := &Emitter{
		file:    f,
		enc:     json.NewEncoder(f),
		session: uuid.NewString(),
	}
	if err := e.Emit(Event{Kind: KindSessionStart}); err != nil {
		f.Close()
		return nil, err
	}
	return e, nil
}

// Session returns the emitter's session id, or "" for the nil emitter.
func (e *Emitter) Session() string {
	if e == nil {
		return ""
	}
	return e.session
}

// Emit writes a single event, stamping the timestamp and session if unset.
// Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if evt.Session == "" {
		evt.Session = e.session
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
