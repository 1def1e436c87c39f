package tui

import (
	"time"

	"github.com/oxleyk/meridian/internal/feeds"
)

// MsgTick is the dashboard's 1-second heartbeat: it carries the reference
// instant fed to the engine.
type MsgTick struct {
	Time time.Time
}

// MsgZonesChanged signals that the persisted zone set or catalog changed on
// disk; the model re-resolves the display set through its reload hook.
type MsgZonesChanged struct{}

// MsgWeather delivers a tagged weather result for one zone.
type MsgWeather struct {
	ZoneID string
	Result feeds.Result
}

// MsgError surfaces a non-fatal error in the footer.
type MsgError struct {
	Msg string
}
