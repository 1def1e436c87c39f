package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oxleyk/meridian/internal/feeds"
)

// sender is the slice of tea.Program the bridges need; narrowed for tests.
type sender interface {
	Send(msg tea.Msg)
}

// StartCatalogBridge forwards catalog reload signals into the running
// program. The goroutine exits when the watcher's channel closes.
func StartCatalogBridge(p sender, reloads <-chan struct{}) {
	go func() {
		for range reloads {
			p.Send(MsgZonesChanged{})
		}
	}()
}

// WeatherNotify returns the callback the weather refresher delivers results
// through; each result becomes a message on the program's queue. Delivery
// never blocks the refresher beyond the program's own mailbox.
func WeatherNotify(p sender) func(zoneID string, r feeds.Result) {
	return func(zoneID string, r feeds.Result) {
		p.Send(MsgWeather{ZoneID: zoneID, Result: r})
	}
}
