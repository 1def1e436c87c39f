package feeds

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/oxleyk/meridian/internal/zone"
)

// Target is one zone the refresher fetches weather for.
type Target struct {
	ZoneID string
	Lat    float64
	Lon    float64
}

// TargetsFor extracts fetchable targets from a zone set: civil zones that
// carry geographic coordinates. Mars zones never have weather.
func TargetsFor(zones []zone.Zone) []Target {
	var out []Target
	for _, z := range zones {
		if z.Kind() != zone.KindCivil || !z.HasCoords {
			continue
		}
		out = append(out, Target{ZoneID: z.ID, Lat: z.Latitude, Lon: z.Longitude})
	}
	return out
}

// Refresher periodically fetches weather for a set of targets and delivers
// tagged results through a callback. It is a pure producer: fetches run on
// their own goroutines, results are pushed, and nothing here can block the
// grid's tick path.
type Refresher struct {
	provider Provider
	interval time.Duration
	notify   func(zoneID string, r Result)
	log      *zap.Logger

	stopChan chan struct{}
}

// NewRefresher creates a refresher delivering results via notify.
func NewRefresher(provider Provider, interval time.Duration, notify func(string, Result), log *zap.Logger) *Refresher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Refresher{
		provider: provider,
		interval: interval,
		notify:   notify,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// Start begins the refresh loop for the given targets. Each target gets an
// immediate Loading result so the UI can render a placeholder, then a fetch
// at startup and on every interval.
func (r *Refresher) Start(ctx context.Context, targets []Target) {
	for _, t := range targets {
		r.notify(t.ZoneID, Result{Status: StatusLoading})
	}
	go r.loop(ctx, targets)
}

// Stop halts the refresh loop. In-flight fetches finish and deliver.
func (r *Refresher) Stop() {
	close(r.stopChan)
}

func (r *Refresher) loop(ctx context.Context, targets []Target) {
	r.fetchAll(ctx, targets)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.fetchAll(ctx, targets)
		case <-r.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (r *Refresher) fetchAll(ctx context.Context, targets []Target) {
	for _, t := range targets {
		go func(t Target) {
			report, err := r.provider.Current(ctx, t.Lat, t.Lon)
			if err != nil {
				r.log.Debug("weather fetch failed", zap.String("zone", t.ZoneID), zap.Error(err))
				r.notify(t.ZoneID, Failed(err.Error()))
				return
			}
			r.notify(t.ZoneID, Ready(report))
		}(t)
	}
}
