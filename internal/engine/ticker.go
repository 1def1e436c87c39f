package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Start launches the engine's own 1 Hz reference feed for headless hosts
// that do not bring a tick source of their own. Each tick calls Advance and
// then notify (if non-nil) outside the engine lock. Interactive hosts that
// already own a tick loop should call Advance directly and never Start.
func (e *Engine) Start(ctx context.Context, notify func(time.Time)) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.log.Info("engine ticker started")
	go e.run(ctx, notify)
}

// Dispose stops the ticker goroutine, if running. Idempotent; safe to call
// whether or not Start was ever used.
func (e *Engine) Dispose() {
	e.stopOnce.Do(func() { close(e.stop) })
}

func (e *Engine) run(ctx context.Context, notify func(time.Time)) {
	e.Advance(e.opts.Clock())
	if notify != nil {
		notify(e.Reference())
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			e.Advance(now)
			if notify != nil {
				notify(now)
			}
		case <-e.stop:
			e.log.Info("engine ticker stopped")
			return
		case <-ctx.Done():
			e.log.Info("engine ticker cancelled", zap.Error(ctx.Err()))
			return
		}
	}
}
