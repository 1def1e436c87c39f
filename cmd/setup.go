package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/oxleyk/meridian/internal/catalog"
	"github.com/oxleyk/meridian/internal/config"
	"github.com/oxleyk/meridian/internal/engine"
	"github.com/oxleyk/meridian/internal/logging"
	"github.com/oxleyk/meridian/internal/store"
	"github.com/oxleyk/meridian/internal/telemetry"
	"github.com/oxleyk/meridian/internal/zone"
)

// session bundles everything a command needs after setup.
type session struct {
	cfg config.Config
	log *zap.Logger
	tel *telemetry.Emitter
}

// newSession loads and validates config and builds the logger and optional
// telemetry emitter. Config errors stop the command here, before any grid
// state exists.
func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogMode, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	var tel *telemetry.Emitter
	if cfg.Telemetry.Enabled {
		tel, err = telemetry.NewEmitter(cfg.Telemetry.Path)
		if err != nil {
			return nil, err
		}
	}
	return &session{cfg: cfg, log: log, tel: tel}, nil
}

// close releases session resources.
func (s *session) close() {
	s.tel.Close()
	_ = s.log.Sync()
}

func (s *session) catalogPath() string {
	return filepath.Join(s.cfg.DataDir, catalog.DefaultFile)
}

func (s *session) storePath() string {
	return filepath.Join(s.cfg.DataDir, store.DefaultFile)
}

// zoneSet resolves the display set: the persisted zone set overlaid with
// catalog metadata, or the built-in defaults when nothing is persisted yet.
func (s *session) zoneSet(ctx context.Context) ([]zone.Zone, error) {
	cat, err := catalog.Load(s.catalogPath())
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, s.storePath())
	if err != nil {
		return nil, err
	}
	defer st.Close()

	rows, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		zones := zone.DefaultSet()
		for i, z := range zones {
			zones[i] = cat.Apply(z)
		}
		return zones, nil
	}

	zones := make([]zone.Zone, 0, len(rows))
	for _, row := range rows {
		zones = append(zones, cat.Apply(zone.Zone{
			ID:        row.ID,
			Name:      row.Name,
			Country:   row.Country,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			HasCoords: row.HasCoords,
		}))
	}
	return zones, nil
}

// buildEngine constructs the engine from session config and registers the
// given zones. A zone that fails registration (e.g. removed from the tz
// database since it was persisted) is skipped with a warning rather than
// refusing to start.
func (s *session) buildEngine(zones []zone.Zone) (*engine.Engine, error) {
	eng, err := engine.New(engine.Options{
		StepMinutes:      s.cfg.StepMinutes,
		SlotCount:        s.cfg.SlotCount,
		HighlightSeconds: s.cfg.HighlightSeconds,
		Night:            s.cfg.Night(),
		ReferenceZone:    s.cfg.ReferenceLocation(),
		Settle:           s.cfg.Settle(),
	}, engine.WithTelemetry(s.tel), engine.WithLogger(s.log))
	if err != nil {
		return nil, err
	}
	for _, z := range zones {
		if err := eng.RegisterZone(z); err != nil {
			s.log.Warn("skipping zone", zap.String("zone", z.ID), zap.Error(err))
		}
	}
	return eng, nil
}
