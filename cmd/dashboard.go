package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oxleyk/meridian/internal/catalog"
	"github.com/oxleyk/meridian/internal/feeds"
	"github.com/oxleyk/meridian/internal/tui"
	"github.com/oxleyk/meridian/internal/zone"
)

// dashboardCmd launches the interactive grid.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the interactive time-grid dashboard",
	Long: `Launch the meridian dashboard: one scrollable column per zone on a
shared half-hour grid. Pin any slot with enter to see the same instant
across every zone; the pin clears itself after a countdown unless you keep
interacting.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zones, err := sess.zoneSet(ctx)
	if err != nil {
		return err
	}
	eng, err := sess.buildEngine(zones)
	if err != nil {
		return err
	}
	defer eng.Dispose()
	eng.Advance(time.Now())

	reload := func() ([]zone.Zone, error) { return sess.zoneSet(ctx) }
	p := tui.NewProgram(eng, reload)

	// Live catalog reload: edits to zones.toml land in the running grid.
	if watcher, err := catalog.NewWatcher(sess.catalogPath()); err != nil {
		sess.log.Warn("catalog watch unavailable", zap.Error(err))
	} else if err := watcher.Start(); err != nil {
		sess.log.Warn("catalog watch failed", zap.Error(err))
	} else {
		defer watcher.Stop()
		tui.StartCatalogBridge(p, watcher.Reloads)
	}

	// Weather is fire-and-forget: results arrive as messages, failures
	// degrade to a placeholder badge.
	if sess.cfg.Weather.Enabled {
		provider := feeds.NewOpenMeteo(sess.cfg.Weather.Endpoint)
		refresher := feeds.NewRefresher(
			provider,
			time.Duration(sess.cfg.Weather.RefreshMinutes)*time.Minute,
			tui.WeatherNotify(p),
			sess.log,
		)
		refresher.Start(ctx, feeds.TargetsFor(zones))
		defer refresher.Stop()
	}

	_, err = p.Run()
	return err
}
