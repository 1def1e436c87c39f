package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxleyk/meridian/internal/mars"
	"github.com/oxleyk/meridian/internal/ui"
)

// marsCmd prints the Mars timekeeping table for one instant: the raw MSD and
// MTC, then LMST and sol for every known site.
var marsCmd = &cobra.Command{
	Use:   "mars",
	Short: "Print Mars Sol Date, MTC and per-site local times",
	Args:  cobra.NoArgs,
	RunE:  runMars,
}

func init() {
	marsCmd.Flags().String("at", "", "instant to convert (RFC 3339, default now)")
	rootCmd.AddCommand(marsCmd)
}

func runMars(cmd *cobra.Command, _ []string) error {
	at := time.Now()
	if s, _ := cmd.Flags().GetString("at"); s != "" {
		var err error
		at, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", at.UTC().Format(time.RFC1123))
	fmt.Fprintf(out, "JD (UT)  %.5f\n", mars.JulianDateUT(at))
	fmt.Fprintf(out, "MSD      %.5f\n", mars.MSD(at))
	fmt.Fprintf(out, "MTC      %.5f h\n\n", mars.MTCHours(at))

	for _, site := range mars.Sites() {
		proj := mars.Project(at, site)
		label := fmt.Sprintf("%-22s %s", site.Name, ui.Mars(proj))
		if site.Rover != nil {
			label += fmt.Sprintf("  (%s)", site.Rover.Name)
		}
		fmt.Fprintln(out, label)
	}
	return nil
}
