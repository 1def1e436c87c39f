package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxleyk/meridian/internal/ui"
)

// nowCmd projects one instant across the active zone set and prints a table.
var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Print the current instant across all configured zones",
	Long: `Project a single instant (now, or --at) into every configured zone
and print the local representations, with markers for night, weekend and
upcoming DST transitions.`,
	Args: cobra.NoArgs,
	RunE: runNow,
}

func init() {
	nowCmd.Flags().String("at", "", "instant to project (RFC 3339, default now)")
	rootCmd.AddCommand(nowCmd)
}

func runNow(cmd *cobra.Command, _ []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.close()

	at := time.Now()
	if s, _ := cmd.Flags().GetString("at"); s != "" {
		at, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}

	ctx := context.Background()
	zones, err := sess.zoneSet(ctx)
	if err != nil {
		return err
	}
	eng, err := sess.buildEngine(zones)
	if err != nil {
		return err
	}
	defer eng.Dispose()
	eng.Advance(at)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", at.Format(time.RFC1123))
	for _, z := range eng.Zones() {
		proj, err := eng.Project(at, z.ID)
		if err != nil {
			continue
		}
		flags, err := eng.Classify(eng.Sequence().At(eng.Sequence().FloorIndex(at)), z.ID)
		if err != nil {
			continue
		}

		var marks []string
		if flags.Night {
			marks = append(marks, "night")
		}
		if flags.Weekend {
			marks = append(marks, "weekend")
		}
		if flags.NearDST {
			marks = append(marks, "DST change <24h")
		}

		label := ui.Slot(proj)
		if !proj.Mars {
			label = fmt.Sprintf("%s %s %s", label, ui.Weekday(proj.Weekday), ui.Offset(proj.OffsetMinutes))
		}
		line := fmt.Sprintf("%-28s %s", z.DisplayName(), label)
		if len(marks) > 0 {
			line += "  [" + strings.Join(marks, ", ") + "]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
