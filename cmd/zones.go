package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxleyk/meridian/internal/catalog"
	"github.com/oxleyk/meridian/internal/mars"
	"github.com/oxleyk/meridian/internal/store"
	"github.com/oxleyk/meridian/internal/zone"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Manage the persisted zone set",
}

var zonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured zones",
	Args:  cobra.NoArgs,
	RunE:  runZonesList,
}

var zonesAddCmd = &cobra.Command{
	Use:   "add <zone-id>",
	Short: "Add a zone (IANA name or mars/<site>)",
	Long: `Add a zone to the persisted set. Civil zones use IANA names
("Europe/Paris"); Mars zones use the mars/ namespace ("mars/perseverance").
The identifier is validated before it is stored — an unknown name is
rejected here, never at render time.`,
	Args: cobra.ExactArgs(1),
	RunE: runZonesAdd,
}

var zonesRemoveCmd = &cobra.Command{
	Use:   "remove <zone-id>",
	Short: "Remove a zone from the persisted set",
	Args:  cobra.ExactArgs(1),
	RunE:  runZonesRemove,
}

func init() {
	zonesAddCmd.Flags().String("name", "", "display name")
	zonesAddCmd.Flags().String("country", "", "country code")
	zonesAddCmd.Flags().Float64("lat", 0, "latitude (enables weather)")
	zonesAddCmd.Flags().Float64("lon", 0, "longitude (enables weather)")

	zonesCmd.AddCommand(zonesListCmd, zonesAddCmd, zonesRemoveCmd)
	rootCmd.AddCommand(zonesCmd)
}

func runZonesList(cmd *cobra.Command, _ []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.close()

	zones, err := sess.zoneSet(context.Background())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, z := range zones {
		kind := "civil"
		if z.Kind() == zone.KindMars {
			kind = "mars"
		}
		fmt.Fprintf(out, "%-28s %-6s %s\n", z.ID, kind, z.DisplayName())
	}
	return nil
}

func runZonesAdd(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.close()

	id := args[0]
	name, _ := cmd.Flags().GetString("name")
	country, _ := cmd.Flags().GetString("country")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")

	z := zone.Zone{ID: id, Name: name, Country: country}
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
		z.Latitude, z.Longitude, z.HasCoords = lat, lon, true
	}

	cat, err := catalog.Load(sess.catalogPath())
	if err != nil {
		return err
	}
	z = cat.Apply(z)

	// Validate through the same registration path the dashboard uses.
	if err := validateZone(z); err != nil {
		return err
	}

	ctx := context.Background()
	st, err := store.Open(ctx, sess.storePath())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Add(ctx, store.Zone{
		ID:        z.ID,
		Name:      z.Name,
		Country:   z.Country,
		Latitude:  z.Latitude,
		Longitude: z.Longitude,
		HasCoords: z.HasCoords,
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", z.ID)
	return nil
}

func runZonesRemove(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.close()

	ctx := context.Background()
	st, err := store.Open(ctx, sess.storePath())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Remove(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
	return nil
}

// validateZone applies the registration-time identifier checks without
// building a full engine.
func validateZone(z zone.Zone) error {
	if z.Kind() == zone.KindMars {
		if _, ok := mars.Lookup(z.ID); ok {
			return nil
		}
		if z.MarsLongitudeE != 0 {
			return nil
		}
		known := make([]string, 0, len(mars.Sites()))
		for _, s := range mars.Sites() {
			known = append(known, s.ID)
		}
		return fmt.Errorf("unknown mars zone %q (known: %s; or define it in zones.toml with mars_longitude_e)",
			z.ID, strings.Join(known, ", "))
	}
	p := zone.NewCivilProjector()
	return p.Resolve(z.ID)
}
