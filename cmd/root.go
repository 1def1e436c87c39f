package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "meridian",
	Short: "Multi-zone time grid dashboard, Mars included",
	Long: "Meridian shows the same moment across every zone you care about — " +
		"geographic time zones and Mars landing sites — on one scrollable, " +
		"pinnable half-hour grid.",
	RunE: runRootDefault,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .meridian.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log", "development", "log mode: development or production")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_mode", rootCmd.PersistentFlags().Lookup("log"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".meridian")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("MERIDIAN")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// runRootDefault auto-launches the dashboard when a .meridian/ workspace
// exists in the cwd. Otherwise it falls back to showing help.
func runRootDefault(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return cmd.Help()
	}
	dataDir := filepath.Join(wd, ".meridian")
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		return cmd.Help()
	}
	// Delegate to the dashboard subcommand.
	return runDashboard(dashboardCmd, nil)
}
