// Package cmd implements the portfoyctl command tree.
package cmd

import (
	"log/slog"

	"github.com/ramazansancar/stock-cost-calculator/internal/app"
	"github.com/ramazansancar/stock-cost-calculator/internal/config"
	"github.com/ramazansancar/stock-cost-calculator/pkg/utils"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RootConfig holds the persistent flags shared by every subcommand.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	Profile    string
	Verbose    bool
}

func New() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "portfoyctl",
		Short: "Inspect and maintain a portfoy database",
		Long: `portfoyctl works directly on the portfoy database file.

It can print the portfolio summary and the copyable report, export and
import snapshots, manage stored profiles and clear the active log.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&rc.ConfigPath, "config", utils.GetEnv("CONFIG_PATH", "config.yaml"), "config file")
	flags.StringVar(&rc.DBPath, "db", "", "database path (overrides config)")
	flags.StringVar(&rc.Profile, "profile", "", "profile to act on (default: owner)")
	flags.BoolVarP(&rc.Verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(
		newSummaryCmd(rc),
		newReportCmd(rc),
		newExportCmd(rc),
		newImportCmd(rc),
		newProfilesCmd(rc),
		newClearCmd(rc),
		newRefreshCmd(rc),
	)
	return cmd
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return New().Execute()
}

// withApp opens the database for one command run and closes it afterwards.
func (rc *RootConfig) withApp(cmd *cobra.Command, fn func(*app.App) error) error {
	cfg, err := config.Load(rc.ConfigPath)
	if err != nil {
		return err
	}
	if rc.DBPath != "" {
		cfg.Database.Path = rc.DBPath
	}

	level := slog.LevelWarn
	if rc.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	a, err := app.New(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if rc.Profile != "" && rc.Profile != a.Profiles.ActiveID() {
		if _, ok := a.Profiles.Profile(rc.Profile); !ok {
			return errors.Errorf("profile %q not found", rc.Profile)
		}
		a.Ledger.SwitchProfile(rc.Profile)
	}
	return fn(a)
}
