// Package cli implements the skycatch command line interface.
package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/skycatch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/skycatch/internal/adapters/driven/horizons"
	"github.com/custodia-labs/skycatch/internal/adapters/driven/messenger"
	"github.com/custodia-labs/skycatch/internal/adapters/driven/spatial"
	"github.com/custodia-labs/skycatch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/skycatch/internal/core/ports/driving"
	"github.com/custodia-labs/skycatch/internal/core/services"
	"github.com/custodia-labs/skycatch/internal/logger"
	"github.com/custodia-labs/skycatch/internal/sources"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagConfigDir string
	flagDataDir   string
	flagVerbose   bool
)

// Services wired by initServices and shared by all commands.
var (
	cfg           file.Config
	store         *sqlite.Store
	registry      *sources.Registry
	searchService driving.SearchService
	statsService  driving.StatsService
)

var rootCmd = &cobra.Command{
	Use:   "skycatch",
	Short: "Search astronomical survey archives for comets and asteroids",
	Long: `skycatch searches archived survey exposures for moving targets along
their predicted ephemerides, and for fixed sky positions. Searches are
cached: repeating an equivalent query reuses the stored results instead
of recomputing them.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Help and completion must work without a database.
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.skycatch)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory holding the observation archive")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable diagnostic logging")
}

// initServices loads the configuration, opens the archive and wires the
// core services.
func initServices() error {
	// Already wired, either by a prior command in the same process or by
	// a test harness.
	if searchService != nil {
		return nil
	}

	var err error
	cfg, err = file.Load(flagConfigDir)
	if err != nil {
		return err
	}

	if flagVerbose || cfg.Verbose {
		logger.SetVerbose(true)
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = cfg.DataDir
	}

	store, err = sqlite.NewStore(dataDir)
	if err != nil {
		return err
	}
	logger.Debug("archive: %s", store.Path())

	registry = sources.NewRegistry(store.ObservationStore())

	ephemerides := horizons.NewClient(
		cfg.Horizons.BaseURL,
		cfg.Horizons.RequestsPerSecond,
		time.Duration(cfg.Horizons.TimeoutSeconds)*time.Second,
	)
	engine := spatial.NewEngine(ephemerides, store.ObservationStore())
	messengers := &messenger.ConsoleFactory{Out: os.Stderr}

	searchService = services.NewDispatcher(
		registry, store.QueryStore(), store.FoundStore(), engine, messengers)
	statsService = services.NewStatsAggregator(
		registry, store.ObservationStore(), store.StatsStore(), store.QueryStore())

	return nil
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if store != nil {
			store.Close() //nolint:errcheck
		}
	}()
	return rootCmd.Execute()
}
