package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/skycatch/internal/adapters/driving/tui"
	"github.com/custodia-labs/skycatch/internal/core/domain"
)

var (
	statusUpdate bool
	statusSource string
	statusWatch  bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show archive coverage statistics",
	Long: `Shows per-source coverage statistics: observation counts, distinct
observation nights and coverage date ranges, plus an aggregate row
across all sources.

Statistics are stored snapshots; pass --update to recompute them from
the archive first. --watch opens a live view that refreshes whenever
the harvesting pipeline writes new observations.

Keyboard controls in watch mode:
  r        refresh now
  u        recompute statistics
  q, ctrl+c  quit`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusUpdate, "update", false, "recompute statistics before showing them")
	statusCmd.Flags().StringVar(&statusSource, "source", "", "limit --update to one source")
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "watch the archive and refresh live")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	if statusUpdate {
		if err := statsService.UpdateStatistics(cmd.Context(), statusSource); err != nil {
			return fmt.Errorf("updating statistics: %w", err)
		}
	}

	if statusWatch {
		return runWatch(cmd)
	}

	stats, err := statsService.SourceStatistics(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading statistics: %w", err)
	}
	return outputStatsTable(cmd, stats)
}

func runWatch(cmd *cobra.Command) (err error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("--watch requires a terminal")
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in status view: %v\n", r)
			fmt.Fprintf(os.Stderr, "%s\n", debug.Stack())
			err = fmt.Errorf("status view panicked: %v", r)
		}
	}()

	return tui.Run(cmd.Context(), statsService, store.Path())
}

func outputStatsTable(cmd *cobra.Command, stats []domain.SourceStats) error {
	if len(stats) == 0 {
		cmd.Println("No statistics recorded. Run \"skycatch status --update\" first.")
		return nil
	}

	cmd.Printf("%-32s %12s %8s  %-10s  %-10s\n", "SOURCE", "COUNT", "NIGHTS", "FIRST", "LAST")
	for _, row := range stats {
		cmd.Printf("%-32s %12d %8d  %-10s  %-10s\n",
			row.Name, row.Count, row.Nights, formatDate(row.StartDate), formatDate(row.StopDate))
	}
	return nil
}

// formatDate renders an optional coverage bound.
func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
