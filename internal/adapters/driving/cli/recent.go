package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent ingestion and query activity",
	Long: `Summarizes what happened in the trailing 1, 7 and 30 day windows:
observations ingested per source, and query volume by outcome.`,
	RunE: runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, _ []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	activity, err := statsService.RecentActivity(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading recent activity: %w", err)
	}

	cmd.Println("Observations ingested:")
	if len(activity) == 0 {
		cmd.Println("  none")
	}
	for _, row := range activity {
		cmd.Printf("  %-32s %2dd %10d  %s to %s\n",
			row.Name, row.Days, row.Count,
			row.StartDate.Format("2006-01-02"), row.StopDate.Format("2006-01-02"))
	}

	summaries, err := statsService.RecentQueries(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading recent queries: %w", err)
	}

	cmd.Println()
	cmd.Println("Queries:")
	cmd.Printf("  %4s %8s %10s %8s %12s %8s\n",
		"DAYS", "JOBS", "FINISHED", "ERRORED", "IN PROGRESS", "CACHED")
	for _, row := range summaries {
		cmd.Printf("  %4d %8d %10d %8d %12d %8d\n",
			row.Days, row.Jobs, row.Finished, row.Errored, row.InProgress, row.Cached)
	}
	return nil
}
