package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the archive database for inconsistencies",
	Long: `Runs SQLite's integrity check plus the referential invariants the
schema cannot express: found rows must point at existing observations,
every query must have reached a terminal state, and recorded query
sources must be known to this deployment.

Exits non-zero when any defect is found.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	if store == nil || registry == nil {
		return errors.New("store not configured")
	}

	known := make([]string, 0, len(registry.All()))
	for _, source := range registry.All() {
		known = append(known, source.ID())
	}

	report, err := store.Verify(cmd.Context(), known)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	cmd.Printf("Integrity:        %s\n", report.Integrity)
	cmd.Printf("Orphaned founds:  %d\n", report.OrphanedFounds)
	cmd.Printf("Dangling queries: %d\n", report.DanglingQueries)
	cmd.Printf("Unknown sources:  %d\n", report.UnknownSources)
	cmd.Printf("Cached copies:    %d\n", report.CachedCopies)

	if !report.OK() {
		return errors.New("archive has defects")
	}
	cmd.Println("OK")
	return nil
}
