package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/skycatch/internal/core/domain"
)

var caughtJSON bool

var caughtCmd = &cobra.Command{
	Use:   "caught [job-id]",
	Short: "List the observations caught by a job",
	Long: `Lists every observation matched under a job, joined to the predicted
position and circumstances of the target at each exposure.`,
	Args: cobra.ExactArgs(1),
	RunE: runCaught,
}

func init() {
	caughtCmd.Flags().BoolVar(&caughtJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(caughtCmd)
}

func runCaught(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	jobID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job ID %q: %w", args[0], err)
	}

	caught, err := searchService.Caught(cmd.Context(), jobID)
	if err != nil {
		return fmt.Errorf("loading results: %w", err)
	}

	if caughtJSON {
		data, err := json.MarshalIndent(caught, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputCaughtTable(cmd, caught)
}

func outputCaughtTable(cmd *cobra.Command, caught []domain.CaughtObservation) error {
	if len(caught) == 0 {
		cmd.Println("No observations caught.")
		return nil
	}

	cmd.Printf("Caught %d observation%s:\n\n", len(caught), plural(len(caught)))
	for i, c := range caught {
		when := domain.TimeFromMJD(c.Found.MJD)
		cmd.Printf("  [%d] %s %s\n", i+1, c.Observation.Source, c.Observation.ProductID)
		cmd.Printf("      %s  RA %.5f  Dec %+.5f\n",
			when.Format("2006-01-02 15:04:05"), c.Found.RA, c.Found.Dec)
		cmd.Printf("      V %.1f  rh %.3f au  Delta %.3f au  phase %.1f deg\n",
			c.Found.VMag, c.Found.Rh, c.Found.Delta, c.Found.Phase)
	}
	return nil
}
