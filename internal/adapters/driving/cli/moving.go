package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driving"
)

var (
	movingSources     []string
	movingNoCache     bool
	movingStart       string
	movingStop        string
	movingPadding     float64
	movingUncertainty bool
	movingJob         string
)

var movingCmd = &cobra.Command{
	Use:   "moving [designation]",
	Short: "Search the archives for a moving target",
	Long: `Searches survey archives for exposures crossed by a moving target's
predicted ephemeris. The target is identified by designation, e.g. "65P"
or "2019 XS".

Results are cached: repeating an equivalent search copies the stored
matches instead of recomputing them. Use --no-cache to force a fresh
search. Retrieve the matches afterwards with "skycatch caught <job-id>".`,
	Args: cobra.ExactArgs(1),
	RunE: runMoving,
}

func init() {
	movingCmd.Flags().StringSliceVarP(&movingSources, "source", "s", nil, "source to search (repeatable; default all)")
	movingCmd.Flags().BoolVar(&movingNoCache, "no-cache", false, "ignore cached results and search fresh")
	movingCmd.Flags().StringVar(&movingStart, "start", "", "earliest observation date (YYYY-MM-DD or RFC 3339)")
	movingCmd.Flags().StringVar(&movingStop, "stop", "", "latest observation date (YYYY-MM-DD or RFC 3339)")
	movingCmd.Flags().Float64Var(&movingPadding, "padding", 0, "extra padding around the search area, arcmin")
	movingCmd.Flags().BoolVar(&movingUncertainty, "uncertainty-ellipse", false, "widen the match radius by the ephemeris uncertainty")
	movingCmd.Flags().StringVar(&movingJob, "job", "", "job ID to record results under (default: new)")
	rootCmd.AddCommand(movingCmd)
}

func runMoving(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	target := domain.MovingTarget{Designation: args[0]}

	params := domain.SearchParams{
		Padding:            movingPadding,
		UncertaintyEllipse: movingUncertainty,
	}
	var err error
	if params.StartDate, err = parseDateFlag(movingStart); err != nil {
		return err
	}
	if params.StopDate, err = parseDateFlag(movingStop); err != nil {
		return err
	}

	jobID, err := resolveJobID(movingJob)
	if err != nil {
		return err
	}

	result, err := searchService.Query(cmd.Context(), target, jobID, driving.QueryOptions{
		Sources: movingSources,
		Cached:  !movingNoCache,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	cmd.Printf("Job %s\n", jobID)
	cmd.Printf("Caught %d observation%s\n", result.Count, plural(result.Count))
	if result.Count > 0 {
		cmd.Printf("Run \"skycatch caught %s\" to list them.\n", jobID)
	}
	return nil
}

// resolveJobID parses a user-supplied job ID or mints a fresh one.
// Results are keyed by random job IDs, so only version 4 is accepted.
func resolveJobID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid job ID %q: %w", s, err)
	}
	if id.Version() != 4 {
		return uuid.Nil, fmt.Errorf("invalid job ID %q: not a version 4 UUID", s)
	}
	return id, nil
}

// parseDateFlag parses an optional date flag. Dates without a time of day
// are taken as midnight UTC.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
}

// plural returns "s" unless n is 1.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
