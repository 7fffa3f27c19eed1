package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driving"
)

var (
	fixedSources      []string
	fixedPadding      float64
	fixedIntersection string
	fixedJSON         bool
)

var fixedCmd = &cobra.Command{
	Use:   "fixed [ra] [dec]",
	Short: "Search the archives for a fixed sky position",
	Long: `Searches survey archives for exposures covering a fixed sky position,
given as right ascension and declination in decimal degrees.

With --padding the position becomes a circular area and --intersection
selects how exposures must relate to it: ImageIntersectsArea (default),
ImageContainsArea or AreaContainsImage. Fixed searches always run fresh;
results are still recorded under a job ID for later retrieval.`,
	Args: cobra.ExactArgs(2),
	RunE: runFixed,
}

func init() {
	fixedCmd.Flags().StringSliceVarP(&fixedSources, "source", "s", nil, "source to search (repeatable; default all)")
	fixedCmd.Flags().Float64Var(&fixedPadding, "padding", 0, "area radius around the position, arcmin")
	fixedCmd.Flags().StringVar(&fixedIntersection, "intersection", "", "areal intersection requirement")
	fixedCmd.Flags().BoolVar(&fixedJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(fixedCmd)
}

func runFixed(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	ra, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid right ascension %q", args[0])
	}
	dec, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid declination %q", args[1])
	}
	if ra < 0 || ra >= 360 {
		return fmt.Errorf("right ascension %g out of range [0, 360)", ra)
	}
	if dec < -90 || dec > 90 {
		return fmt.Errorf("declination %g out of range [-90, 90]", dec)
	}

	params := domain.SearchParams{Padding: fixedPadding}
	if fixedIntersection != "" {
		it := domain.IntersectionType(fixedIntersection)
		if !it.Valid() {
			return fmt.Errorf("invalid intersection type %q", fixedIntersection)
		}
		params.IntersectionType = &it
	}

	jobID := uuid.New()
	result, err := searchService.Query(cmd.Context(),
		domain.FixedTarget{RA: ra, Dec: dec}, jobID, driving.QueryOptions{
			Sources: fixedSources,
			Params:  params,
		})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if fixedJSON {
		data, err := json.MarshalIndent(result.Observations, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Job %s\n", jobID)
	return outputObservationTable(cmd, result.Observations)
}

func outputObservationTable(cmd *cobra.Command, observations []domain.Observation) error {
	if len(observations) == 0 {
		cmd.Println("No observations found.")
		return nil
	}

	cmd.Printf("Found %d observation%s:\n\n", len(observations), plural(len(observations)))
	for i, obs := range observations {
		mid := domain.TimeFromMJD((obs.MJDStart + obs.MJDStop) / 2)
		cmd.Printf("  [%d] %s %s\n", i+1, obs.Source, obs.ProductID)
		cmd.Printf("      %s  RA %.5f  Dec %+.5f  FOV %.2f deg\n",
			mid.Format("2006-01-02 15:04:05"), obs.RA, obs.Dec, obs.FOVRadius)
	}
	return nil
}
