// Package horizons is a client for the JPL Horizons ephemeris API. One
// request returns a target's predicted daily positions for an observatory
// over a date range; requests are rate limited because the API is a
// shared public service.
package horizons

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/logger"
)

// mjdToJDOffset converts a modified Julian date to a Julian date.
const mjdToJDOffset = 2400000.5

// Client calls the Horizons API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Horizons client. requestsPerSecond throttles the
// sustained request rate; bursts of one are allowed.
func NewClient(baseURL string, requestsPerSecond float64, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Ephemeris returns daily predicted positions for the target as seen from
// the observatory between startMJD and stopMJD.
func (c *Client) Ephemeris(
	ctx context.Context, target domain.MovingTarget, obscode string, startMJD, stopMJD float64,
) (domain.Ephemeris, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("format", "json")
	query.Set("COMMAND", fmt.Sprintf("'%s;'", target.Designation))
	query.Set("OBJ_DATA", "'NO'")
	query.Set("MAKE_EPHEM", "'YES'")
	query.Set("EPHEM_TYPE", "'OBSERVER'")
	query.Set("CENTER", fmt.Sprintf("'%s@399'", obscode))
	query.Set("START_TIME", fmt.Sprintf("'JD %.6f'", startMJD+mjdToJDOffset))
	query.Set("STOP_TIME", fmt.Sprintf("'JD %.6f'", stopMJD+mjdToJDOffset))
	query.Set("STEP_SIZE", "'1d'")
	// 1: astrometric RA/Dec, 3: sky motion, 9: visual magnitude,
	// 19: heliocentric range, 20: observer range, 24: phase angle,
	// 37: plane-of-sky error ellipse.
	query.Set("QUANTITIES", "'1,3,9,19,20,24,37'")
	query.Set("ANG_FORMAT", "'DEG'")
	query.Set("TIME_DIGITS", "'SECONDS'")
	query.Set("CSV_FORMAT", "'YES'")

	requestURL := c.baseURL + "?" + query.Encode()
	logger.Debug("horizons: GET %s", requestURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling horizons: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading horizons response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("horizons returned %s", resp.Status)
	}

	var payload struct {
		Result string `json:"result"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding horizons response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("horizons: %s", payload.Error)
	}

	return parseEphemeris(payload.Result, target.Designation)
}

// Column offsets in a CSV observer table for the requested quantities.
// The first three columns are the date and the solar/lunar presence flags.
const (
	colDate = iota
	_       // solar presence
	_       // lunar presence / interference
	colRA
	colDec
	colDRACosDec
	colDDec
	colVMag
	_ // surface brightness
	colRh
	_ // rdot
	colDelta
	_ // deldot
	colPhase
	colUncA
	colUncB
	colUncTheta
	minColumns = colUncTheta + 1
)

// dateLayout matches Horizons calendar dates, e.g. "2019-Mar-01 00:00:00".
const dateLayout = "2006-Jan-02 15:04:05"

// parseEphemeris extracts the table between the $$SOE and $$EOE markers.
func parseEphemeris(result, designation string) (domain.Ephemeris, error) {
	start := strings.Index(result, "$$SOE")
	stop := strings.Index(result, "$$EOE")
	if start < 0 || stop < 0 || stop < start {
		// Horizons reports lookup failures in prose, without the table.
		summary := strings.TrimSpace(result)
		if len(summary) > 200 {
			summary = summary[:200]
		}
		return nil, fmt.Errorf("no ephemeris for %q: %s", designation, summary)
	}

	var eph domain.Ephemeris //nolint:prealloc // size unknown until parsed
	for _, line := range strings.Split(result[start+len("$$SOE"):stop], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < minColumns {
			return nil, fmt.Errorf("short ephemeris row: %q", line)
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		epoch, err := time.Parse(dateLayout, strings.TrimSuffix(fields[colDate], " UT"))
		if err != nil {
			return nil, fmt.Errorf("parsing ephemeris date %q: %w", fields[colDate], err)
		}

		point := domain.EphemerisPoint{MJD: domain.MJDFromTime(epoch.UTC())}
		for _, column := range []struct {
			index int
			dest  *float64
		}{
			{colRA, &point.RA},
			{colDec, &point.Dec},
			{colDRACosDec, &point.DRAcosDec},
			{colDDec, &point.DDec},
			{colVMag, &point.VMag},
			{colRh, &point.Rh},
			{colDelta, &point.Delta},
			{colPhase, &point.Phase},
			{colUncA, &point.UncA},
			{colUncB, &point.UncB},
			{colUncTheta, &point.UncTheta},
		} {
			*column.dest = parseValue(fields[column.index])
		}

		eph = append(eph, point)
	}

	if len(eph) == 0 {
		return nil, fmt.Errorf("empty ephemeris for %q", designation)
	}
	return eph, nil
}

// parseValue reads one table cell. Horizons reports unavailable values as
// "n.a.", which map to zero.
func parseValue(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
