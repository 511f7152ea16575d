package openmeteo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dkotrba/weatherpipe/errs"
)

// ArchiveResponse is the nested reply from the archive API: an hourly block
// of per-variable value arrays aligned to a shared timestamp axis, plus the
// UTC offset the timestamps are expressed in. It is transient; the tabular
// stage consumes it immediately.
type ArchiveResponse struct {
	Latitude         float64           `json:"latitude"`
	Longitude        float64           `json:"longitude"`
	UTCOffsetSeconds int               `json:"utc_offset_seconds"`
	Timezone         string            `json:"timezone"`
	HourlyUnits      map[string]string `json:"hourly_units"`
	Hourly           HourlyBlock       `json:"hourly"`
}

// HourlyBlock holds the "hourly" object: a "time" string array plus one
// value array per variable. With multiple models requested, variable keys
// carry a "_<model>" suffix.
type HourlyBlock struct {
	Time      []string
	Variables map[string][]*float64
}

// UnmarshalJSON splits the block into the timestamp axis and the value
// arrays. Null array entries become nil pointers.
func (b *HourlyBlock) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	timeRaw, ok := raw["time"]
	if !ok {
		return fmt.Errorf("hourly block has no time axis")
	}
	if err := json.Unmarshal(timeRaw, &b.Time); err != nil {
		return fmt.Errorf("hourly time axis: %w", err)
	}
	b.Variables = make(map[string][]*float64, len(raw)-1)
	for key, msg := range raw {
		if key == "time" {
			continue
		}
		var values []*float64
		if err := json.Unmarshal(msg, &values); err != nil {
			return fmt.Errorf("hourly array %q: %w", key, err)
		}
		b.Variables[key] = values
	}
	return nil
}

// ModelSeries is one model's slice of the reply: a timestamp axis (UTC)
// plus one value array per source variable name, suffixes stripped.
type ModelSeries struct {
	Model  string
	Times  []time.Time
	Values map[string][]*float64
}

// Series splits the response into per-model series for the requested
// models. Timestamps are parsed in the reply's fixed UTC offset and
// converted to UTC. A variable key that maps to none of the requested
// models is a *errs.DecodeError.
func (r *ArchiveResponse) Series(models []string) ([]ModelSeries, error) {
	times, err := r.parseTimes()
	if err != nil {
		return nil, err
	}

	// Longest suffix first so era5_land is not claimed by era5.
	byLength := append([]string(nil), models...)
	sort.Slice(byLength, func(i, j int) bool { return len(byLength[i]) > len(byLength[j]) })

	perModel := make(map[string]map[string][]*float64, len(models))
	for _, m := range models {
		perModel[m] = make(map[string][]*float64)
	}

	for key, values := range r.Hourly.Variables {
		variable, model, ok := splitVariableKey(key, byLength)
		if !ok && len(models) == 1 {
			// Single-model replies come back without a suffix.
			variable, model, ok = key, models[0], true
		}
		if !ok {
			return nil, &errs.DecodeError{
				Detail: fmt.Sprintf("hourly array %q matches no requested model", key),
			}
		}
		perModel[model][variable] = values
	}

	series := make([]ModelSeries, 0, len(models))
	for _, m := range models {
		series = append(series, ModelSeries{Model: m, Times: times, Values: perModel[m]})
	}
	return series, nil
}

func (r *ArchiveResponse) parseTimes() ([]time.Time, error) {
	// The API returns local times at a fixed UTC offset, not a zone name,
	// so a named location would mishandle DST transitions.
	zone := time.FixedZone("archive", r.UTCOffsetSeconds)
	times := make([]time.Time, len(r.Hourly.Time))
	for i, s := range r.Hourly.Time {
		t, err := time.ParseInLocation("2006-01-02T15:04", s, zone)
		if err != nil {
			return nil, &errs.DecodeError{
				Detail: fmt.Sprintf("timestamp %q at position %d", s, i),
				Cause:  err,
			}
		}
		times[i] = t.UTC()
	}
	return times, nil
}

func splitVariableKey(key string, modelsByLength []string) (variable, model string, ok bool) {
	for _, m := range modelsByLength {
		if strings.HasSuffix(key, "_"+m) {
			return strings.TrimSuffix(key, "_"+m), m, true
		}
	}
	return "", "", false
}
