// Package stats holds the exploratory aggregations built on top of the
// tidy tables: meteorological seasons, daily temperature resampling and
// the WMO weather code vocabulary.
package stats

import (
	"fmt"
	"time"

	"github.com/dkotrba/weatherpipe/errs"
)

// Season labels, meteorological convention (winter is Dec-Feb).
const (
	Winter = "winter"
	Spring = "spring"
	Summer = "summer"
	Autumn = "autumn"
)

var seasonNames = map[string]bool{Winter: true, Spring: true, Summer: true, Autumn: true}

// Seasons labels each timestamp with its meteorological season. The output
// is checked against the season vocabulary before being returned.
func Seasons(times []time.Time) ([]string, error) {
	labels := make([]string, len(times))
	for i, t := range times {
		labels[i] = seasonOf(t.Month())
	}
	if err := ValidateSeasons(labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func seasonOf(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Autumn
	}
}

// ValidateSeasons checks that every label belongs to the season vocabulary
// and reports all out-of-vocabulary labels at once.
func ValidateSeasons(labels []string) error {
	var violations []errs.ColumnViolation
	for i, l := range labels {
		if !seasonNames[l] {
			violations = append(violations, errs.ColumnViolation{
				Column:     "season",
				Constraint: "isin {winter, spring, summer, autumn}",
				Detail:     fmt.Sprintf("%q at position %d", l, i),
			})
		}
	}
	if len(violations) > 0 {
		return &errs.SchemaError{Schema: "seasons", Violations: violations}
	}
	return nil
}
