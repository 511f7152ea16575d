package openmeteo

import (
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dkotrba/weatherpipe/errs"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewQueryValid(t *testing.T) {
	q, err := NewQuery(50.10, 14.26,
		date(2010, time.March, 21), date(2010, time.March, 31),
		[]string{"temperature_2m"}, []string{ModelBestMatch})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := q.Values().Get("hourly"); got != "temperature_2m" {
		t.Errorf("hourly param = %q, want temperature_2m", got)
	}
	if got := q.Values().Get("start_date"); got != "2010-03-21" {
		t.Errorf("start_date param = %q, want 2010-03-21", got)
	}
}

// TestNewQueryReportsEveryViolation verifies that a query with several
// out-of-domain fields fails with a ValidationError naming all of them.
func TestNewQueryReportsEveryViolation(t *testing.T) {
	_, err := NewQuery(95, -200,
		date(2010, time.March, 31), date(2010, time.March, 21),
		[]string{"temperature_3km"}, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *errs.ValidationError, got %T", err)
	}

	want := map[string]bool{
		"Latitude":        false,
		"Longitude":       false,
		"EndDate":         false,
		"HourlyVariables": false,
		"Models":          false,
	}
	for _, f := range verr.Fields() {
		// Slice elements report as HourlyVariables[0] etc.
		for name := range want {
			if f == name || len(f) > len(name) && f[:len(name)] == name {
				want[name] = true
			}
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("violation for %s not reported; got %v", name, verr.Fields())
		}
	}
}

func TestNewQuerySameDayRangeIsValid(t *testing.T) {
	_, err := NewQuery(0, 0,
		date(2022, time.June, 1), date(2022, time.June, 1),
		[]string{"temperature_2m"}, []string{ModelERA5})
	if err != nil {
		t.Fatalf("start == end should be a valid closed range: %v", err)
	}
}

func TestQueryCoordinateDomains(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	start, end := date(2020, time.January, 1), date(2020, time.January, 2)
	variables := []string{"temperature_2m"}
	models := []string{ModelBestMatch}

	properties.Property("in-domain coordinates always build", prop.ForAll(
		func(lat, lon float64) bool {
			_, err := NewQuery(lat, lon, start, end, variables, models)
			return err == nil
		},
		gen.Float64Range(-90, 90),
		gen.Float64Range(-180, 180),
	))

	properties.Property("out-of-domain latitude always fails naming Latitude", prop.ForAll(
		func(excess float64) bool {
			_, err := NewQuery(90+excess, 0, start, end, variables, models)
			var verr *errs.ValidationError
			if !errors.As(err, &verr) {
				return false
			}
			for _, f := range verr.Fields() {
				if f == "Latitude" {
					return true
				}
			}
			return false
		},
		gen.Float64Range(0.001, 1e6),
	))

	properties.TestingRun(t)
}
