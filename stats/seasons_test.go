package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dkotrba/weatherpipe/errs"
)

func TestSeasons(t *testing.T) {
	times := []time.Time{
		time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, time.April, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, time.July, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, time.October, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	labels, err := Seasons(times)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{Winter, Spring, Summer, Autumn, Winter}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestSeasonsAlwaysInVocabulary(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every timestamp maps to a season label", prop.ForAll(
		func(unix int64) bool {
			labels, err := Seasons([]time.Time{time.Unix(unix, 0)})
			return err == nil && seasonNames[labels[0]]
		},
		gen.Int64Range(0, 4102444800), // 1970..2100
	))

	properties.TestingRun(t)
}

func TestValidateSeasonsRejectsUnknownLabel(t *testing.T) {
	err := ValidateSeasons([]string{Winter, "fall", Summer})
	var serr *errs.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}
