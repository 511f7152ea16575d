package frame

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dkotrba/weatherpipe/errs"
	"github.com/dkotrba/weatherpipe/openmeteo"
)

func ptr(v float64) *float64 { return &v }

func hours(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return out
}

var t0 = time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)

// TestNewWideUnionOfTimestamps checks the missing-data policy: timestamps
// present in one model's series but not another are retained with NaN
// markers, and the output index is exactly the union.
func TestNewWideUnionOfTimestamps(t *testing.T) {
	t1, t2, t3 := t0, t0.Add(time.Hour), t0.Add(2*time.Hour)

	series := []openmeteo.ModelSeries{
		{
			Model: "era5",
			Times: []time.Time{t1, t2},
			Values: map[string][]*float64{
				"temperature_2m": {ptr(10), ptr(11)},
			},
		},
		{
			Model: "cerra",
			Times: []time.Time{t2, t3},
			Values: map[string][]*float64{
				"temperature_2m": {ptr(20), ptr(21)},
			},
		},
	}

	w, err := NewWide(series, FillNone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []time.Time{t1, t2, t3}
	if w.Len() != 3 {
		t.Fatalf("index length = %d, want 3", w.Len())
	}
	for i, ts := range w.Times() {
		if !ts.Equal(want[i]) {
			t.Errorf("index[%d] = %v, want %v", i, ts, want[i])
		}
	}

	era5, _ := w.Column(ColumnKey{Model: "era5", Variable: "temperature_2m"})
	cerra, _ := w.Column(ColumnKey{Model: "cerra", Variable: "temperature_2m"})
	if !math.IsNaN(era5[2]) {
		t.Errorf("era5 at t3 = %v, want NaN", era5[2])
	}
	if !math.IsNaN(cerra[0]) {
		t.Errorf("cerra at t1 = %v, want NaN", cerra[0])
	}
	if era5[0] != 10 || era5[1] != 11 || cerra[1] != 20 || cerra[2] != 21 {
		t.Errorf("observed values misplaced: era5=%v cerra=%v", era5, cerra)
	}
}

// TestNewWideZonedTimestamps feeds a series whose timestamps carry a
// non-UTC location: values must land on the rows of their instants, not
// collapse onto row 0 because the index lookup compared locations.
func TestNewWideZonedTimestamps(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	series := []openmeteo.ModelSeries{{
		Model: "era5",
		Times: []time.Time{
			t0.In(cet),
			t0.Add(time.Hour).In(cet),
			t0.Add(2 * time.Hour).In(cet),
		},
		Values: map[string][]*float64{
			"temperature_2m": {ptr(10), ptr(11), ptr(12)},
		},
	}}

	w, err := NewWide(series, FillNone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	col, _ := w.Column(ColumnKey{Model: "era5", Variable: "temperature_2m"})
	want := []float64{10, 11, 12}
	for i, v := range want {
		if col[i] != v {
			t.Fatalf("column = %v, want %v", col, want)
		}
	}
}

func TestNewWideShapeError(t *testing.T) {
	series := []openmeteo.ModelSeries{{
		Model: "era5",
		Times: hours(t0, 3),
		Values: map[string][]*float64{
			"temperature_2m": {ptr(1), ptr(2), ptr(3)},
			"rain":           {ptr(0)},
		},
	}}

	_, err := NewWide(series, FillNone)
	var serr *errs.ShapeError
	if !errors.As(err, &serr) {
		t.Fatalf("expected shape error, got %v", err)
	}
	if serr.Variable != "rain" || serr.Got != 1 || serr.Want != 3 {
		t.Errorf("shape error detail = %+v", serr)
	}
}

func TestFillPolicies(t *testing.T) {
	mk := func(fill FillPolicy) []float64 {
		series := []openmeteo.ModelSeries{{
			Model: "era5",
			Times: hours(t0, 5),
			Values: map[string][]*float64{
				"temperature_2m": {nil, ptr(10), nil, nil, ptr(16)},
			},
		}}
		w, err := NewWide(series, fill)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		col, _ := w.Column(ColumnKey{Model: "era5", Variable: "temperature_2m"})
		return col
	}

	none := mk(FillNone)
	if !math.IsNaN(none[0]) || !math.IsNaN(none[2]) || !math.IsNaN(none[3]) {
		t.Errorf("FillNone should keep NaN markers: %v", none)
	}

	fwd := mk(FillForward)
	if !math.IsNaN(fwd[0]) {
		t.Errorf("leading gap must stay NaN under forward fill: %v", fwd)
	}
	if fwd[2] != 10 || fwd[3] != 10 {
		t.Errorf("forward fill = %v", fwd)
	}

	lin := mk(FillInterpolate)
	if !math.IsNaN(lin[0]) {
		t.Errorf("edge gap must stay NaN under interpolation: %v", lin)
	}
	if math.Abs(lin[2]-12) > 1e-9 || math.Abs(lin[3]-14) > 1e-9 {
		t.Errorf("interpolation = %v", lin)
	}
}

// TestWideIndexProperties drives the union policy with generated overlap
// patterns: the index is always strictly increasing, duplicate free, and
// exactly as long as the union of the input axes.
func TestWideIndexProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("index is the sorted union", prop.ForAll(
		func(offsetsA, offsetsB []int8) bool {
			mk := func(model string, offsets []int8) openmeteo.ModelSeries {
				seen := make(map[int8]bool)
				s := openmeteo.ModelSeries{Model: model, Values: map[string][]*float64{}}
				for _, o := range offsets {
					if seen[o] {
						continue
					}
					seen[o] = true
					s.Times = append(s.Times, t0.Add(time.Duration(o)*time.Hour))
					s.Values["temperature_2m"] = append(s.Values["temperature_2m"], ptr(float64(o)))
				}
				return s
			}
			a, b := mk("era5", offsetsA), mk("cerra", offsetsB)

			w, err := NewWide([]openmeteo.ModelSeries{a, b}, FillNone)
			if err != nil {
				return false
			}

			union := make(map[time.Time]bool)
			for _, ts := range a.Times {
				union[ts] = true
			}
			for _, ts := range b.Times {
				union[ts] = true
			}
			if w.Len() != len(union) {
				return false
			}
			for i := 1; i < w.Len(); i++ {
				if !w.Times()[i-1].Before(w.Times()[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int8()),
		gen.SliceOf(gen.Int8()),
	))

	properties.TestingRun(t)
}
