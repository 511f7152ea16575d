package stats

import (
	"math"
	"testing"
	"time"

	"github.com/dkotrba/weatherpipe/frame"
	"github.com/dkotrba/weatherpipe/openmeteo"
)

func ptr(v float64) *float64 { return &v }

func hourlyTidy(t *testing.T, start time.Time, n int, model string, temps []*float64) *frame.TidyTable {
	t.Helper()
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	w, err := frame.NewWide([]openmeteo.ModelSeries{{
		Model:  model,
		Times:  times,
		Values: map[string][]*float64{"temperature_2m": temps},
	}}, frame.FillNone)
	if err != nil {
		t.Fatalf("wide: %v", err)
	}
	tidy, err := frame.Tidy(w)
	if err != nil {
		t.Fatalf("tidy: %v", err)
	}
	return tidy
}

func TestDailyTemperature(t *testing.T) {
	start := time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)

	// 48 hours: first day ramps 0..23, second day constant 10 with gaps.
	temps := make([]*float64, 48)
	for i := 0; i < 24; i++ {
		temps[i] = ptr(float64(i))
	}
	for i := 24; i < 48; i++ {
		if i%2 == 0 {
			temps[i] = ptr(10)
		}
	}

	daily, err := DailyTemperature(hourlyTidy(t, start, 48, "era5", temps))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if daily.Len() != 2 {
		t.Fatalf("row count = %d, want 2", daily.Len())
	}

	if got := daily.At(0, "temperature_2m_min"); got != 0 {
		t.Errorf("day 1 min = %v, want 0", got)
	}
	if got := daily.At(0, "temperature_2m_max"); got != 23 {
		t.Errorf("day 1 max = %v, want 23", got)
	}
	if got := daily.At(0, "temperature_2m_mean"); math.Abs(got-11.5) > 1e-9 {
		t.Errorf("day 1 mean = %v, want 11.5", got)
	}

	// Missing hours are skipped, not treated as zero.
	if got := daily.At(1, "temperature_2m_mean"); got != 10 {
		t.Errorf("day 2 mean = %v, want 10", got)
	}

	if !daily.Dates()[0].Before(daily.Dates()[1]) {
		t.Error("daily rows not ordered by date")
	}
}

func TestDailyTemperatureAllMissingDay(t *testing.T) {
	start := time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)
	temps := make([]*float64, 24) // one day, no observations

	daily, err := DailyTemperature(hourlyTidy(t, start, 24, "era5", temps))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if daily.Len() != 1 {
		t.Fatalf("row count = %d, want 1", daily.Len())
	}
	if got := daily.At(0, "temperature_2m_mean"); !math.IsNaN(got) {
		t.Errorf("mean of empty day = %v, want NaN", got)
	}
}
