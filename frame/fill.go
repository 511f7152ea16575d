package frame

import (
	"math"
	"time"
)

// FillPolicy decides what happens to timestamps a model's series did not
// cover. Callers pick the policy explicitly; FillNone keeps NaN markers.
type FillPolicy int

const (
	// FillNone leaves missing entries as NaN.
	FillNone FillPolicy = iota
	// FillForward propagates the last observed value forward. Leading
	// gaps stay NaN.
	FillForward
	// FillInterpolate fills interior gaps by time-weighted linear
	// interpolation between the surrounding observations. Edge gaps
	// stay NaN.
	FillInterpolate
)

func applyFill(col []float64, times []time.Time, policy FillPolicy) {
	switch policy {
	case FillForward:
		fillForward(col)
	case FillInterpolate:
		interpolate(col, times)
	}
}

func fillForward(col []float64) {
	last := math.NaN()
	for i, v := range col {
		if math.IsNaN(v) {
			col[i] = last
		} else {
			last = v
		}
	}
}

func interpolate(col []float64, times []time.Time) {
	prev := -1
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			span := times[i].Sub(times[prev]).Seconds()
			for j := prev + 1; j < i; j++ {
				frac := times[j].Sub(times[prev]).Seconds() / span
				col[j] = col[prev] + (v-col[prev])*frac
			}
		}
		prev = i
	}
}
