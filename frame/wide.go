// Package frame holds the in-memory table shapes of the pipeline: the wide
// per-timestamp table with (model, variable) columns and the tidy table
// keyed by (timestamp, model). Each transform is a pure function from one
// immutable value to the next; missing values are NaN throughout.
package frame

import (
	"math"
	"sort"
	"time"

	"github.com/dkotrba/weatherpipe/errs"
	"github.com/dkotrba/weatherpipe/openmeteo"
)

// ColumnKey identifies one wide column.
type ColumnKey struct {
	Model    string
	Variable string
}

// WideTable has one row per timestamp and one column per (model, variable)
// pair. The index is a strictly increasing, duplicate-free UTC timestamp
// sequence; timestamps missing from one model's series are retained with
// NaN markers, never dropped.
type WideTable struct {
	times []time.Time
	keys  []ColumnKey
	data  map[ColumnKey][]float64
}

// NewWide aligns one or more per-model series on the union of their
// timestamp axes. A variable array whose length disagrees with its model's
// time axis is a *errs.ShapeError. The fill policy is applied per column
// after alignment.
func NewWide(series []openmeteo.ModelSeries, fill FillPolicy) (*WideTable, error) {
	for _, s := range series {
		for variable, values := range s.Values {
			if len(values) != len(s.Times) {
				return nil, &errs.ShapeError{
					Model:    s.Model,
					Variable: variable,
					Got:      len(values),
					Want:     len(s.Times),
				}
			}
		}
	}

	times := unionTimes(series)
	rowOf := make(map[time.Time]int, len(times))
	for i, t := range times {
		rowOf[t] = i
	}

	w := &WideTable{times: times, data: make(map[ColumnKey][]float64)}
	for _, s := range series {
		for variable, values := range s.Values {
			key := ColumnKey{Model: s.Model, Variable: variable}
			col := nanColumn(len(times))
			for i, v := range values {
				// The index is keyed on UTC instants; normalize the
				// lookup the same way or zoned inputs miss the map.
				row := rowOf[s.Times[i].UTC()]
				if v != nil {
					col[row] = *v
				}
			}
			applyFill(col, w.times, fill)
			w.data[key] = col
			w.keys = append(w.keys, key)
		}
	}

	sort.Slice(w.keys, func(i, j int) bool {
		if w.keys[i].Model != w.keys[j].Model {
			return w.keys[i].Model < w.keys[j].Model
		}
		return w.keys[i].Variable < w.keys[j].Variable
	})
	return w, nil
}

// Times returns the timestamp index.
func (w *WideTable) Times() []time.Time { return w.times }

// Keys returns the (model, variable) column keys in order.
func (w *WideTable) Keys() []ColumnKey { return w.keys }

// Column returns the values for one (model, variable) column.
func (w *WideTable) Column(key ColumnKey) ([]float64, bool) {
	col, ok := w.data[key]
	return col, ok
}

// Len returns the number of rows.
func (w *WideTable) Len() int { return len(w.times) }

// Models returns the distinct model names in column order.
func (w *WideTable) Models() []string {
	seen := make(map[string]bool)
	var models []string
	for _, k := range w.keys {
		if !seen[k.Model] {
			seen[k.Model] = true
			models = append(models, k.Model)
		}
	}
	sort.Strings(models)
	return models
}

// Variables returns the distinct source variable names in column order.
func (w *WideTable) Variables() []string {
	seen := make(map[string]bool)
	var variables []string
	for _, k := range w.keys {
		if !seen[k.Variable] {
			seen[k.Variable] = true
			variables = append(variables, k.Variable)
		}
	}
	sort.Strings(variables)
	return variables
}

func unionTimes(series []openmeteo.ModelSeries) []time.Time {
	seen := make(map[time.Time]bool)
	var times []time.Time
	for _, s := range series {
		for _, t := range s.Times {
			t = t.UTC()
			if !seen[t] {
				seen[t] = true
				times = append(times, t)
			}
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}

func nanColumn(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = math.NaN()
	}
	return col
}
