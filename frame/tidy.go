package frame

import (
	"math"
	"sort"
	"time"

	"github.com/dkotrba/weatherpipe/errs"
	"github.com/dkotrba/weatherpipe/openmeteo"
	"github.com/dkotrba/weatherpipe/schema"
)

// TidyTable is the canonical downstream shape: rows keyed by
// (timestamp, model), one column per canonical variable. It always
// satisfies schema.TidyHourly on construction.
type TidyTable struct {
	times   []time.Time
	models  []string
	columns []string
	data    map[string][]float64
}

// Tidy pivots the (model, variable) column hierarchy of a WideTable into a
// (timestamp, model) row index, renaming source variable identifiers to the
// canonical vocabulary. The result is validated against schema.TidyHourly
// before being returned; a violation is a *errs.SchemaError naming every
// failing column.
func Tidy(w *WideTable) (*TidyTable, error) {
	models := w.Models()

	// Canonical column order, with rename collisions collected up front.
	var violations []errs.ColumnViolation
	renamed := make(map[string]string) // source -> canonical
	seen := make(map[string]string)    // canonical -> source
	var columns []string
	for _, variable := range w.Variables() {
		canonical := schema.CanonicalName(variable)
		if prev, dup := seen[canonical]; dup {
			violations = append(violations, errs.ColumnViolation{
				Column:     canonical,
				Constraint: "duplicate column after renaming",
				Detail:     prev + " and " + variable,
			})
			continue
		}
		seen[canonical] = variable
		renamed[variable] = canonical
		columns = append(columns, canonical)
	}
	if len(violations) > 0 {
		return nil, &errs.SchemaError{Schema: schema.TidyHourly.Name, Violations: violations}
	}
	sort.Strings(columns)

	rows := len(w.times) * len(models)
	t := &TidyTable{
		times:   make([]time.Time, 0, rows),
		models:  make([]string, 0, rows),
		columns: columns,
		data:    make(map[string][]float64, len(columns)),
	}
	for _, c := range columns {
		t.data[c] = make([]float64, 0, rows)
	}

	// Rows ordered by (timestamp, model); every (timestamp, model) pair is
	// retained even when all of its values are missing.
	variables := w.Variables()
	for i := range w.times {
		for _, model := range models {
			t.times = append(t.times, w.times[i])
			t.models = append(t.models, model)
			for _, variable := range variables {
				canonical := renamed[variable]
				col, ok := w.Column(ColumnKey{Model: model, Variable: variable})
				if !ok {
					t.data[canonical] = append(t.data[canonical], math.NaN())
					continue
				}
				t.data[canonical] = append(t.data[canonical], col[i])
			}
		}
	}

	if err := schema.TidyHourly.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ColumnNames implements schema.Table.
func (t *TidyTable) ColumnNames() []string { return t.columns }

// Column implements schema.Table.
func (t *TidyTable) Column(name string) ([]float64, bool) {
	col, ok := t.data[name]
	return col, ok
}

// Len implements schema.Table.
func (t *TidyTable) Len() int { return len(t.times) }

// Times returns the timestamp of each row.
func (t *TidyTable) Times() []time.Time { return t.times }

// Models returns the model of each row.
func (t *TidyTable) Models() []string { return t.models }

// At returns one row's value for a column.
func (t *TidyTable) At(row int, column string) float64 {
	col, ok := t.data[column]
	if !ok {
		return math.NaN()
	}
	return col[row]
}

// Wide converts the table back to its equivalent wide form, one column per
// (model, variable) pair present.
func (t *TidyTable) Wide() (*WideTable, error) {
	perModel := make(map[string]*openmeteo.ModelSeries)
	var models []string
	for _, m := range t.models {
		if _, ok := perModel[m]; !ok {
			perModel[m] = &openmeteo.ModelSeries{Model: m, Values: make(map[string][]*float64)}
			models = append(models, m)
		}
	}
	sort.Strings(models)

	for row := range t.times {
		s := perModel[t.models[row]]
		s.Times = append(s.Times, t.times[row])
		for _, c := range t.columns {
			v := t.data[c][row]
			if math.IsNaN(v) {
				s.Values[c] = append(s.Values[c], nil)
			} else {
				v := v
				s.Values[c] = append(s.Values[c], &v)
			}
		}
	}

	series := make([]openmeteo.ModelSeries, 0, len(models))
	for _, m := range models {
		series = append(series, *perModel[m])
	}
	return NewWide(series, FillNone)
}

// Concat appends the rows of others, deduplicates on (timestamp, model)
// keeping the first occurrence, and re-sorts by (timestamp, model). Used to
// stitch chunked range fetches whose boundaries overlap.
func Concat(tables ...*TidyTable) (*TidyTable, error) {
	type rowKey struct {
		t     time.Time
		model string
	}

	columns := make(map[string]bool)
	for _, t := range tables {
		for _, c := range t.columns {
			columns[c] = true
		}
	}
	var names []string
	for c := range columns {
		names = append(names, c)
	}
	sort.Strings(names)

	out := &TidyTable{columns: names, data: make(map[string][]float64, len(names))}
	seen := make(map[rowKey]bool)
	for _, t := range tables {
		for row := range t.times {
			key := rowKey{t: t.times[row], model: t.models[row]}
			if seen[key] {
				continue
			}
			seen[key] = true
			out.times = append(out.times, t.times[row])
			out.models = append(out.models, t.models[row])
			for _, c := range names {
				out.data[c] = append(out.data[c], t.At(row, c))
			}
		}
	}
	out.sortRows()

	if err := schema.TidyHourly.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// SliceDates returns the rows whose timestamp falls on a date within
// [start, end], both inclusive.
func (t *TidyTable) SliceDates(start, end time.Time) *TidyTable {
	lo := dateFloor(start)
	hi := dateFloor(end).AddDate(0, 0, 1)

	out := &TidyTable{columns: t.columns, data: make(map[string][]float64, len(t.columns))}
	for row := range t.times {
		ts := t.times[row]
		if ts.Before(lo) || !ts.Before(hi) {
			continue
		}
		out.times = append(out.times, ts)
		out.models = append(out.models, t.models[row])
		for _, c := range t.columns {
			out.data[c] = append(out.data[c], t.data[c][row])
		}
	}
	return out
}

// Equal reports whether two tables carry the same index, columns and
// values. NaN entries compare equal to NaN.
func (t *TidyTable) Equal(o *TidyTable) bool {
	if t.Len() != o.Len() || len(t.columns) != len(o.columns) {
		return false
	}
	for i, c := range t.columns {
		if o.columns[i] != c {
			return false
		}
	}
	for row := range t.times {
		if !t.times[row].Equal(o.times[row]) || t.models[row] != o.models[row] {
			return false
		}
	}
	for _, c := range t.columns {
		a, b := t.data[c], o.data[c]
		for i := range a {
			if a[i] != b[i] && !(math.IsNaN(a[i]) && math.IsNaN(b[i])) {
				return false
			}
		}
	}
	return true
}

func (t *TidyTable) sortRows() {
	order := make([]int, len(t.times))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if !t.times[a].Equal(t.times[b]) {
			return t.times[a].Before(t.times[b])
		}
		return t.models[a] < t.models[b]
	})

	times := make([]time.Time, len(order))
	models := make([]string, len(order))
	for i, idx := range order {
		times[i] = t.times[idx]
		models[i] = t.models[idx]
	}
	t.times, t.models = times, models
	for _, c := range t.columns {
		col := make([]float64, len(order))
		for i, idx := range order {
			col[i] = t.data[c][idx]
		}
		t.data[c] = col
	}
}

func dateFloor(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
