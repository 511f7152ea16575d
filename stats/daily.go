package stats

import (
	"math"
	"sort"
	"time"

	"github.com/dkotrba/weatherpipe/frame"
	"github.com/dkotrba/weatherpipe/schema"
)

// DailyTable holds per (date, model) aggregates. It satisfies
// schema.DailyTemperature on construction.
type DailyTable struct {
	dates   []time.Time
	models  []string
	columns []string
	data    map[string][]float64
}

// ColumnNames implements schema.Table.
func (t *DailyTable) ColumnNames() []string { return t.columns }

// Column implements schema.Table.
func (t *DailyTable) Column(name string) ([]float64, bool) {
	col, ok := t.data[name]
	return col, ok
}

// Len implements schema.Table.
func (t *DailyTable) Len() int { return len(t.dates) }

// Dates returns the date of each row.
func (t *DailyTable) Dates() []time.Time { return t.dates }

// Models returns the model of each row.
func (t *DailyTable) Models() []string { return t.models }

// At returns one row's value for a column.
func (t *DailyTable) At(row int, column string) float64 {
	col, ok := t.data[column]
	if !ok {
		return math.NaN()
	}
	return col[row]
}

// DailyTemperature resamples hourly temperature_2m to per-day min, mean and
// max for every (date, model) group. Missing hourly values are skipped; a
// day with no observations for a model yields NaN aggregates. The output is
// validated against schema.DailyTemperature before being returned.
func DailyTemperature(t *frame.TidyTable) (*DailyTable, error) {
	type groupKey struct {
		date  time.Time
		model string
	}
	type agg struct {
		min, max, sum float64
		n             int
	}

	groups := make(map[groupKey]*agg)
	var order []groupKey

	times, models := t.Times(), t.Models()
	for row := range times {
		y, m, d := times[row].UTC().Date()
		key := groupKey{date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), model: models[row]}
		g, ok := groups[key]
		if !ok {
			g = &agg{min: math.Inf(1), max: math.Inf(-1)}
			groups[key] = g
			order = append(order, key)
		}
		v := t.At(row, "temperature_2m")
		if math.IsNaN(v) {
			continue
		}
		g.n++
		g.sum += v
		if v < g.min {
			g.min = v
		}
		if v > g.max {
			g.max = v
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if !order[i].date.Equal(order[j].date) {
			return order[i].date.Before(order[j].date)
		}
		return order[i].model < order[j].model
	})

	out := &DailyTable{
		columns: []string{"temperature_2m_min", "temperature_2m_mean", "temperature_2m_max"},
		data:    make(map[string][]float64, 3),
	}
	for _, key := range order {
		g := groups[key]
		out.dates = append(out.dates, key.date)
		out.models = append(out.models, key.model)
		if g.n == 0 {
			out.data["temperature_2m_min"] = append(out.data["temperature_2m_min"], math.NaN())
			out.data["temperature_2m_mean"] = append(out.data["temperature_2m_mean"], math.NaN())
			out.data["temperature_2m_max"] = append(out.data["temperature_2m_max"], math.NaN())
			continue
		}
		out.data["temperature_2m_min"] = append(out.data["temperature_2m_min"], g.min)
		out.data["temperature_2m_mean"] = append(out.data["temperature_2m_mean"], g.sum/float64(g.n))
		out.data["temperature_2m_max"] = append(out.data["temperature_2m_max"], g.max)
	}

	if err := schema.DailyTemperature.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}
