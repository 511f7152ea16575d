// Package chmi loads the ČHMÚ historical daily archive: a multi-sheet XLSX
// workbook where sheet one is a presentation cover sheet and every further
// sheet holds a single variable as a year/month by day-of-month grid.
package chmi

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dkotrba/weatherpipe/errs"
	"github.com/dkotrba/weatherpipe/schema"
)

// DefaultArchivePath is where the workbook lives unless the caller (or the
// CHMI_ARCHIVE_PATH variable, see the config package) says otherwise.
const DefaultArchivePath = "data/P1PRUZ01.xlsx"

// headerRows is the number of presentation-only rows above the grid header.
const headerRows = 3

// Table is the normalized daily archive: one row per date, one float
// column per translated variable. It satisfies schema.HistoricalDaily on
// construction.
type Table struct {
	dates   []time.Time
	columns []string
	data    map[string][]float64
}

// ColumnNames implements schema.Table.
func (t *Table) ColumnNames() []string { return t.columns }

// Column implements schema.Table.
func (t *Table) Column(name string) ([]float64, bool) {
	col, ok := t.data[name]
	return col, ok
}

// Len implements schema.Table.
func (t *Table) Len() int { return len(t.dates) }

// Dates returns the date index.
func (t *Table) Dates() []time.Time { return t.dates }

// At returns one row's value for a column.
func (t *Table) At(row int, column string) float64 {
	col, ok := t.data[column]
	if !ok {
		return math.NaN()
	}
	return col[row]
}

// Load reads every data sheet of the workbook at path, cleans each sheet's
// grid layout into a per-date series, concatenates the sheets column-wise,
// renames the Czech labels through the fixed translation table and
// validates the result. Structural problems are *errs.FileFormatError;
// contract problems after loading are *errs.SchemaError. On any failure no
// partial table is returned.
func Load(path string) (*Table, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &errs.FileFormatError{Path: path, Detail: "cannot open workbook: " + err.Error()}
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) < 2 {
		return nil, &errs.FileFormatError{
			Path:   path,
			Detail: fmt.Sprintf("expected a cover sheet plus data sheets, found %d sheet(s)", len(sheets)),
		}
	}

	prague, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		return nil, fmt.Errorf("load archive timezone: %w", err)
	}

	// Sheet one is the cover sheet; every later sheet is one variable.
	type sheetSeries struct {
		column string
		values map[time.Time]float64
	}
	var series []sheetSeries
	dateSet := make(map[time.Time]bool)

	for _, sheet := range sheets[1:] {
		values, err := extractSheet(wb, path, sheet, prague)
		if err != nil {
			return nil, err
		}
		for d := range values {
			dateSet[d] = true
		}
		series = append(series, sheetSeries{column: translate(sheet), values: values})
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	t := &Table{dates: dates, data: make(map[string][]float64, len(series))}
	for _, s := range series {
		col := make([]float64, len(dates))
		for i, d := range dates {
			if v, ok := s.values[d]; ok {
				col[i] = v
			} else {
				col[i] = math.NaN()
			}
		}
		t.columns = append(t.columns, s.column)
		t.data[s.column] = col
	}
	sort.Strings(t.columns)

	// A workbook without one of the expected data sheets is a structural
	// problem, reported before contract validation.
	if missing := missingSheets(t.columns); len(missing) > 0 {
		return nil, &errs.FileFormatError{
			Path:   path,
			Detail: "missing data sheet(s) for: " + strings.Join(missing, ", "),
		}
	}

	if err := schema.HistoricalDaily.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

func missingSheets(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	var missing []string
	for _, col := range schema.HistoricalDaily.Columns {
		if !present[col.Name] {
			missing = append(missing, col.Name)
		}
	}
	return missing
}

// extractSheet melts one sheet's year/month by day grid into date->value.
func extractSheet(wb *excelize.File, path, sheet string, loc *time.Location) (map[time.Time]float64, error) {
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, &errs.FileFormatError{Path: path, Detail: fmt.Sprintf("sheet %q: %v", sheet, err)}
	}
	if len(rows) <= headerRows+1 {
		return nil, &errs.FileFormatError{
			Path:   path,
			Detail: fmt.Sprintf("sheet %q has no data below the header rows", sheet),
		}
	}

	header := rows[headerRows]
	if len(header) < 3 || !strings.EqualFold(header[0], "rok") || !strings.EqualFold(header[1], "měsíc") {
		return nil, &errs.FileFormatError{
			Path:   path,
			Detail: fmt.Sprintf("sheet %q: expected rok/měsíc grid header, got %v", sheet, header[:min(len(header), 2)]),
		}
	}

	days := make([]int, len(header))
	for i := 2; i < len(header); i++ {
		day, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(header[i]), "."))
		if err != nil {
			return nil, &errs.FileFormatError{
				Path:   path,
				Detail: fmt.Sprintf("sheet %q: day column header %q is not a number", sheet, header[i]),
			}
		}
		days[i] = day
	}

	type yearMonth struct{ year, month int }
	seenRows := make(map[yearMonth]bool)

	values := make(map[time.Time]float64)
	for _, row := range rows[headerRows+1:] {
		if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, &errs.FileFormatError{
				Path:   path,
				Detail: fmt.Sprintf("sheet %q: year cell %q is not a number", sheet, row[0]),
			}
		}
		month, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil || month < 1 || month > 12 {
			return nil, &errs.FileFormatError{
				Path:   path,
				Detail: fmt.Sprintf("sheet %q: month cell %q is not a month", sheet, row[1]),
			}
		}
		// A grid row repeating an earlier (year, month) would silently
		// overwrite its values.
		ym := yearMonth{year, month}
		if seenRows[ym] {
			return nil, &errs.FileFormatError{
				Path:   path,
				Detail: fmt.Sprintf("sheet %q: duplicate row for %d-%02d", sheet, year, month),
			}
		}
		seenRows[ym] = true
		for i := 2; i < len(row) && i < len(days); i++ {
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
			if err != nil {
				return nil, &errs.FileFormatError{
					Path:   path,
					Detail: fmt.Sprintf("sheet %q: value %q at %d-%02d-%02d is not numeric", sheet, cell, year, month, days[i]),
				}
			}
			date := time.Date(year, time.Month(month), days[i], 0, 0, 0, 0, loc)
			if date.Day() != days[i] || date.Month() != time.Month(month) {
				// A value sitting on a nonexistent calendar day, e.g. Feb 30.
				return nil, &errs.FileFormatError{
					Path:   path,
					Detail: fmt.Sprintf("sheet %q: value on nonexistent date %d-%02d-%02d", sheet, year, month, days[i]),
				}
			}
			values[date] = v
		}
	}
	return values, nil
}
