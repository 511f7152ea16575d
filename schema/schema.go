// Package schema declares the runtime-checked table contracts used at every
// pipeline boundary. A Schema is an explicit, process-wide immutable value:
// an ordered list of column descriptions plus a validation function. Tables
// are validated at the boundary instead of trusted implicitly.
package schema

import (
	"fmt"
	"math"

	"github.com/dkotrba/weatherpipe/errs"
)

// Type is the declared logical type of a column. Tables carry all values as
// float64 with NaN marking missing data; the declared type controls which
// values coerce cleanly.
type Type int

const (
	Float64 Type = iota
	Int16
	Bool
)

func (t Type) String() string {
	switch t {
	case Float64:
		return "float64"
	case Int16:
		return "int16"
	case Bool:
		return "bool"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Column describes one column's contract: name, declared type, nullability
// and optional numeric bounds.
type Column struct {
	Name     string
	Type     Type
	Nullable bool
	Required bool

	// Min and Max bound non-missing values when set. Bounds are inclusive.
	Min *float64
	Max *float64
}

// Schema is an ordered set of column contracts. When Strict is set, columns
// outside the declared vocabulary are violations.
type Schema struct {
	Name    string
	Columns []Column
	Strict  bool
}

// Table is the minimal surface a table must expose to be validated.
// Column values are float64 slices aligned to the row index, with NaN as
// the missing-value marker.
type Table interface {
	ColumnNames() []string
	Column(name string) ([]float64, bool)
	Len() int
}

// Lookup returns the declared contract for a column name.
func (s Schema) Lookup(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Validate checks t against the schema and reports every violation at once.
// A nil return means the table satisfies the contract.
func (s Schema) Validate(t Table) error {
	var violations []errs.ColumnViolation

	present := make(map[string]bool)
	for _, name := range t.ColumnNames() {
		present[name] = true
	}

	for _, col := range s.Columns {
		if !present[col.Name] {
			if col.Required {
				violations = append(violations, errs.ColumnViolation{
					Column:     col.Name,
					Constraint: "required column missing",
				})
			}
			continue
		}
		values, _ := t.Column(col.Name)
		if len(values) != t.Len() {
			violations = append(violations, errs.ColumnViolation{
				Column:     col.Name,
				Constraint: "column length matches table length",
				Detail:     fmt.Sprintf("%d values for %d rows", len(values), t.Len()),
			})
			continue
		}
		violations = append(violations, checkColumn(col, values)...)
	}

	if s.Strict {
		for _, name := range t.ColumnNames() {
			if _, ok := s.Lookup(name); !ok {
				violations = append(violations, errs.ColumnViolation{
					Column:     name,
					Constraint: "column not in declared vocabulary",
				})
			}
		}
	}

	if len(violations) > 0 {
		return &errs.SchemaError{Schema: s.Name, Violations: violations}
	}
	return nil
}

func checkColumn(col Column, values []float64) []errs.ColumnViolation {
	var (
		nulls      int
		outOfRange int
		uncoerced  int
		firstBad   float64
		haveBad    bool
	)

	for _, v := range values {
		if math.IsNaN(v) {
			if !col.Nullable {
				nulls++
			}
			continue
		}
		if (col.Min != nil && v < *col.Min) || (col.Max != nil && v > *col.Max) {
			outOfRange++
			if !haveBad {
				firstBad, haveBad = v, true
			}
			continue
		}
		if !coercible(col.Type, v) {
			uncoerced++
			if !haveBad {
				firstBad, haveBad = v, true
			}
		}
	}

	var violations []errs.ColumnViolation
	if nulls > 0 {
		violations = append(violations, errs.ColumnViolation{
			Column:     col.Name,
			Constraint: "not nullable",
			Detail:     fmt.Sprintf("%d missing values", nulls),
		})
	}
	if outOfRange > 0 {
		violations = append(violations, errs.ColumnViolation{
			Column:     col.Name,
			Constraint: boundsConstraint(col),
			Detail:     fmt.Sprintf("%d values out of range, e.g. %v", outOfRange, firstBad),
		})
	}
	if uncoerced > 0 {
		violations = append(violations, errs.ColumnViolation{
			Column:     col.Name,
			Constraint: "coercion to " + col.Type.String() + " failed",
			Detail:     fmt.Sprintf("%d values, e.g. %v", uncoerced, firstBad),
		})
	}
	return violations
}

func boundsConstraint(col Column) string {
	switch {
	case col.Min != nil && col.Max != nil:
		return fmt.Sprintf("in [%v, %v]", *col.Min, *col.Max)
	case col.Min != nil:
		return fmt.Sprintf(">= %v", *col.Min)
	default:
		return fmt.Sprintf("<= %v", *col.Max)
	}
}

// coercible reports whether a non-missing value converts cleanly to the
// declared type.
func coercible(t Type, v float64) bool {
	switch t {
	case Int16:
		return v == math.Trunc(v) && v >= math.MinInt16 && v <= math.MaxInt16
	case Bool:
		return v == 0 || v == 1
	default:
		return true
	}
}
