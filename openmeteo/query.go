// Package openmeteo talks to the Open-Meteo historical archive API: it
// builds validated queries, performs the fetch, and exposes the nested
// reply as per-model series for the tabular pipeline to consume.
package openmeteo

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dkotrba/weatherpipe/errs"
	"github.com/dkotrba/weatherpipe/schema"
)

// Models the archive API can serve. Reanalysis model names form a fixed
// vocabulary; a query may only request these.
const (
	ModelBestMatch = "best_match"
	ModelERA5      = "era5"
	ModelERA5Land  = "era5_land"
	ModelCERRA     = "cerra"
)

// KnownModels lists the model vocabulary.
var KnownModels = []string{ModelBestMatch, ModelERA5, ModelERA5Land, ModelCERRA}

// IsKnownModel reports whether name is in the model vocabulary.
func IsKnownModel(name string) bool {
	for _, m := range KnownModels {
		if m == name {
			return true
		}
	}
	return false
}

// Query is an immutable description of an archive request. Construct it
// with NewQuery; a Query that fails validation never reaches the network.
type Query struct {
	Latitude        float64   `validate:"gte=-90,lte=90"`
	Longitude       float64   `validate:"gte=-180,lte=180"`
	StartDate       time.Time `validate:"required"`
	EndDate         time.Time `validate:"required,gtefield=StartDate"`
	HourlyVariables []string  `validate:"min=1,dive,hourlyvariable"`
	Models          []string  `validate:"min=1,dive,archivemodel"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Enum membership checks for the fixed vocabularies.
	_ = v.RegisterValidation("hourlyvariable", func(fl validator.FieldLevel) bool {
		return schema.IsCanonicalVariable(schema.CanonicalName(fl.Field().String()))
	})
	_ = v.RegisterValidation("archivemodel", func(fl validator.FieldLevel) bool {
		return IsKnownModel(fl.Field().String())
	})
	return v
}

// NewQuery builds a validated Query. Dates are truncated to whole days in
// UTC. On failure it returns a *errs.ValidationError carrying every
// violated field, not just the first.
func NewQuery(latitude, longitude float64, start, end time.Time, variables, models []string) (Query, error) {
	q := Query{
		Latitude:        latitude,
		Longitude:       longitude,
		StartDate:       truncateToDate(start),
		EndDate:         truncateToDate(end),
		HourlyVariables: append([]string(nil), variables...),
		Models:          append([]string(nil), models...),
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Validate re-checks the Query against its declared domains.
func (q Query) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	violations := make([]errs.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, errs.FieldViolation{
			Field:  fe.Field(),
			Reason: violationReason(fe),
		})
	}
	return &errs.ValidationError{Violations: violations}
}

func violationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("value %v below minimum %s", fe.Value(), fe.Param())
	case "lte":
		return fmt.Sprintf("value %v above maximum %s", fe.Value(), fe.Param())
	case "gtefield":
		return "end date before start date"
	case "min":
		return "must not be empty"
	case "required":
		return "is required"
	case "hourlyvariable":
		return fmt.Sprintf("%q is not a known hourly variable", fe.Value())
	case "archivemodel":
		return fmt.Sprintf("%q is not a known model", fe.Value())
	}
	return fmt.Sprintf("failed %q constraint", fe.Tag())
}

// Values serializes the Query to the archive API's query-parameter shape.
func (q Query) Values() url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	values.Set("start_date", q.StartDate.Format("2006-01-02"))
	values.Set("end_date", q.EndDate.Format("2006-01-02"))
	values.Set("hourly", strings.Join(q.HourlyVariables, ","))
	values.Set("models", strings.Join(q.Models, ","))
	return values
}

func truncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
