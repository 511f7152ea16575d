// Package weatherpipe ties the ingestion stages together: a validated
// archive query is fetched in chunks, each reply is reshaped into a wide
// table, normalized into the tidy shape, and the chunks are stitched into
// one schema-valid table covering the requested date range.
package weatherpipe

import (
	"context"

	"github.com/dkotrba/weatherpipe/frame"
	"github.com/dkotrba/weatherpipe/openmeteo"
)

// Reference location used across the examples and tests.
const (
	PragueLatitude  = 50.1003
	PragueLongitude = 14.2555
)

// DefaultModels is the model set fetched when the caller has no preference.
var DefaultModels = []string{
	openmeteo.ModelBestMatch,
	openmeteo.ModelERA5,
	openmeteo.ModelERA5Land,
	openmeteo.ModelCERRA,
}

// DefaultVariables is the hourly variable set fetched when the caller has
// no preference.
var DefaultVariables = []string{
	"temperature_2m",
	"relativehumidity_2m",
	"dewpoint_2m",
	"apparent_temperature",
	"precipitation",
	"rain",
	"snowfall",
	"weathercode",
	"pressure_msl",
	"surface_pressure",
	"cloudcover",
	"cloudcover_low",
	"cloudcover_mid",
	"cloudcover_high",
	"et0_fao_evapotranspiration",
	"vapor_pressure_deficit",
	"windspeed_10m",
	"windspeed_100m",
	"winddirection_10m",
	"winddirection_100m",
	"windgusts_10m",
	"soil_temperature_0_to_7cm",
	"soil_temperature_7_to_28cm",
	"soil_temperature_28_to_100cm",
	"soil_temperature_100_to_255cm",
	"soil_moisture_0_to_7cm",
	"soil_moisture_7_to_28cm",
	"soil_moisture_28_to_100cm",
	"soil_moisture_100_to_255cm",
	"is_day",
	"shortwave_radiation",
	"direct_radiation",
	"diffuse_radiation",
	"direct_normal_irradiance",
}

// GetArchive runs the whole pipeline for one Query: chunked fetch, per-model
// split, wide alignment, tidy normalization, then concatenation with
// deduplication of overlapping chunk boundaries and slicing back to the
// requested dates. Every stage fails fast; a failure anywhere returns no
// partial result.
func GetArchive(ctx context.Context, client *openmeteo.Client, q openmeteo.Query, fill frame.FillPolicy) (*frame.TidyTable, error) {
	responses, err := client.FetchRange(ctx, q)
	if err != nil {
		return nil, err
	}

	tables := make([]*frame.TidyTable, 0, len(responses))
	for _, resp := range responses {
		series, err := resp.Series(q.Models)
		if err != nil {
			return nil, err
		}
		wide, err := frame.NewWide(series, fill)
		if err != nil {
			return nil, err
		}
		tidy, err := frame.Tidy(wide)
		if err != nil {
			return nil, err
		}
		tables = append(tables, tidy)
	}

	all, err := frame.Concat(tables...)
	if err != nil {
		return nil, err
	}
	return all.SliceDates(q.StartDate, q.EndDate), nil
}
