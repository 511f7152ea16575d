package schema

// Process-wide immutable schema constants. They are built once at package
// init and reused for validation across calls; callers must not mutate them.

func bound(v float64) *float64 { return &v }

// hourlyColumn builds the default contract for an hourly archive variable:
// nullable float with optional physical bounds.
func hourlyColumn(name string, min, max *float64) Column {
	return Column{Name: name, Type: Float64, Nullable: true, Min: min, Max: max}
}

// TidyHourly is the canonical contract for the tidy hourly table: rows keyed
// by (timestamp, model), one column per canonical variable. Columns are
// optional because a query requests a subset of the vocabulary, but any
// column present must satisfy its contract, and columns outside the
// vocabulary are rejected.
var TidyHourly = Schema{
	Name:   "tidy_hourly",
	Strict: true,
	Columns: []Column{
		hourlyColumn("temperature_2m", bound(-100), bound(100)),
		hourlyColumn("relativehumidity_2m", bound(0), bound(100)),
		hourlyColumn("dewpoint_2m", bound(-100), bound(100)),
		hourlyColumn("apparent_temperature", bound(-100), bound(100)),
		hourlyColumn("precipitation", bound(0), nil),
		hourlyColumn("rain", bound(0), nil),
		hourlyColumn("showers", bound(0), nil),
		hourlyColumn("snowfall", bound(0), nil),
		{Name: "weathercode", Type: Int16, Nullable: true, Min: bound(0), Max: bound(99)},
		hourlyColumn("pressure_msl", bound(800), bound(1100)),
		hourlyColumn("surface_pressure", bound(400), bound(1100)),
		hourlyColumn("cloudcover", bound(0), bound(100)),
		hourlyColumn("cloudcover_low", bound(0), bound(100)),
		hourlyColumn("cloudcover_mid", bound(0), bound(100)),
		hourlyColumn("cloudcover_high", bound(0), bound(100)),
		hourlyColumn("et0_fao_evapotranspiration", nil, nil),
		hourlyColumn("vapor_pressure_deficit", bound(0), nil),
		hourlyColumn("windspeed_10m", bound(0), nil),
		hourlyColumn("windspeed_100m", bound(0), nil),
		hourlyColumn("winddirection_10m", bound(0), bound(360)),
		hourlyColumn("winddirection_100m", bound(0), bound(360)),
		hourlyColumn("windgusts_10m", bound(0), nil),
		hourlyColumn("soil_temperature_0_to_7cm", nil, nil),
		hourlyColumn("soil_temperature_7_to_28cm", nil, nil),
		hourlyColumn("soil_temperature_28_to_100cm", nil, nil),
		hourlyColumn("soil_temperature_100_to_255cm", nil, nil),
		hourlyColumn("soil_moisture_0_to_7cm", bound(0), bound(1)),
		hourlyColumn("soil_moisture_7_to_28cm", bound(0), bound(1)),
		hourlyColumn("soil_moisture_28_to_100cm", bound(0), bound(1)),
		hourlyColumn("soil_moisture_100_to_255cm", bound(0), bound(1)),
		{Name: "is_day", Type: Bool, Nullable: true},
		hourlyColumn("shortwave_radiation", bound(0), nil),
		hourlyColumn("direct_radiation", bound(0), nil),
		hourlyColumn("diffuse_radiation", bound(0), nil),
		hourlyColumn("direct_normal_irradiance", bound(0), nil),
	},
}

// HistoricalDaily is the contract for the spreadsheet-sourced daily archive:
// a fixed set of non-nullable float columns indexed by date.
var HistoricalDaily = Schema{
	Name:   "historical_daily",
	Strict: true,
	Columns: []Column{
		{Name: "average_temperature", Type: Float64, Required: true, Min: bound(-100), Max: bound(100)},
		{Name: "maximum_temperature", Type: Float64, Required: true, Min: bound(-100), Max: bound(100)},
		{Name: "minimum_temperature", Type: Float64, Required: true, Min: bound(-100), Max: bound(100)},
		{Name: "wind_speed", Type: Float64, Required: true, Min: bound(0)},
		{Name: "air_pressure", Type: Float64, Required: true, Min: bound(800), Max: bound(1100)},
		{Name: "humidity", Type: Float64, Required: true, Min: bound(0), Max: bound(100)},
		{Name: "precipitation", Type: Float64, Required: true, Min: bound(0)},
		{Name: "total_snow_depth", Type: Float64, Required: true, Min: bound(0)},
		{Name: "sunshine", Type: Float64, Required: true, Min: bound(0)},
	},
}

// DailyTemperature is the contract for resampled per-day temperature stats.
var DailyTemperature = Schema{
	Name:   "daily_temperature",
	Strict: true,
	Columns: []Column{
		{Name: "temperature_2m_min", Type: Float64, Nullable: true, Required: true},
		{Name: "temperature_2m_mean", Type: Float64, Nullable: true, Required: true},
		{Name: "temperature_2m_max", Type: Float64, Nullable: true, Required: true},
	},
}

// CanonicalVariables lists the hourly variable vocabulary in declaration
// order.
func CanonicalVariables() []string {
	names := make([]string, len(TidyHourly.Columns))
	for i, c := range TidyHourly.Columns {
		names[i] = c.Name
	}
	return names
}

// IsCanonicalVariable reports whether name is in the hourly vocabulary.
func IsCanonicalVariable(name string) bool {
	_, ok := TidyHourly.Lookup(name)
	return ok
}

// CanonicalAliases maps variable identifiers used by newer revisions of the
// archive API onto the canonical vocabulary. The map is immutable
// configuration data; the tidy normalizer applies it while renaming.
var CanonicalAliases = map[string]string{
	"relative_humidity_2m": "relativehumidity_2m",
	"dew_point_2m":         "dewpoint_2m",
	"weather_code":         "weathercode",
	"cloud_cover":          "cloudcover",
	"cloud_cover_low":      "cloudcover_low",
	"cloud_cover_mid":      "cloudcover_mid",
	"cloud_cover_high":     "cloudcover_high",
	"wind_speed_10m":       "windspeed_10m",
	"wind_speed_100m":      "windspeed_100m",
	"wind_direction_10m":   "winddirection_10m",
	"wind_direction_100m":  "winddirection_100m",
	"wind_gusts_10m":       "windgusts_10m",
}

// CanonicalName resolves a source variable identifier to its canonical
// spelling, returning the input unchanged when no alias applies.
func CanonicalName(name string) string {
	if canonical, ok := CanonicalAliases[name]; ok {
		return canonical
	}
	return name
}
