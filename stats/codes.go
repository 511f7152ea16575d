package stats

// WeatherCodes maps WMO weather interpretation codes, as returned in the
// archive's weathercode column, to their descriptions.
var WeatherCodes = map[int16]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Drizzle, light intensity",
	53: "Drizzle, moderate intensity",
	55: "Drizzle, dense intensity",
	56: "Freezing drizzle, light intensity",
	57: "Freezing drizzle, dense intensity",
	61: "Rain, slight intensity",
	63: "Rain, moderate intensity",
	65: "Rain, heavy intensity",
	66: "Freezing rain, light intensity",
	67: "Freezing rain, heavy intensity",
	71: "Snow fall, slight intensity",
	73: "Snow fall, moderate intensity",
	75: "Snow fall, heavy intensity",
	77: "Snow grains",
	80: "Rain showers, slight intensity",
	81: "Rain showers, moderate intensity",
	82: "Rain showers, violent intensity",
	85: "Snow showers slight intensity",
	86: "Snow showers heavy intensity",
	95: "Thunderstorm, slight or moderate",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// DescribeWeatherCode returns the description for a code, or "unknown".
func DescribeWeatherCode(code int16) string {
	if desc, ok := WeatherCodes[code]; ok {
		return desc
	}
	return "unknown"
}
