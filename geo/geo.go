// Package geo resolves place names to the coordinates an archive query
// needs. The archive API takes latitude/longitude only, so callers starting
// from a city name geocode it first.
package geo

import (
	"fmt"

	"github.com/kelvins/geocoder"
)

// Resolver geocodes city/country pairs. The API key is passed explicitly by
// the caller; this package reads no environment.
type Resolver struct {
	apiKey string
}

// NewResolver creates a Resolver using the given Google geocoding API key.
func NewResolver(apiKey string) *Resolver {
	return &Resolver{apiKey: apiKey}
}

// Coordinates returns the latitude and longitude for a city/country pair.
func (r *Resolver) Coordinates(city, country string) (lat, lon float64, err error) {
	geocoder.ApiKey = r.apiKey

	location, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %s, %s: %w", city, country, err)
	}
	return location.Latitude, location.Longitude, nil
}
