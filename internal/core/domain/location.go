package domain

// GeoResult is a single candidate returned by a geocoding lookup.
type GeoResult struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formattedAddress"`
	City             string  `json:"city"`
	StateCode        string  `json:"stateCode"`
	Zipcode          string  `json:"zipcode"`
	CountryCode      string  `json:"countryCode"`
}

// Location is the denormalized, GeoJSON-compatible position stored on a job.
// Coordinates are ordered [longitude, latitude].
type Location struct {
	Type             string    `json:"type"`
	Coordinates      []float64 `json:"coordinates"`
	FormattedAddress string    `json:"formattedAddress"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Zipcode          string    `json:"zipcode"`
	Country          string    `json:"country"`
}

// NewLocation converts a geocoding candidate into a point location.
func NewLocation(r GeoResult) *Location {
	return &Location{
		Type:             "Point",
		Coordinates:      []float64{r.Longitude, r.Latitude},
		FormattedAddress: r.FormattedAddress,
		City:             r.City,
		State:            r.StateCode,
		Zipcode:          r.Zipcode,
		Country:          r.CountryCode,
	}
}

// FirstResult returns the first candidate, or ErrGeocodeNoResult when the
// lookup came back empty.
func FirstResult(results []GeoResult) (GeoResult, error) {
	if len(results) == 0 {
		return GeoResult{}, ErrGeocodeNoResult
	}
	return results[0], nil
}
