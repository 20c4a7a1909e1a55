package geocoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

const (
	ProviderOpenStreetMap = "openstreetmap"
	nominatimURL          = "https://nominatim.openstreetmap.org/search"
)

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		State       string `json:"state"`
		StateCode   string `json:"ISO3166-2-lvl4"`
		Postcode    string `json:"postcode"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// OpenStreetMap resolves addresses with the public Nominatim search API.
// No key is needed, but the usage policy allows at most one request per second.
type OpenStreetMap struct {
	client
	baseURL string
}

func NewOpenStreetMap() *OpenStreetMap {
	return &OpenStreetMap{client: newClient(ProviderOpenStreetMap), baseURL: nominatimURL}
}

func (o *OpenStreetMap) Geocode(ctx context.Context, address string) ([]domain.GeoResult, error) {
	results, err := o.geocode(ctx, address)
	o.record(results, err)
	return results, err
}

func (o *OpenStreetMap) geocode(ctx context.Context, address string) ([]domain.GeoResult, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "5")

	body, err := o.sendRequest(ctx, o.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var places []nominatimPlace
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&places); err != nil {
		return nil, fmt.Errorf("%w: decoding nominatim response: %w", domain.ErrGeocoderUnavailable, err)
	}

	results := make([]domain.GeoResult, 0, len(places))
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lon, errLon := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		a := p.Address
		results = append(results, domain.GeoResult{
			Latitude:         lat,
			Longitude:        lon,
			FormattedAddress: p.DisplayName,
			City:             lo.Ternary(a.City != "", a.City, lo.Ternary(a.Town != "", a.Town, a.Village)),
			StateCode:        stateCode(a.StateCode, a.State),
			Zipcode:          a.Postcode,
			CountryCode:      strings.ToUpper(a.CountryCode),
		})
	}
	return results, nil
}

// stateCode turns "US-MA" into "MA", falling back to the state name.
func stateCode(iso, name string) string {
	if _, code, ok := strings.Cut(iso, "-"); ok && code != "" {
		return code
	}
	return name
}
