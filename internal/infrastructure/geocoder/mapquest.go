package geocoder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

const (
	ProviderMapQuest = "mapquest"
	mapQuestURL      = "https://www.mapquestapi.com/geocoding/v1/address"
)

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []mapQuestLocation `json:"locations"`
	} `json:"results"`
}

type mapQuestLocation struct {
	Street     string `json:"street"`
	City       string `json:"adminArea5"`
	State      string `json:"adminArea3"`
	Country    string `json:"adminArea1"`
	PostalCode string `json:"postalCode"`
	LatLng     struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"latLng"`
}

// MapQuest resolves addresses with the MapQuest geocoding API.
type MapQuest struct {
	client
	apiKey  string
	baseURL string
}

func NewMapQuest(apiKey string) (*MapQuest, error) {
	if apiKey == "" {
		return nil, errors.New("mapquest: api key is required")
	}
	return &MapQuest{client: newClient(ProviderMapQuest), apiKey: apiKey, baseURL: mapQuestURL}, nil
}

func (m *MapQuest) Geocode(ctx context.Context, address string) ([]domain.GeoResult, error) {
	results, err := m.geocode(ctx, address)
	m.record(results, err)
	return results, err
}

func (m *MapQuest) geocode(ctx context.Context, address string) ([]domain.GeoResult, error) {
	params := url.Values{}
	params.Set("key", m.apiKey)
	params.Set("location", address)
	params.Set("maxResults", "5")

	body, err := m.sendRequest(ctx, m.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp mapQuestResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decoding mapquest response: %w", domain.ErrGeocoderUnavailable, err)
	}
	if resp.Info.StatusCode != 0 {
		return nil, fmt.Errorf("%w: mapquest status %d: %s",
			domain.ErrGeocoderUnavailable, resp.Info.StatusCode, strings.Join(resp.Info.Messages, "; "))
	}

	var results []domain.GeoResult
	for _, r := range resp.Results {
		for _, loc := range r.Locations {
			results = append(results, domain.GeoResult{
				Latitude:         loc.LatLng.Lat,
				Longitude:        loc.LatLng.Lng,
				FormattedAddress: formatAddress(loc.Street, loc.City, strings.TrimSpace(loc.State+" "+loc.PostalCode), loc.Country),
				City:             loc.City,
				StateCode:        loc.State,
				Zipcode:          loc.PostalCode,
				CountryCode:      loc.Country,
			})
		}
	}
	return results, nil
}

func formatAddress(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
