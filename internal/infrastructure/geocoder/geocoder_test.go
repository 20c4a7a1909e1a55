package geocoder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

const mapQuestBoston = `{
  "info": {"statuscode": 0, "messages": []},
  "results": [{
    "locations": [{
      "street": "1 Main St",
      "adminArea5": "Boston",
      "adminArea3": "MA",
      "adminArea1": "US",
      "postalCode": "02108",
      "latLng": {"lat": 42.358, "lng": -71.064}
    }]
  }]
}`

func Test_MapQuest_Geocode_ShouldParseFirstLocation(t *testing.T) {
	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		q := req.URL.Query()
		return req.URL.Host == "www.mapquestapi.com" &&
			q.Get("key") == "k" &&
			q.Get("location") == "1 Main St, Boston"
	})).Return(jsonResponse(http.StatusOK, mapQuestBoston), nil)

	mq, err := NewMapQuest("k")
	require.NoError(t, err)
	mq.SetHTTPClient(mockClient)

	results, err := mq.Geocode(context.Background(), "1 Main St, Boston")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.GeoResult{
		Latitude:         42.358,
		Longitude:        -71.064,
		FormattedAddress: "1 Main St, Boston, MA 02108, US",
		City:             "Boston",
		StateCode:        "MA",
		Zipcode:          "02108",
		CountryCode:      "US",
	}, results[0])
	mockClient.AssertExpectations(t)
}

func Test_MapQuest_Geocode_EmptyResults(t *testing.T) {
	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).
		Return(jsonResponse(http.StatusOK, `{"info":{"statuscode":0},"results":[{"locations":[]}]}`), nil)

	mq, _ := NewMapQuest("k")
	mq.SetHTTPClient(mockClient)

	results, err := mq.Geocode(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func Test_MapQuest_Geocode_UpstreamFailure(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		err  error
	}{
		{"transport", nil, errors.New("dial tcp: timeout")},
		{"status", jsonResponse(http.StatusForbidden, "bad key"), nil},
		{"api status", jsonResponse(http.StatusOK, `{"info":{"statuscode":403,"messages":["bad key"]}}`), nil},
		{"garbage", jsonResponse(http.StatusOK, `<html>`), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &mockHTTPClient{}
			mockClient.On("Do", mock.Anything).Return(tt.resp, tt.err)

			mq, _ := NewMapQuest("k")
			mq.SetHTTPClient(mockClient)

			_, err := mq.Geocode(context.Background(), "x")
			assert.ErrorIs(t, err, domain.ErrGeocoderUnavailable)
		})
	}
}

func Test_NewMapQuest_RequiresKey(t *testing.T) {
	_, err := NewMapQuest("")
	assert.Error(t, err)
}

func Test_OpenStreetMap_Geocode(t *testing.T) {
	body := `[{
	  "lat": "42.3554",
	  "lon": "-71.0605",
	  "display_name": "Boston, Suffolk County, Massachusetts, 02108, United States",
	  "address": {"town": "Boston", "state": "Massachusetts", "ISO3166-2-lvl4": "US-MA", "postcode": "02108", "country_code": "us"}
	}, {"lat": "bad", "lon": "0"}]`

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.Host == "nominatim.openstreetmap.org" &&
			req.URL.Query().Get("q") == "Boston" &&
			req.Header.Get("User-Agent") != ""
	})).Return(jsonResponse(http.StatusOK, body), nil)

	osm := NewOpenStreetMap()
	osm.SetHTTPClient(mockClient)

	results, err := osm.Geocode(context.Background(), "Boston")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Boston", results[0].City)
	assert.Equal(t, "MA", results[0].StateCode)
	assert.Equal(t, "US", results[0].CountryCode)
	assert.InDelta(t, -71.0605, results[0].Longitude, 1e-9)
}

func Test_RateLimit_RespectsContext(t *testing.T) {
	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK, `[]`), nil)

	osm := NewOpenStreetMap()
	osm.SetHTTPClient(mockClient)
	osm.SetRateLimit(0.001)

	_, err := osm.Geocode(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = osm.Geocode(ctx, "second")
	assert.ErrorIs(t, err, domain.ErrGeocoderUnavailable)
	mockClient.AssertNumberOfCalls(t, "Do", 1)
}

// ---------------------------------------------------------------------------
// Cached
// ---------------------------------------------------------------------------

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) ([]domain.GeoResult, error) {
	args := m.Called(ctx, address)
	results, _ := args.Get(0).([]domain.GeoResult)
	return results, args.Error(1)
}

type memoryStore struct {
	data   map[string][]domain.GeoResult
	getErr error
}

func (s *memoryStore) Get(_ context.Context, address string) ([]domain.GeoResult, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	r, ok := s.data[address]
	return r, ok, nil
}

func (s *memoryStore) Set(_ context.Context, address string, results []domain.GeoResult) error {
	s.data[address] = results
	return nil
}

var boston = []domain.GeoResult{{Latitude: 42.35, Longitude: -71.06, City: "Boston"}}

func Test_Cached_HitsMemoryAfterFirstLookup(t *testing.T) {
	next := &mockGeocoder{}
	next.On("Geocode", mock.Anything, "Boston MA").Return(boston, nil).Once()
	store := &memoryStore{data: map[string][]domain.GeoResult{}}

	c := NewCached(next, store, time.Minute, zerolog.Nop())
	for i := 0; i < 3; i++ {
		results, err := c.Geocode(context.Background(), "Boston MA")
		require.NoError(t, err)
		assert.Equal(t, boston, results)
	}
	// Whitespace and case variants share the in-process entry.
	_, err := c.Geocode(context.Background(), "  boston   ma ")
	require.NoError(t, err)

	next.AssertNumberOfCalls(t, "Geocode", 1)
	assert.Equal(t, boston, store.data["Boston MA"])
}

func Test_Cached_UsesStoreBeforeProvider(t *testing.T) {
	next := &mockGeocoder{}
	store := &memoryStore{data: map[string][]domain.GeoResult{"Boston": boston}}

	c := NewCached(next, store, time.Minute, zerolog.Nop())
	results, err := c.Geocode(context.Background(), "Boston")
	require.NoError(t, err)
	assert.Equal(t, boston, results)
	next.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func Test_Cached_NeverCachesEmpty(t *testing.T) {
	next := &mockGeocoder{}
	next.On("Geocode", mock.Anything, "Atlantis").Return([]domain.GeoResult{}, nil)
	store := &memoryStore{data: map[string][]domain.GeoResult{}}

	c := NewCached(next, store, time.Minute, zerolog.Nop())
	for i := 0; i < 2; i++ {
		results, err := c.Geocode(context.Background(), "Atlantis")
		require.NoError(t, err)
		assert.Empty(t, results)
	}
	next.AssertNumberOfCalls(t, "Geocode", 2)
	assert.Empty(t, store.data)
}

func Test_Cached_StoreErrorFallsThrough(t *testing.T) {
	next := &mockGeocoder{}
	next.On("Geocode", mock.Anything, "Boston").Return(boston, nil)
	store := &memoryStore{data: map[string][]domain.GeoResult{}, getErr: errors.New("redis down")}

	c := NewCached(next, store, time.Minute, zerolog.Nop())
	results, err := c.Geocode(context.Background(), "Boston")
	require.NoError(t, err)
	assert.Equal(t, boston, results)
}

func Test_New_SelectsProvider(t *testing.T) {
	_, err := New(Config{Provider: "mapquest"}, nil, zerolog.Nop())
	assert.Error(t, err, "mapquest needs a key")

	g, err := New(Config{Provider: "openstreetmap", RequestsPerSecond: 1}, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, g)

	_, err = New(Config{Provider: "carrier-pigeon"}, nil, zerolog.Nop())
	assert.True(t, err != nil && strings.Contains(err.Error(), "carrier-pigeon"))
}
