package neows

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey        = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

const apophisJSON = `{
  "id": "2099942",
  "neo_reference_id": "2099942",
  "name": "99942 Apophis (2004 MN4)",
  "absolute_magnitude_h": 19.09,
  "estimated_diameter": {
    "kilometers": {"estimated_diameter_min": 0.31, "estimated_diameter_max": 0.69},
    "meters": {"estimated_diameter_min": 310, "estimated_diameter_max": 690}
  },
  "is_potentially_hazardous_asteroid": true,
  "close_approach_data": [
    {
      "close_approach_date": "2029-04-13",
      "relative_velocity": {"kilometers_per_second": "7.4221", "kilometers_per_hour": "26719.5"},
      "miss_distance": {"kilometers": "38012.5"}
    },
    {
      "close_approach_date": "2036-03-27",
      "relative_velocity": {"kilometers_per_second": "5.1"},
      "miss_distance": {"kilometers": "46000000"}
    }
  ]
}`

func testClient(baseURL string) *Client {
	c := NewClient(testAPIKey, baseURL, 5*time.Second, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return c
}

func TestClient_Lookup_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/neo/2099942", r.URL.Path)
		assert.Equal(t, testAPIKey, r.URL.Query().Get("api_key"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, apophisJSON)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	neo, err := c.Lookup(context.Background(), "2099942")
	require.NoError(t, err)

	assert.Equal(t, "2099942", neo.ID)
	assert.Equal(t, "99942 Apophis (2004 MN4)", neo.Name)
	assert.InDelta(t, 500, neo.Diameter, 1e-9)
	assert.InDelta(t, 7.4221, neo.Velocity, 1e-9)
	assert.True(t, neo.PotentiallyHazardous)
	assert.InDelta(t, 38012.5, neo.MissDistanceKm, 1e-9)
	assert.InDelta(t, 19.09, neo.AbsoluteMagnitudeH, 1e-9)
	assert.Equal(t, time.Date(2029, 4, 13, 0, 0, 0, 0, time.UTC), neo.CloseApproachDate)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.NeoWsRequests.WithLabelValues("success")))
}

func TestClient_Lookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Lookup(context.Background(), "0")
	require.ErrorIs(t, err, domain.ErrNEONotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.NeoWsRequests.WithLabelValues("not_found")))
}

func TestClient_Lookup_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, "OVER_RATE_LIMIT")
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Lookup(context.Background(), "2099942")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.NotErrorIs(t, err, domain.ErrNEONotFound)
}

func TestClient_Lookup_ErrorDoesNotLeakKey(t *testing.T) {
	c := testClient("http://127.0.0.1:1")
	_, err := c.Lookup(context.Background(), "2099942")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testAPIKey)
}

func TestClient_Lookup_NoCloseApproach(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, `{"id":"1","name":"lonely","estimated_diameter":{"meters":{"estimated_diameter_min":10,"estimated_diameter_max":20}},"close_approach_data":[]}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Lookup(context.Background(), "1")
	require.ErrorIs(t, err, domain.ErrNEOIncomplete)
	assert.Contains(t, err.Error(), "close approach")
}

func TestClient_Lookup_MalformedVelocity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, `{"id":"1","close_approach_data":[{"relative_velocity":{"kilometers_per_second":"fast"}}]}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Lookup(context.Background(), "1")
	require.Error(t, err)
}

func TestClient_Lookup_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, apophisJSON)
	}))
	defer srv.Close()

	c := NewClient(testAPIKey, srv.URL, 20*time.Millisecond, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.Lookup(context.Background(), "2099942")
	require.Error(t, err)
}

func TestClient_Lookup_EmptyID(t *testing.T) {
	_, err := testClient("http://unused").Lookup(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrNEONotFound)
}
