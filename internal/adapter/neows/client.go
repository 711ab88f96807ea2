// Package neows looks up near-earth objects in NASA's NeoWs catalogue.
package neows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public NeoWs endpoint.
const DefaultBaseURL = "https://api.nasa.gov/neo/rest/v1"

// NASA allows 1000 requests per hour per key.
const (
	hourlyQuota = 1000
	burst       = 10
)

// Client implements domain.AsteroidSource using the NeoWs lookup API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a NeoWs client. An empty baseURL uses DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Every(time.Hour/hourlyQuota), burst),
		metrics: metrics,
		logger:  logger,
	}
}

// Lookup fetches one object by NeoWs ID.
func (c *Client) Lookup(ctx context.Context, neoID string) (domain.NearEarthObject, error) {
	if neoID == "" {
		return domain.NearEarthObject{}, fmt.Errorf("%w: empty id", domain.ErrNEONotFound)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.NeoWsRequests.WithLabelValues("error").Inc()
		return domain.NearEarthObject{}, fmt.Errorf("neows rate limit: %w", err)
	}

	u := fmt.Sprintf("%s/neo/%s?%s", c.baseURL, url.PathEscape(neoID), url.Values{"api_key": {c.apiKey}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.NearEarthObject{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.NeoWsAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.NeoWsRequests.WithLabelValues("error").Inc()
		// The URL carries the API key; report only the operation.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return domain.NearEarthObject{}, fmt.Errorf("neows lookup %s: %w", neoID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.metrics.NeoWsRequests.WithLabelValues("not_found").Inc()
		return domain.NearEarthObject{}, fmt.Errorf("%w: %s", domain.ErrNEONotFound, neoID)
	case resp.StatusCode != http.StatusOK:
		c.metrics.NeoWsRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.NearEarthObject{}, fmt.Errorf("neows API error: status %d: %s", resp.StatusCode, body)
	}

	var neo neoResponse
	if err := json.NewDecoder(resp.Body).Decode(&neo); err != nil {
		c.metrics.NeoWsRequests.WithLabelValues("error").Inc()
		return domain.NearEarthObject{}, fmt.Errorf("decode response: %w", err)
	}

	result, err := neo.toDomain()
	if err != nil {
		c.metrics.NeoWsRequests.WithLabelValues("error").Inc()
		return domain.NearEarthObject{}, err
	}
	c.metrics.NeoWsRequests.WithLabelValues("success").Inc()
	c.logger.Debug("neows lookup", "neo_id", result.ID, "diameter_m", result.Diameter, "velocity_kms", result.Velocity)
	return result, nil
}

// NeoWs API response types.

type neoResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	AbsoluteMagnitudeH float64 `json:"absolute_magnitude_h"`
	EstimatedDiameter  struct {
		Meters struct {
			Min float64 `json:"estimated_diameter_min"`
			Max float64 `json:"estimated_diameter_max"`
		} `json:"meters"`
	} `json:"estimated_diameter"`
	PotentiallyHazardous bool            `json:"is_potentially_hazardous_asteroid"`
	CloseApproaches      []closeApproach `json:"close_approach_data"`
}

// NeoWs encodes numeric close-approach fields as strings.
type closeApproach struct {
	Date             string `json:"close_approach_date"`
	RelativeVelocity struct {
		KilometersPerSecond string `json:"kilometers_per_second"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Kilometers string `json:"kilometers"`
	} `json:"miss_distance"`
}

func (r neoResponse) toDomain() (domain.NearEarthObject, error) {
	neo := domain.NearEarthObject{
		ID:                   r.ID,
		Name:                 r.Name,
		Diameter:             (r.EstimatedDiameter.Meters.Min + r.EstimatedDiameter.Meters.Max) / 2,
		PotentiallyHazardous: r.PotentiallyHazardous,
		AbsoluteMagnitudeH:   r.AbsoluteMagnitudeH,
	}
	if len(r.CloseApproaches) == 0 {
		return domain.NearEarthObject{}, fmt.Errorf("%w: neo %s has no close approach data", domain.ErrNEOIncomplete, r.ID)
	}

	ca := r.CloseApproaches[0]
	v, err := strconv.ParseFloat(ca.RelativeVelocity.KilometersPerSecond, 64)
	if err != nil {
		return domain.NearEarthObject{}, fmt.Errorf("%w: neo %s: parse relative velocity: %w", domain.ErrNEOIncomplete, r.ID, err)
	}
	neo.Velocity = v

	if d, err := strconv.ParseFloat(ca.MissDistance.Kilometers, 64); err == nil {
		neo.MissDistanceKm = d
	}
	if t, err := time.Parse(time.DateOnly, ca.Date); err == nil {
		neo.CloseApproachDate = t
	}
	return neo, nil
}
