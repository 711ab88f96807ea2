//go:build neows

package neows

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real NeoWs API and require a NEOWS_API_KEY env var
// (DEMO_KEY works at a low rate).
// Run with: go test -tags=neows ./internal/adapter/neows/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("NEOWS_API_KEY")
	if key == "" {
		t.Fatal("NEOWS_API_KEY must be set to run smoke tests")
	}
	return NewClient(key, DefaultBaseURL, 10*time.Second, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_LookupApophis(t *testing.T) {
	c := smokeClient(t)

	neo, err := c.Lookup(context.Background(), "2099942")
	require.NoError(t, err)

	assert.Equal(t, "2099942", neo.ID)
	assert.Contains(t, neo.Name, "Apophis")
	assert.Greater(t, neo.Diameter, 100.0)
	assert.Less(t, neo.Diameter, 1000.0)
	assert.Greater(t, neo.Velocity, 0.0)
	t.Logf("Apophis: diameter=%.0f m velocity=%.2f km/s", neo.Diameter, neo.Velocity)
}

func TestSmoke_LookupUnknown(t *testing.T) {
	c := smokeClient(t)

	_, err := c.Lookup(context.Background(), "1")
	require.ErrorIs(t, err, domain.ErrNEONotFound)
}
