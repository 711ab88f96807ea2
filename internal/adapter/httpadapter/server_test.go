package httpadapter_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchcryptid/asteroid-impact-service/internal/adapter/httpadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(readyErr error, api http.Handler) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, api, slog.Default())
}

func serve(srv *httpadapter.Server, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := serve(newTestServer(errors.New("no assessments loaded yet"), nil), http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAPIMountedUnderPrefix(t *testing.T) {
	var gotPath string
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusTeapot)
	})

	rec := serve(newTestServer(nil, api), http.MethodPost, "/api/v1/impact")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "/api/v1/impact", gotPath)
}

func TestAPINotMountedWhenNil(t *testing.T) {
	rec := serve(newTestServer(nil, nil), http.MethodPost, "/api/v1/impact")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadyzLogsReason(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	srv := httpadapter.NewServer(":0", &mockReadiness{err: errors.New("badger closed")}, nil, logger)

	rec := serve(srv, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, logs.String(), "impact service not ready")
	assert.Contains(t, logs.String(), "badger closed")
}

func TestAllReady(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, httpadapter.AllReady().CheckReadiness(ctx))
	require.NoError(t, httpadapter.AllReady(
		httpadapter.Dependency{Name: "simulation store", Checker: &mockReadiness{}},
		httpadapter.Dependency{Name: "assessment pipeline"},
	).CheckReadiness(ctx))

	notReady := errors.New("store closed")
	err := httpadapter.AllReady(
		httpadapter.Dependency{Name: "assessment pipeline", Checker: &mockReadiness{}},
		httpadapter.Dependency{Name: "simulation store", Checker: &mockReadiness{err: notReady}},
	).CheckReadiness(ctx)
	require.ErrorIs(t, err, notReady)
	assert.EqualError(t, err, "simulation store: store closed")
}
