package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error {
	return p.err
}

type stubModels struct {
	version string
}

func (m *stubModels) Version() string {
	return m.version
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func doRequest(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if rec.Code != http.StatusNotFound {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthServedOnConfiguredPath(t *testing.T) {
	srv := NewServer(Config{
		ServiceName: "bidsight-worker",
		Version:     "1.2.3",
		Path:        "/healthz",
		Logger:      quietLogger(),
		Models:      &stubModels{version: "20250301T020000Z"},
	})

	rec, body := doRequest(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "bidsight-worker", body["service"])
	assert.Equal(t, "20250301T020000Z", body["model_version"])

	// The default path is not registered when another one is configured
	rec, _ = doRequest(t, srv, "/health")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthPathDefault(t *testing.T) {
	srv := NewServer(Config{ServiceName: "bidsight-worker", Logger: quietLogger()})

	rec, body := doRequest(t, srv, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestReadyReportsAllChecks(t *testing.T) {
	srv := NewServer(Config{
		ServiceName: "bidsight-worker",
		Logger:      quietLogger(),
		DB:          &stubPinger{},
		Models:      &stubModels{version: "20250301T020000Z"},
	})
	srv.SetReady(true)

	rec, body := doRequest(t, srv, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "ok", checks["service"])
	assert.Equal(t, "ok", checks["database"])
	assert.Equal(t, "ok", checks["models"])
}

func TestReadyUntrainedModelsStillReady(t *testing.T) {
	srv := NewServer(Config{
		ServiceName: "bidsight-worker",
		Logger:      quietLogger(),
		DB:          &stubPinger{},
		Models:      &stubModels{},
	})
	srv.SetReady(true)

	// Untrained models are surfaced but never fail readiness; the predict
	// path serves defaults until a training run completes.
	rec, body := doRequest(t, srv, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "untrained", checks["models"])
}

func TestReadyDatabaseDown(t *testing.T) {
	srv := NewServer(Config{
		ServiceName: "bidsight-worker",
		Logger:      quietLogger(),
		DB:          &stubPinger{err: errors.New("connection refused")},
	})
	srv.SetReady(true)

	rec, body := doRequest(t, srv, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])
}

func TestReadyBeforeStartup(t *testing.T) {
	srv := NewServer(Config{ServiceName: "bidsight-worker", Logger: quietLogger()})

	rec, body := doRequest(t, srv, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "not_ready", checks["service"])
}
