package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seoyeonhwng/snoop/internal/infra/database/postgres"
)

type stubDB struct{ status string }

func (s stubDB) Health(ctx context.Context) *postgres.HealthStatus {
	return &postgres.HealthStatus{Status: s.status, MaxConns: 10}
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(stubDB{status: postgres.StatusUnhealthy}, "test")
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		status string
		code   int
	}{
		{"healthy", postgres.StatusHealthy, http.StatusOK},
		{"degraded still serves", postgres.StatusDegraded, http.StatusOK},
		{"unhealthy", postgres.StatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(stubDB{status: tt.status}, "test")
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestDetailed(t *testing.T) {
	h := NewHealthHandler(stubDB{status: postgres.StatusDegraded}, "1.2.3")
	rec := httptest.NewRecorder()
	h.Detailed(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/detailed", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"1.2.3"`)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	assert.Contains(t, rec.Body.String(), `"max_conns":10`)
}
