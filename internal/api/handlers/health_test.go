package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobguard/internal/infrastructure/cache"
	"jobguard/pkg/logger"
)

func TestHealthCheck(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	h := NewHealthHandler(nil, nil, "1.2.3", log)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.NotEmpty(t, resp.Uptime)
}

func TestReadyWithoutDependencies(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	h := NewHealthHandler(nil, nil, "1.2.3", log)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	h.Ready(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Empty(t, resp.Checks)
}

func TestReadyWithRedis(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	redisCache := cache.NewRedisWithClient(client, "jobguard:", log)

	h := NewHealthHandler(redisCache, nil, "1.2.3", log)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	h.Ready(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Checks["redis"])

	// A dead Redis flips readiness
	mr.Close()
	rec = httptest.NewRecorder()
	h.Ready(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
