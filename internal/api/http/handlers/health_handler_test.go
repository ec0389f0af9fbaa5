package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dirkit/user-directory/internal/config"
	"github.com/dirkit/user-directory/internal/observability"
	"github.com/dirkit/user-directory/internal/persistence"
)

func readiness(t *testing.T, rd *persistence.Redis) (int, map[string]any) {
	t.Helper()
	h := NewHealthHandler("user-directory", "test", &persistence.Postgres{}, rd, observability.NewMetrics())
	app := fiber.New()
	app.Get("/health/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestReadyWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rd := persistence.NewRedis(config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	t.Cleanup(rd.Close)

	status, out := readiness(t, rd)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]any{"postgres": "disabled", "redis": "ok"}, out["dependencies"])
}

func TestReadyWithUnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rd := persistence.NewRedis(config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	t.Cleanup(rd.Close)
	mr.Close()

	status, out := readiness(t, rd)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", out["status"])
	assert.Equal(t, map[string]any{"postgres": "disabled", "redis": "degraded"}, out["dependencies"])
}
