package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaga0h/moonlight/pkg/mqtt/mqtttest"
)

type staticStats struct{}

func (staticStats) HostCount() int          { return 2 }
func (staticStats) FramesProcessed() uint64 { return 42 }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestHandlerFunc(t *testing.T) {
	checker := NewChecker(mqtttest.NewClient(), staticStats{}, testLogger())

	rec := httptest.NewRecorder()
	checker.HandlerFunc()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Nil(t, response.Services)
}

func TestDetailedHandlerFunc(t *testing.T) {
	client := mqtttest.NewClient()
	checker := NewChecker(client, staticStats{}, testLogger())

	rec := httptest.NewRecorder()
	checker.DetailedHandlerFunc()(rec, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, client.Connect(context.Background()))

	rec = httptest.NewRecorder()
	checker.DetailedHandlerFunc()(rec, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "connected", response.Services.MQTT)
	require.NotNil(t, response.Frames)
	assert.Equal(t, 2, response.Frames.Hosts)
	assert.Equal(t, uint64(42), response.Frames.Processed)
}
