package bridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavsense/mavsense/internal/mavlink/common"
	"github.com/mavsense/mavsense/internal/testutil/testlog"
)

func getJSON(t *testing.T, h http.Handler, path string) map[string]any {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStatusHealth(t *testing.T) {
	testlog.Start(t)
	s := NewService(validConfig())
	h := s.statusRouter(time.Now().Add(-time.Minute))

	body := getJSON(t, h, "/health")
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "mavsense", body["service"])
	assert.Equal(t, float64(0), body["rows"])
	assert.NotEmpty(t, body["uptime"])
}

func TestStatusPosition(t *testing.T) {
	testlog.Start(t)
	s := NewService(validConfig())
	h := s.statusRouter(time.Now())

	body := getJSON(t, h, "/position")
	assert.Equal(t, false, body["fix"])

	s.handleFrame(inboundFrame{message: &common.GlobalPositionInt{
		Lat:         405954666,
		Lon:         -1051388320,
		RelativeAlt: 52750,
	}})

	body = getJSON(t, h, "/position")
	assert.Equal(t, true, body["fix"])
	assert.InDelta(t, 40.5954666, body["latitude"].(float64), 1e-7)
	assert.InDelta(t, -105.1388320, body["longitude"].(float64), 1e-7)
	assert.InDelta(t, 52.75, body["altitude"].(float64), 1e-9)
}

func TestStatusMetricsEndpoint(t *testing.T) {
	testlog.Start(t)
	s := NewService(validConfig())
	h := s.statusRouter(time.Now())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mavsense_mavlink_frames_sent_total")
}
