package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/config"
	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/middleware"
	"github.com/cyphera/cyphera-metrics/internal/testutil"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
	"github.com/cyphera/cyphera-metrics/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Stage = constants.TestEnvironment
	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestHealthRoute(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"worker":"pool"`)
	assert.NotEmpty(t, w.Header().Get(middleware.CorrelationIDHeader))
}

func TestChartsRoute(t *testing.T) {
	body, err := json.Marshal(worker.Request{
		Document:         testutil.SingleDayDocument(),
		SelectedDate:     testutil.Date(2025, time.January, 1),
		StoreLocation:    constants.Calgary,
		CalendarView:     constants.CalendarViewMonthly,
		FormattingParams: business.FormattingParams{Currency: "CAD", Locale: "en-CA"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/charts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/charts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
