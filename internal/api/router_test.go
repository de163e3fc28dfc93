package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/altora/accountd/internal/app"
	"github.com/altora/accountd/internal/database/testutil"
	"github.com/altora/accountd/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, cfg *app.Config) *gin.Engine {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := services.NewAccountService(db, nil)
	require.NoError(t, err)

	router, err := NewRouter(db, cfg, svc)
	require.NoError(t, err)
	return router
}

func TestNewRouterValidatesDependencies(t *testing.T) {
	cfg := &app.Config{}

	_, err := NewRouter(nil, cfg, nil)
	require.Error(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, &app.Config{})

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMetricsEndpointToggle(t *testing.T) {
	enabled := &app.Config{}
	enabled.Monitoring.Prometheus.Enabled = true
	enabled.Monitoring.Prometheus.Endpoint = "/metrics"

	router := newTestRouter(t, enabled)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	disabled := newTestRouter(t, &app.Config{})
	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	router := newTestRouter(t, &app.Config{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "NOT_FOUND"))
}

func TestAccountRoutesRegistered(t *testing.T) {
	router := newTestRouter(t, &app.Config{})

	routes := map[string]bool{}
	for _, route := range router.Routes() {
		routes[route.Method+" "+route.Path] = true
	}

	for _, expected := range []string{
		"POST /api/auth/register",
		"POST /api/auth/login",
		"POST /api/auth/verify",
		"POST /api/auth/forgot-password",
		"POST /api/auth/reset-password",
		"POST /api/mail/send",
	} {
		require.True(t, routes[expected], expected)
	}
}
