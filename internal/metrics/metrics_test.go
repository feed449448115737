package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRoutes(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/games", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/api/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "loading")
	})

	for _, path := range []string{"/api/games", "/api/games", "/api/fail"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/games", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/fail", "503")))
}

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveLoad(1500*time.Millisecond, 16598)
	m.ObserveFilter(2*time.Millisecond, 42)

	assert.Equal(t, 16598.0, testutil.ToFloat64(m.DatasetRows))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.LoadSeconds))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FilteredRows))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveFilter(time.Millisecond, 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "vgsales_filtered_rows_count 1"), body)
	assert.Contains(t, body, "vgsales_dataset_rows")
	assert.Contains(t, body, "go_goroutines")
}
