package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mbvogue/storefront/internal/infrastructure/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics(t *testing.T) {
	m := telemetry.NewMetrics()
	router := gin.New()
	router.Use(HTTPMetrics(m))
	router.GET("/api/v1/products/:slug", func(c *gin.Context) {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestInFlight))
		c.Status(http.StatusOK)
	})

	for _, slug := range []string{"ankara-dress", "kente-stole"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+slug, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestTotal.WithLabelValues("GET", "/api/v1/products/:slug", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestTotal.WithLabelValues("GET", "unknown", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestInFlight))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestHTTPMetrics_Nil(t *testing.T) {
	router := gin.New()
	router.Use(HTTPMetrics(nil))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPMetricsStatusGroup(t *testing.T) {
	cases := map[int]string{200: "2xx", 302: "3xx", 404: "4xx", 502: "5xx", 101: "other"}
	for code, want := range cases {
		assert.Equal(t, want, HTTPMetricsStatusGroup(code), "status %d", code)
	}
}
