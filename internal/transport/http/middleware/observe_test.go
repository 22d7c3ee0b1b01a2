package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/voter-api/internal/metrics"
)

func TestObserve_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Observe)
	r.Get("/session/{code}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/session/{code}", "404")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/session/ABCD1234", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/session/ZZZZ9999", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestObserve_DefaultsStatusToOK(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Observe)
	r.Get("/health-check/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/health-check/ping", "200")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health-check/ping", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
