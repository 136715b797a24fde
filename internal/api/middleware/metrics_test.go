package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observed struct {
	method, path string
	status       int
}

type fakeMetrics struct {
	calls []observed
}

func (f *fakeMetrics) RecordHTTPRequest(method, path string, status int, _ time.Duration) {
	f.calls = append(f.calls, observed{method, path, status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/VB-1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/VB-2", nil))

	require.Len(t, m.calls, 2)
	assert.Equal(t, observed{http.MethodGet, "/api/v1/bookings/{bookingId}", http.StatusNotFound}, m.calls[0])
	assert.Equal(t, m.calls[0], m.calls[1])
}
