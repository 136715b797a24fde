package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordBookingCreated()
		m.RecordBookingConflict()
		m.RecordRejection("too_soon")
		m.RecordTransition("completed")
		m.RecordCacheLookup(true)
		m.RecordHTTPRequest("GET", "/x", 200, time.Millisecond)
	})
}

func TestMetrics_RecordsDomainCounters(t *testing.T) {
	m := New("test")

	m.RecordBookingCreated()
	m.RecordBookingCreated()
	m.RecordRejection("slot_taken")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationRejections.WithLabelValues("slot_taken")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("test")
	m.RecordTransition("vendor_accepted")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "booking_status_transitions_total")
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	m := New("test")

	m.RecordHTTPRequest(http.MethodPost, "/api/v1/bookings", http.StatusCreated, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/v1/bookings", "201")))
}
