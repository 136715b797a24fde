package get_availability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage/memory"
	getAvailability "github.com/m04kA/SMC-EventScheduling/internal/usecase/get_availability"
	"github.com/m04kA/SMC-EventScheduling/pkg/logger"
)

func newRouter() *mux.Router {
	store := memory.NewStore()
	uc := getAvailability.NewUseCase(store.Bookings(), store.Configs(), nil, nil, logger.NewNop())
	h := NewHandler(uc, logger.NewNop())

	r := mux.NewRouter()
	r.HandleFunc("/vendors/{vendorId}/availability", h.HandleDay).Methods(http.MethodGet)
	r.HandleFunc("/vendors/{vendorId}/availability/month", h.HandleMonth).Methods(http.MethodGet)
	return r
}

func TestHandleDay(t *testing.T) {
	r := newRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vendors/v-1/availability?date=2025-06-02", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DayAvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "2025-06-02", resp.Date)
	assert.True(t, resp.IsAvailable)
	require.Len(t, resp.Slots, 6)
	assert.Equal(t, "09:00-10:00", resp.Slots[0].TimeSlot)
}

func TestHandleDay_BadInput(t *testing.T) {
	r := newRouter()

	for _, url := range []string{
		"/vendors/v-1/availability",
		"/vendors/v-1/availability?date=02.06.2025",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}

func TestHandleMonth(t *testing.T) {
	r := newRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vendors/v-1/availability/month?year=2025&month=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp MonthAvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Month)
	assert.Len(t, resp.Days, 28)
}

func TestHandleMonth_BadInput(t *testing.T) {
	r := newRouter()

	for _, url := range []string{
		"/vendors/v-1/availability/month?year=2025",
		"/vendors/v-1/availability/month?year=2025&month=13",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}
