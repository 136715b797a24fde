package validate_booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage/memory"
	validateBooking "github.com/m04kA/SMC-EventScheduling/internal/usecase/validate_booking"
	"github.com/m04kA/SMC-EventScheduling/pkg/logger"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newHandler() *Handler {
	store := memory.NewStore()
	uc := validateBooking.NewUseCase(store.Bookings(), store.Configs(), nil, time.UTC, logger.NewNop()).
		WithTimeProvider(fixedTime{time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)})
	return NewHandler(uc, logger.NewNop())
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/validate", strings.NewReader(body)))
	return rec
}

func TestHandle_SingleDigitHourMatchesSlot(t *testing.T) {
	rec := post(newHandler(), `{"vendorId":"v-1","date":"2025-06-04","slotStart":"9:00","eventType":"birthday"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ValidateBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Valid, resp.Message)
	assert.Equal(t, "09:00-10:00", resp.TimeSlot)
}

func TestHandle_RejectionIsOK(t *testing.T) {
	rec := post(newHandler(), `{"vendorId":"v-1","date":"2025-06-04","slotStart":"09:15","eventType":"birthday"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ValidateBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, "invalid_slot", resp.Reason)
}

func TestHandle_BadInput(t *testing.T) {
	h := newHandler()

	for _, body := range []string{
		`{"vendorId":"v-1","date":"04.06.2025","slotStart":"09:00"}`,
		`{"vendorId":"v-1","date":"2025-06-04","slotStart":"9:0"}`,
		`{"vendorId":"v-1","date":"2025-06-04","slotStart":"09:00","slotEnd":"25:00"}`,
		`{"vendorId":`,
	} {
		assert.Equal(t, http.StatusBadRequest, post(h, body).Code, body)
	}
}

func TestToUseCaseRequest_NormalizesTimes(t *testing.T) {
	req := ValidateBookingRequest{VendorID: " v-1 ", Date: "2025-06-04", SlotStart: "9:00", SlotEnd: "9:30"}

	out, err := req.ToUseCaseRequest()

	require.NoError(t, err)
	assert.Equal(t, "v-1", out.VendorID)
	assert.Equal(t, "09:00", out.SlotStart.String())
	assert.Equal(t, "09:30", out.SlotEnd.String())
}
