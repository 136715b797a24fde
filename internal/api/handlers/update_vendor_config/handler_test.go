package update_vendor_config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-EventScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage/memory"
	configService "github.com/m04kA/SMC-EventScheduling/internal/service/config"
	"github.com/m04kA/SMC-EventScheduling/internal/service/config/models"
	"github.com/m04kA/SMC-EventScheduling/pkg/logger"
)

type nopDispatcher struct{}

func (nopDispatcher) ConfigChanged(context.Context, string, []string) {}

func newRouter(actor *domain.Actor) *mux.Router {
	store := memory.NewStore()
	svc := configService.NewService(store.Configs(), memory.NewTxManager(), nopDispatcher{}, logger.NewNop())
	h := NewHandler(svc, logger.NewNop())

	r := mux.NewRouter()
	if actor != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithActor(req.Context(), *actor)))
			})
		})
	}
	r.HandleFunc("/vendors/{vendorId}/config", h.Handle).Methods(http.MethodPatch)
	r.HandleFunc("/vendors/{vendorId}/config/event-types", h.HandleSetEventTypes).Methods(http.MethodPut)
	r.HandleFunc("/vendors/{vendorId}/config/holidays", h.HandleAddHoliday).Methods(http.MethodPost)
	r.HandleFunc("/vendors/{vendorId}/config/holidays/{date}", h.HandleRemoveHoliday).Methods(http.MethodDelete)
	return r
}

func serve(r http.Handler, method, url, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, url, strings.NewReader(body)))
	return rec
}

var vendor = domain.Actor{ID: "v-1", Role: domain.RoleVendor}

func TestHandle_Patch(t *testing.T) {
	r := newRouter(&vendor)

	rec := serve(r, http.MethodPatch, "/vendors/v-1/config", `{"bufferMinutes":15,"maxEventsPerDay":2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ConfigResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 15, resp.BufferMinutes)
	assert.Equal(t, 2, resp.MaxEventsPerDay)
	assert.False(t, resp.IsDefault)
}

func TestHandle_PatchInvalidConfigListsFields(t *testing.T) {
	r := newRouter(&vendor)

	rec := serve(r, http.MethodPatch, "/vendors/v-1/config",
		`{"slotDurationMinutes":0,"workingHours":{"monday":{"start":"18:00","end":"09:00","isWorking":true}}}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.GreaterOrEqual(t, len(resp.Fields), 2)
}

func TestHandle_AccessRules(t *testing.T) {
	other := domain.Actor{ID: "v-2", Role: domain.RoleVendor}

	assert.Equal(t, http.StatusUnauthorized, serve(newRouter(nil), http.MethodPatch, "/vendors/v-1/config", `{}`).Code)
	assert.Equal(t, http.StatusForbidden, serve(newRouter(&other), http.MethodPatch, "/vendors/v-1/config", `{"bufferMinutes":10}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(newRouter(&vendor), http.MethodPatch, "/vendors/v-1/config", `{"unknown":1}`).Code)
}

func TestHandle_Holidays(t *testing.T) {
	r := newRouter(&vendor)

	rec := serve(r, http.MethodPost, "/vendors/v-1/config/holidays", `{"date":"2025-12-25","reason":"Christmas"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ConfigResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []models.Holiday{{Date: "2025-12-25", Reason: "Christmas"}}, resp.Holidays)

	rec = serve(r, http.MethodDelete, "/vendors/v-1/config/holidays/2025-12-25", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = models.ConfigResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Holidays)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodDelete, "/vendors/v-1/config/holidays/25-12-2025", "").Code)
}

func TestHandle_SetEventTypes(t *testing.T) {
	r := newRouter(&vendor)

	rec := serve(r, http.MethodPut, "/vendors/v-1/config/event-types",
		`{"eventTypes":[{"type":"birthday","durationMinutes":180,"price":25000,"minGuests":10,"maxGuests":80}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ConfigResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.EventTypes, 1)
	assert.Equal(t, "birthday", resp.EventTypes[0].Type)
}
