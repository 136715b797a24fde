package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/pkg/auth"
	"github.com/m04kA/SMC-EventScheduling/pkg/logger"
)

func actorEcho(t *testing.T, got *domain.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		require.True(t, ok)
		*got = actor
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	signer := auth.NewSigner("secret", "smc")
	other := auth.NewSigner("other-secret", "smc")

	valid, err := signer.CreateAccessToken("cust-1", "customer", "ann@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := signer.CreateAccessToken("cust-1", "customer", "", -time.Minute)
	require.NoError(t, err)
	foreign, err := other.CreateAccessToken("cust-1", "customer", "", time.Hour)
	require.NoError(t, err)
	badRole, err := signer.CreateAccessToken("cust-1", "admin", "", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"no bearer prefix", valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"unknown role", "Bearer " + badRole, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Actor
			h := Auth(signer, logger.NewNop())(actorEcho(t, &got))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/me/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, domain.Actor{ID: "cust-1", Role: domain.RoleCustomer}, got)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RequireRole(domain.RoleSystem)(ok)

	serve := func(actor *domain.Actor) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if actor != nil {
			req = req.WithContext(WithActor(req.Context(), *actor))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&domain.Actor{ID: "v-1", Role: domain.RoleVendor}))
	assert.Equal(t, http.StatusOK, serve(&domain.Actor{ID: "payments", Role: domain.RoleSystem}))
}
