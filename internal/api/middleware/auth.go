package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-EventScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

const (
	bearerPrefix = "Bearer "

	msgMissingToken = "missing bearer token"
	msgInvalidToken = "invalid token"
	msgInvalidRole  = "token role is not allowed"
	msgForbidden    = "access denied"
)

type actorKey struct{}

// Auth verifies the bearer token and stores the caller as a domain.Actor
func Auth(parser TokenParser, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims, err := parser.ParseValidate(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
			if err != nil {
				logger.Warn("Auth: %s %s - rejected token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			role, ok := domain.ParseActorRole(claims.Role)
			if !ok {
				logger.Warn("Auth: %s %s - unknown role %q for subject=%s", r.Method, r.URL.Path, claims.Role, claims.Subject)
				handlers.RespondUnauthorized(w, msgInvalidRole)
				return
			}

			actor := domain.Actor{ID: claims.Subject, Role: role}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireRole rejects authenticated callers whose role is not listed
func RequireRole(roles ...domain.ActorRole) func(http.Handler) http.Handler {
	allowed := make(map[domain.ActorRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				handlers.RespondForbidden(w, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithActor stores the caller in ctx
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor returns the caller set by Auth
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}
