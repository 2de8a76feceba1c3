package httptransport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/suleigolden/sulber-core/internal/entity"
)

type contextKey string

const actorContextKey contextKey = "actor"

// AuthActor is the authenticated caller: id plus role from the token
// claims. Role decides which job operations the handlers expose.
type AuthActor struct {
	ID   string
	Role entity.Role
}

// ActorFromContext returns the authenticated actor placed by Authenticator.
func ActorFromContext(ctx context.Context) (AuthActor, bool) {
	actor, ok := ctx.Value(actorContextKey).(AuthActor)
	return actor, ok
}

func parseBearer(secret []byte, header string) (AuthActor, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return AuthActor{}, errors.New("missing bearer token")
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return AuthActor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return AuthActor{}, errors.New("invalid token claims")
	}
	id, _ := claims["id"].(string)
	role, _ := claims["role"].(string)
	if id == "" || role == "" {
		return AuthActor{}, errors.New("invalid token claims")
	}
	return AuthActor{ID: id, Role: entity.Role(role)}, nil
}

// Authenticator rejects requests without a valid bearer token and puts the
// actor into the request context.
func Authenticator(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := parseBearer(secret, r.Header.Get("Authorization"))
			if err != nil {
				writeErr(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorContextKey, actor)))
		})
	}
}

// requireRole guards a handler to a single role.
func requireRole(role entity.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok || actor.Role != role {
			writeErr(w, http.StatusForbidden, "access denied")
			return
		}
		next(w, r)
	}
}
