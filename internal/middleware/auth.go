package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"homehound/internal/listings"
)

// actorKey is the context key for the authenticated actor.
const actorKey contextKey = "actor"

type actorClaims struct {
	Role     string `json:"role"`
	AgencyID string `json:"agency_id"`
	jwt.RegisteredClaims
}

// ActorAuth verifies a Bearer token when one is present and attaches the
// resulting actor to the request context. Requests without a token pass
// through anonymously; handlers that mutate decide whether to reject.
func ActorAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := parseActor(token, secret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFrom returns the authenticated actor, if any.
// WithActor returns a context carrying the given actor. Handlers read it
// back through ActorFrom.
func WithActor(ctx context.Context, actor listings.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFrom(ctx context.Context) (listings.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(listings.Actor)
	return actor, ok
}

func parseActor(tokenString, secret string) (listings.Actor, error) {
	claims := &actorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return listings.Actor{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return listings.Actor{}, fmt.Errorf("invalid claims")
	}

	return listings.Actor{
		ID:       claims.Subject,
		Role:     listings.Role(claims.Role),
		AgencyID: claims.AgencyID,
	}, nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
