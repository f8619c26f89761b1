package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"homehound/internal/listings"
)

const testSecret = "unit-test-secret-key"

func signToken(t *testing.T, claims actorClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestActorAuth(t *testing.T) {
	var gotActor listings.Actor
	var hadActor bool

	handler := ActorAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor, hadActor = ActorFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token attaches actor", func(t *testing.T) {
		token := signToken(t, actorClaims{
			Role:     "ADMIN",
			AgencyID: "agency-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "agent-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !hadActor {
			t.Fatal("actor missing from context")
		}
		if gotActor.ID != "agent-1" || gotActor.Role != listings.RoleAdmin || gotActor.AgencyID != "agency-1" {
			t.Fatalf("actor = %+v", gotActor)
		}
	})

	t.Run("no token passes through anonymously", func(t *testing.T) {
		hadActor = true
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if hadActor {
			t.Fatal("unexpected actor for anonymous request")
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, actorClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "agent-1"},
		})
		signed, err := token.SignedString([]byte("some-other-secret"))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}
