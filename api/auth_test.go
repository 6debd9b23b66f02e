package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthenticator_SignAndVerify(t *testing.T) {
	auth := NewAuthenticator("s3cret")

	token, exp, err := auth.SignToken("bot-1", time.Hour)
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("Expected expiry in the future, got %v", exp)
	}

	subject, err := auth.Verify(token)
	if err != nil || subject != "bot-1" {
		t.Errorf("Expected subject bot-1, got %q (%v)", subject, err)
	}

	t.Run("wrong secret", func(t *testing.T) {
		if _, err := NewAuthenticator("other").Verify(token); err == nil {
			t.Error("Expected verification with another secret to fail")
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired, _, err := auth.SignToken("bot-1", -time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := auth.Verify(expired); err == nil {
			t.Error("Expected expired token to fail")
		}
	})

	t.Run("other signing method", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := auth.Verify(none); err == nil {
			t.Error("Expected unsigned token to be rejected")
		}
	})

	t.Run("disabled cannot sign", func(t *testing.T) {
		if _, _, err := NewAuthenticator("").SignToken("x", time.Hour); err == nil {
			t.Error("Expected error without a secret")
		}
	})
}

func TestProtectedRoutes(t *testing.T) {
	auth := NewAuthenticator("s3cret")
	server := setupTestServer(&MockGameService{}, WithAuthenticator(auth))
	token, _, err := auth.SignToken("tester", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name           string
		method         string
		path           string
		authHeader     string
		expectedStatus int
	}{
		{"read without token", "GET", "/api/sessions", "", http.StatusOK},
		{"create without token", "POST", "/api/sessions", "", http.StatusUnauthorized},
		{"create with garbage token", "POST", "/api/sessions", "Bearer nope", http.StatusUnauthorized},
		{"create with token", "POST", "/api/sessions", "Bearer " + token, http.StatusCreated},
		{"swipe without token", "POST", "/api/sessions/a1b2c3d4/swipe", "", http.StatusUnauthorized},
		{"delete with lowercase scheme", "DELETE", "/api/sessions/a1b2c3d4", "bearer " + token, http.StatusOK},
		{"health is public", "GET", "/api/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := makeRequest(tt.method, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestSubjectInContext(t *testing.T) {
	auth := NewAuthenticator("s3cret")
	token, _, _ := auth.SignToken("alice-bot", time.Hour)

	var got string
	handler := auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Subject(r)
	}))

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "alice-bot" {
		t.Errorf("Expected subject alice-bot, got %q", got)
	}
}
