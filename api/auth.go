package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long tokens minted by SignToken stay valid
const DefaultTokenTTL = 14 * 24 * time.Hour

type contextKey string

var subjectCtxKey = contextKey("subject")

// Authenticator guards mutating routes with HS256 bearer tokens. A nil
// Authenticator or an empty secret lets every request through.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator returns an Authenticator for secret
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Enabled reports whether requests are checked
func (a *Authenticator) Enabled() bool {
	return a != nil && len(a.secret) > 0
}

// SignToken mints a token for subject valid for ttl
func (a *Authenticator) SignToken(subject string, ttl time.Duration) (string, time.Time, error) {
	if !a.Enabled() {
		return "", time.Time{}, errors.New("no signing secret configured")
	}
	now := time.Now()
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := token.SignedString(a.secret)
	return ss, exp, err
}

// Verify parses tokenStr and returns its subject
func (a *Authenticator) Verify(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", errors.New("invalid token")
	}
	return subject, nil
}

// Require rejects requests without a valid bearer token
func (a *Authenticator) Require(next http.Handler) http.Handler {
	if !a.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		subject, err := a.Verify(tokenStr)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), subjectCtxKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Subject returns the authenticated subject of a request, if any
func Subject(r *http.Request) string {
	s, _ := r.Context().Value(subjectCtxKey).(string)
	return s
}

func bearerToken(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}
