package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/internal/api/middleware"
	"github.com/tripwise/tripwise/internal/auth"
)

type stubValidator map[string]error

func (s stubValidator) UserID(token string) (string, error) {
	if err, ok := s[token]; ok && err != nil {
		return "", err
	}
	if _, ok := s[token]; !ok {
		return "", auth.ErrInvalidAccessToken
	}
	return "usr_" + token, nil
}

func TestAuth(t *testing.T) {
	validator := stubValidator{
		"good":    nil,
		"expired": auth.ErrAccessTokenExpired,
		"broken":  errors.New("unexpected"),
	}

	var gotUser string
	handler := middleware.Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = middleware.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantDetail string
	}{
		{"valid token", "Bearer good", http.StatusOK, ""},
		{"case-insensitive scheme", "bearer good", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"basic auth", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "invalid authorization header format"},
		{"just bearer", "Bearer", http.StatusUnauthorized, "invalid authorization header format"},
		{"empty bearer", "Bearer   ", http.StatusUnauthorized, "missing bearer token"},
		{"expired", "Bearer expired", http.StatusUnauthorized, "access token has expired"},
		{"unknown", "Bearer nope", http.StatusUnauthorized, "invalid access token"},
		{"validator failure", "Bearer broken", http.StatusUnauthorized, "invalid access token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = ""
			req := httptest.NewRequest(http.MethodGet, "/v1/trips", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "usr_good", gotUser)
				return
			}
			assert.Empty(t, gotUser)
			assert.Contains(t, rec.Body.String(), tt.wantDetail)
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestAuth_WithJWTService(t *testing.T) {
	svc := auth.NewJWTService(auth.JWTConfig{SigningKey: "k", Issuer: "iss", Audience: "aud"})
	token, _, err := svc.GenerateAccessToken("usr_42")
	require.NoError(t, err)

	var gotUser string
	handler := middleware.Auth(svc)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotUser = middleware.GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/trips", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "usr_42", gotUser)
}
