package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aprameyak/philly/internal/middleware"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func captureUserID(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = middleware.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyMiddleware(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := middleware.APIKeyMiddleware("admin-key")(next)

	cases := []struct {
		name string
		key  string
		want int
	}{
		{"valid", "admin-key", http.StatusOK},
		{"wrong", "not-the-key", http.StatusUnauthorized},
		{"missing", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
			if tc.key != "" {
				req.Header.Set("X-API-Key", tc.key)
			}
			rr := httptest.NewRecorder()
			mw.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("expected %d got %d", tc.want, rr.Code)
			}
		})
	}
}

func TestJWTOptional_NoTokenPassesAnonymously(t *testing.T) {
	t.Parallel()

	var gotID string
	mw := middleware.JWTOptional(testSecret)(captureUserID(&gotID))

	req := httptest.NewRequest(http.MethodPost, "/reports", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d", http.StatusOK, rr.Code)
	}
	if gotID != "" {
		t.Fatalf("expected anonymous, got user id %q", gotID)
	}
}

func TestJWTOptional_ValidTokenAttachesUser(t *testing.T) {
	t.Parallel()

	var gotID string
	mw := middleware.JWTOptional(testSecret)(captureUserID(&gotID))

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodPost, "/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d", http.StatusOK, rr.Code)
	}
	if gotID != "user-42" {
		t.Fatalf("expected user-42 got %q", gotID)
	}
}

func TestJWTOptional_InvalidTokenRejected(t *testing.T) {
	t.Parallel()

	var gotID string
	mw := middleware.JWTOptional(testSecret)(captureUserID(&gotID))

	cases := []struct {
		name  string
		token string
	}{
		{"garbage", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})},
		{"expired", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"no sub", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
		{"not bearer", "Basic dXNlcjpwYXNz"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/reports", nil)
			req.Header.Set("Authorization", tc.token)
			rr := httptest.NewRecorder()
			mw.ServeHTTP(rr, req)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected %d got %d", http.StatusUnauthorized, rr.Code)
			}
		})
	}
}

func TestJWTRequired_MissingTokenRejected(t *testing.T) {
	t.Parallel()

	var gotID string
	mw := middleware.JWTRequired(testSecret)(captureUserID(&gotID))

	req := httptest.NewRequest(http.MethodPut, "/profiles/u1", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestJWTRequired_ValidTokenPasses(t *testing.T) {
	t.Parallel()

	var gotID string
	mw := middleware.JWTRequired(testSecret)(captureUserID(&gotID))

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-7",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodPut, "/profiles/user-7", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d", http.StatusOK, rr.Code)
	}
	if gotID != "user-7" {
		t.Fatalf("expected user-7 got %q", gotID)
	}
}
