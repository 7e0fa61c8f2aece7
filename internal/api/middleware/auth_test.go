package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/webstore/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing-purposes", "webstore", "webstore-spa", 15*time.Minute)
}

func intPtr(v int) *int { return &v }

// captureClaims returns a handler recording the claims it sees
func captureClaims(dst **auth.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := GetUserFromContext(r.Context()); ok {
			*dst = claims
		}
		w.WriteHeader(http.StatusOK)
	})
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["message"]
}

// ============================================
// AuthMiddleware Tests
// ============================================

func TestAuthMiddleware_ValidToken_Header(t *testing.T) {
	jwtService := newTestJWTService()
	token, _, err := jwtService.GenerateAccessToken(5, "maria", "simple", intPtr(9))
	require.NoError(t, err)

	var captured *auth.Claims
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(jwtService)(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, 5, captured.UserID)
	assert.Equal(t, "maria", captured.Username)
	assert.Equal(t, "simple", captured.Role)
}

func TestAuthMiddleware_ValidToken_Cookie(t *testing.T) {
	jwtService := newTestJWTService()
	token, _, err := jwtService.GenerateAccessToken(1, "admin", "admin", nil)
	require.NoError(t, err)

	var captured *auth.Claims
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	rec := httptest.NewRecorder()

	AuthMiddleware(jwtService)(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, 1, captured.UserID)
}

func TestAuthMiddleware_CookieTakesPrecedence(t *testing.T) {
	jwtService := newTestJWTService()
	cookieToken, _, err := jwtService.GenerateAccessToken(1, "from-cookie", "admin", nil)
	require.NoError(t, err)
	headerToken, _, err := jwtService.GenerateAccessToken(2, "from-header", "simple", nil)
	require.NoError(t, err)

	var captured *auth.Claims
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: cookieToken})
	req.Header.Set("Authorization", "Bearer "+headerToken)
	rec := httptest.NewRecorder()

	AuthMiddleware(jwtService)(captureClaims(&captured)).ServeHTTP(rec, req)

	require.NotNil(t, captured)
	assert.Equal(t, "from-cookie", captured.Username)
}

func TestAuthMiddleware_Rejected(t *testing.T) {
	jwtService := newTestJWTService()
	other := auth.NewJWTService("another-secret-key-for-testing-purposes", "webstore", "webstore-spa", 15*time.Minute)
	foreign, _, err := other.GenerateAccessToken(1, "admin", "admin", nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no token", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage", "Bearer not-a-token"},
		{"wrong signature", "Bearer " + foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *auth.Claims
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(jwtService)(captureClaims(&captured)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, decodeMessage(t, rec))
			assert.Nil(t, captured)
		})
	}
}

// ============================================
// RequireRole Tests
// ============================================

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		claims   *auth.Claims
		roles    []string
		wantCode int
	}{
		{"has role", &auth.Claims{UserID: 1, Role: "admin"}, []string{"admin"}, http.StatusOK},
		{"has alternate role", &auth.Claims{UserID: 2, Role: "advanced"}, []string{"admin", "advanced"}, http.StatusOK},
		{"missing role", &auth.Claims{UserID: 3, Role: "simple"}, []string{"admin", "advanced"}, http.StatusForbidden},
		{"no claims", nil, []string{"admin"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

// ============================================
// Context Helper Tests
// ============================================

func TestGetClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetClientID(req.Context())
	assert.False(t, ok)

	staff := WithClaims(req.Context(), &auth.Claims{UserID: 1, Role: "admin"})
	_, ok = GetClientID(staff)
	assert.False(t, ok)

	customer := WithClaims(req.Context(), &auth.Claims{UserID: 2, Role: "simple", ClientID: intPtr(17)})
	id, ok := GetClientID(customer)
	assert.True(t, ok)
	assert.Equal(t, 17, id)
}
