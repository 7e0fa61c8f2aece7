package api

import (
	"net/http"

	"github.com/example/webstore/internal/api/middleware"
	"github.com/example/webstore/internal/domain/user"
	"go.uber.org/zap"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	users        *user.Service
	secureCookie bool
	log          *zap.Logger
}

// NewAuthHandlers creates a new AuthHandlers instance. secureCookie marks the
// token cookie Secure regardless of the request scheme.
func NewAuthHandlers(users *user.Service, secureCookie bool, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{users: users, secureCookie: secureCookie, log: log}
}

// credentials is the register and login request body
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a client account with the simple role
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	created, err := h.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Login returns the access token in the body and as an HttpOnly cookie
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	session, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, session)
}

// Logout clears the token cookie
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current user
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.users.Get(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}
