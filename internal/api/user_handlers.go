package api

import (
	"net/http"
	"strconv"

	"github.com/example/webstore/internal/domain/user"
	"github.com/example/webstore/internal/model"
	"go.uber.org/zap"
)

// UserHandlers serves the admin-only /api/users
type UserHandlers struct {
	users *user.Service
	log   *zap.Logger
}

func NewUserHandlers(users *user.Service, log *zap.Logger) *UserHandlers {
	return &UserHandlers{users: users, log: log}
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsClient bool   `json:"isClient"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	req := createUserRequest{Role: model.RoleSimple}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	created, err := h.users.Create(r.Context(), req.Username, req.Password, req.Role, req.IsClient)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.Header().Set("Location", "/api/users/"+strconv.Itoa(created.ID))
	respondJSON(w, http.StatusCreated, created)
}

// UpdateRole changes the role and returns the updated user
func (h *UserHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req updateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.users.UpdateRole(r.Context(), id, req.Role); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
