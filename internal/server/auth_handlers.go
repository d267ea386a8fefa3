package server

import (
	"net/http"

	"github.com/mkamau/chamapool/internal/models"
)

type credentialsRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type sessionResponse struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

type userView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

func viewOf(u *models.User) userView {
	return userView{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func (h *Handlers) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, token, err := h.auth.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sessionResponse{User: viewOf(user), Token: token})
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{User: viewOf(user), Token: token})
}
