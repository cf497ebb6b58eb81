package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tmodak/settleup/internal/auth"
	"github.com/tmodak/settleup/internal/models"
)

type registerRequest struct {
	Handle   string `json:"handle"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.authn.Register(r.Context(), req.Handle, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrHandleExists):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrEmptyHandle):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			slog.Error("failed to register user", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	s.writeAuthResponse(w, http.StatusCreated, user)
}

type loginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.authn.Authenticate(r.Context(), req.Handle, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		slog.Error("failed to authenticate user", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.writeAuthResponse(w, http.StatusOK, user)
}

func (s *Server) writeAuthResponse(w http.ResponseWriter, status int, user *models.User) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		slog.Error("failed to sign token", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, authResponse{Token: token, User: toUserView(user)})
}
