package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/backend"
	"github.com/dukerupert/basket/internal/middleware"
)

type AuthHandler struct {
	svc    *backend.Service
	logger *slog.Logger
}

func NewAuthHandler(svc *backend.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	sess, err := h.svc.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// Token signs in with a password and issues an access token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if gt := r.URL.Query().Get("grant_type"); gt != "" && gt != "password" {
		writeError(w, r, h.logger, apperr.Validation("sign in", "unsupported grant_type %q", gt))
		return
	}
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	sess, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SignOut(r.Context()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session describes the presented token's session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		writeError(w, r, h.logger, apperr.Auth("get session", "not signed in"))
		return
	}
	sess, err := h.svc.Session(r.Context(), token)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
