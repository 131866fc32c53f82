package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/service"
)

// Authenticator exchanges admin credentials for a session token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

var _ Authenticator = (*service.AuthService)(nil)

// AuthHandler serves the admin login endpoint.
//
// There is no logout: sessions are stateless JWTs, and the client forgets
// its token. The token stays valid until it expires.
type AuthHandler struct {
	auth   Authenticator
	logger *slog.Logger
}

func NewAuthHandler(auth Authenticator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// HandleLogin verifies credentials and returns a bearer token.
//
// HTTP: POST /api/auth/login
// REQUEST BODY: {"username": "admin", "password": "..."}
// RESPONSE:     {"token": "<jwt>"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		h.logger.Warn("invalid login body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "Invalid JSON body"))
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}
