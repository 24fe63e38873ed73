package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/pkg/validate"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
	"github.com/tiagocodinha/StagelinkApproval/internal/transport/http/dto"
)

type AuthService interface {
	SignIn(ctx context.Context, email, password string) (auth.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (auth.AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID int64) error
}

type AuthHandler struct {
	service AuthService
	logger  *zap.Logger
}

func NewAuthHandler(service AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json payload")
		return
	}
	if !validate.Email(req.Email) || !validate.Required(req.Password) {
		writeBadRequest(w, "email and password are required")
		return
	}

	result, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponseFromResult(result))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json payload")
		return
	}
	if !validate.Required(req.RefreshToken) {
		writeBadRequest(w, "refresh token is required")
		return
	}

	result, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponseFromResult(result))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.LogoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json payload")
		return
	}
	if !validate.Required(req.RefreshToken) {
		writeBadRequest(w, "refresh token is required")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	if err := h.service.LogoutAll(r.Context(), identity.UserID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out everywhere"})
}
