package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/sportsstore/internal/service"
	"github.com/utafrali/sportsstore/pkg/httputil"
	"github.com/utafrali/sportsstore/pkg/validator"
)

// AuthHandler handles back-office login.
type AuthHandler struct {
	identity *service.IdentityService
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(identity *service.IdentityService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, logger: logger}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var input service.LoginInput
	if err := validator.DecodeRequest(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.identity.Login(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, result)
}
