package user

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-academics/internal/auth"
	"github.com/ovaphlow/pitchfork/service-academics/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-academics/pkg/utilities"
)

// Handler exposes HTTP endpoints for account registration, login and password change.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterResponse response body containing the new account id.
type RegisterResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req entity.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid register payload", "err", err)
		utilities.WriteError(w, h.logger, r, apperr.Validation("invalid payload"))
		return
	}
	id, err := h.svc.Register(r.Context(), req)
	if err != nil {
		h.logger.Warnw("register failed", "kind", apperr.KindOf(err), "err", err)
		utilities.WriteError(w, h.logger, r, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, RegisterResponse{
		ID:      id,
		Message: fmt.Sprintf("User registered successfully as a %s!", strings.TrimSpace(req.Role)),
	})
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		utilities.WriteError(w, h.logger, r, apperr.Validation("invalid payload"))
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		loginAttempts.WithLabelValues(string(apperr.KindOf(err))).Inc()
		h.logger.Debugw("login failed", "kind", apperr.KindOf(err), "err", err)
		utilities.WriteError(w, h.logger, r, err)
		return
	}
	loginAttempts.WithLabelValues("success").Inc()
	utilities.WriteJSON(w, http.StatusOK, res)
}

// ChangePassword must run behind the auth gate.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, h.logger, r, apperr.Unauthenticated("No token, authorization denied."))
		return
	}
	var req entity.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilities.WriteError(w, h.logger, r, apperr.Validation("invalid payload"))
		return
	}
	if err := h.svc.ChangePassword(r.Context(), claims.AccountID, req); err != nil {
		h.logger.Debugw("change password failed", "user_id", claims.AccountID, "kind", apperr.KindOf(err), "err", err)
		utilities.WriteError(w, h.logger, r, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully."})
}
