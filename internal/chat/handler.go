package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-academics/internal/auth"
	"github.com/ovaphlow/pitchfork/service-academics/pkg/utilities"
)

// Asker answers a question on behalf of an identity.
type Asker interface {
	Ask(ctx context.Context, query string, who auth.Identity) (string, error)
}

// Handler forwards chat messages of authenticated callers to the agent.
type Handler struct {
	agent  Asker
	logger *zap.SugaredLogger
}

func NewHandler(agent Asker, logger *zap.SugaredLogger) *Handler {
	return &Handler{agent: agent, logger: logger}
}

type Request struct {
	Message string `json:"message"`
}

type Reply struct {
	Reply string `json:"reply"`
}

// Post must run behind the auth gate.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, h.logger, r, apperr.Unauthenticated("No token, authorization denied."))
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		utilities.WriteError(w, h.logger, r, apperr.Validation("A message is required."))
		return
	}

	h.logger.Debugw("forwarding chat message", "user_id", claims.AccountID, "role", claims.Role)
	answer, err := h.agent.Ask(r.Context(), req.Message, claims.Identity)
	if err != nil {
		utilities.WriteError(w, h.logger, r, apperr.Store(err))
		return
	}
	utilities.WriteJSON(w, http.StatusOK, Reply{Reply: answer})
}
