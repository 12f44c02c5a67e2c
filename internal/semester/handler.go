package semester

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-academics/pkg/utilities"
)

// Handler serves the academic calendar.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.List(r.Context())
	if err != nil {
		utilities.WriteError(w, h.logger, r, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	sem, ok, err := h.svc.Current(r.Context())
	if err != nil {
		utilities.WriteError(w, h.logger, r, err)
		return
	}
	if !ok {
		utilities.WriteError(w, h.logger, r, apperr.NotFound("No current semester found."))
		return
	}
	utilities.WriteJSON(w, http.StatusOK, sem)
}
