package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tourvisto/internal/modules/dashboard"
)

type DashboardHandler struct {
	dashboard *dashboard.Service
	log       *slog.Logger
	now       func() time.Time
}

func NewDashboardHandler(svc *dashboard.Service, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{dashboard: svc, log: logger, now: time.Now}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	st, err := h.dashboard.Stats(c.Request.Context(), h.now())
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "dashboard stats failed", "error", err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, st)
}
