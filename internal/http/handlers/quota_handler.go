package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourvisto/internal/http/middleware"
)

// QuotaReader reports remaining monthly generations; satisfied by quota.Service.
type QuotaReader interface {
	Remaining(ctx context.Context, uid string) (int, error)
}

type QuotaHandler struct {
	quota QuotaReader
}

func NewQuotaHandler(q QuotaReader) *QuotaHandler {
	return &QuotaHandler{quota: q}
}

func (h *QuotaHandler) GetMine(c *gin.Context) {
	n, err := h.quota.Remaining(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"remaining": n})
}
