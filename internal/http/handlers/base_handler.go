// README: Base handler utilities (JSON helpers, error mapping, paging).
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tourvisto/internal/modules/itinerary"
	"tourvisto/internal/modules/user"
)

// pipelineFailure is the only detail clients see for upstream or storage faults.
const pipelineFailure = "generation failed"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeItineraryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, itinerary.ErrInvalidRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, itinerary.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, itinerary.ErrQuotaExceeded):
		writeError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, itinerary.ErrGenerationFailed), errors.Is(err, itinerary.ErrExtractionMiss):
		writeError(c, http.StatusBadGateway, pipelineFailure)
	case errors.Is(err, itinerary.ErrPersistenceFailed):
		writeError(c, http.StatusInternalServerError, pipelineFailure)
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidProfile):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// pageParams reads limit and offset query values. Out-of-range values are
// clamped by the services; only unparsable input is rejected.
func pageParams(c *gin.Context) (limit, offset int, ok bool) {
	var err error
	if v := c.Query("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return 0, 0, false
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil {
			return 0, 0, false
		}
	}
	return limit, offset, true
}
