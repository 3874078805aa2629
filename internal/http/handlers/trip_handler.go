// README: Trip handlers for create/get/list.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourvisto/internal/http/middleware"
	"tourvisto/internal/modules/itinerary"
)

type TripHandler struct {
	trips *itinerary.Service
}

func NewTripHandler(svc *itinerary.Service) *TripHandler {
	return &TripHandler{trips: svc}
}

type createTripReq struct {
	Country      string              `json:"country"`
	NumberOfDays int                 `json:"numberOfDays"`
	TravelStyle  string              `json:"travelStyle"`
	Interests    itinerary.Interests `json:"interests"`
	Budget       string              `json:"budget"`
	GroupType    string              `json:"groupType"`
	UserID       string              `json:"userId"`
}

// Create runs the generation pipeline for the caller. An omitted userId
// defaults to the caller; any other uid is rejected.
func (h *TripHandler) Create(c *gin.Context) {
	var req createTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	caller := middleware.CallerUID(c)
	if req.UserID == "" {
		req.UserID = caller
	}
	if req.UserID != caller {
		writeError(c, http.StatusForbidden, "userId does not match caller")
		return
	}

	id, err := h.trips.Generate(c.Request.Context(), itinerary.TripRequest{
		Country:      req.Country,
		NumberOfDays: req.NumberOfDays,
		Budget:       req.Budget,
		Interests:    string(req.Interests),
		TravelStyle:  req.TravelStyle,
		GroupType:    req.GroupType,
		UserID:       req.UserID,
	})
	if err != nil {
		writeItineraryError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"id": id})
}

func (h *TripHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	trip, err := h.trips.Get(c.Request.Context(), id)
	if err != nil {
		writeItineraryError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, trip)
}

func (h *TripHandler) List(c *gin.Context) {
	limit, offset, ok := pageParams(c)
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid paging parameters")
		return
	}
	trips, total, err := h.trips.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeItineraryError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"trips": trips, "total": total})
}
