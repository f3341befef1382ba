package handlers

import (
	"net/http"
	"strings"

	"busoffice/internal/http/middleware"
	"busoffice/internal/repositories"
	"busoffice/internal/utils"

	"github.com/gin-gonic/gin"
)

type fareRequest struct {
	BusID      string `json:"bus_id"`
	ScheduleID string `json:"schedule_id"`
	Amount     int64  `json:"amount"`
}

// PUT /api/fares
// Sets the flat per-seat fare for a bus+schedule. Bookings freeze this
// amount at creation time, so changing it never touches existing bookings.
func SetFare(c *gin.Context) {
	var req fareRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	busID := strings.TrimSpace(req.BusID)
	scheduleID := strings.TrimSpace(req.ScheduleID)
	if busID == "" || scheduleID == "" {
		RespondError(c, http.StatusBadRequest, "bus_id and schedule_id required", nil)
		return
	}
	if req.Amount <= 0 {
		RespondError(c, http.StatusBadRequest, "amount must be positive", nil)
		return
	}

	if err := (repositories.FareRepo{}).Set(busID, scheduleID, req.Amount); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to store fare", err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "fares", "set", "bus="+busID+" schedule="+scheduleID)
	c.JSON(http.StatusOK, gin.H{
		"bus_id":      busID,
		"schedule_id": scheduleID,
		"amount":      req.Amount,
	})
}
