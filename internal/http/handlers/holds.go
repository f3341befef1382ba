package handlers

import (
	"net/http"
	"strings"
	"time"

	"busoffice/internal/http/middleware"
	"busoffice/internal/repositories"
	"busoffice/internal/services"

	"github.com/gin-gonic/gin"
)

var holdTTLs = struct {
	def time.Duration
	max time.Duration
}{}

// SetHoldTTLs wires the configured default/max hold durations into the
// handlers at startup.
func SetHoldTTLs(def, max time.Duration) {
	holdTTLs.def = def
	holdTTLs.max = max
}

func holdService(c *gin.Context) services.HoldService {
	return services.HoldService{
		SeatRepo:   repositories.SeatRepo{},
		DefaultTTL: holdTTLs.def,
		MaxTTL:     holdTTLs.max,
		RequestID:  middleware.GetRequestID(c),
	}
}

type holdRequest struct {
	BusID      string `json:"bus_id"`
	ScheduleID string `json:"schedule_id"`
	SeatNumber string `json:"seat_number"`
	Holder     string `json:"holder"`
	TTLSeconds int    `json:"ttl_seconds"`
}

// POST /api/holds
func PlaceHold(c *gin.Context) {
	var req holdRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	seat, err := holdService(c).PlaceHold(
		strings.TrimSpace(req.BusID),
		strings.TrimSpace(req.ScheduleID),
		req.SeatNumber,
		strings.TrimSpace(req.Holder),
		time.Duration(req.TTLSeconds)*time.Second,
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seat": seat})
}

// DELETE /api/holds
func ReleaseHold(c *gin.Context) {
	var req holdRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := holdService(c).ReleaseHold(
		strings.TrimSpace(req.BusID),
		strings.TrimSpace(req.ScheduleID),
		req.SeatNumber,
	); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": true})
}
