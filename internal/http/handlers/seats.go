package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"busoffice/internal/domain/models"
	"busoffice/internal/http/middleware"
	"busoffice/internal/repositories"
	"busoffice/internal/services"

	"github.com/gin-gonic/gin"
)

func seatService(c *gin.Context) services.SeatService {
	return services.SeatService{
		SeatRepo:  repositories.SeatRepo{},
		RequestID: middleware.GetRequestID(c),
	}
}

type seatView struct {
	models.Seat
	State     models.SeatState `json:"state"`
	Available bool             `json:"available"`
}

// GET /api/seats?bus_id=&schedule_id=
func GetSeats(c *gin.Context) {
	busID := strings.TrimSpace(c.Query("bus_id"))
	scheduleID := strings.TrimSpace(c.Query("schedule_id"))

	seats, summary, err := seatService(c).ListSeats(busID, scheduleID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	now := time.Now().UTC()
	out := make([]seatView, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatView{
			Seat:      s,
			State:     s.StateAt(now),
			Available: s.AvailableAt(now),
		})
	}
	c.JSON(http.StatusOK, gin.H{"seats": out, "summary": summary})
}

type createSeatRequest struct {
	BusID      string `json:"bus_id"`
	ScheduleID string `json:"schedule_id"`
	SeatNumber string `json:"seat_number"`
	SeatType   string `json:"seat_type"`
}

// POST /api/seats
func CreateSeat(c *gin.Context) {
	var req createSeatRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	seat, err := seatService(c).CreateSeat(
		strings.TrimSpace(req.BusID),
		strings.TrimSpace(req.ScheduleID),
		req.SeatNumber,
		models.SeatType(strings.TrimSpace(req.SeatType)),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"seat": seat})
}

type createSeatsBatchRequest struct {
	BusID       string   `json:"bus_id"`
	ScheduleID  string   `json:"schedule_id"`
	SeatNumbers []string `json:"seat_numbers"`
	SeatType    string   `json:"seat_type"`
}

// POST /api/seats/batch
func CreateSeatsBatch(c *gin.Context) {
	var req createSeatsBatchRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	created, skipped, err := seatService(c).CreateSeatsBatch(
		strings.TrimSpace(req.BusID),
		strings.TrimSpace(req.ScheduleID),
		req.SeatNumbers,
		models.SeatType(strings.TrimSpace(req.SeatType)),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"seats":   created,
		"created": len(created),
		"skipped": skipped,
	})
}

type setDisabledRequest struct {
	Disabled *bool `json:"disabled"`
}

// PUT /api/seats/:id/disabled
func SetSeatDisabled(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid seat id", err)
		return
	}

	var req setDisabledRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Disabled == nil {
		RespondError(c, http.StatusBadRequest, "disabled flag required", nil)
		return
	}

	seat, err := seatService(c).SetDisabled(id, *req.Disabled)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seat": seat})
}
