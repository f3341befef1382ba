package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"busoffice/internal/domain/models"
	"busoffice/internal/events"
	"busoffice/internal/http/middleware"
	"busoffice/internal/repositories"
	"busoffice/internal/services"

	"github.com/gin-gonic/gin"
)

var eventHub events.Publisher

// SetEventPublisher wires the outbound event hub into the handlers at
// startup. A nil publisher is allowed and drops events.
func SetEventPublisher(p events.Publisher) {
	eventHub = p
}

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		SeatRepo:    repositories.SeatRepo{},
		BookingRepo: repositories.BookingRepo{},
		FareRepo:    repositories.FareRepo{},
		Events:      eventHub,
		RequestID:   middleware.GetRequestID(c),
	}
}

func cancellationService(c *gin.Context) services.CancellationService {
	return services.CancellationService{
		SeatRepo:    repositories.SeatRepo{},
		BookingRepo: repositories.BookingRepo{},
		Events:      eventHub,
		RequestID:   middleware.GetRequestID(c),
	}
}

type createBookingRequest struct {
	PassengerID string   `json:"passenger_id"`
	BusID       string   `json:"bus_id"`
	ScheduleID  string   `json:"schedule_id"`
	SeatNumbers []string `json:"seat_numbers"`
	Holder      string   `json:"holder"`
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := bookingService(c).CreateBooking(
		strings.TrimSpace(req.PassengerID),
		strings.TrimSpace(req.BusID),
		strings.TrimSpace(req.ScheduleID),
		req.SeatNumbers,
		strings.TrimSpace(req.Holder),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GET /api/bookings/:id
func GetBookingByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid booking id", err)
		return
	}

	booking, err := bookingService(c).GetBooking(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// GET /api/bookings?bus_id=&schedule_id=
func GetBookings(c *gin.Context) {
	bookings, err := bookingService(c).ListBookings(
		strings.TrimSpace(c.Query("bus_id")),
		strings.TrimSpace(c.Query("schedule_id")),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// PUT /api/bookings/:id/payment-status
func UpdatePaymentStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid booking id", err)
		return
	}

	var req paymentStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := bookingService(c).UpdatePaymentStatus(
		id, models.PaymentStatus(strings.TrimSpace(strings.ToLower(req.PaymentStatus))),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type cancelRequest struct {
	SeatNumbers []string `json:"seat_numbers"`
}

// POST /api/bookings/:id/cancel
// An empty or missing seat_numbers list cancels the whole booking.
func CancelBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid booking id", err)
		return
	}

	var req cancelRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid payload", err)
			return
		}
	}

	svc := cancellationService(c)

	if len(req.SeatNumbers) == 0 {
		booking, err := svc.CancelBooking(id)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"booking": booking, "fully_cancelled": true})
		return
	}

	booking, fully, err := svc.CancelSeats(id, req.SeatNumbers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking, "fully_cancelled": fully})
}
