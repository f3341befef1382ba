package services

import (
	"database/sql"
	"strconv"
	"time"

	intconfig "busoffice/internal/config"
	"busoffice/internal/domain"
	"busoffice/internal/domain/models"
	"busoffice/internal/events"
	"busoffice/internal/repositories"
	"busoffice/internal/utils"
)

// BookingService converts a set of seats into one booking record, or
// rejects the whole request. A booking must never reference a seat that is
// not actually marked booked, and a booked seat always has exactly one
// owning non-cancelled booking; both sides change in one transaction.
type BookingService struct {
	DB          *sql.DB
	SeatRepo    repositories.SeatRepo
	BookingRepo repositories.BookingRepo
	FareRepo    repositories.FareRepo
	Events      events.Publisher
	RequestID   string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) publish(ev events.Event) {
	if s.Events != nil {
		s.Events.Publish(ev)
	}
}

// CreateBooking claims every requested seat for passengerID, all-or-nothing.
// Each seat must exist, not be disabled, and be effectively available or
// held by the requesting workflow (holder). If any seat fails, no seat is
// mutated and the offenders are named in the SeatConflict error.
func (s BookingService) CreateBooking(passengerID, busID, scheduleID string, seatNumbers []string, holder string) (models.Booking, error) {
	if passengerID == "" {
		return models.Booking{}, domain.ValidationError{Field: "passenger_id", Msg: "required"}
	}
	if busID == "" || scheduleID == "" {
		return models.Booking{}, domain.ValidationError{Field: "bus_id/schedule_id", Msg: "required"}
	}
	labels := utils.NormalizeSeatNumbers(seatNumbers)
	if len(labels) == 0 {
		return models.Booking{}, domain.ValidationError{Field: "seat_numbers", Msg: "empty"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	locked, err := s.SeatRepo.LockForBooking(tx, busID, scheduleID, labels)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	now := time.Now().UTC()
	byNumber := make(map[string]models.Seat, len(locked))
	for _, seat := range locked {
		byNumber[seat.SeatNumber] = seat
	}

	offenders := []string{}
	seatIDs := make([]int64, 0, len(labels))
	for _, label := range labels {
		seat, ok := byNumber[label]
		if !ok {
			offenders = append(offenders, label)
			continue
		}
		if !seat.AvailableAt(now) && !seat.HeldByAt(holder, now) {
			offenders = append(offenders, label)
			continue
		}
		seatIDs = append(seatIDs, seat.ID)
	}
	if len(offenders) > 0 {
		return models.Booking{}, domain.SeatConflictError{SeatNumbers: offenders}
	}

	fare, err := s.FareRepo.GetTx(tx, busID, scheduleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Booking{}, domain.ValidationError{Field: "fare", Msg: "no fare configured for this schedule"}
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}

	booking := models.Booking{
		PassengerID:   passengerID,
		BusID:         busID,
		ScheduleID:    scheduleID,
		SeatNumbers:   labels,
		FareAmount:    fare,
		FareTotal:     fare * int64(len(labels)),
		Status:        models.BookingConfirmed,
		PaymentStatus: models.PaymentPending,
	}
	if err := s.BookingRepo.Insert(tx, &booking); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := s.SeatRepo.MarkBooked(tx, booking.ID, seatIDs); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	committed = true

	out, err := s.BookingRepo.GetByID(booking.ID)
	if err != nil {
		// the commit went through; fall back to what we wrote
		out = booking
	}

	utils.LogEvent(s.RequestID, "bookings", "create",
		"booking_id="+strconv.FormatInt(out.ID, 10)+" seats="+strconv.Itoa(len(labels)))
	s.publish(events.Event{
		Type:        events.TypeBookingCreated,
		BookingID:   out.ID,
		BusID:       busID,
		ScheduleID:  scheduleID,
		SeatNumbers: labels,
		FareTotal:   out.FareTotal,
		At:          now,
	})
	return out, nil
}

// GetBooking loads one booking.
func (s BookingService) GetBooking(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	b, err := s.BookingRepo.GetByID(id)
	if err != nil {
		if domain.IsNotFound(err) {
			return b, err
		}
		return b, domain.InternalError{Err: err}
	}
	return b, nil
}

// ListBookings returns the bookings for one trip for the back-office list.
func (s BookingService) ListBookings(busID, scheduleID string) ([]models.Booking, error) {
	if busID == "" || scheduleID == "" {
		return nil, domain.ValidationError{Field: "bus_id/schedule_id", Msg: "required"}
	}
	out, err := s.BookingRepo.ListByTrip(busID, scheduleID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

// UpdatePaymentStatus tracks the external payment outcome. Any of
// pending/paid/failed is accepted in any order; only cancelled bookings
// reject the change.
func (s BookingService) UpdatePaymentStatus(id int64, status models.PaymentStatus) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	if !models.ValidPaymentStatus(status) {
		return models.Booking{}, domain.ValidationError{Field: "payment_status", Msg: "unknown status"}
	}

	b, err := s.BookingRepo.UpdatePaymentStatus(id, status)
	if err != nil {
		if domain.IsNotFound(err) || domain.IsInvalidTransition(err) {
			return b, err
		}
		return b, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "bookings", "payment",
		"booking_id="+strconv.FormatInt(id, 10)+" status="+string(status))
	s.publish(events.Event{
		Type:          events.TypePaymentStatusChanged,
		BookingID:     b.ID,
		BusID:         b.BusID,
		ScheduleID:    b.ScheduleID,
		PaymentStatus: string(status),
		At:            time.Now().UTC(),
	})
	return b, nil
}
