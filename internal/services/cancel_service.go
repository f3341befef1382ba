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

// CancellationService releases some or all seats of a booking back to
// Available and keeps the booking record consistent: the seat set shrinks,
// the fare total is recomputed from the frozen per-seat fare, and a booking
// whose seat set becomes empty is promoted to cancelled.
type CancellationService struct {
	DB          *sql.DB
	SeatRepo    repositories.SeatRepo
	BookingRepo repositories.BookingRepo
	Events      events.Publisher
	RequestID   string
}

func (s CancellationService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s CancellationService) publish(ev events.Event) {
	if s.Events != nil {
		s.Events.Publish(ev)
	}
}

// CancelSeats releases the named seats. Every label must currently belong
// to the booking, otherwise SeatNotInBooking and nothing changes. The
// returned flag reports whether the booking is now fully cancelled.
func (s CancellationService) CancelSeats(bookingID int64, seatNumbers []string) (models.Booking, bool, error) {
	labels := utils.NormalizeSeatNumbers(seatNumbers)
	if len(labels) == 0 {
		return models.Booking{}, false, domain.ValidationError{Field: "seat_numbers", Msg: "empty"}
	}
	return s.cancel(bookingID, labels)
}

// CancelBooking releases the booking's full current seat set. Always yields
// fully cancelled on success; a second call fails with AlreadyCancelled.
func (s CancellationService) CancelBooking(bookingID int64) (models.Booking, error) {
	b, _, err := s.cancel(bookingID, nil)
	return b, err
}

// cancel holds the booking row lock for the whole release so cancellations
// on the same booking cannot interleave. A nil target set means "all".
func (s CancellationService) cancel(bookingID int64, labels []string) (models.Booking, bool, error) {
	if bookingID <= 0 {
		return models.Booking{}, false, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, false, domain.InternalError{Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := s.BookingRepo.GetForUpdate(tx, bookingID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Booking{}, false, err
		}
		return models.Booking{}, false, domain.InternalError{Err: err}
	}
	if booking.Status == models.BookingCancelled {
		return models.Booking{}, false, domain.AlreadyCancelledError{BookingID: bookingID}
	}

	current := map[string]bool{}
	for _, n := range booking.SeatNumbers {
		current[n] = true
	}

	if labels == nil {
		labels = booking.SeatNumbers
	} else {
		missing := []string{}
		for _, n := range labels {
			if !current[n] {
				missing = append(missing, n)
			}
		}
		if len(missing) > 0 {
			return models.Booking{}, false, domain.SeatNotInBookingError{BookingID: bookingID, SeatNumbers: missing}
		}
	}

	if err := s.SeatRepo.ReleaseBooked(tx, bookingID, labels); err != nil {
		return models.Booking{}, false, domain.InternalError{Err: err}
	}

	released := map[string]bool{}
	for _, n := range labels {
		released[n] = true
	}
	remaining := make([]string, 0, len(booking.SeatNumbers))
	for _, n := range booking.SeatNumbers {
		if !released[n] {
			remaining = append(remaining, n)
		}
	}

	now := time.Now().UTC()
	fully := len(remaining) == 0
	if fully {
		if err := s.BookingRepo.MarkCancelled(tx, bookingID, now); err != nil {
			return models.Booking{}, false, domain.InternalError{Err: err}
		}
	} else {
		if err := s.BookingRepo.UpdateSeatSet(tx, bookingID, remaining, booking.FareAmount*int64(len(remaining))); err != nil {
			return models.Booking{}, false, domain.InternalError{Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, false, domain.InternalError{Err: err}
	}
	committed = true

	out, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		out = booking
	}

	utils.LogEvent(s.RequestID, "bookings", "cancel",
		"booking_id="+strconv.FormatInt(bookingID, 10)+
			" released="+strconv.Itoa(len(labels))+
			" fully="+strconv.FormatBool(fully))
	s.publish(events.Event{
		Type:           events.TypeBookingCancelled,
		BookingID:      bookingID,
		BusID:          booking.BusID,
		ScheduleID:     booking.ScheduleID,
		SeatNumbers:    labels,
		FareTotal:      out.FareTotal,
		FullyCancelled: fully,
		At:             now,
	})
	return out, fully, nil
}
