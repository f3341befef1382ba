package services

import (
	"strconv"
	"time"

	"busoffice/internal/domain"
	"busoffice/internal/domain/models"
	"busoffice/internal/repositories"
	"busoffice/internal/utils"
)

// SeatService covers seat inventory operations: listing with effective
// availability, provisioning and administrative disable.
type SeatService struct {
	SeatRepo  repositories.SeatRepo
	RequestID string
}

// ListSeats returns all seats for a trip plus a state summary. Effective
// availability is computed lazily against now; nothing is mutated.
func (s SeatService) ListSeats(busID, scheduleID string) ([]models.Seat, models.SeatSummary, error) {
	if busID == "" || scheduleID == "" {
		return nil, models.SeatSummary{}, domain.ValidationError{Field: "bus_id/schedule_id", Msg: "required"}
	}
	seats, err := s.SeatRepo.ListByTrip(busID, scheduleID)
	if err != nil {
		return nil, models.SeatSummary{}, domain.InternalError{Err: err}
	}
	return seats, models.Summarize(seats, time.Now().UTC()), nil
}

// CreateSeat provisions a single seat; DuplicateSeat when the label exists.
func (s SeatService) CreateSeat(busID, scheduleID, seatNumber string, seatType models.SeatType) (models.Seat, error) {
	if busID == "" || scheduleID == "" {
		return models.Seat{}, domain.ValidationError{Field: "bus_id/schedule_id", Msg: "required"}
	}
	seatNumber = utils.NormalizeSeatNumber(seatNumber)
	if seatNumber == "" {
		return models.Seat{}, domain.ValidationError{Field: "seat_number", Msg: "required"}
	}
	if seatType == "" {
		seatType = models.SeatStandard
	}
	if !models.ValidSeatType(seatType) {
		return models.Seat{}, domain.ValidationError{Field: "seat_type", Msg: "unknown seat type"}
	}

	seat, err := s.SeatRepo.Create(busID, scheduleID, seatNumber, seatType)
	if err != nil {
		if domain.IsDuplicateSeat(err) {
			return models.Seat{}, err
		}
		return models.Seat{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "seats", "create", "seat="+seat.SeatNumber)
	return seat, nil
}

// CreateSeatsBatch provisions every non-duplicate label and reports how
// many were skipped. The batch never fails because of one duplicate.
func (s SeatService) CreateSeatsBatch(busID, scheduleID string, seatNumbers []string, seatType models.SeatType) ([]models.Seat, int, error) {
	if busID == "" || scheduleID == "" {
		return nil, 0, domain.ValidationError{Field: "bus_id/schedule_id", Msg: "required"}
	}
	labels := utils.NormalizeSeatNumbers(seatNumbers)
	if len(labels) == 0 {
		return nil, 0, domain.ValidationError{Field: "seat_numbers", Msg: "empty"}
	}
	if seatType == "" {
		seatType = models.SeatStandard
	}
	if !models.ValidSeatType(seatType) {
		return nil, 0, domain.ValidationError{Field: "seat_type", Msg: "unknown seat type"}
	}

	created, err := s.SeatRepo.CreateBatch(busID, scheduleID, labels, seatType)
	if err != nil {
		return created, 0, domain.InternalError{Err: err}
	}
	skipped := len(labels) - len(created)
	utils.LogEvent(s.RequestID, "seats", "batch",
		"created="+strconv.Itoa(len(created))+" skipped="+strconv.Itoa(skipped))
	return created, skipped, nil
}

// SetDisabled blocks or unblocks a seat administratively. Held and booked
// seats are not eligible.
func (s SeatService) SetDisabled(seatID int64, disabled bool) (models.Seat, error) {
	if seatID <= 0 {
		return models.Seat{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	seat, err := s.SeatRepo.SetDisabled(seatID, disabled, time.Now().UTC())
	if err != nil {
		if domain.IsNotFound(err) || domain.IsSeatNotEligible(err) {
			return models.Seat{}, err
		}
		return models.Seat{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "seats", "disable",
		"seat="+seat.SeatNumber+" disabled="+strconv.FormatBool(disabled))
	return seat, nil
}
