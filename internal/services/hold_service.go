package services

import (
	"time"

	"busoffice/internal/domain"
	"busoffice/internal/domain/models"
	"busoffice/internal/repositories"
	"busoffice/internal/utils"
)

// HoldService grants short-lived exclusive claims on seats so one workflow
// session can finish selecting before booking. Expiry is lazy: an expired
// hold is simply ignored by the next claim.
type HoldService struct {
	SeatRepo   repositories.SeatRepo
	DefaultTTL time.Duration
	MaxTTL     time.Duration
	RequestID  string
}

func (s HoldService) ttl(requested time.Duration) time.Duration {
	def := s.DefaultTTL
	if def <= 0 {
		def = 5 * time.Minute
	}
	max := s.MaxTTL
	if max <= 0 {
		max = 15 * time.Minute
	}
	if requested <= 0 {
		return def
	}
	if requested > max {
		return max
	}
	return requested
}

// PlaceHold claims the seat for holder. Re-placing a hold the same holder
// already owns extends the TTL; a seat held by another workflow fails with
// SeatUnavailable.
func (s HoldService) PlaceHold(busID, scheduleID, seatNumber, holder string, requestedTTL time.Duration) (models.Seat, error) {
	if busID == "" || scheduleID == "" {
		return models.Seat{}, domain.ValidationError{Field: "bus_id/schedule_id", Msg: "required"}
	}
	seatNumber = utils.NormalizeSeatNumber(seatNumber)
	if seatNumber == "" {
		return models.Seat{}, domain.ValidationError{Field: "seat_number", Msg: "required"}
	}
	if holder == "" {
		return models.Seat{}, domain.ValidationError{Field: "holder", Msg: "required"}
	}

	now := time.Now().UTC()
	until := now.Add(s.ttl(requestedTTL))

	seat, err := s.SeatRepo.PlaceHold(busID, scheduleID, seatNumber, holder, until, now)
	if err != nil {
		if domain.IsNotFound(err) || domain.IsSeatUnavailable(err) {
			return models.Seat{}, err
		}
		return models.Seat{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "holds", "place", "seat="+seatNumber+" holder="+holder)
	return seat, nil
}

// ReleaseHold clears the hold if present; no-op if absent.
func (s HoldService) ReleaseHold(busID, scheduleID, seatNumber string) error {
	if busID == "" || scheduleID == "" {
		return domain.ValidationError{Field: "bus_id/schedule_id", Msg: "required"}
	}
	seatNumber = utils.NormalizeSeatNumber(seatNumber)
	if seatNumber == "" {
		return domain.ValidationError{Field: "seat_number", Msg: "required"}
	}
	if err := s.SeatRepo.ReleaseHold(busID, scheduleID, seatNumber); err != nil {
		return domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "holds", "release", "seat="+seatNumber)
	return nil
}
