package domain

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// DuplicateSeatError reports an attempt to provision a seat number that
// already exists on the bus+schedule.
type DuplicateSeatError struct {
	SeatNumber string
}

func (e DuplicateSeatError) Error() string {
	return fmt.Sprintf("seat %s already exists", e.SeatNumber)
}

// SeatNotEligibleError reports an administrative disable/enable on a seat
// that is currently held or booked.
type SeatNotEligibleError struct {
	SeatNumber string
	State      string
}

func (e SeatNotEligibleError) Error() string {
	if e.State != "" {
		return fmt.Sprintf("seat %s is %s and cannot be changed", e.SeatNumber, e.State)
	}
	return fmt.Sprintf("seat %s cannot be changed", e.SeatNumber)
}

// SeatUnavailableError reports a hold attempt on a seat that is not
// effectively available.
type SeatUnavailableError struct {
	SeatNumber string
}

func (e SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is not available", e.SeatNumber)
}

// SeatConflictError names the seats that blocked a booking request. The
// whole request is rejected; no seat was mutated.
type SeatConflictError struct {
	SeatNumbers []string
}

func (e SeatConflictError) Error() string {
	if len(e.SeatNumbers) == 0 {
		return "seat conflict"
	}
	return fmt.Sprintf("seats not claimable: %s", strings.Join(e.SeatNumbers, ", "))
}

// InvalidTransitionError reports a status change on a booking that no
// longer accepts it.
type InvalidTransitionError struct {
	BookingID int64
	Msg       string
}

func (e InvalidTransitionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("booking %d does not accept this transition", e.BookingID)
}

// SeatNotInBookingError names cancellation targets that are not part of the
// booking's current seat set.
type SeatNotInBookingError struct {
	BookingID   int64
	SeatNumbers []string
}

func (e SeatNotInBookingError) Error() string {
	return fmt.Sprintf("seats not in booking %d: %s", e.BookingID, strings.Join(e.SeatNumbers, ", "))
}

// AlreadyCancelledError distinguishes "nothing to do" from "did it" when a
// booking is cancelled twice.
type AlreadyCancelledError struct {
	BookingID int64
}

func (e AlreadyCancelledError) Error() string {
	return fmt.Sprintf("booking %d is already cancelled", e.BookingID)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsDuplicateSeat(err error) bool {
	var target DuplicateSeatError
	return errors.As(err, &target)
}

func IsSeatNotEligible(err error) bool {
	var target SeatNotEligibleError
	return errors.As(err, &target)
}

func IsSeatUnavailable(err error) bool {
	var target SeatUnavailableError
	return errors.As(err, &target)
}

func IsSeatConflict(err error) bool {
	var target SeatConflictError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target InvalidTransitionError
	return errors.As(err, &target)
}

func IsSeatNotInBooking(err error) bool {
	var target SeatNotInBookingError
	return errors.As(err, &target)
}

func IsAlreadyCancelled(err error) bool {
	var target AlreadyCancelledError
	return errors.As(err, &target)
}
