package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// Booking is the authoritative record for one passenger's seats on one
// bus+schedule. FareAmount is the per-seat fare frozen at booking time;
// FareTotal is always FareAmount times the current seat count.
type Booking struct {
	ID            int64         `json:"id"`
	PassengerID   string        `json:"passenger_id"`
	BusID         string        `json:"bus_id"`
	ScheduleID    string        `json:"schedule_id"`
	SeatNumbers   []string      `json:"seat_numbers"`
	FareAmount    int64         `json:"fare_amount"`
	FareTotal     int64         `json:"fare_total"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
}

// JoinSeatNumbers renders the seat set in its stored CSV form.
func JoinSeatNumbers(seats []string) string {
	return strings.Join(seats, ",")
}

// SplitSeatNumbers parses the stored CSV form back into a slice, dropping
// empties so a fully cancelled booking round-trips to nil.
func SplitSeatNumbers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
