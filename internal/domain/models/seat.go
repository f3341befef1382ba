package models

import "time"

type SeatType string

const (
	SeatStandard SeatType = "standard"
	SeatPremium  SeatType = "premium"
	SeatLuxury   SeatType = "luxury"
	SeatSleeper  SeatType = "sleeper"
)

// ValidSeatType reports whether t is one of the known seat types.
func ValidSeatType(t SeatType) bool {
	switch t {
	case SeatStandard, SeatPremium, SeatLuxury, SeatSleeper:
		return true
	}
	return false
}

type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatHeld      SeatState = "held"
	SeatBooked    SeatState = "booked"
	SeatDisabled  SeatState = "disabled"
)

// Seat is one seat on a bus+schedule pair. Hold fields live on the seat row
// itself; an expired reserved_until is treated as no hold at all.
type Seat struct {
	ID            int64      `json:"id"`
	BusID         string     `json:"bus_id"`
	ScheduleID    string     `json:"schedule_id"`
	SeatNumber    string     `json:"seat_number"`
	SeatType      SeatType   `json:"seat_type"`
	IsBooked      bool       `json:"is_booked"`
	IsDisabled    bool       `json:"is_disabled"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
	ReservedBy    string     `json:"-"`
	BookingID     *int64     `json:"booking_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HoldActiveAt reports whether the seat carries a live hold. Booked seats
// never count as held; expiry is evaluated lazily against now.
func (s Seat) HoldActiveAt(now time.Time) bool {
	return !s.IsBooked && s.ReservedUntil != nil && s.ReservedUntil.After(now)
}

// HeldByAt reports whether holder owns a live hold on the seat.
func (s Seat) HeldByAt(holder string, now time.Time) bool {
	return s.HoldActiveAt(now) && holder != "" && s.ReservedBy == holder
}

// AvailableAt computes effective availability: not booked, not disabled and
// no live hold.
func (s Seat) AvailableAt(now time.Time) bool {
	return !s.IsBooked && !s.IsDisabled && !s.HoldActiveAt(now)
}

// StateAt collapses the stored flags into exactly one of the four states.
func (s Seat) StateAt(now time.Time) SeatState {
	switch {
	case s.IsBooked:
		return SeatBooked
	case s.IsDisabled:
		return SeatDisabled
	case s.HoldActiveAt(now):
		return SeatHeld
	default:
		return SeatAvailable
	}
}

// SeatSummary gives the back-office a quick availability overview per trip.
type SeatSummary struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Held      int `json:"held"`
	Booked    int `json:"booked"`
	Disabled  int `json:"disabled"`
}

func Summarize(seats []Seat, now time.Time) SeatSummary {
	out := SeatSummary{Total: len(seats)}
	for _, s := range seats {
		switch s.StateAt(now) {
		case SeatBooked:
			out.Booked++
		case SeatDisabled:
			out.Disabled++
		case SeatHeld:
			out.Held++
		default:
			out.Available++
		}
	}
	return out
}
