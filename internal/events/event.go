package events

import "time"

const (
	TypeBookingCreated       = "booking_created"
	TypeBookingCancelled     = "booking_cancelled"
	TypePaymentStatusChanged = "payment_status_changed"
)

// Event is pushed to notification/UI subscribers whenever booking or seat
// state changes. It carries enough identifying data that consumers can
// refresh without re-deriving seat math.
type Event struct {
	Type           string    `json:"type"`
	BookingID      int64     `json:"booking_id"`
	BusID          string    `json:"bus_id"`
	ScheduleID     string    `json:"schedule_id"`
	SeatNumbers    []string  `json:"seat_numbers,omitempty"`
	FareTotal      int64     `json:"fare_total,omitempty"`
	PaymentStatus  string    `json:"payment_status,omitempty"`
	FullyCancelled bool      `json:"fully_cancelled,omitempty"`
	At             time.Time `json:"at"`
}

// Topic groups subscribers by trip so a seat-map screen only receives
// events for the bus+schedule it is showing.
func (e Event) Topic() string {
	return Topic(e.BusID, e.ScheduleID)
}

func Topic(busID, scheduleID string) string {
	return busID + ":" + scheduleID
}

// Publisher is what the services see. The websocket hub implements it; a
// nil publisher is allowed and drops events.
type Publisher interface {
	Publish(Event)
}
