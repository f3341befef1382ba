package services

import (
	"time"

	"busoffice/internal/events"

	"github.com/DATA-DOG/go-sqlmock"
)

// capturePublisher records published events for assertions.
type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(ev events.Event) {
	p.events = append(p.events, ev)
}

var seatCols = []string{
	"id", "bus_id", "schedule_id", "seat_number", "seat_type",
	"is_booked", "is_disabled", "reserved_until", "reserved_by", "booking_id",
	"created_at", "updated_at",
}

var bookingCols = []string{
	"id", "passenger_id", "bus_id", "schedule_id", "seat_numbers",
	"fare_amount", "fare_total", "status", "payment_status",
	"created_at", "updated_at", "cancelled_at",
}

func seatRows() *sqlmock.Rows {
	return sqlmock.NewRows(seatCols)
}

func addSeat(rows *sqlmock.Rows, id int64, seatNumber string, booked bool, reservedUntil any, reservedBy any) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, "bus-1", "sch-1", seatNumber, "standard", booked, false, reservedUntil, reservedBy, nil, now, now)
}

func bookingRows(id int64, seatCSV string, fareAmount, fareTotal int64, status, payStatus string, cancelledAt any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingCols).
		AddRow(id, "p-1", "bus-1", "sch-1", seatCSV, fareAmount, fareTotal, status, payStatus, now, now, cancelledAt)
}
