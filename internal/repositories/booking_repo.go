package repositories

import (
	"database/sql"
	"time"

	intconfig "busoffice/internal/config"
	"busoffice/internal/domain"
	"busoffice/internal/domain/models"
)

// BookingRepo owns the bookings table. Seat-set mutations only happen
// through the tx-scoped methods so seat rows and the booking row change in
// the same transaction.
type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, passenger_id, bus_id, schedule_id, seat_numbers, fare_amount, fare_total, status, payment_status, created_at, updated_at, cancelled_at`

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b           models.Booking
		seatCSV     string
		status      string
		payStatus   string
		cancelledAt sql.NullTime
	)
	err := row.Scan(
		&b.ID, &b.PassengerID, &b.BusID, &b.ScheduleID, &seatCSV,
		&b.FareAmount, &b.FareTotal, &status, &payStatus,
		&b.CreatedAt, &b.UpdatedAt, &cancelledAt,
	)
	if err != nil {
		return b, err
	}
	b.SeatNumbers = models.SplitSeatNumbers(seatCSV)
	b.Status = models.BookingStatus(status)
	b.PaymentStatus = models.PaymentStatus(payStatus)
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	return b, nil
}

// GetByID loads one booking; NotFoundError when absent.
func (r BookingRepo) GetByID(id int64) (models.Booking, error) {
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

// ListByTrip returns bookings for a bus+schedule pair, newest first.
func (r BookingRepo) ListByTrip(busID, scheduleID string) ([]models.Booking, error) {
	rows, err := r.db().Query(
		`SELECT `+bookingColumns+` FROM bookings WHERE bus_id=? AND schedule_id=? ORDER BY created_at DESC`,
		busID, scheduleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Insert writes a new booking row inside the booking transaction and fills
// in the generated ID.
func (r BookingRepo) Insert(tx *sql.Tx, b *models.Booking) error {
	res, err := tx.Exec(
		`INSERT INTO bookings (passenger_id, bus_id, schedule_id, seat_numbers, fare_amount, fare_total, status, payment_status)
		 VALUES (?,?,?,?,?,?,?,?)`,
		b.PassengerID, b.BusID, b.ScheduleID, models.JoinSeatNumbers(b.SeatNumbers),
		b.FareAmount, b.FareTotal, string(b.Status), string(b.PaymentStatus),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// GetForUpdate locks the booking row for the duration of a cancellation
// transaction so two cancels (or a cancel and a payment update) cannot
// interleave on the same booking.
func (r BookingRepo) GetForUpdate(tx *sql.Tx, id int64) (models.Booking, error) {
	row := tx.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

// UpdateSeatSet rewrites the seat set and the recomputed fare total after a
// partial cancellation.
func (r BookingRepo) UpdateSeatSet(tx *sql.Tx, id int64, seatNumbers []string, fareTotal int64) error {
	_, err := tx.Exec(
		`UPDATE bookings SET seat_numbers=?, fare_total=? WHERE id=?`,
		models.JoinSeatNumbers(seatNumbers), fareTotal, id,
	)
	return err
}

// MarkCancelled empties the seat set and promotes the booking to cancelled.
func (r BookingRepo) MarkCancelled(tx *sql.Tx, id int64, now time.Time) error {
	_, err := tx.Exec(
		`UPDATE bookings SET seat_numbers='', fare_total=0, status=?, cancelled_at=? WHERE id=?`,
		string(models.BookingCancelled), now, id,
	)
	return err
}

// UpdatePaymentStatus sets the payment status unless the booking is
// cancelled. Ordering between pending/paid/failed is deliberately not
// enforced.
func (r BookingRepo) UpdatePaymentStatus(id int64, status models.PaymentStatus) (models.Booking, error) {
	b, err := r.GetByID(id)
	if err != nil {
		return b, err
	}
	if b.Status == models.BookingCancelled {
		return b, domain.InvalidTransitionError{BookingID: id, Msg: "booking is cancelled"}
	}

	res, err := r.db().Exec(
		`UPDATE bookings SET payment_status=? WHERE id=? AND status<>?`,
		string(status), id, string(models.BookingCancelled),
	)
	if err != nil {
		return b, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// zero rows means either "value unchanged" or "cancelled between
		// read and write"; only a re-read can tell them apart
		fresh, err := r.GetByID(id)
		if err != nil {
			return fresh, err
		}
		if fresh.Status == models.BookingCancelled {
			return fresh, domain.InvalidTransitionError{BookingID: id, Msg: "booking is cancelled"}
		}
		return fresh, nil
	}
	return r.GetByID(id)
}
