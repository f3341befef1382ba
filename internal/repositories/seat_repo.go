package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "busoffice/internal/config"
	"busoffice/internal/domain"
	"busoffice/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

// SeatRepo owns all reads and writes against the seats table. Claiming
// writes (holds, booking, release) re-check the hold/booked fields in the
// WHERE clause so concurrent callers racing for the same seat resolve to
// exactly one winner.
type SeatRepo struct {
	DB *sql.DB
}

func (r SeatRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const seatColumns = `id, bus_id, schedule_id, seat_number, seat_type, is_booked, is_disabled, reserved_until, reserved_by, booking_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeat(row rowScanner) (models.Seat, error) {
	var (
		s          models.Seat
		seatType   string
		reservedAt sql.NullTime
		reservedBy sql.NullString
		bookingID  sql.NullInt64
	)
	err := row.Scan(
		&s.ID, &s.BusID, &s.ScheduleID, &s.SeatNumber, &seatType,
		&s.IsBooked, &s.IsDisabled, &reservedAt, &reservedBy, &bookingID,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return s, err
	}
	s.SeatType = models.SeatType(seatType)
	if reservedAt.Valid {
		t := reservedAt.Time
		s.ReservedUntil = &t
	}
	if reservedBy.Valid {
		s.ReservedBy = reservedBy.String
	}
	if bookingID.Valid {
		id := bookingID.Int64
		s.BookingID = &id
	}
	return s, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// ListByTrip returns all seat rows for a bus+schedule pair, ordered by seat
// number. Empty result if nothing is provisioned.
func (r SeatRepo) ListByTrip(busID, scheduleID string) ([]models.Seat, error) {
	rows, err := r.db().Query(
		`SELECT `+seatColumns+` FROM seats WHERE bus_id=? AND schedule_id=? ORDER BY seat_number ASC`,
		busID, scheduleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Seat{}
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetBySeatNumber fetches one seat row; sql.ErrNoRows when absent.
func (r SeatRepo) GetBySeatNumber(busID, scheduleID, seatNumber string) (models.Seat, error) {
	row := r.db().QueryRow(
		`SELECT `+seatColumns+` FROM seats WHERE bus_id=? AND schedule_id=? AND seat_number=? LIMIT 1`,
		busID, scheduleID, seatNumber,
	)
	return scanSeat(row)
}

func (r SeatRepo) getByID(id int64) (models.Seat, error) {
	row := r.db().QueryRow(`SELECT `+seatColumns+` FROM seats WHERE id=? LIMIT 1`, id)
	return scanSeat(row)
}

// Create provisions a single seat. Fails with DuplicateSeatError when the
// (bus, schedule, seat_number) triple already exists.
func (r SeatRepo) Create(busID, scheduleID, seatNumber string, seatType models.SeatType) (models.Seat, error) {
	db := r.db()

	var exists int
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM seats WHERE bus_id=? AND schedule_id=? AND seat_number=?`,
		busID, scheduleID, seatNumber,
	).Scan(&exists); err != nil {
		return models.Seat{}, err
	}
	if exists > 0 {
		return models.Seat{}, domain.DuplicateSeatError{SeatNumber: seatNumber}
	}

	res, err := db.Exec(
		`INSERT INTO seats (bus_id, schedule_id, seat_number, seat_type) VALUES (?,?,?,?)`,
		busID, scheduleID, seatNumber, string(seatType),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return models.Seat{}, domain.DuplicateSeatError{SeatNumber: seatNumber}
		}
		return models.Seat{}, err
	}

	id, _ := res.LastInsertId()
	return r.getByID(id)
}

// CreateBatch provisions every non-duplicate seat number, silently skipping
// labels that already exist. One duplicate never fails the whole batch.
func (r SeatRepo) CreateBatch(busID, scheduleID string, seatNumbers []string, seatType models.SeatType) ([]models.Seat, error) {
	if len(seatNumbers) == 0 {
		return []models.Seat{}, nil
	}
	db := r.db()

	args := []any{busID, scheduleID}
	for _, n := range seatNumbers {
		args = append(args, n)
	}
	rows, err := db.Query(
		`SELECT seat_number FROM seats WHERE bus_id=? AND schedule_id=? AND seat_number IN (`+placeholders(len(seatNumbers))+`)`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	existing := map[string]bool{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return nil, err
		}
		existing[n] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	created := []models.Seat{}
	for _, n := range seatNumbers {
		if existing[n] {
			continue
		}
		res, err := db.Exec(
			`INSERT INTO seats (bus_id, schedule_id, seat_number, seat_type) VALUES (?,?,?,?)`,
			busID, scheduleID, n, string(seatType),
		)
		if err != nil {
			if isDuplicateKey(err) {
				continue
			}
			return created, err
		}
		id, _ := res.LastInsertId()
		seat, err := r.getByID(id)
		if err != nil {
			return created, err
		}
		created = append(created, seat)
	}
	return created, nil
}

// SetDisabled flips the administrative block flag. Only seats that are
// effectively Available (or already disabled) are eligible; the UPDATE
// re-checks the booked/hold fields so a racing hold wins over the flag.
func (r SeatRepo) SetDisabled(seatID int64, disabled bool, now time.Time) (models.Seat, error) {
	seat, err := r.getByID(seatID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Seat{}, domain.NotFoundError{Resource: "seat"}
		}
		return models.Seat{}, err
	}
	if seat.IsBooked || seat.HoldActiveAt(now) {
		return models.Seat{}, domain.SeatNotEligibleError{
			SeatNumber: seat.SeatNumber,
			State:      string(seat.StateAt(now)),
		}
	}

	res, err := r.db().Exec(
		`UPDATE seats SET is_disabled=? WHERE id=? AND is_booked=0 AND (reserved_until IS NULL OR reserved_until<=?)`,
		disabled, seatID, now,
	)
	if err != nil {
		return models.Seat{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 && seat.IsDisabled != disabled {
		return models.Seat{}, domain.SeatNotEligibleError{SeatNumber: seat.SeatNumber}
	}
	return r.getByID(seatID)
}

// PlaceHold claims the seat for holder until the given instant. The
// conditional UPDATE is the optimistic-concurrency check: it only succeeds
// if the seat is still unbooked, enabled and either hold-free, expired, or
// already held by the same holder (which extends the TTL).
func (r SeatRepo) PlaceHold(busID, scheduleID, seatNumber, holder string, until, now time.Time) (models.Seat, error) {
	seat, err := r.GetBySeatNumber(busID, scheduleID, seatNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Seat{}, domain.NotFoundError{Resource: "seat"}
		}
		return models.Seat{}, err
	}
	if !seat.AvailableAt(now) && !seat.HeldByAt(holder, now) {
		return models.Seat{}, domain.SeatUnavailableError{SeatNumber: seatNumber}
	}

	res, err := r.db().Exec(
		`UPDATE seats SET reserved_until=?, reserved_by=?
		 WHERE bus_id=? AND schedule_id=? AND seat_number=?
		   AND is_booked=0 AND is_disabled=0
		   AND (reserved_until IS NULL OR reserved_until<=? OR reserved_by=?)`,
		until, holder, busID, scheduleID, seatNumber, now, holder,
	)
	if err != nil {
		return models.Seat{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// lost the race to another workflow between read and write
		return models.Seat{}, domain.SeatUnavailableError{SeatNumber: seatNumber}
	}
	// the re-read runs outside the UPDATE, so it can already reflect a
	// concurrent release of the hold we just placed
	return r.GetBySeatNumber(busID, scheduleID, seatNumber)
}

// ReleaseHold clears the hold fields if present; no-op when the seat has no
// hold or does not exist. Booked seats are never touched.
func (r SeatRepo) ReleaseHold(busID, scheduleID, seatNumber string) error {
	_, err := r.db().Exec(
		`UPDATE seats SET reserved_until=NULL, reserved_by=NULL
		 WHERE bus_id=? AND schedule_id=? AND seat_number=? AND is_booked=0`,
		busID, scheduleID, seatNumber,
	)
	return err
}

// LockForBooking reads the requested seat rows FOR UPDATE inside the
// booking transaction. Rows stay locked until commit/rollback, which is
// what serializes competing createBooking calls per seat.
func (r SeatRepo) LockForBooking(tx *sql.Tx, busID, scheduleID string, seatNumbers []string) ([]models.Seat, error) {
	if len(seatNumbers) == 0 {
		return []models.Seat{}, nil
	}
	args := []any{busID, scheduleID}
	for _, n := range seatNumbers {
		args = append(args, n)
	}
	rows, err := tx.Query(
		`SELECT `+seatColumns+` FROM seats WHERE bus_id=? AND schedule_id=? AND seat_number IN (`+placeholders(len(seatNumbers))+`) FOR UPDATE`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Seat{}
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MarkBooked transitions the locked seats to Booked and binds them to the
// booking, clearing any hold fields. The guard on is_booked means a row
// that slipped through validation still cannot be double-booked.
func (r SeatRepo) MarkBooked(tx *sql.Tx, bookingID int64, seatIDs []int64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	args := []any{bookingID}
	for _, id := range seatIDs {
		args = append(args, id)
	}
	res, err := tx.Exec(
		`UPDATE seats SET is_booked=1, booking_id=?, reserved_until=NULL, reserved_by=NULL
		 WHERE id IN (`+placeholders(len(seatIDs))+`) AND is_booked=0`,
		args...,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if int(n) != len(seatIDs) {
		return fmt.Errorf("booked %d of %d seats", n, len(seatIDs))
	}
	return nil
}

// ReleaseBooked returns the named seats of a booking to Available inside
// the cancellation transaction.
func (r SeatRepo) ReleaseBooked(tx *sql.Tx, bookingID int64, seatNumbers []string) error {
	if len(seatNumbers) == 0 {
		return nil
	}
	args := []any{bookingID}
	for _, n := range seatNumbers {
		args = append(args, n)
	}
	res, err := tx.Exec(
		`UPDATE seats SET is_booked=0, booking_id=NULL, reserved_until=NULL, reserved_by=NULL
		 WHERE booking_id=? AND seat_number IN (`+placeholders(len(seatNumbers))+`) AND is_booked=1`,
		args...,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if int(n) != len(seatNumbers) {
		return fmt.Errorf("released %d of %d seats", n, len(seatNumbers))
	}
	return nil
}

// isDuplicateKey matches MySQL duplicate-entry errors (1062), wrapped or not.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
