package services

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"busoffice/internal/domain"
	"busoffice/internal/events"
	"busoffice/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock, *capturePublisher, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "sqlmock init")

	pub := &capturePublisher{}
	svc := BookingService{
		DB:          db,
		SeatRepo:    repositories.SeatRepo{DB: db},
		BookingRepo: repositories.BookingRepo{DB: db},
		FareRepo:    repositories.FareRepo{DB: db},
		Events:      pub,
	}
	return svc, mock, pub, func() { db.Close() }
}

func TestCreateBookingAllSeatsAvailable(t *testing.T) {
	svc, mock, pub, done := newBookingService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats WHERE (.+) FOR UPDATE").
		WillReturnRows(addSeat(addSeat(seatRows(), 1, "S01", false, nil, nil), 2, "S02", false, nil, nil))
	mock.ExpectQuery("SELECT amount FROM schedule_fares").
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(50000))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("UPDATE seats SET is_booked=1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRows(7, "S01,S02", 50000, 100000, "confirmed", "pending", nil))

	booking, err := svc.CreateBooking("p-1", "bus-1", "sch-1", []string{"S01", "S02"}, "")
	require.NoError(t, err)
	require.Equal(t, int64(7), booking.ID)
	require.Equal(t, []string{"S01", "S02"}, booking.SeatNumbers)
	require.Equal(t, int64(100000), booking.FareTotal, "fare total is per-seat fare times seat count")

	require.Len(t, pub.events, 1)
	require.Equal(t, events.TypeBookingCreated, pub.events[0].Type)
	require.Equal(t, []string{"S01", "S02"}, pub.events[0].SeatNumbers)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsWhenAnySeatTaken(t *testing.T) {
	svc, mock, pub, done := newBookingService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats WHERE (.+) FOR UPDATE").
		WillReturnRows(addSeat(addSeat(seatRows(), 1, "S01", false, nil, nil), 2, "S02", true, nil, nil))
	mock.ExpectRollback()

	_, err := svc.CreateBooking("p-1", "bus-1", "sch-1", []string{"S01", "S02"}, "")
	require.True(t, domain.IsSeatConflict(err), "got %v", err)

	var conflict domain.SeatConflictError
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, []string{"S02"}, conflict.SeatNumbers, "only the offending seat is named")

	require.Empty(t, pub.events, "no event on a rejected booking")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsUnknownSeat(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats WHERE (.+) FOR UPDATE").
		WillReturnRows(addSeat(seatRows(), 1, "S01", false, nil, nil))
	mock.ExpectRollback()

	_, err := svc.CreateBooking("p-1", "bus-1", "sch-1", []string{"S01", "S99"}, "")

	var conflict domain.SeatConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	require.Equal(t, []string{"S99"}, conflict.SeatNumbers)
}

func TestCreateBookingRejectsSeatHeldByOtherWorkflow(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	active := time.Now().UTC().Add(2 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats WHERE (.+) FOR UPDATE").
		WillReturnRows(addSeat(seatRows(), 1, "S01", false, active, "other-workflow"))
	mock.ExpectRollback()

	_, err := svc.CreateBooking("p-1", "bus-1", "sch-1", []string{"S01"}, "my-workflow")
	require.True(t, domain.IsSeatConflict(err), "got %v", err)
}

func TestCreateBookingAcceptsOwnHold(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	active := time.Now().UTC().Add(2 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats WHERE (.+) FOR UPDATE").
		WillReturnRows(addSeat(seatRows(), 1, "S01", false, active, "my-workflow"))
	mock.ExpectQuery("SELECT amount FROM schedule_fares").
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(50000))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec("UPDATE seats SET is_booked=1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRows(8, "S01", 50000, 50000, "confirmed", "pending", nil))

	booking, err := svc.CreateBooking("p-1", "bus-1", "sch-1", []string{"S01"}, "my-workflow")
	require.NoError(t, err)
	require.Equal(t, int64(8), booking.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingAcceptsExpiredForeignHold(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	expired := time.Now().UTC().Add(-time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats WHERE (.+) FOR UPDATE").
		WillReturnRows(addSeat(seatRows(), 1, "S01", false, expired, "other-workflow"))
	mock.ExpectQuery("SELECT amount FROM schedule_fares").
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(50000))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec("UPDATE seats SET is_booked=1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRows(9, "S01", 50000, 50000, "confirmed", "pending", nil))

	_, err := svc.CreateBooking("p-1", "bus-1", "sch-1", []string{"S01"}, "")
	require.NoError(t, err, "an expired hold must not block booking")
}

func TestCreateBookingWithoutConfiguredFare(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats WHERE (.+) FOR UPDATE").
		WillReturnRows(addSeat(seatRows(), 1, "S01", false, nil, nil))
	mock.ExpectQuery("SELECT amount FROM schedule_fares").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.CreateBooking("p-1", "bus-1", "sch-1", []string{"S01"}, "")
	require.True(t, domain.IsValidation(err), "got %v", err)
}

func TestCreateBookingDedupesSeatLabels(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats WHERE (.+) FOR UPDATE").
		WillReturnRows(addSeat(seatRows(), 1, "S01", false, nil, nil))
	mock.ExpectQuery("SELECT amount FROM schedule_fares").
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(50000))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("UPDATE seats SET is_booked=1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRows(10, "S01", 50000, 50000, "confirmed", "pending", nil))

	booking, err := svc.CreateBooking("p-1", "bus-1", "sch-1", []string{"s01", " S01 "}, "")
	require.NoError(t, err)
	require.Equal(t, []string{"S01"}, booking.SeatNumbers)
	require.Equal(t, int64(50000), booking.FareTotal, "duplicates are not charged twice")
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _, pub, done := newBookingService(t)
	defer done()

	_, err := svc.CreateBooking("", "bus-1", "sch-1", []string{"S01"}, "")
	require.True(t, domain.IsValidation(err))

	_, err = svc.CreateBooking("p-1", "", "", []string{"S01"}, "")
	require.True(t, domain.IsValidation(err))

	_, err = svc.CreateBooking("p-1", "bus-1", "sch-1", nil, "")
	require.True(t, domain.IsValidation(err))

	require.Empty(t, pub.events)
}

func TestUpdatePaymentStatusPublishesEvent(t *testing.T) {
	svc, mock, pub, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRows(7, "S01", 50000, 50000, "confirmed", "pending", nil))
	mock.ExpectExec("UPDATE bookings SET payment_status=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRows(7, "S01", 50000, 50000, "confirmed", "paid", nil))

	booking, err := svc.UpdatePaymentStatus(7, "paid")
	require.NoError(t, err)
	require.Equal(t, "paid", string(booking.PaymentStatus))

	require.Len(t, pub.events, 1)
	require.Equal(t, events.TypePaymentStatusChanged, pub.events[0].Type)
	require.Equal(t, "paid", pub.events[0].PaymentStatus)
}

func TestUpdatePaymentStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _, done := newBookingService(t)
	defer done()

	_, err := svc.UpdatePaymentStatus(7, "refunded")
	require.True(t, domain.IsValidation(err), "got %v", err)
}
