package repositories

import (
	"database/sql"
	"testing"
	"time"

	"busoffice/internal/domain"
	"busoffice/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var bookingTestColumns = []string{
	"id", "passenger_id", "bus_id", "schedule_id", "seat_numbers",
	"fare_amount", "fare_total", "status", "payment_status",
	"created_at", "updated_at", "cancelled_at",
}

func bookingRow(id int64, seatCSV string, fareAmount, fareTotal int64, status, payStatus string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingTestColumns).
		AddRow(id, "p-1", "bus-1", "sch-1", seatCSV, fareAmount, fareTotal, status, payStatus, now, now, nil)
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepo{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestUpdatePaymentStatusOnCancelledBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepo{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRow(5, "", 50000, 0, "cancelled", "pending"))

	_, err = repo.UpdatePaymentStatus(5, models.PaymentPaid)
	if !domain.IsInvalidTransition(err) {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdatePaymentStatusRaceWithCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepo{DB: db}

	// the read sees a live booking but a cancel commits before the guarded
	// UPDATE, so zero rows change and the re-read finds it cancelled
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRow(5, "S01", 50000, 50000, "confirmed", "pending"))
	mock.ExpectExec("UPDATE bookings SET payment_status=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRow(5, "", 50000, 0, "cancelled", "pending"))

	_, err = repo.UpdatePaymentStatus(5, models.PaymentPaid)
	if !domain.IsInvalidTransition(err) {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
}

func TestUpdatePaymentStatusCancelRaceWithUnchangedStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepo{DB: db}

	// the requested status equals the stored one AND a cancel lands between
	// the read and the guarded UPDATE; the re-read must still surface the
	// cancellation instead of reporting success
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRow(5, "S01", 50000, 50000, "confirmed", "paid"))
	mock.ExpectExec("UPDATE bookings SET payment_status=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRow(5, "", 50000, 0, "cancelled", "paid"))

	_, err = repo.UpdatePaymentStatus(5, models.PaymentPaid)
	if !domain.IsInvalidTransition(err) {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdatePaymentStatusIdempotentRepeat(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepo{DB: db}

	// setting the status it already has affects zero rows but is not an error
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRow(5, "S01", 50000, 50000, "confirmed", "paid"))
	mock.ExpectExec("UPDATE bookings SET payment_status=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WillReturnRows(bookingRow(5, "S01", 50000, 50000, "confirmed", "paid"))

	b, err := repo.UpdatePaymentStatus(5, models.PaymentPaid)
	if err != nil {
		t.Fatalf("repeat update must succeed: %v", err)
	}
	if b.PaymentStatus != models.PaymentPaid {
		t.Fatalf("unexpected status: %s", b.PaymentStatus)
	}
}
