package services

import (
	"testing"
	"time"

	"busoffice/internal/domain"
	"busoffice/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestListSeatsSummarizesStates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := SeatService{SeatRepo: repositories.SeatRepo{DB: db}}
	active := time.Now().UTC().Add(2 * time.Minute)
	expired := time.Now().UTC().Add(-2 * time.Minute)

	rows := seatRows()
	rows = addSeat(rows, 1, "A1", false, nil, nil)
	rows = addSeat(rows, 2, "A2", false, active, "w1")
	rows = addSeat(rows, 3, "A3", false, expired, "w1")
	rows = addSeat(rows, 4, "A4", true, nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM seats WHERE bus_id=\\? AND schedule_id=\\?").
		WithArgs("bus-1", "sch-1").
		WillReturnRows(rows)

	seats, summary, err := svc.ListSeats("bus-1", "sch-1")
	require.NoError(t, err)
	require.Len(t, seats, 4)
	require.Equal(t, 4, summary.Total)
	require.Equal(t, 2, summary.Available, "the expired hold counts as available")
	require.Equal(t, 1, summary.Held)
	require.Equal(t, 1, summary.Booked)
}

func TestCreateSeatDefaultsType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := SeatService{SeatRepo: repositories.SeatRepo{DB: db}}

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM seats").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO seats").
		WithArgs("bus-1", "sch-1", "A1", "standard").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE id=\\?").
		WillReturnRows(addSeat(seatRows(), 1, "A1", false, nil, nil))

	seat, err := svc.CreateSeat("bus-1", "sch-1", "a1", "")
	require.NoError(t, err)
	require.Equal(t, "A1", seat.SeatNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSeatRejectsUnknownType(t *testing.T) {
	svc := SeatService{}

	_, err := svc.CreateSeat("bus-1", "sch-1", "A1", "first-class")
	require.True(t, domain.IsValidation(err), "got %v", err)
}

func TestCreateSeatsBatchReportsSkipped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := SeatService{SeatRepo: repositories.SeatRepo{DB: db}}

	mock.ExpectQuery("SELECT seat_number FROM seats WHERE").
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("A1"))
	mock.ExpectExec("INSERT INTO seats").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE id=\\?").
		WillReturnRows(addSeat(seatRows(), 2, "A2", false, nil, nil))

	created, skipped, err := svc.CreateSeatsBatch("bus-1", "sch-1", []string{"A1", "A2", "a2"}, "standard")
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Equal(t, 1, skipped, "duplicates against existing rows are skipped, label dupes are dropped up front")
}
