package repositories

import (
	"database/sql"

	intconfig "busoffice/internal/config"
)

// FareRepo stores the flat per-seat fare per bus+schedule. No proration or
// seat-type pricing; the booking freezes this amount at creation time.
type FareRepo struct {
	DB *sql.DB
}

func (r FareRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Get returns the configured per-seat fare; sql.ErrNoRows when the trip has
// no fare yet.
func (r FareRepo) Get(busID, scheduleID string) (int64, error) {
	var amount int64
	err := r.db().QueryRow(
		`SELECT amount FROM schedule_fares WHERE bus_id=? AND schedule_id=? LIMIT 1`,
		busID, scheduleID,
	).Scan(&amount)
	return amount, err
}

// GetTx reads the fare inside the booking transaction so the amount the
// booking freezes is the amount that was current at commit time.
func (r FareRepo) GetTx(tx *sql.Tx, busID, scheduleID string) (int64, error) {
	var amount int64
	err := tx.QueryRow(
		`SELECT amount FROM schedule_fares WHERE bus_id=? AND schedule_id=? LIMIT 1`,
		busID, scheduleID,
	).Scan(&amount)
	return amount, err
}

// Set upserts the per-seat fare for a trip.
func (r FareRepo) Set(busID, scheduleID string, amount int64) error {
	_, err := r.db().Exec(
		`INSERT INTO schedule_fares (bus_id, schedule_id, amount) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE amount=VALUES(amount)`,
		busID, scheduleID, amount,
	)
	return err
}
