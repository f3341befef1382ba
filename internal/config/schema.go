package config

import "database/sql"

// MigrateSchema creates the tables the booking core owns. Statements are
// idempotent so the server can run them on every start.
func MigrateSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS seats (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	bus_id VARCHAR(64) NOT NULL,
	schedule_id VARCHAR(64) NOT NULL,
	seat_number VARCHAR(16) NOT NULL,
	seat_type VARCHAR(16) NOT NULL DEFAULT 'standard',
	is_booked TINYINT(1) NOT NULL DEFAULT 0,
	is_disabled TINYINT(1) NOT NULL DEFAULT 0,
	reserved_until TIMESTAMP NULL DEFAULT NULL,
	reserved_by VARCHAR(128) NULL DEFAULT NULL,
	booking_id BIGINT NULL DEFAULT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_trip_seat (bus_id, schedule_id, seat_number),
	KEY idx_seat_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	passenger_id VARCHAR(64) NOT NULL,
	bus_id VARCHAR(64) NOT NULL,
	schedule_id VARCHAR(64) NOT NULL,
	seat_numbers TEXT NOT NULL,
	fare_amount BIGINT NOT NULL DEFAULT 0,
	fare_total BIGINT NOT NULL DEFAULT 0,
	status VARCHAR(16) NOT NULL DEFAULT 'confirmed',
	payment_status VARCHAR(16) NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	cancelled_at TIMESTAMP NULL DEFAULT NULL,
	KEY idx_booking_trip (bus_id, schedule_id),
	KEY idx_booking_passenger (passenger_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS schedule_fares (
	bus_id VARCHAR(64) NOT NULL,
	schedule_id VARCHAR(64) NOT NULL,
	amount BIGINT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (bus_id, schedule_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, ddl := range stmts {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}
