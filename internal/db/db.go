package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-pms-backend/config"
	"hotel-pms-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.RoomType{},
		&model.Room{},
		&model.Reservation{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.EnableExclusionConstraint {
		log.Println("Applying reservation exclusion constraint DDL...")
		if err := applyExclusionDDL(db); err != nil {
			return nil, err
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// applyExclusionDDL installs a Postgres exclusion constraint that rejects
// overlapping active reservations on the same room at the database level.
// The lifecycle manager's lock-and-check already enforces this in the
// application; the constraint is the storage-level backstop so no writer
// path, present or future, can violate it.
func applyExclusionDDL(db *gorm.DB) error {
	ddls := []string{
		"CREATE EXTENSION IF NOT EXISTS btree_gist;",

		// Re-runnable on every startup.
		"ALTER TABLE reservations DROP CONSTRAINT IF EXISTS reservations_interval_valid;",
		"ALTER TABLE reservations DROP CONSTRAINT IF EXISTS reservations_no_overlap;",

		"ALTER TABLE reservations " +
			"ADD CONSTRAINT reservations_interval_valid CHECK (check_in < check_out);",

		// Half-open daterange: a checkout on day D never collides with a
		// check-in on day D. Only statuses that hold the room participate.
		"ALTER TABLE reservations " +
			"ADD CONSTRAINT reservations_no_overlap EXCLUDE USING GIST (" +
			"room_number WITH =, " +
			"daterange(check_in::date, check_out::date, '[)') WITH &&" +
			") WHERE (status IN ('confirmed', 'checked_in'));",

		"CREATE INDEX IF NOT EXISTS idx_reservations_room_status " +
			"ON reservations (room_number, status);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
