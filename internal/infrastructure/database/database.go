package database

import (
	"fmt"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/config"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the journal database selected by cfg.Driver.
func Open(cfg *config.DatabaseConfig, debug bool, log *logrus.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteDB(cfg.Path, debug, log)
	case "", "postgres":
		return NewPostgresDB(cfg, debug, log)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormConfig(debug, log))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("Successfully connected to PostgreSQL database")
	return db, nil
}

// NewSQLiteDB opens a SQLite journal. Used by tests and single-till setups.
func NewSQLiteDB(path string, debug bool, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(debug, log))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// one writer at a time; also keeps ":memory:" databases on a single connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	log.WithField("path", path).Info("Successfully opened SQLite database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for the journal tables
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.PaymentRecord{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func gormConfig(debug bool, log *logrus.Logger) *gorm.Config {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}
}
