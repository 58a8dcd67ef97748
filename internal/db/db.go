package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/logbook/internal/models"
)

var DB *gorm.DB

// Options controls how the database is opened.
type Options struct {
	// Debug surfaces slow queries and gorm warnings on stderr.
	Debug bool
}

// Initialize opens the database at path, runs migrations and installs it as DB.
func Initialize(path string, opts Options) error {
	conn, err := Open(path, opts)
	if err != nil {
		return err
	}
	DB = conn
	return nil
}

// Open connects to the SQLite database at path and runs migrations.
func Open(path string, opts Options) (*gorm.DB, error) {
	// Ensure the directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	gormLogger := logger.Default.LogMode(logger.Silent) // Quiet by default
	if opts.Debug {
		gormLogger = logger.New(
			log.StandardLog(log.StandardLogOptions{ForceLevel: log.WarnLevel}),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		)
	}

	conn, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return conn, nil
}

// dsn enables foreign keys so session deletes cascade, and waits on locks
// instead of failing immediately.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// runMigrations creates/updates the database schema
func runMigrations(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Session{},
		&models.CategoryFamily{},
		&models.Category{},
		&models.DailyRecord{},
		&models.Observation{},
		&models.TextEntry{},
		&models.TimerEntry{},
		&models.ManualEntry{},
	)
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
