package postgres

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/logger"
	"github.com/dom/daily-checkin/internal/repository"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Models lists every table managed by AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.UserSession{},
		&domain.RecurringDefinition{},
		&domain.TemporaryDefinition{},
		&domain.Entry{},
	}
}

// NewConnection opens the database for driver and migrates the schema.
// Postgres is the production store; sqlite serves local development.
// Query logs go to the application logger, so they share its level,
// format and log file.
func NewConnection(driver, databaseURL string, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	dialector, err := openDialector(driver, databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

func newGormLogger(level gormlogger.LogLevel) gormlogger.Interface {
	return gormlogger.New(logger.StandardLog(), gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func openDialector(driver, databaseURL string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres, "":
		return postgres.Open(databaseURL), nil
	case DriverSQLite:
		if err := ensureDirForSQLite(databaseURL); err != nil {
			return nil, err
		}
		return sqlite.Open(databaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:                NewUserRepository(db),
		Session:             NewSessionRepository(db),
		RecurringDefinition: NewRecurringDefinitionRepository(db),
		TemporaryDefinition: NewTemporaryDefinitionRepository(db),
		Entry:               NewEntryRepository(db),
		Transactor:          NewTransactor(db),
	}
}
