package db

import (
	"fmt"
	"strings"
	"time"

	"expense-workflow/internal/domain/company"
	"expense-workflow/internal/domain/expense"
	"expense-workflow/internal/domain/rule"
	"expense-workflow/internal/domain/user"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open picks the dialector for driver and connects.
func Open(driver, dsn, logLevel string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch driver {
	case DriverMySQL:
		dial = mysql.Open(dsn)
	case DriverSQLite:
		dial = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	return OpenGormWithDialector(dial, WithLogLevel(logLevel))
}

type openOptions struct {
	logLevel logger.LogLevel
}

type OpenOption func(*openOptions)

// WithLogLevel sets gorm's SQL logging: silent, error, warn or info.
func WithLogLevel(level string) OpenOption {
	return func(o *openOptions) { o.logLevel = parseLogLevel(level) }
}

func OpenGormWithDialector(dial gorm.Dialector, opts ...OpenOption) (*gorm.DB, error) {
	o := openOptions{logLevel: logger.Warn}
	for _, fn := range opts {
		fn(&o)
	}

	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(o.logLevel),
		// duplicate keys surface as gorm.ErrDuplicatedKey on every driver
		TranslateError: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&company.Company{},
		&user.User{},
		&rule.ApprovalRule{},
		&expense.Expense{},
		&expense.ApprovalEntry{},
	)
}

func parseLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
