package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ProductCatalog/internal/config"
)

// OpenGorm opens a gorm connection for the given dialect.
func OpenGorm(dialect, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dialect {
	case config.DialectPostgres:
		dialector = postgres.Open(dsn)
	case config.DialectSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm dialect %q", dialect)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dialect, err)
	}

	if dialect == config.DialectSQLite {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		// every connection to ":memory:" is its own database
		sqlDB.SetMaxOpenConns(1)
	}
	return gdb, nil
}
