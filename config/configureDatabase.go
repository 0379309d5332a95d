package config

import (
	"fmt"
	"time"

	"ride-analytics-backend/db/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// allModels defines all models that should be migrated.
// This is the only place you need to add new models.
var allModels = []interface{}{
	&models.Station{},
	&models.Ride{},
	&models.ImportError{},
}

// ConfigureDatabase opens the configured store and migrates the schema.
// DB_DRIVER=postgres selects the Postgres DSN built from the environment;
// anything else opens the SQLite file at sqlitePath.
func ConfigureDatabase(sqlitePath string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	if GetEnv("DB_DRIVER") == "postgres" {
		host := GetEnv("DB_HOST")
		user := GetEnv("POSTGRES_USER")
		password := GetEnv("POSTGRES_PASSWORD")
		dbname := GetEnv("POSTGRES_DB")
		port := GetEnv("DB_PORT")
		timezone := GetEnv("DB_TIMEZONE")

		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
			host, user, password, dbname, port, timezone,
		)
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(sqlitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("[DB-CONNECT] failed to connect to database: %w", err)
	}

	// Auto-migrate all models using the allModels slice
	if err := db.AutoMigrate(allModels...); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	// Connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("[DB-POOL] failed to get underlying DB connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return db, nil
}
