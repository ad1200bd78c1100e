package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vietanh2810/eventsplus-api/internal/config"
	"github.com/vietanh2810/eventsplus-api/internal/repository/dao"
)

func OpenPostgres(conf *config.PostgresConfig, environment string) (*gorm.DB, error) {
	return OpenPostgresWithURL(conf.DSN(), environment)
}

// OpenPostgresWithURL connects and migrates the schema.
func OpenPostgresWithURL(dsn, environment string) (*gorm.DB, error) {
	logLevel := logger.Warn
	if environment == config.EnvDevelopment {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	if err = dao.InitTables(db); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	return db, nil
}
