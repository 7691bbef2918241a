package database

import (
	"fmt"
	"log"
	"time"

	"coolserve/config"
	"coolserve/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB sets up the Postgres connection and runs migrations.
func InitDB() {
	connString := config.AppConfig.DatabaseURL
	if connString == "" {
		log.Fatal("DATABASE_URL is required. Set it to a valid Postgres URL")
	}

	logLevel := logger.Warn
	if !config.IsProduction() {
		logLevel = logger.Info
	}

	var err error
	DB, err = gorm.Open(postgres.Open(connString), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatalf("failed to get underlying SQL database: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	if err := runMigrations(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
}

func runMigrations() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Booking{},
		&models.Payment{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
