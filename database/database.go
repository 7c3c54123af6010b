package database

import (
	"context"
	"fmt"
	"log"

	"lms/config"
	"lms/models"
	courseModels "lms/models/course"
	"lms/repository"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDb opens the store selected by DB_DRIVER, migrates it and seeds the quiz bank
func ConnectDb(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	var store repository.Store

	if cfg.DBDriver == "file" {
		fs, err := repository.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		log.Printf("Using JSON file storage in %s", cfg.DataDir)
		store = fs
	} else {
		db, err := Open(cfg)
		if err != nil {
			return nil, err
		}
		if err := runMigrations(db); err != nil {
			return nil, err
		}
		store = repository.NewGormStore(db)
	}

	if err := SeedQuizzes(ctx, store, cfg.QuizSeedFile); err != nil {
		return nil, err
	}
	return store, nil
}

// Open connects to the SQL database described by cfg
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// one writer at a time, otherwise sqlite answers "database is locked"
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(0)
	}

	log.Printf("Connected successfully to %s", cfg.DBDriver)
	return db, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	dsn := cfg.DBDSN

	switch cfg.DBDriver {
	case "postgres":
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
			)
		}
		return postgres.Open(dsn), nil
	case "mysql":
		if dsn == "" {
			dsn = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
			)
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		if dsn == "" {
			dsn = cfg.DBName
		}
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// runMigrations performs database migrations
func runMigrations(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Permission{},
		&models.LoginTracking{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Lesson{},
		&courseModels.Progress{},
		&courseModels.Certificate{},
		&courseModels.Quiz{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Migrations completed successfully.")
	return nil
}
