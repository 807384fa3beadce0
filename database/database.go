package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lms/config"
	"lms/models"
	lessonModels "lms/models/lesson"
)

// DbInstance holds the two database connections the app works with:
// Db runs as the ambient application role and is subject to row-level
// security policies; Admin runs as the elevated service role and is used
// only for policy-fallback retries and compensating deletes.
type DbInstance struct {
	Db    *gorm.DB
	Admin *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes both PostgreSQL connections
func ConnectDb() {
	cfg := config.AppConfig

	db, err := openConnection(cfg.DBUser, cfg.DBPassword)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	// The elevated handle is optional. Without it the fallback retry
	// reuses the ambient role and is effectively a no-op.
	admin := db
	if cfg.DBServiceUser != "" {
		admin, err = openConnection(cfg.DBServiceUser, cfg.DBServicePassword)
		if err != nil {
			log.Fatalf("Failed to connect service role to PostgreSQL: %v", err)
		}
	}

	// Migrations run on the elevated handle; the ambient role may not own the tables.
	runMigrations(admin)

	Database = DbInstance{Db: db, Admin: admin}
}

func openConnection(user, password string) (*gorm.DB, error) {
	cfg := config.AppConfig
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, user, password, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

// runMigrations performs database migrations
func runMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&lessonModels.Lesson{},
		&lessonModels.Module{},
		&lessonModels.ModuleContent{},
		&lessonModels.ModuleAssignment{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
