package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/contentking-de/womosuche-sub000/models"
	"github.com/contentking-de/womosuche-sub000/utils"
)

// Connect opens the database and runs the schema migration. The returned
// handle is passed down explicitly; nothing in this codebase reaches for a
// package-level connection.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is empty, set DB_URL")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Subscription{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	utils.LogSuccess("Database connection successful")
	return conn, nil
}
