package db

import (
	"database/sql"
	"fmt"
	"time"

	"lokapasar-be/internal/config"

	_ "github.com/lib/pq"
)

// Open connects to postgres and verifies the connection.
func Open(cfg *config.Config) (*sql.DB, error) {
	database, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(30 * time.Minute)

	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return database, nil
}
