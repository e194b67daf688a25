package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Open connects to Postgres and applies pending goose migrations.
func Open(dsn, migrationsDir string) (*sql.DB, error) {
	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if migrationsDir != "" {
		if err := goose.Up(database, migrationsDir); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
	}
	return database, nil
}
