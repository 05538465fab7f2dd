package cache

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the cache tables in Postgres. Safe to run repeatedly.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("cache schema: db is nil")
	}

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS travel_cache (
			edge_key TEXT PRIMARY KEY,
			duration_minutes INTEGER NOT NULL,
			distance_meters INTEGER NOT NULL,
			mode TEXT NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lon DOUBLE PRECISION NOT NULL,
			lat DOUBLE PRECISION NOT NULL
		);
		`,
	}

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("cache schema: exec statement #%d: %w", i+1, err)
		}
	}
	return nil
}
