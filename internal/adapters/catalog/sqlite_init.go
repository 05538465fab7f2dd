package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"itinerary-planner-service/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlacesQuery := `
	CREATE TABLE IF NOT EXISTS places (
		place_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		categories TEXT NOT NULL DEFAULT '[]',
		review_count INTEGER NOT NULL DEFAULT 0,
		rating REAL NOT NULL DEFAULT 0,
		attraction INTEGER NOT NULL DEFAULT 0,
		visit_minutes INTEGER NOT NULL DEFAULT 60,
		hours TEXT NOT NULL DEFAULT '[[],[],[],[],[],[],[]]'
	);
	`

	statements := []string{createPlacesQuery}
	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// PlaceSeed accepts the loose shapes place data arrives in: flat
// lat/lng, latitude/longitude, or a nested basic_info block. Seeding
// normalizes everything into the canonical places row.
type PlaceSeed struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	BasicInfo   *struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	} `json:"basic_info"`
	Categories   []string              `json:"categories"`
	ReviewCount  int                   `json:"review_count"`
	Rating       float64               `json:"rating"`
	Attraction   bool                  `json:"tourist_attraction"`
	VisitMinutes int                   `json:"visit_minutes"`
	Hours        [][]domain.OpenPeriod `json:"hours"` // 7 weekday slots, Sunday first
}

// Coordinates resolves the seed's coordinate shape, flat fields first.
func (p *PlaceSeed) Coordinates() (domain.Coordinates, error) {
	switch {
	case p.Lat != nil && p.Lng != nil:
		return domain.Coordinates{Lat: *p.Lat, Lon: *p.Lng}, nil
	case p.Latitude != nil && p.Longitude != nil:
		return domain.Coordinates{Lat: *p.Latitude, Lon: *p.Longitude}, nil
	case p.BasicInfo != nil && p.BasicInfo.Lat != nil && p.BasicInfo.Lng != nil:
		return domain.Coordinates{Lat: *p.BasicInfo.Lat, Lon: *p.BasicInfo.Lng}, nil
	}
	return domain.Coordinates{}, fmt.Errorf("place %q has no usable coordinates", p.PlaceID)
}

// Populate the database with place data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed places: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed places: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO places (
		place_id, name, description, lat, lon,
		categories, review_count, rating, attraction, visit_minutes, hours
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed places: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range data {
		id := strings.TrimSpace(item.PlaceID)
		if id == "" {
			return fmt.Errorf("seed places: item at index %d: place_id cannot be empty", i+1)
		}
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed places: place %q: name cannot be empty", id)
		}

		coords, err := item.Coordinates()
		if err != nil {
			return fmt.Errorf("seed places: %w", err)
		}

		visit := item.VisitMinutes
		if visit <= 0 {
			visit = 60
		}

		categories := item.Categories
		if categories == nil {
			categories = []string{}
		}
		categoriesJSON, err := json.Marshal(categories)
		if err != nil {
			return fmt.Errorf("seed places: place %q: encode categories: %w", id, err)
		}

		hours := item.Hours
		if len(hours) == 0 {
			hours = make([][]domain.OpenPeriod, 7)
		}
		if len(hours) != 7 {
			return fmt.Errorf("seed places: place %q: hours must have 7 weekday slots, got %d", id, len(hours))
		}
		hoursJSON, err := json.Marshal(hours)
		if err != nil {
			return fmt.Errorf("seed places: place %q: encode hours: %w", id, err)
		}

		attraction := 0
		if item.Attraction {
			attraction = 1
		}

		_, err = stmt.Exec(
			id, name, item.Description, coords.Lat, coords.Lon,
			string(categoriesJSON), item.ReviewCount, item.Rating, attraction, visit, string(hoursJSON),
		)
		if err != nil {
			return fmt.Errorf("seed places: insert place_id=%q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed places: commit tx: %w", err)
	}

	return nil
}
