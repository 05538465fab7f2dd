package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"itinerary-planner-service/internal/domain"
)

// SQLite-backed implementation of the PlaceCatalog port.
type SqlitePlaceCatalog struct{ DB *sql.DB }

func NewSqlitePlaceCatalog(db *sql.DB) *SqlitePlaceCatalog {
	return &SqlitePlaceCatalog{DB: db}
}

// Return all candidate places stored in the database. Categories and
// opening hours are stored as JSON columns and decoded into the
// canonical Place shape here; the engine never sees storage formats.
func (s *SqlitePlaceCatalog) ListPlaces(ctx context.Context) ([]*domain.Place, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite place catalog: DB is nil")
	}

	query := `
	SELECT
		place_id,
		name,
		description,
		lat,
		lon,
		categories,
		review_count,
		rating,
		attraction,
		visit_minutes,
		hours
	FROM places
	ORDER BY place_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list places: query places table: %w", err)
	}
	defer rows.Close()

	places := make([]*domain.Place, 0, 64)
	for rows.Next() {
		var (
			p              domain.Place
			attraction     int
			categoriesJSON string
			hoursJSON      string
		)
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description,
			&p.Coordinates.Lat, &p.Coordinates.Lon,
			&categoriesJSON, &p.ReviewCount, &p.Rating,
			&attraction, &p.VisitMinutes, &hoursJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("list places: scan row: %w", err)
		}
		p.Attraction = attraction != 0

		if err := json.Unmarshal([]byte(categoriesJSON), &p.Categories); err != nil {
			return nil, fmt.Errorf("list places: place %q: decode categories: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(hoursJSON), &p.Hours); err != nil {
			return nil, fmt.Errorf("list places: place %q: decode hours: %w", p.ID, err)
		}

		places = append(places, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list places: row iteration: %w", err)
	}

	return places, nil
}
