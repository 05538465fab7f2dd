package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"itinerary-planner-service/internal/ports"
)

// SQLTravelCache is a SQL-backed cache for travel-time edges, keyed by
// the canonical mode|origin|destination key (see ports.TravelCacheKey).
type SQLTravelCache struct {
	DB *sql.DB
}

func NewSQLTravelCache(db *sql.DB) *SQLTravelCache {
	return &SQLTravelCache{DB: db}
}

// Fetch cached travel results for the given edge keys.
func (s *SQLTravelCache) GetMany(
	ctx context.Context,
	keys []string,
) (_ map[string]ports.TravelResult, err error) {
	defer obs.Time(ctx, "travel.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("travel cache: db is nil")
	}
	if len(keys) == 0 {
		return map[string]ports.TravelResult{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	if len(uniq) == 0 {
		return map[string]ports.TravelResult{}, nil
	}

	q := `
	SELECT edge_key, duration_minutes, distance_meters, mode
    FROM travel_cache
    WHERE edge_key = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get travel cache: query travel_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.TravelResult, len(uniq))
	for rows.Next() {
		var key, mode string
		var minutes, meters int
		if err := rows.Scan(&key, &minutes, &meters, &mode); err != nil {
			return nil, fmt.Errorf("get travel cache: scan rows: %w", err)
		}
		out[key] = ports.TravelResult{
			DurationMinutes: minutes,
			DistanceMeters:  meters,
			Mode:            domain.TravelMode(mode),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get travel cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many resolved edges.
func (s *SQLTravelCache) PutMany(ctx context.Context, results map[string]ports.TravelResult) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert travel cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO travel_cache (edge_key, duration_minutes, distance_meters, mode)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (edge_key) DO UPDATE
	SET duration_minutes = EXCLUDED.duration_minutes,
		distance_meters = EXCLUDED.distance_meters,
		mode = EXCLUDED.mode;
	`)
	if err != nil {
		return fmt.Errorf("insert travel cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for key, r := range results {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("insert travel cache: empty edge key")
		}
		if _, err := stmt.ExecContext(ctx, key, r.DurationMinutes, r.DistanceMeters, string(r.Mode)); err != nil {
			return fmt.Errorf("insert travel cache key=%q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert travel cache commit: %w", err)
	}

	return nil
}
