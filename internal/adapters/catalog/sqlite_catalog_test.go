package catalog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "places.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func writeSeedFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

const seedJSON = `[
	{
		"place_id": "p1",
		"name": "City Museum",
		"description": "local history",
		"lat": 35.6812,
		"lng": 139.7671,
		"categories": ["museum"],
		"review_count": 7200,
		"rating": 4.5,
		"tourist_attraction": true,
		"visit_minutes": 90,
		"hours": [[], [{"opens": 540, "closes": 1080}], [], [], [], [], []]
	},
	{
		"place_id": "p2",
		"name": "Riverside Park",
		"basic_info": {"lat": 35.6900, "lng": 139.7000},
		"categories": ["park"],
		"review_count": 800,
		"rating": 4.1
	}
]`

func TestSeedAndListPlaces(t *testing.T) {
	db := openTestDB(t)

	if err := SeedFromJSON(db, writeSeedFile(t, seedJSON)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	places, err := NewSqlitePlaceCatalog(db).ListPlaces(context.Background())
	if err != nil {
		t.Fatalf("list places: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("got %d places, want 2", len(places))
	}

	museum := places[0]
	if museum.ID != "p1" || museum.Name != "City Museum" {
		t.Errorf("unexpected first place: %+v", museum)
	}
	if !museum.Attraction || museum.ReviewCount != 7200 {
		t.Errorf("attraction fields not preserved: %+v", museum)
	}
	if len(museum.Categories) != 1 || museum.Categories[0] != "museum" {
		t.Errorf("categories = %v", museum.Categories)
	}
	periods := museum.Hours[1]
	if len(periods) != 1 || periods[0].Opens != 540 || periods[0].Closes != 1080 {
		t.Errorf("hours = %+v", museum.Hours)
	}

	park := places[1]
	if park.Coordinates.Lat != 35.69 {
		t.Errorf("nested basic_info coordinates not resolved: %+v", park.Coordinates)
	}
	if park.VisitMinutes != 60 {
		t.Errorf("default visit minutes = %d, want 60", park.VisitMinutes)
	}
	if park.Hours.HasData() {
		t.Errorf("park should have no opening data")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	path := writeSeedFile(t, seedJSON)

	if err := SeedFromJSON(db, path); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := SeedFromJSON(db, path); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	places, err := NewSqlitePlaceCatalog(db).ListPlaces(context.Background())
	if err != nil {
		t.Fatalf("list places: %v", err)
	}
	if len(places) != 2 {
		t.Errorf("got %d places after reseeding, want 2", len(places))
	}
}

func TestSeedRejectsBadRecords(t *testing.T) {
	db := openTestDB(t)

	noID := `[{"place_id": " ", "name": "x", "lat": 1, "lng": 1}]`
	if err := SeedFromJSON(db, writeSeedFile(t, noID)); err == nil {
		t.Error("expected an error for a blank place_id")
	}

	noCoords := `[{"place_id": "p", "name": "x"}]`
	if err := SeedFromJSON(db, writeSeedFile(t, noCoords)); err == nil {
		t.Error("expected an error for missing coordinates")
	}

	badHours := `[{"place_id": "p", "name": "x", "lat": 1, "lng": 1, "hours": [[]]}]`
	if err := SeedFromJSON(db, writeSeedFile(t, badHours)); err == nil {
		t.Error("expected an error for malformed hours")
	}
}
