package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	_ "github.com/jackc/pgx/v5/stdlib"

	"itinerary-planner-service/internal/adapters/cache"
	"itinerary-planner-service/internal/adapters/catalog"
	"itinerary-planner-service/internal/adapters/dining"
	"itinerary-planner-service/internal/adapters/travel"
	"itinerary-planner-service/internal/api"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/config"
	"itinerary-planner-service/internal/platform/db"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
)

const travelCacheTTL = 7 * 24 * time.Hour

// main is the application composition root.
// It wires concrete adapters (SQLite catalog, ORS, Redis/Postgres caches)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/places.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/places.json")
	region := config.Get("GEOCODE_REGION", "JP")
	port := config.Get("PORT", "8080")
	fallbackCenter := parseFallbackCenter(config.Get("FALLBACK_CENTER", "35.6812,139.7671"))

	placesDB, err := openPlacesDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer placesDB.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(placesDB, seedPath); err != nil {
		log.Fatal(err)
	}
	placeCatalog := catalog.NewSqlitePlaceCatalog(placesDB)

	travelCache, geocodeCache, closeCaches, err := buildCaches()
	if err != nil {
		log.Fatal(err)
	}
	defer closeCaches()

	provider, geocoder, err := buildTravelStack(travelCache, geocodeCache, region)
	if err != nil {
		log.Fatal(err)
	}

	diningProvider := dining.NewCatalogDiningProvider(placeCatalog, domain.ModeWalking)
	engine := services.NewEngine(placeCatalog, provider, diningProvider)
	router := api.NewRouter(engine, geocoder, fallbackCenter)

	// Timeouts are tuned for cold-cache plan generation (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildCaches picks the travel/geocode cache backend from the
// environment: Redis when REDIS_ADDR is set, Postgres when DATABASE_URL
// is set, otherwise no caching.
func buildCaches() (ports.TravelCache, ports.GeocodeCache, func(), error) {
	noop := func() {}

	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		log.Printf("travel cache backend=redis addr=%s", addr)
		return cache.NewRedisTravelCache(client, travelCacheTTL), nil, func() { _ = client.Close() }, nil
	}

	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("build caches: %w", err)
		}
		if err := cache.InitSchema(pg); err != nil {
			_ = pg.Close()
			return nil, nil, noop, fmt.Errorf("build caches: %w", err)
		}
		log.Printf("travel cache backend=postgres")
		return cache.NewSQLTravelCache(pg), cache.NewSQLGeocodeCache(pg), func() { _ = pg.Close() }, nil
	}

	log.Printf("travel cache backend=none")
	return nil, nil, noop, nil
}

// buildTravelStack returns the ORS-backed provider and geocoder when an
// API key is configured, falling back to offline haversine estimates.
func buildTravelStack(
	travelCache ports.TravelCache,
	geocodeCache ports.GeocodeCache,
	region string,
) (ports.TravelTimeProvider, ports.Geocoder, error) {
	orsKey := strings.TrimSpace(os.Getenv("ORS_API_KEY"))
	if orsKey == "" {
		log.Printf("ORS_API_KEY not set, using haversine travel estimates")
		return travel.NewHaversineTravelProvider(), nil, nil
	}

	provider, err := travel.NewORSTravelProvider(orsKey, travelCache)
	if err != nil {
		return nil, nil, fmt.Errorf("build travel stack: %w", err)
	}
	geocoder, err := travel.NewORSGeocoder(orsKey, region, geocodeCache)
	if err != nil {
		return nil, nil, fmt.Errorf("build travel stack: %w", err)
	}
	return provider, geocoder, nil
}

func parseFallbackCenter(raw string) domain.Coordinates {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return domain.Coordinates{}
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return domain.Coordinates{}
	}
	return domain.Coordinates{Lat: lat, Lon: lon}
}

func openPlacesDB(dbPath string) (*sql.DB, error) {
	placesDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open places db: open sqlite database %q: %w", dbPath, err)
	}

	if err := placesDB.Ping(); err != nil {
		return nil, fmt.Errorf("open places db: verify sqlite connection to %q: %w", dbPath, err)
	}

	return placesDB, nil
}

func initAndSeed(placesDB *sql.DB, seedPath string) error {
	if err := catalog.InitSchema(placesDB); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		log.Printf("seed file %q not found, skipping seed", seedPath)
		return nil
	}

	if err := catalog.SeedFromJSON(placesDB, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
