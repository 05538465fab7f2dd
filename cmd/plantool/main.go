package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"itinerary-planner-service/internal/adapters/catalog"
	"itinerary-planner-service/internal/adapters/travel"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/config"
	"itinerary-planner-service/internal/services"
)

// plantool manages the local place catalog and generates itineraries
// offline, using haversine travel estimates instead of the routing API.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	root := &cobra.Command{
		Use:           "plantool",
		Short:         "Manage the place catalog and generate itineraries offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("db", config.Get("DB_PATH", "data/places.db"), "path to the SQLite places database")

	root.AddCommand(newInitCmd(), newSeedCmd(), newPlanCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the places schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			placesDB, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer placesDB.Close()

			if err := catalog.InitSchema(placesDB); err != nil {
				return fmt.Errorf("init: %w", err)
			}
			log.Println("Schema ready.")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load places from a JSON seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			placesDB, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer placesDB.Close()

			if err := catalog.InitSchema(placesDB); err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			seedPath, _ := cmd.Flags().GetString("file")
			if err := catalog.SeedFromJSON(placesDB, seedPath); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Printf("Seeding complete. file=%s", seedPath)
			return nil
		},
	}
	cmd.Flags().String("file", config.Get("SEED_PATH", "data/seeds/places.json"), "seed JSON file")
	return cmd
}

func newPlanCmd() *cobra.Command {
	var (
		interests []string
		lat       float64
		lon       float64
		hours     float64
		startTime string
		date      string
		days      int
		mode      string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate an itinerary from the local catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			placesDB, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer placesDB.Close()

			req, err := buildRequest(interests, lat, lon, hours, startTime, date, days, mode)
			if err != nil {
				return err
			}

			engine := services.NewEngine(
				catalog.NewSqlitePlaceCatalog(placesDB),
				travel.NewHaversineTravelProvider(),
				nil,
			)

			trip, err := engine.GenerateMultiDayPlan(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("plan: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(trip)
		},
	}

	cmd.Flags().StringSliceVar(&interests, "interests", nil, "interest identifiers, e.g. museum,park")
	cmd.Flags().Float64Var(&lat, "lat", 0, "start latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "start longitude")
	cmd.Flags().Float64Var(&hours, "hours", 8, "available hours per day")
	cmd.Flags().StringVar(&startTime, "start-time", "09:00", "daily start time (HH:MM)")
	cmd.Flags().StringVar(&date, "date", "", "trip start date (YYYY-MM-DD), defaults to today")
	cmd.Flags().IntVar(&days, "days", 1, "number of days")
	cmd.Flags().StringVar(&mode, "mode", "walking", "travel mode: walking or driving")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func buildRequest(
	interests []string,
	lat, lon, hours float64,
	startTime, date string,
	days int,
	mode string,
) (*domain.TripRequest, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(startTime, "%d:%d", &hh, &mm); err != nil {
		return nil, fmt.Errorf("plan: start-time must look like 09:00: %w", err)
	}

	startDate := time.Now().Truncate(24 * time.Hour)
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("plan: date must look like 2026-04-01: %w", err)
		}
		startDate = parsed
	}

	travelMode := domain.ModeWalking
	switch mode {
	case "walking":
	case "driving":
		travelMode = domain.ModeDriving
	default:
		return nil, fmt.Errorf("plan: unknown mode %q", mode)
	}

	return &domain.TripRequest{
		Interests:    interests,
		Start:        domain.Coordinates{Lat: lat, Lon: lon},
		DailyMinutes: int(hours * 60),
		StartMinute:  hh*60 + mm,
		StartDate:    startDate,
		Days:         days,
		Mode:         travelMode,
	}, nil
}

func openDB(cmd *cobra.Command) (*sql.DB, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	placesDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", dbPath, err)
	}
	if err := placesDB.Ping(); err != nil {
		return nil, fmt.Errorf("verify sqlite connection to %q: %w", dbPath, err)
	}
	return placesDB, nil
}
