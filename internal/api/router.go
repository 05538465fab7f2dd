package api

import (
	"net/http"

	"itinerary-planner-service/internal/api/handlers"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(engine *services.Engine, geocoder ports.Geocoder, fallbackCenter domain.Coordinates) http.Handler {
	mux := http.NewServeMux()

	placeHandler := &handlers.PlaceHandler{Catalog: engine.Catalog}
	planHandler := &handlers.PlanHandler{
		Engine:         engine,
		Geocoder:       geocoder,
		FallbackCenter: fallbackCenter,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/places", placeHandler.List)
	mux.HandleFunc("/plans/day", planHandler.PlanDay)
	mux.HandleFunc("/plans/trip", planHandler.PlanTrip)

	return loggingMiddleware(mux)
}
