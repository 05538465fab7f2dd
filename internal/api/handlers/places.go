package handlers

import (
	"log"
	"net/http"

	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/ports"
)

// PlaceHandler exposes read-only catalog retrieval endpoints.
type PlaceHandler struct {
	Catalog ports.PlaceCatalog
}

func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	places, err := h.Catalog.ListPlaces(r.Context())
	if err != nil {
		log.Printf("list places failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPlacesResponse{
		Places: make([]dto.PlaceResponse, 0, len(places)),
	}
	for _, p := range places {
		res.Places = append(res.Places, dto.PlaceResponse{
			PlaceID:      p.ID,
			Name:         p.Name,
			Lat:          p.Coordinates.Lat,
			Lon:          p.Coordinates.Lon,
			Categories:   p.Categories,
			ReviewCount:  p.ReviewCount,
			Rating:       p.Rating,
			Attraction:   p.Attraction,
			VisitMinutes: p.VisitMinutes,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
