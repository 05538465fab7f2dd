package ports

import (
	"context"
	"itinerary-planner-service/internal/domain"
)

// Port: a boundary for retrieving candidate Place records from a data source.
// Implementations normalize loose input shapes into canonical Places; the
// engine never branches on catalog representation.
type PlaceCatalog interface {
	// Retrieve all candidate places available for planning.
	ListPlaces(ctx context.Context) ([]*domain.Place, error)
}
