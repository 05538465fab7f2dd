package domain

// TravelMode identifies the transport profile used for travel-time lookups.
type TravelMode string

const (
	ModeWalking TravelMode = "walking"
	ModeDriving TravelMode = "driving"
)

// Place is a candidate point of interest from the catalog.
//
// Catalog fields are immutable once loaded. MatchScore is a computed
// annotation populated by the prioritizer on its own copy of the record;
// the catalog's instances are never written to.
type Place struct {
	ID            string
	Name          string
	Description   string
	Coordinates   Coordinates
	Categories    []string
	ReviewCount   int
	Rating        float64
	Attraction    bool // flagged as a tourist attraction in the catalog
	VisitMinutes  int  // estimated visit duration
	Hours         WeekHours
	MatchScore    float64
}

// HasCategory reports whether the place carries the given category tag.
func (p *Place) HasCategory(cat string) bool {
	for _, c := range p.Categories {
		if c == cat {
			return true
		}
	}
	return false
}
