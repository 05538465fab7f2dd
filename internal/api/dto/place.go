package dto

type PlaceResponse struct {
	PlaceID      string   `json:"place_id"`
	Name         string   `json:"name"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Categories   []string `json:"categories"`
	ReviewCount  int      `json:"review_count"`
	Rating       float64  `json:"rating"`
	Attraction   bool     `json:"attraction"`
	VisitMinutes int      `json:"visit_minutes"`
}

type ListPlacesResponse struct {
	Places []PlaceResponse `json:"places"`
}
