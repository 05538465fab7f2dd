package services

import (
	"math"
	"sort"

	"itinerary-planner-service/internal/domain"
)

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two points.
func haversineKm(a, b domain.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// distanceMatrix computes the full pairwise great-circle matrix as a
// flat n×n buffer indexed [i*n+j], avoiding per-row allocations in the
// clustering and sequencing hot paths.
func distanceMatrix(places []*domain.Place) []float64 {
	n := len(places)
	m := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := haversineKm(places[i].Coordinates, places[j].Coordinates)
			m[i*n+j] = d
			m[j*n+i] = d
		}
	}
	return m
}

// medianPairwiseKm returns the median of the strict upper triangle of a
// flat n×n distance matrix. Returns 0 when fewer than two points exist.
func medianPairwiseKm(m []float64, n int) float64 {
	if n < 2 {
		return 0
	}
	vals := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			vals = append(vals, m[i*n+j])
		}
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2
}

// centroid returns the mean coordinate of the places.
func centroid(places []*domain.Place) domain.Coordinates {
	if len(places) == 0 {
		return domain.Coordinates{}
	}
	var lat, lon float64
	for _, p := range places {
		lat += p.Coordinates.Lat
		lon += p.Coordinates.Lon
	}
	n := float64(len(places))
	return domain.Coordinates{Lat: lat / n, Lon: lon / n}
}

// convexHullAreaKm2 computes the area of the convex hull of the places
// via a Graham scan followed by the Shoelace formula. Coordinates are
// projected to a local equirectangular plane in kilometers, which is
// accurate at city scale. Collinear or sub-3-point sets have zero area.
func convexHullAreaKm2(places []*domain.Place) float64 {
	n := len(places)
	if n < 3 {
		return 0
	}

	// Project around the mean latitude so lon degrees have metric width.
	c := centroid(places)
	cosLat := math.Cos(c.Lat * math.Pi / 180)
	type pt struct{ x, y float64 }
	pts := make([]pt, n)
	for i, p := range places {
		pts[i] = pt{
			x: (p.Coordinates.Lon - c.Lon) * 111.32 * cosLat,
			y: (p.Coordinates.Lat - c.Lat) * 111.32,
		}
	}

	// Anchor: lowest y, then lowest x.
	anchor := 0
	for i := 1; i < n; i++ {
		if pts[i].y < pts[anchor].y || (pts[i].y == pts[anchor].y && pts[i].x < pts[anchor].x) {
			anchor = i
		}
	}
	pts[0], pts[anchor] = pts[anchor], pts[0]
	a := pts[0]

	cross := func(o, p, q pt) float64 {
		return (p.x-o.x)*(q.y-o.y) - (p.y-o.y)*(q.x-o.x)
	}

	rest := pts[1:]
	sort.Slice(rest, func(i, j int) bool {
		c := cross(a, rest[i], rest[j])
		if c != 0 {
			return c > 0
		}
		di := (rest[i].x-a.x)*(rest[i].x-a.x) + (rest[i].y-a.y)*(rest[i].y-a.y)
		dj := (rest[j].x-a.x)*(rest[j].x-a.x) + (rest[j].y-a.y)*(rest[j].y-a.y)
		return di < dj
	})

	// Iterative scan with an explicit stack of indices into pts.
	hull := make([]pt, 0, n)
	hull = append(hull, a)
	for _, p := range rest {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	if len(hull) < 3 {
		return 0
	}

	// Shoelace.
	area := 0.0
	for i := 0; i < len(hull); i++ {
		j := (i + 1) % len(hull)
		area += hull[i].x*hull[j].y - hull[j].x*hull[i].y
	}
	return math.Abs(area) / 2
}
