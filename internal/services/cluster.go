package services

import (
	"math"

	"itinerary-planner-service/internal/domain"
)

const (
	labelUnvisited = 0
	labelNoise     = -1
)

// clusterParams holds the adaptive DBSCAN parameters derived from the
// candidate set's pairwise distance distribution.
type clusterParams struct {
	EpsKm  float64
	MinPts int
}

func adaptiveParams(dist []float64, n int) clusterParams {
	eps := epsMedianFactor * medianPairwiseKm(dist, n)
	if eps > epsCapKm || eps == 0 {
		eps = epsCapKm
	}
	minPts := int(math.Floor(math.Sqrt(float64(n)) / 3))
	if minPts < 2 {
		minPts = 2
	}
	return clusterParams{EpsKm: eps, MinPts: minPts}
}

// BuildClusters groups the places by density, reassigns noise, and
// summarizes each cluster. Deterministic for a fixed input order.
func BuildClusters(places []*domain.Place) []*domain.Cluster {
	n := len(places)
	if n == 0 {
		return nil
	}

	dist := distanceMatrix(places)
	params := adaptiveParams(dist, n)

	labels := dbscan(dist, n, params)
	labels = reassignNoise(dist, n, labels, params)

	// Collect members per label, preserving input order inside a cluster.
	byLabel := make(map[int][]int)
	order := make([]int, 0)
	for i, l := range labels {
		if _, seen := byLabel[l]; !seen {
			order = append(order, l)
		}
		byLabel[l] = append(byLabel[l], i)
	}

	clusters := make([]*domain.Cluster, 0, len(order))
	for id, l := range order {
		members := make([]*domain.Place, 0, len(byLabel[l]))
		for _, i := range byLabel[l] {
			members = append(members, places[i])
		}
		clusters = append(clusters, summarizeCluster(id, members))
	}
	return clusters
}

// dbscan labels each point with a cluster id (1-based) or labelNoise.
// A point is a core point when it has at least MinPts neighbors within
// EpsKm. Clusters grow from core points through density-reachable
// points; border points join the first cluster that reaches them. The
// expansion queue is an explicit slice of indices into the flat place
// array, keeping traversal iterative and allocation-light.
func dbscan(dist []float64, n int, params clusterParams) []int {
	labels := make([]int, n)

	neighbors := func(i int) []int {
		var out []int
		for j := 0; j < n; j++ {
			if j != i && dist[i*n+j] <= params.EpsKm {
				out = append(out, j)
			}
		}
		return out
	}

	nextID := 0
	for i := 0; i < n; i++ {
		if labels[i] != labelUnvisited {
			continue
		}
		seed := neighbors(i)
		if len(seed) < params.MinPts {
			labels[i] = labelNoise
			continue
		}

		nextID++
		labels[i] = nextID

		queue := append([]int(nil), seed...)
		for head := 0; head < len(queue); head++ {
			j := queue[head]
			if labels[j] == labelNoise {
				labels[j] = nextID // border point, included once
				continue
			}
			if labels[j] != labelUnvisited {
				continue
			}
			labels[j] = nextID
			nj := neighbors(j)
			if len(nj) >= params.MinPts {
				// j is itself a core point: its neighborhood is reachable.
				queue = append(queue, nj...)
			}
		}
	}
	return labels
}

// reassignNoise attaches each noise point to the nearest existing
// cluster when it lies within noiseReassignFactor×eps of any member,
// otherwise promotes it to a singleton cluster.
func reassignNoise(dist []float64, n int, labels []int, params clusterParams) []int {
	maxID := 0
	for _, l := range labels {
		if l > maxID {
			maxID = l
		}
	}

	limit := noiseReassignFactor * params.EpsKm
	for i := 0; i < n; i++ {
		if labels[i] != labelNoise {
			continue
		}
		best, bestD := 0, math.Inf(1)
		for j := 0; j < n; j++ {
			if labels[j] <= 0 {
				continue
			}
			if d := dist[i*n+j]; d < bestD {
				bestD = d
				best = labels[j]
			}
		}
		if best != 0 && bestD <= limit {
			labels[i] = best
		} else {
			maxID++
			labels[i] = maxID
		}
	}
	return labels
}

// summarizeCluster computes the centroid, priority, density and kind of
// a cluster whose members are in input order (route order is assigned
// later by the sequencer).
func summarizeCluster(id int, members []*domain.Place) *domain.Cluster {
	c := &domain.Cluster{
		ID:       id,
		Places:   members,
		Centroid: centroid(members),
	}

	visit := 0
	for _, p := range members {
		// Priority blends popularity and interest fit; log damping keeps a
		// single mega-popular member from drowning the rest.
		c.Priority += math.Log10(float64(p.ReviewCount)+1)*10 + p.Rating*5 + p.MatchScore
		visit += p.VisitMinutes
	}
	c.Priority += clusterSizeBonus * float64(len(members)-1)
	c.TotalMinutes = visit

	if len(members) == 1 {
		c.Kind = domain.ClusterSingle
		c.Density = 0
		return c
	}

	avg := avgIntraDistanceKm(members)
	area := convexHullAreaKm2(members)
	if area > 0 {
		c.Density = float64(len(members)) / area
	} else {
		// Collinear or tiny hull: treat as maximally dense.
		c.Density = math.Inf(1)
	}

	switch {
	case c.Density >= denseDensityMin && avg <= sparseAvgDistKm:
		c.Kind = domain.ClusterDense
	default:
		c.Kind = domain.ClusterSparse
	}
	return c
}

func avgIntraDistanceKm(members []*domain.Place) float64 {
	n := len(members)
	if n < 2 {
		return 0
	}
	sum, pairs := 0.0, 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += haversineKm(members[i].Coordinates, members[j].Coordinates)
			pairs++
		}
	}
	return sum / float64(pairs)
}
