package services

import (
	"math"
	"math/rand"
	"slices"

	"itinerary-planner-service/internal/domain"
)

// OrderClusters arranges clusters into a macro-route. Small sets are
// solved exhaustively; larger sets race several constructive heuristics
// plus simulated annealing and keep the best-scoring candidate, ties
// broken by generation order.
func OrderClusters(clusters []*domain.Cluster) []*domain.Cluster {
	n := len(clusters)
	if n <= 1 {
		return clusters
	}

	if n <= exhaustiveMaxClusters {
		return bestPermutation(clusters)
	}

	candidates := [][]*domain.Cluster{
		priorityGreedyOrder(clusters),
		angularSweepOrder(clusters),
		mstCentroidOrder(clusters),
	}
	if n <= annealingMaxClusters {
		candidates = append(candidates, annealedOrder(clusters))
	}

	best := candidates[0]
	bestScore := scoreClusterOrder(best)
	for _, cand := range candidates[1:] {
		if s := scoreClusterOrder(cand); s > bestScore {
			best, bestScore = cand, s
		}
	}
	return best
}

// scoreClusterOrder evaluates a macro-route: shorter hops, high-priority
// clusters early, dense clusters adjacent, and few direction reversals.
func scoreClusterOrder(order []*domain.Cluster) float64 {
	n := len(order)
	score := 0.0

	for i := 1; i < n; i++ {
		score -= interDistanceWeight * haversineKm(order[i-1].Centroid, order[i].Centroid)
	}

	for i, c := range order {
		weight := float64(n-i) / float64(n)
		score += c.Priority * weight
	}

	for i := 1; i < n; i++ {
		if order[i-1].Kind == domain.ClusterDense && order[i].Kind == domain.ClusterDense {
			score += denseAdjacencyBonus
		}
	}

	score -= reversalPenalty * float64(directionReversals(order))
	return score
}

// directionReversals counts path legs that fold back on the previous
// heading (negative dot product of consecutive displacement vectors).
func directionReversals(order []*domain.Cluster) int {
	count := 0
	for i := 2; i < len(order); i++ {
		ax := order[i-1].Centroid.Lon - order[i-2].Centroid.Lon
		ay := order[i-1].Centroid.Lat - order[i-2].Centroid.Lat
		bx := order[i].Centroid.Lon - order[i-1].Centroid.Lon
		by := order[i].Centroid.Lat - order[i-1].Centroid.Lat
		if ax*bx+ay*by < 0 {
			count++
		}
	}
	return count
}

func bestPermutation(clusters []*domain.Cluster) []*domain.Cluster {
	n := len(clusters)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	var best []*domain.Cluster
	bestScore := math.Inf(-1)

	var permute func(k int)
	permute = func(k int) {
		if k == n {
			cand := make([]*domain.Cluster, n)
			for i, j := range idx {
				cand[i] = clusters[j]
			}
			if s := scoreClusterOrder(cand); s > bestScore {
				best, bestScore = cand, s
			}
			return
		}
		for i := k; i < n; i++ {
			idx[k], idx[i] = idx[i], idx[k]
			permute(k + 1)
			idx[k], idx[i] = idx[i], idx[k]
		}
	}
	permute(0)
	return best
}

// priorityGreedyOrder starts at the highest-priority cluster and
// repeatedly picks the unvisited cluster maximizing
// priority/100 − 0.5×distance from the current one.
func priorityGreedyOrder(clusters []*domain.Cluster) []*domain.Cluster {
	n := len(clusters)
	used := make([]bool, n)

	cur := topPriorityIndex(clusters)
	used[cur] = true
	order := []*domain.Cluster{clusters[cur]}

	for len(order) < n {
		next, bestScore := -1, math.Inf(-1)
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			s := clusters[i].Priority/greedyPriorityDivisor -
				greedyDistanceWeight*haversineKm(clusters[cur].Centroid, clusters[i].Centroid)
			if s > bestScore {
				next, bestScore = i, s
			}
		}
		used[next] = true
		order = append(order, clusters[next])
		cur = next
	}
	return order
}

func topPriorityIndex(clusters []*domain.Cluster) int {
	best := 0
	for i, c := range clusters {
		if c.Priority > clusters[best].Priority {
			best = i
		}
	}
	return best
}

// angularSweepOrder sorts clusters by bearing around the global centroid
// and rotates the sweep so it begins at the highest-priority cluster.
func angularSweepOrder(clusters []*domain.Cluster) []*domain.Cluster {
	var lat, lon float64
	for _, c := range clusters {
		lat += c.Centroid.Lat
		lon += c.Centroid.Lon
	}
	center := domain.Coordinates{
		Lat: lat / float64(len(clusters)),
		Lon: lon / float64(len(clusters)),
	}

	order := append([]*domain.Cluster(nil), clusters...)
	slices.SortStableFunc(order, func(a, b *domain.Cluster) int {
		aa := math.Atan2(a.Centroid.Lat-center.Lat, a.Centroid.Lon-center.Lon)
		ab := math.Atan2(b.Centroid.Lat-center.Lat, b.Centroid.Lon-center.Lon)
		if aa != ab {
			if aa < ab {
				return -1
			}
			return 1
		}
		return 0
	})

	start := 0
	for i, c := range order {
		if c.Priority > order[start].Priority {
			start = i
		}
	}
	rotated := make([]*domain.Cluster, 0, len(order))
	rotated = append(rotated, order[start:]...)
	rotated = append(rotated, order[:start]...)
	return rotated
}

// mstCentroidOrder walks a Prim MST over cluster centroids depth-first,
// visiting higher-priority children first.
func mstCentroidOrder(clusters []*domain.Cluster) []*domain.Cluster {
	n := len(clusters)
	dist := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := haversineKm(clusters[i].Centroid, clusters[j].Centroid)
			dist[i*n+j] = d
			dist[j*n+i] = d
		}
	}

	start := topPriorityIndex(clusters)
	inTree := make([]bool, n)
	parent := make([]int, n)
	key := make([]float64, n)
	for i := range key {
		key[i] = math.Inf(1)
		parent[i] = -1
	}
	key[start] = 0
	for iter := 0; iter < n; iter++ {
		u, bestKey := -1, math.Inf(1)
		for v := 0; v < n; v++ {
			if !inTree[v] && key[v] < bestKey {
				u, bestKey = v, key[v]
			}
		}
		if u == -1 {
			break
		}
		inTree[u] = true
		for v := 0; v < n; v++ {
			if !inTree[v] && dist[u*n+v] < key[v] {
				key[v] = dist[u*n+v]
				parent[v] = u
			}
		}
	}

	children := make([][]int, n)
	for v := 0; v < n; v++ {
		if parent[v] >= 0 {
			children[parent[v]] = append(children[parent[v]], v)
		}
	}
	for u := range children {
		slices.SortStableFunc(children[u], func(a, b int) int {
			pa, pb := clusters[a].Priority, clusters[b].Priority
			if pa != pb {
				if pa > pb {
					return -1
				}
				return 1
			}
			return a - b
		})
	}

	order := make([]*domain.Cluster, 0, n)
	stack := []int{start}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, clusters[u])
		for i := len(children[u]) - 1; i >= 0; i-- {
			stack = append(stack, children[u][i])
		}
	}
	return order
}

// annealedOrder improves the greedy order with simulated annealing:
// random pairwise swaps under Metropolis acceptance with geometric
// cooling. The RNG is seeded with a fixed constant so a frozen input
// yields an identical route on every run.
func annealedOrder(clusters []*domain.Cluster) []*domain.Cluster {
	rng := rand.New(rand.NewSource(annealingSeed))

	cur := append([]*domain.Cluster(nil), priorityGreedyOrder(clusters)...)
	curScore := scoreClusterOrder(cur)
	best := append([]*domain.Cluster(nil), cur...)
	bestScore := curScore

	n := len(cur)
	temp := 1.0
	for iter := 0; iter < annealingIterations; iter++ {
		i := rng.Intn(n)
		j := rng.Intn(n)
		if i == j {
			temp *= annealingCooling
			continue
		}
		cur[i], cur[j] = cur[j], cur[i]
		s := scoreClusterOrder(cur)

		// Metropolis: always take improvements, sometimes take losses.
		if s >= curScore || rng.Float64() < math.Exp((s-curScore)/math.Max(temp, 1e-9)) {
			curScore = s
			if s > bestScore {
				copy(best, cur)
				bestScore = s
			}
		} else {
			cur[i], cur[j] = cur[j], cur[i]
		}
		temp *= annealingCooling
	}
	return best
}
