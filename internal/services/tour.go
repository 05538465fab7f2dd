package services

import (
	"math"
	"slices"
	"strings"

	"itinerary-planner-service/internal/domain"
)

// OrderClusterPlaces sequences the members of a cluster to minimize the
// open-path great-circle distance, then updates the cluster's total time
// with estimated intra-cluster transitions for the given mode.
//
// Refinement is monotone: each stage returns a tour no more expensive
// than its input.
func OrderClusterPlaces(c *domain.Cluster, mode domain.TravelMode) {
	members := c.Places
	n := len(members)

	switch {
	case n <= 2:
		// identity order
	case n == 3:
		ordered := append([]*domain.Place(nil), members...)
		slices.SortStableFunc(ordered, byPopularity)
		copy(members, ordered)
	default:
		dist := distanceMatrix(members)
		order := bestInitialTour(members, dist, n)
		order = twoOpt(dist, n, order)
		if n <= threeOptMaxSize {
			order = threeOpt(dist, n, order)
		}
		order = orOpt(dist, n, order)

		reordered := make([]*domain.Place, n)
		for pos, idx := range order {
			reordered[pos] = members[idx]
		}
		copy(members, reordered)
	}

	c.TotalMinutes = clusterMinutes(members, mode)
}

// clusterMinutes sums member visit durations plus estimated transition
// times along the route order.
func clusterMinutes(members []*domain.Place, mode domain.TravelMode) int {
	total := 0
	for _, p := range members {
		total += p.VisitMinutes
	}
	for i := 1; i < len(members); i++ {
		total += estimateTravelMinutes(members[i-1].Coordinates, members[i].Coordinates, mode)
	}
	return total
}

func byPopularity(a, b *domain.Place) int {
	if a.ReviewCount != b.ReviewCount {
		if a.ReviewCount > b.ReviewCount {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Name, b.Name)
}

// bestInitialTour generates up to three candidate tours and keeps the
// cheapest: an MST depth-first walk from the most popular member,
// nearest-neighbor from each of the top-3 popular members, and a
// Clarke-Wright savings merge for small clusters.
func bestInitialTour(members []*domain.Place, dist []float64, n int) []int {
	ranked := make([]int, n)
	for i := range ranked {
		ranked[i] = i
	}
	slices.SortStableFunc(ranked, func(a, b int) int { return byPopularity(members[a], members[b]) })

	best := mstDFSTour(dist, n, ranked[0])
	bestCost := pathCost(dist, n, best)

	tops := 3
	if tops > n {
		tops = n
	}
	for _, start := range ranked[:tops] {
		t := nearestNeighborTour(dist, n, start)
		if c := pathCost(dist, n, t); c < bestCost {
			best, bestCost = t, c
		}
	}

	if n <= clarkeWrightMaxLen {
		if t := clarkeWrightTour(dist, n, ranked[0]); t != nil {
			if c := pathCost(dist, n, t); c < bestCost {
				best, bestCost = t, c
			}
		}
	}
	return best
}

// pathCost sums consecutive distances along an open tour.
func pathCost(dist []float64, n int, order []int) float64 {
	total := 0.0
	for i := 1; i < len(order); i++ {
		total += dist[order[i-1]*n+order[i]]
	}
	return total
}

// mstDFSTour builds a Prim MST over the flat distance matrix and walks
// it depth-first from the start index with an explicit stack, visiting
// cheaper children first. Shortcutting repeated visits yields the
// classic tree-walk approximation of a tour.
func mstDFSTour(dist []float64, n int, start int) []int {
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
		slices.SortFunc(children[u], func(a, b int) int {
			da, db := dist[u*n+a], dist[u*n+b]
			if da != db {
				if da < db {
					return -1
				}
				return 1
			}
			return a - b
		})
	}

	order := make([]int, 0, n)
	stack := []int{start}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, u)
		// Push in reverse so the cheapest child is visited first.
		for i := len(children[u]) - 1; i >= 0; i-- {
			stack = append(stack, children[u][i])
		}
	}
	return order
}

// nearestNeighborTour greedily extends from start, breaking ties on the
// lower index for determinism.
func nearestNeighborTour(dist []float64, n int, start int) []int {
	visited := make([]bool, n)
	order := make([]int, 0, n)
	cur := start
	visited[cur] = true
	order = append(order, cur)

	for len(order) < n {
		next, bestD := -1, math.Inf(1)
		for v := 0; v < n; v++ {
			if visited[v] {
				continue
			}
			if d := dist[cur*n+v]; d < bestD || (d == bestD && (next == -1 || v < next)) {
				next, bestD = v, d
			}
		}
		visited[next] = true
		order = append(order, next)
		cur = next
	}
	return order
}

// clarkeWrightTour merges singleton routes by descending savings
// relative to a hub (the most popular member). Segments are only joined
// at their endpoints; leftovers are concatenated by nearest endpoints.
func clarkeWrightTour(dist []float64, n int, hub int) []int {
	type saving struct {
		i, j int
		s    float64
	}
	savings := make([]saving, 0, n*n/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if i == hub || j == hub {
				continue
			}
			savings = append(savings, saving{i, j, dist[hub*n+i] + dist[hub*n+j] - dist[i*n+j]})
		}
	}
	slices.SortStableFunc(savings, func(a, b saving) int {
		if a.s != b.s {
			if a.s > b.s {
				return -1
			}
			return 1
		}
		if a.i != b.i {
			return a.i - b.i
		}
		return a.j - b.j
	})

	segOf := make([]int, n)
	segs := make(map[int][]int, n)
	segID := 0
	for v := 0; v < n; v++ {
		if v == hub {
			segOf[v] = -1
			continue
		}
		segs[segID] = []int{v}
		segOf[v] = segID
		segID++
	}

	endpoint := func(seg []int, v int) bool {
		return seg[0] == v || seg[len(seg)-1] == v
	}

	for _, sv := range savings {
		si, sj := segOf[sv.i], segOf[sv.j]
		if si == sj || si < 0 || sj < 0 {
			continue
		}
		a, b := segs[si], segs[sj]
		if !endpoint(a, sv.i) || !endpoint(b, sv.j) {
			continue
		}
		// Orient both segments so the join happens tail-to-head.
		if a[len(a)-1] != sv.i {
			slices.Reverse(a)
		}
		if b[0] != sv.j {
			slices.Reverse(b)
		}
		merged := append(a, b...)
		segs[si] = merged
		delete(segs, sj)
		for _, v := range merged {
			segOf[v] = si
		}
	}

	// Deterministic collection of remaining segments.
	ids := make([]int, 0, len(segs))
	for id := range segs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	order := []int{hub}
	for _, id := range ids {
		seg := segs[id]
		last := order[len(order)-1]
		if dist[last*n+seg[len(seg)-1]] < dist[last*n+seg[0]] {
			slices.Reverse(seg)
		}
		order = append(order, seg...)
	}
	if len(order) != n {
		return nil
	}
	return order
}

// twoOpt reverses path segments while a pass finds a strictly improving
// swap (beyond tolerance), bounded to twoOptMaxPasses.
func twoOpt(dist []float64, n int, order []int) []int {
	cur := append([]int(nil), order...)
	for pass := 0; pass < twoOptMaxPasses; pass++ {
		improved := false
		for i := 0; i < len(cur)-1; i++ {
			for k := i + 1; k < len(cur); k++ {
				delta := reverseDelta(dist, n, cur, i, k)
				if delta < -twoOptTolKm {
					reverseSegment(cur, i, k)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return cur
}

// reverseDelta is the open-path cost change of reversing cur[i..k].
func reverseDelta(dist []float64, n int, cur []int, i, k int) float64 {
	delta := 0.0
	if i > 0 {
		delta += dist[cur[i-1]*n+cur[k]] - dist[cur[i-1]*n+cur[i]]
	}
	if k < len(cur)-1 {
		delta += dist[cur[i]*n+cur[k+1]] - dist[cur[k]*n+cur[k+1]]
	}
	return delta
}

func reverseSegment(order []int, i, k int) {
	for i < k {
		order[i], order[k] = order[k], order[i]
		i++
		k--
	}
}

// threeOpt tries all seven reconnection cases for every index triple,
// keeping the cheapest resulting path, bounded to threeOptMaxPasses.
// Only run for small clusters; candidate evaluation is O(n) each.
func threeOpt(dist []float64, n int, order []int) []int {
	cur := append([]int(nil), order...)
	cost := pathCost(dist, n, cur)

	for pass := 0; pass < threeOptMaxPasses; pass++ {
		improved := false
		for i := 0; i < len(cur)-2; i++ {
			for j := i + 1; j < len(cur)-1; j++ {
				for k := j + 1; k < len(cur); k++ {
					for caseID := 1; caseID <= 7; caseID++ {
						cand := reconnect(cur, i, j, k, caseID)
						if c := pathCost(dist, n, cand); c < cost-twoOptTolKm {
							cur, cost = cand, c
							improved = true
						}
					}
				}
			}
		}
		if !improved {
			break
		}
	}
	return cur
}

// reconnect rebuilds the path from segments P=[0,i), A=[i,j), B=[j,k],
// applying one of the seven nontrivial 3-opt reassemblies.
func reconnect(cur []int, i, j, k, caseID int) []int {
	prefix := cur[:i]
	a := cur[i:j]
	b := cur[j : k+1]
	suffix := cur[k+1:]

	ra := reversedCopy(a)
	rb := reversedCopy(b)

	out := make([]int, 0, len(cur))
	out = append(out, prefix...)
	switch caseID {
	case 1:
		out = append(out, ra...)
		out = append(out, b...)
	case 2:
		out = append(out, a...)
		out = append(out, rb...)
	case 3:
		out = append(out, ra...)
		out = append(out, rb...)
	case 4:
		out = append(out, b...)
		out = append(out, a...)
	case 5:
		out = append(out, b...)
		out = append(out, ra...)
	case 6:
		out = append(out, rb...)
		out = append(out, a...)
	case 7:
		out = append(out, rb...)
		out = append(out, ra...)
	}
	out = append(out, suffix...)
	return out
}

func reversedCopy(seg []int) []int {
	out := make([]int, len(seg))
	for i, v := range seg {
		out[len(seg)-1-i] = v
	}
	return out
}

// orOpt relocates contiguous runs of 1–3 nodes to every other position,
// accepting only strict improvements, until a full sweep finds none.
func orOpt(dist []float64, n int, order []int) []int {
	cur := append([]int(nil), order...)
	cost := pathCost(dist, n, cur)

	for {
		improved := false
		for runLen := 1; runLen <= orOptMaxRun; runLen++ {
			for from := 0; from+runLen <= len(cur); from++ {
				run := append([]int(nil), cur[from:from+runLen]...)
				rest := append([]int(nil), cur[:from]...)
				rest = append(rest, cur[from+runLen:]...)

				for at := 0; at <= len(rest); at++ {
					if at == from {
						continue
					}
					cand := make([]int, 0, len(cur))
					cand = append(cand, rest[:at]...)
					cand = append(cand, run...)
					cand = append(cand, rest[at:]...)
					if c := pathCost(dist, n, cand); c < cost-twoOptTolKm {
						cur, cost = cand, c
						improved = true
					}
				}
			}
		}
		if !improved {
			break
		}
	}
	return cur
}
