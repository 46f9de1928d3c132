package layered

import (
	"slices"
)

// orderLayers groups nodes by layer and reduces edge crossings with
// alternating down and up barycenter sweeps. The ordering with the fewest
// crossings seen is returned. Initial order within a layer is index order.
func orderLayers(succ [][]int, layer []int, sweeps int) [][]int {
	depth := 0
	for _, l := range layer {
		depth = max(depth, l+1)
	}
	orders := make([][]int, depth)
	for u, l := range layer {
		orders[l] = append(orders[l], u)
	}
	if depth < 2 {
		return orders
	}

	pred := predecessors(succ)
	pos := make([]int, len(layer))
	index := func() {
		for _, row := range orders {
			for i, u := range row {
				pos[u] = i
			}
		}
	}
	index()

	best := cloneOrders(orders)
	bestCrossings := crossings(orders, succ, pos)

	for s := 0; s < sweeps && bestCrossings > 0; s++ {
		for l := 1; l < depth; l++ {
			sortByBarycenter(orders[l], pred, pos)
			for i, u := range orders[l] {
				pos[u] = i
			}
		}
		for l := depth - 2; l >= 0; l-- {
			sortByBarycenter(orders[l], succ, pos)
			for i, u := range orders[l] {
				pos[u] = i
			}
		}
		if c := crossings(orders, succ, pos); c < bestCrossings {
			best, bestCrossings = cloneOrders(orders), c
		}
	}
	return best
}

// sortByBarycenter reorders row by the mean position of each node's
// neighbours in the adjacent layer. Nodes without neighbours keep their
// current position as their weight. The sort is stable.
func sortByBarycenter(row []int, adj [][]int, pos []int) {
	weight := make(map[int]float64, len(row))
	for _, u := range row {
		if len(adj[u]) == 0 {
			weight[u] = float64(pos[u])
			continue
		}
		sum := 0
		for _, v := range adj[u] {
			sum += pos[v]
		}
		weight[u] = float64(sum) / float64(len(adj[u]))
	}
	slices.SortStableFunc(row, func(a, b int) int {
		switch wa, wb := weight[a], weight[b]; {
		case wa < wb:
			return -1
		case wa > wb:
			return 1
		}
		return 0
	})
}

// crossings counts edge crossings between all adjacent layers. Edges run
// only between adjacent layers after subdivide.
func crossings(orders [][]int, succ [][]int, pos []int) int {
	total := 0
	for l := 0; l+1 < len(orders); l++ {
		total += layerCrossings(orders[l], len(orders[l+1]), succ, pos)
	}
	return total
}

// layerCrossings counts crossings between upper and the layer below it using
// a Fenwick tree over lower positions. Two edges (u1,v1), (u2,v2) cross iff
// pos(u1) < pos(u2) and pos(v1) > pos(v2).
func layerCrossings(upper []int, lowerLen int, succ [][]int, pos []int) int {
	type edge struct{ upper, lower int }
	var edges []edge
	for i, u := range upper {
		for _, v := range succ[u] {
			edges = append(edges, edge{i, pos[v]})
		}
	}
	if len(edges) < 2 {
		return 0
	}
	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, lowerLen+1)
	count, seen := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		count += seen - lessOrEqual
		seen++
		for i := e.lower + 1; i < len(fenwick); i += i & (-i) {
			fenwick[i]++
		}
	}
	return count
}

func cloneOrders(orders [][]int) [][]int {
	out := make([][]int, len(orders))
	for i, row := range orders {
		out[i] = slices.Clone(row)
	}
	return out
}
