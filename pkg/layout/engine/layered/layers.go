package layered

// breakCycles returns a copy of succ in which every DFS back edge is
// reversed, making the graph acyclic. Nodes are visited in index order so the
// choice of reversed edges is deterministic.
func breakCycles(succ [][]int) [][]int {
	const (
		white = iota
		gray
		black
	)

	n := len(succ)
	color := make([]int, n)
	out := make([][]int, n)
	has := make(map[[2]int]bool)
	add := func(u, v int) {
		if u == v || has[[2]int{u, v}] {
			return
		}
		has[[2]int{u, v}] = true
		out[u] = append(out[u], v)
	}

	var back [][2]int
	var dfs func(u int)
	dfs = func(u int) {
		color[u] = gray
		for _, v := range succ[u] {
			switch color[v] {
			case white:
				add(u, v)
				dfs(v)
			case gray:
				back = append(back, [2]int{u, v})
			default:
				add(u, v)
			}
		}
		color[u] = black
	}
	for u := 0; u < n; u++ {
		if color[u] == white {
			dfs(u)
		}
	}
	for _, e := range back {
		add(e[1], e[0])
	}
	return out
}

// assignLayers puts every node one layer after its deepest predecessor
// (longest path from the sources, via Kahn's algorithm). succ must be acyclic.
func assignLayers(succ [][]int) []int {
	n := len(succ)
	inDegree := make([]int, n)
	for _, vs := range succ {
		for _, v := range vs {
			inDegree[v]++
		}
	}

	layer := make([]int, n)
	queue := make([]int, 0, n)
	for u := 0; u < n; u++ {
		if inDegree[u] == 0 {
			queue = append(queue, u)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range succ[u] {
			if l := layer[u] + 1; l > layer[v] {
				layer[v] = l
			}
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	return layer
}

// subdivide replaces every edge spanning more than one layer by a chain of
// virtual nodes, one per skipped layer. Virtual nodes get indices from
// len(succ) upward. It returns the extended successor lists and layers.
func subdivide(succ [][]int, layer []int) ([][]int, []int) {
	outSucc := make([][]int, len(succ))
	outLayer := append([]int(nil), layer...)

	for u, vs := range succ {
		for _, v := range vs {
			prev := u
			for l := layer[u] + 1; l < layer[v]; l++ {
				virt := len(outSucc)
				outSucc = append(outSucc, nil)
				outLayer = append(outLayer, l)
				outSucc[prev] = append(outSucc[prev], virt)
				prev = virt
			}
			outSucc[prev] = append(outSucc[prev], v)
		}
	}
	return outSucc, outLayer
}

// predecessors inverts succ.
func predecessors(succ [][]int) [][]int {
	pred := make([][]int, len(succ))
	for u, vs := range succ {
		for _, v := range vs {
			pred[v] = append(pred[v], u)
		}
	}
	return pred
}
