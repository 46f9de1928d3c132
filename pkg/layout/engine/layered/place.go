package layered

// place assigns X/Y to f's children and returns f's padded size. succ holds
// the lifted edges between the children.
func (e *Engine) place(f *frame, succ [][]int) (float64, float64) {
	pad := f.padding
	n := len(f.children)
	if n == 0 {
		return pad.Left + pad.Right, pad.Top + pad.Bottom
	}

	acyclic := breakCycles(succ)
	layer := assignLayers(acyclic)
	extSucc, extLayer := subdivide(acyclic, layer)
	orders := orderLayers(extSucc, extLayer, e.opts.Sweeps)

	// along returns a child's extent in the flow direction, across the other.
	along := func(i int) float64 {
		if f.horizontal {
			return f.children[i].Width
		}
		return f.children[i].Height
	}
	across := func(i int) float64 {
		if f.horizontal {
			return f.children[i].Height
		}
		return f.children[i].Width
	}

	rows := make([][]int, len(orders))
	thickness := make([]float64, len(orders))
	spread := make([]float64, len(orders))
	maxSpread := 0.0
	for l, row := range orders {
		for _, u := range row {
			if u >= n {
				continue
			}
			if len(rows[l]) > 0 {
				spread[l] += e.opts.NodeSpacing
			}
			rows[l] = append(rows[l], u)
			thickness[l] = max(thickness[l], along(u))
			spread[l] += across(u)
		}
		maxSpread = max(maxSpread, spread[l])
	}

	offsets, flow := stackLayers(thickness, e.opts.LayerSpacing)
	for l, row := range rows {
		cross := (maxSpread - spread[l]) / 2
		for _, u := range row {
			a := offsets[l] + (thickness[l]-along(u))/2
			c := f.children[u]
			if f.horizontal {
				c.X, c.Y = pad.Left+a, pad.Top+cross
			} else {
				c.X, c.Y = pad.Left+cross, pad.Top+a
			}
			cross += across(u) + e.opts.NodeSpacing
		}
	}

	if f.horizontal {
		return pad.Left + flow + pad.Right, pad.Top + maxSpread + pad.Bottom
	}
	return pad.Left + maxSpread + pad.Right, pad.Top + flow + pad.Bottom
}

// stackLayers returns where each layer starts along the flow direction and
// the total extent. Every layer, including one that holds only virtual
// nodes, takes its thickness plus spacing from the previous one, so long
// edges keep the room their bends need.
func stackLayers(thickness []float64, spacing float64) ([]float64, float64) {
	offsets := make([]float64, len(thickness))
	flow := 0.0
	for l, t := range thickness {
		if l > 0 {
			flow += spacing
		}
		offsets[l] = flow
		flow += t
	}
	return offsets, flow
}
