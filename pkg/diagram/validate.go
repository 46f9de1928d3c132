package diagram

import (
	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
)

// Validate checks the structural assumptions a layout relies on:
//   - every node and edge id is well formed
//   - node ids are unique
//   - every parent reference names an existing node
//   - containment is acyclic (a node is never its own ancestor)
//   - edge endpoints exist
//
// All problems are reported; the returned error carries the code of the first.
func Validate(nodes []*Node, edges []Edge) error {
	var errs []error

	byID := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		if err := ferrors.ValidateID("node", n.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := byID[n.ID]; dup {
			errs = append(errs, ferrors.New(ferrors.ErrCodeDuplicateNode, "duplicate node id %q", n.ID))
			continue
		}
		byID[n.ID] = n
	}

	for _, n := range nodes {
		if n.Parent == "" || byID[n.ID] != n {
			continue
		}
		if _, ok := byID[n.Parent]; !ok {
			errs = append(errs, ferrors.New(ferrors.ErrCodeUnknownParent, "node %q: unknown parent %q", n.ID, n.Parent))
		}
	}

	for _, id := range containmentCycles(nodes, byID) {
		errs = append(errs, ferrors.New(ferrors.ErrCodeContainmentCycle, "node %q is its own ancestor", id))
	}

	for _, e := range edges {
		if err := ferrors.ValidateID("edge", e.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := byID[e.Source]; !ok {
			errs = append(errs, ferrors.New(ferrors.ErrCodeDanglingEdge, "edge %q: unknown source %q", e.ID, e.Source))
		}
		if _, ok := byID[e.Target]; !ok {
			errs = append(errs, ferrors.New(ferrors.ErrCodeDanglingEdge, "edge %q: unknown target %q", e.ID, e.Target))
		}
	}

	return ferrors.Join(errs)
}

// containmentCycles returns, in input order, the first node found on each
// parent cycle.
func containmentCycles(nodes []*Node, byID map[string]*Node) []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(byID))
	var cycles []string

	for _, start := range nodes {
		if byID[start.ID] != start || state[start.ID] != unvisited {
			continue
		}
		var path []string
		id := start.ID
		for {
			if state[id] == visiting {
				cycles = append(cycles, id)
				break
			}
			if state[id] == done {
				break
			}
			state[id] = visiting
			path = append(path, id)
			p, ok := byID[byID[id].Parent]
			if !ok {
				break
			}
			id = p.ID
		}
		for _, v := range path {
			state[v] = done
		}
	}
	return cycles
}
