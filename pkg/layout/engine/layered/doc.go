// Package layered is a pure-Go layered (Sugiyama-style) layout engine.
//
// Each container is laid out independently, innermost first, so that a
// container's size is known before its parent places it. Within one
// container the classic steps run on its direct children:
//
//  1. Edges between descendants are lifted to the pair of direct children
//     that contain their endpoints. Edges inside a single child are handled
//     by that child's own layout.
//  2. Cycles are broken by reversing DFS back edges.
//  3. Nodes are assigned to layers by longest path from the sources.
//  4. Edges spanning several layers are subdivided with virtual nodes, and
//     the order inside each layer is improved with barycenter sweeps, keeping
//     the ordering with the fewest crossings.
//  5. Layers are stacked along the flow direction and nodes are spread
//     across it, then shifted by the container's padding. A layer that
//     holds only virtual nodes still takes LayerSpacing; virtual nodes get
//     no coordinates of their own.
//
// The engine is deterministic: the same request always yields the same
// result. It needs no external process, which makes it the engine of choice
// for tests and for environments without Graphviz.
package layered
