// Package layout computes positions for diagrams with nested nodes.
//
// A layout runs in three steps:
//
//  1. [Build] turns the flat node/edge collection of a [diagram.Diagram] into a
//     nested [Graph] request: every container holds its children, leaves carry
//     their measured size, containers carry padding and direction hints, and all
//     top-level nodes hang off a synthetic root.
//  2. An [Engine] positions the request. Engines are layered-graph layout
//     algorithms living outside this package (see pkg/layout/engine).
//  3. [Apply] writes positions and edge attachment sides back onto the
//     diagram nodes and grows each container to the padded bounding box of its
//     children, bottom-up.
//
// [Layouter] runs the three steps. Layout failures never reach the caller of
// [Layouter.Layout]: they are logged and the original nodes are returned
// untouched. [Layouter.Try] is the variant that reports the error.
//
// # Coordinates
//
// All coordinates in a result [Graph] are relative to the enclosing node,
// with the origin at the top-left corner and y growing downwards. Engines that
// work in absolute or y-up coordinates convert before returning.
//
// # Caching
//
// [CachedEngine] wraps any engine with a [cache.Cache]. Results are keyed by a
// hash of the request, so unchanged diagrams are not laid out twice.
package layout
