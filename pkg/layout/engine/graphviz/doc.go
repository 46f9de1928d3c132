// Package graphviz lays out requests with the Graphviz dot engine.
//
// The request is encoded as DOT: containers become clusters, leaves become
// fixed-size boxes, and the root direction sets rankdir. Graphviz runs
// in-process (a WebAssembly build via go-graphviz) and renders positioned DOT,
// which is parsed back with gographviz. Graphviz reports absolute
// coordinates in points with y pointing up; they are converted to
// parent-relative, top-left based coordinates with y pointing down, using one
// pixel per point.
//
// Graphviz applies one rank direction to the whole drawing, so per-container
// direction hints are ignored. Cluster margins are uniform; children are
// shifted afterwards so each container's padding hint is honoured exactly on
// the top and left.
package graphviz
