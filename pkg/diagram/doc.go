// Package diagram defines the flat node/edge model of a diagram snapshot.
//
// A diagram is a list of nodes and a list of edges. Nesting is expressed with
// [Node.Parent]: a node whose Parent names another node is drawn inside it, and
// the enclosing node becomes a container whose size is derived from its
// children. Nodes without a parent are top level.
//
// The JSON form uses the field names of the editor that owns the snapshot
// (parentNode, sourcePosition, targetPosition), so files exported from the
// editor can be laid out and loaded back without conversion:
//
//	{
//	  "nodes": [
//	    {"id": "group", "position": {"x": 0, "y": 0}, "style": {"width": "300px"}},
//	    {"id": "a", "parentNode": "group", "width": 100, "height": 50}
//	  ],
//	  "edges": [{"id": "e1", "source": "a", "target": "b"}]
//	}
//
// Use [Validate] to check a snapshot for duplicate ids, unknown parents,
// containment cycles and dangling edges before handing it to a layout.
package diagram
