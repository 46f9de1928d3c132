package layout

import "github.com/matzehuels/flowlayout/pkg/diagram"

// Measurer reports the rendered size of a node. Nodes it does not know are
// laid out as 0x0.
type Measurer interface {
	Dimensions(id string) (diagram.Size, bool)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(id string) (diagram.Size, bool)

// Dimensions calls f(id).
func (f MeasurerFunc) Dimensions(id string) (diagram.Size, bool) { return f(id) }

// NodeMeasurer measures nodes by the sizes stored on them: Width/Height when
// set, otherwise the style's width/height in pixels. It is the measurer for
// snapshots read from disk, where the editor saved its measurements.
func NodeMeasurer(nodes []*diagram.Node) Measurer {
	sizes := make(diagram.Sizes, len(nodes))
	for _, n := range nodes {
		sz := n.Size()
		if sz.Width == 0 {
			sz.Width, _ = n.Style.Pixels("width")
		}
		if sz.Height == 0 {
			sz.Height, _ = n.Style.Pixels("height")
		}
		if sz.Width == 0 && sz.Height == 0 {
			continue
		}
		sizes[n.ID] = sz
	}
	return sizes
}
