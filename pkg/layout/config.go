package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
)

// Padding is the space kept free inside every container around its children.
type Padding struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// String formats p as "top,right,bottom,left", the form accepted by ParsePadding.
func (p Padding) String() string {
	parts := []float64{p.Top, p.Right, p.Bottom, p.Left}
	s := make([]string, len(parts))
	for i, v := range parts {
		s[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(s, ",")
}

// ParsePadding parses "top,right,bottom,left" or a single value used for all
// four sides.
func ParsePadding(s string) (Padding, error) {
	fields := strings.Split(s, ",")
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Padding{}, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid padding %q", s)
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return Padding{vals[0], vals[0], vals[0], vals[0]}, nil
	case 4:
		return Padding{vals[0], vals[1], vals[2], vals[3]}, nil
	default:
		return Padding{}, ferrors.New(ferrors.ErrCodeInvalidInput, "padding %q: want 1 or 4 values, got %d", s, len(vals))
	}
}

// Config controls how a diagram is laid out.
type Config struct {
	// Horizontal lays layers out left to right. When false, top to bottom.
	Horizontal bool    `json:"horizontal" toml:"horizontal"`
	Padding    Padding `json:"padding" toml:"padding"`
}

// DefaultConfig returns a horizontal layout with 40px top padding and 20px on
// the other sides.
func DefaultConfig() Config {
	return Config{
		Horizontal: true,
		Padding:    Padding{Top: 40, Right: 20, Bottom: 20, Left: 20},
	}
}

// Validate rejects negative padding.
func (c Config) Validate() error {
	p := c.Padding
	if p.Top < 0 || p.Right < 0 || p.Bottom < 0 || p.Left < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "padding must not be negative: %s", p)
	}
	return nil
}

// Direction returns the layered flow direction option value.
func (c Config) Direction() string {
	if c.Horizontal {
		return DirectionRight
	}
	return DirectionDown
}

// Sides returns where edges leave (source) and enter (target) a node.
func (c Config) Sides() (source, target diagram.Side) {
	if c.Horizontal {
		return diagram.SideRight, diagram.SideLeft
	}
	return diagram.SideBottom, diagram.SideTop
}

// ParseDirection maps "horizontal"/"vertical" (or RIGHT/DOWN) to the
// Horizontal flag.
func ParseDirection(s string) (horizontal bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h", "right", "lr":
		return true, nil
	case "vertical", "v", "down", "tb":
		return false, nil
	}
	return false, ferrors.New(ferrors.ErrCodeInvalidInput, "unknown direction %q (use horizontal or vertical)", s)
}

// DirectionName is the inverse of ParseDirection.
func DirectionName(horizontal bool) string {
	if horizontal {
		return "horizontal"
	}
	return "vertical"
}

func (c Config) String() string {
	return fmt.Sprintf("%s, padding %s", DirectionName(c.Horizontal), c.Padding)
}
