package genemap

import (
	"strconv"
	"strings"
)

// Point is a 2D coordinate in canvas units.
type Point struct {
	X, Y float64
}

// Shape is a polyline template.
type Shape []Point

// Marker templates in a unit box. The inverted variants are used on the minus strand.
var (
	TSSShape                = Shape{{0, 1}, {0, 0.1}, {0.5, 0.1}, {0.4, 0.2}, {0.55, 0.1}, {0.4, 0}}
	InvertedTSSShape        = Shape{{0.5, 0}, {0.5, 0.9}, {0.05, 0.9}, {0.1, 0.8}, {0, 0.9}, {0.1, 1}}
	TerminatorShape         = Shape{{0.5, 1}, {0.5, 0.1}, {0.2, 0.1}, {0.8, 0.1}}
	InvertedTerminatorShape = Shape{{0.5, 0}, {0.5, 0.9}, {0.8, 0.9}, {0.2, 0.9}}
)

// Scale multiplies every point by (fx, fy).
func (s Shape) Scale(fx, fy float64) Shape {
	out := make(Shape, len(s))
	for i, p := range s {
		out[i] = Point{p.X * fx, p.Y * fy}
	}
	return out
}

// Translate shifts every point by (dx, dy).
func (s Shape) Translate(dx, dy float64) Shape {
	out := make(Shape, len(s))
	for i, p := range s {
		out[i] = Point{p.X + dx, p.Y + dy}
	}
	return out
}

// Points formats the shape as an SVG points attribute: "x1,y1 x2,y2".
func (s Shape) Points() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = formatFloat(p.X) + "," + formatFloat(p.Y)
	}
	return strings.Join(parts, " ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
