package genemap

import (
	"bytes"
	"fmt"
	"html"
)

const svgNS = "http://www.w3.org/2000/svg"

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	id    string
	class string
}

// WithID sets the id attribute of the <svg> element.
func WithID(id string) SVGOption { return func(r *svgRenderer) { r.id = id } }

// WithClass sets the class attribute of the <svg> element.
func WithClass(class string) SVGOption { return func(r *svgRenderer) { r.class = class } }

// RenderSVG writes the diagram as a standalone <svg> element. Tooltips are
// emitted as <title> children and as data attributes for client-side tooltips.
func RenderSVG(d *Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="%s" width="%s" height="%s" viewBox="%s %s %s %s"`,
		svgNS, formatFloat(d.Width), formatFloat(d.Height),
		formatFloat(d.ViewBox.X), formatFloat(d.ViewBox.Y), formatFloat(d.ViewBox.W), formatFloat(d.ViewBox.H))
	if r.id != "" {
		fmt.Fprintf(&buf, ` id="%s"`, html.EscapeString(r.id))
	}
	if r.class != "" {
		fmt.Fprintf(&buf, ` class="%s"`, html.EscapeString(r.class))
	}
	buf.WriteString(">\n")

	for _, e := range d.Exons {
		renderRect(&buf, e)
	}
	for _, c := range d.CDSs {
		renderRect(&buf, c)
	}
	renderPolyline(&buf, d.TSS)
	renderPolyline(&buf, d.Terminator)
	renderLine(&buf, d.Baseline, "gene-line")
	renderLine(&buf, d.StrandLine, "strand-line")
	for _, t := range d.Ticks {
		renderTick(&buf, t)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderRect(buf *bytes.Buffer, r Rect) {
	fmt.Fprintf(buf, `  <rect class="%s" x="%s" y="%s" width="%s" height="%s"`,
		r.Class, formatFloat(r.X), formatFloat(r.Y), formatFloat(r.W), formatFloat(r.H))
	if r.Fill != "" {
		fmt.Fprintf(buf, ` fill="%s"`, r.Fill)
	}
	fmt.Fprintf(buf, ` data-toggle="tooltip" data-placement="%s" data-label="%s">`,
		r.Placement, html.EscapeString(r.Label))
	fmt.Fprintf(buf, "<title>%s</title></rect>\n", html.EscapeString(r.Tooltip))
}

func renderPolyline(buf *bytes.Buffer, p Polyline) {
	fmt.Fprintf(buf, `  <polyline class="%s" points="%s" fill="none" stroke="black" stroke-width="%s"/>`+"\n",
		p.Class, p.Points.Points(), formatFloat(p.StrokeWidth))
}

func renderLine(buf *bytes.Buffer, l Line, class string) {
	fmt.Fprintf(buf, `  <line class="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="black" stroke-width="%s"/>`+"\n",
		class, formatFloat(l.X1), formatFloat(l.Y1), formatFloat(l.X2), formatFloat(l.Y2), formatFloat(l.StrokeWidth))
}

func renderTick(buf *bytes.Buffer, t Tick) {
	renderLine(buf, t.Line, "tick")
	fmt.Fprintf(buf, `  <text class="tick-label" x="%s" y="%s" font-size="%d" text-anchor="%s" transform="rotate(%s, %s, %s)">%s</text>`+"\n",
		formatFloat(t.TextX), formatFloat(t.TextY), TickFontSize, t.Anchor,
		formatFloat(TickLabelAngle), formatFloat(t.PivotX), formatFloat(t.PivotY),
		html.EscapeString(t.Label))
}
