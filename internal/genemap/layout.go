package genemap

import (
	"fmt"
	"math"

	"github.com/inodb/vibe-gene/internal/coords"
	"github.com/inodb/vibe-gene/internal/genome"
)

// Canvas and styling constants.
const (
	Width  = 1000.0
	Height = 150.0

	MarkerScaleX = 50.0
	MarkerScaleY = Height / 2
	StrokeWidth  = 5.0

	TickHalfHeight = 10.0
	TickFontSize   = 16
	TickLabelAngle = 45.0

	CDSFill = "#FF7B9C"

	// viewPadding is the fraction of the canvas added to each edge of the view box.
	viewPadding = 0.05
)

// Rect is an exon or CDS rectangle.
type Rect struct {
	Class     string // "exon" or "cds"
	Label     string // "Exon 3", "CDS 1"
	Tooltip   string
	Placement string // tooltip placement: "top" or "bottom"
	Fill      string
	X, Y      float64
	W, H      float64
}

// Polyline is a transcription start or terminator marker.
type Polyline struct {
	Class       string
	Points      Shape
	StrokeWidth float64
}

// Line is a straight segment.
type Line struct {
	X1, Y1, X2, Y2 float64
	StrokeWidth    float64
}

// Tick is one axis tick with its rotated label.
type Tick struct {
	Line   Line
	Label  string
	TextX  float64
	TextY  float64
	Anchor string // "start" or "end"
	// Rotation pivot for the label.
	PivotX, PivotY float64
}

// ViewBox is the visible window of the canvas.
type ViewBox struct {
	X, Y, W, H float64
}

// Diagram is the laid-out gene map.
type Diagram struct {
	Width, Height float64
	Strand        genome.Strand
	Exons         []Rect
	CDSs          []Rect
	TSS           Polyline
	Terminator    Polyline
	Baseline      Line
	StrandLine    Line
	TickInterval  int64
	Ticks         []Tick
	ViewBox       ViewBox
}

// Input is everything Layout needs: unit-interval annotation coordinates,
// the absolute gene length and the strand.
type Input struct {
	Annotation coords.Normalized
	GeneLength int64
	Strand     genome.Strand
}

// Layout computes the diagram geometry.
func Layout(in Input) (*Diagram, error) {
	if in.GeneLength <= 0 {
		return nil, fmt.Errorf("layout gene map: gene length must be positive, got %d", in.GeneLength)
	}
	if in.Strand != genome.Plus && in.Strand != genome.Minus {
		return nil, fmt.Errorf("layout gene map: unknown strand %q", in.Strand)
	}

	plus := in.Strand == genome.Plus
	d := &Diagram{
		Width:   Width,
		Height:  Height,
		Strand:  in.Strand,
		Exons:   layoutExons(in.Annotation.Exons, in.GeneLength, plus),
		CDSs:    layoutCDSs(in.Annotation.CDSs, plus),
		ViewBox: viewBox(),
	}
	d.TSS, d.Terminator = layoutMarkers(in.Annotation.Bounds, plus)
	d.Baseline, d.StrandLine = layoutLines(plus)
	d.TickInterval, d.Ticks = layoutTicks(in.GeneLength, plus)
	return d, nil
}

// band returns the y coordinate and height of the exon band.
func band(plus bool) (y, h float64) {
	if plus {
		return Height / 4, Height / 4
	}
	return Height / 2, Height / 4
}

func placement(plus bool) string {
	if plus {
		return "top"
	}
	return "bottom"
}

// ExonNumber returns the 1-based exon label number for the exon at index i of
// n exons: forward on the plus strand, reverse on the minus strand.
func ExonNumber(i, n int, plus bool) int {
	if plus {
		return i + 1
	}
	return n - i
}

func layoutExons(exons []coords.Span, geneLength int64, plus bool) []Rect {
	y, h := band(plus)
	rects := make([]Rect, len(exons))
	for i, e := range exons {
		label := fmt.Sprintf("Exon %d", ExonNumber(i, len(exons), plus))
		from, to := exonTooltipBounds(e, geneLength, plus)
		rects[i] = Rect{
			Class:     "exon",
			Label:     label,
			Tooltip:   fmt.Sprintf("%s\n(%s → %s)", label, FormatBigNumber(from), FormatBigNumber(to)),
			Placement: placement(plus),
			X:         Width * e[0],
			Y:         y,
			W:         Width * (e[1] - e[0]),
			H:         h,
		}
	}
	return rects
}

// exonTooltipBounds converts a unit-interval exon back to gene-relative
// bases. Minus-strand bounds are measured back from the gene end, so they
// come out as non-positive offsets in reading order.
func exonTooltipBounds(e coords.Span, geneLength int64, plus bool) (int64, int64) {
	l := float64(geneLength)
	from := int64(math.Round(e[0] * l))
	to := int64(math.Round(e[1] * l))
	if plus {
		return from, to
	}
	return to - geneLength, from - geneLength
}

func layoutCDSs(cdss []coords.Span, plus bool) []Rect {
	y, h := band(plus)
	rects := make([]Rect, len(cdss))
	for i, c := range cdss {
		label := fmt.Sprintf("CDS %d", i+1)
		rects[i] = Rect{
			Class:     "cds",
			Label:     label,
			Tooltip:   label,
			Placement: "top",
			Fill:      CDSFill,
			X:         Width * c[0],
			Y:         y,
			W:         Width * (c[1] - c[0]),
			H:         h,
		}
	}
	return rects
}

// layoutMarkers places the transcription start site and terminator. On the
// plus strand the start sits at bounds[0] and the terminator at bounds[1];
// the minus strand swaps the anchors and uses the inverted shapes.
func layoutMarkers(bounds coords.Span, plus bool) (tss, term Polyline) {
	start, end := Width*bounds[0], Width*bounds[1]

	var tssPts, termPts Shape
	if plus {
		tssPts = TSSShape.Scale(MarkerScaleX, MarkerScaleY).Translate(start+2, 2)
		termPts = TerminatorShape.Scale(MarkerScaleX, MarkerScaleY).Translate(end-27, 2)
	} else {
		tssPts = InvertedTSSShape.Scale(MarkerScaleX, MarkerScaleY).Translate(end-27, Height/2-2)
		termPts = InvertedTerminatorShape.Scale(MarkerScaleX, MarkerScaleY).Translate(start-27, Height/2-2)
	}
	return Polyline{Class: "tss", Points: tssPts, StrokeWidth: StrokeWidth},
		Polyline{Class: "terminator", Points: termPts, StrokeWidth: StrokeWidth}
}

// layoutLines returns the full-width baseline and the strand line drawn
// above it (plus) or below it (minus).
func layoutLines(plus bool) (base, strand Line) {
	mid := Height / 2
	offset := Height / 15
	y := mid + offset
	if plus {
		y = mid - offset
	}
	base = Line{X1: 0, Y1: mid, X2: Width, Y2: mid, StrokeWidth: StrokeWidth}
	strand = Line{X1: 0, Y1: y, X2: Width, Y2: y, StrokeWidth: StrokeWidth}
	return base, strand
}

func layoutTicks(geneLength int64, plus bool) (int64, []Tick) {
	interval, count := TickInterval(geneLength)
	step := Width * float64(interval) / float64(geneLength)
	mid := Height / 2

	ticks := make([]Tick, 0, count+1)
	for i := int64(0); i <= count; i++ {
		x := float64(i) * step
		if !plus {
			x = Width - x
		}

		t := Tick{
			Line:   Line{X1: x, Y1: mid - TickHalfHeight, X2: x, Y2: mid + TickHalfHeight, StrokeWidth: 1},
			Label:  tickLabel(i, interval, plus),
			PivotX: x,
			PivotY: mid,
		}
		if plus {
			t.TextX, t.TextY, t.Anchor = x+20, mid+20, "start"
		} else {
			t.TextX, t.TextY, t.Anchor = x-20, mid-10, "end"
		}
		ticks = append(ticks, t)
	}
	return interval, ticks
}

func tickLabel(i, interval int64, plus bool) string {
	if i == 0 {
		return "0"
	}
	sign := "+"
	if !plus {
		sign = "-"
	}
	return sign + FormatBigNumber(i*interval)
}

func viewBox() ViewBox {
	return ViewBox{
		X: -viewPadding * Width,
		Y: -viewPadding * Height,
		W: (1 + 2*viewPadding) * Width,
		H: (1 + 2*viewPadding) * Height,
	}
}
