package genemap

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-gene/internal/coords"
	"github.com/inodb/vibe-gene/internal/genome"
)

func TestRenderSVG(t *testing.T) {
	d := layoutFor(t, genome.Locus{Chrom: "7", Strand: genome.Plus, Start: 1000, End: 5000}, coords.Annotation{
		Bounds: genome.Interval{1000, 5000},
		Exons:  []genome.Interval{{1000, 2000}, {3000, 5000}},
		CDSs:   []genome.Interval{{1500, 2000}},
	})

	out := string(RenderSVG(d, WithID("gene-map"), WithClass("a&b")))

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="1000" height="150" viewBox="-50 -7.5 1100 165" id="gene-map" class="a&amp;b">`))
	assert.Equal(t, 2, strings.Count(out, `class="exon"`))
	assert.Equal(t, 1, strings.Count(out, `class="cds"`))
	assert.Contains(t, out, `fill="#FF7B9C"`)
	assert.Contains(t, out, `data-label="Exon 1"`)
	assert.Contains(t, out, "<title>Exon 2\n(2,000 → 4,000)</title>")
	assert.Contains(t, out, `class="tss"`)
	assert.Contains(t, out, `class="terminator"`)
	assert.Contains(t, out, `class="gene-line"`)
	assert.Contains(t, out, `class="strand-line"`)
	assert.Equal(t, len(d.Ticks), strings.Count(out, `class="tick-label"`))
	assert.Contains(t, out, `>+1,000</text>`)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestRenderSVG_WellFormed(t *testing.T) {
	d := layoutFor(t, genome.Locus{Chrom: "1", Strand: genome.Minus, Start: 0, End: 250000}, coords.Annotation{
		Bounds: genome.Interval{100, 240000},
		Exons:  []genome.Interval{{100, 5000}, {200000, 240000}},
		CDSs:   []genome.Interval{{3000, 5000}, {200000, 210000}},
	})

	dec := xml.NewDecoder(strings.NewReader(string(RenderSVG(d))))
	elements := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			require.ErrorContains(t, err, "EOF")
			break
		}
		if _, ok := tok.(xml.StartElement); ok {
			elements++
		}
	}
	assert.Greater(t, elements, 10)
}
