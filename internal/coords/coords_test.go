package coords

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-gene/internal/genome"
)

func TestReindex_GeneRelative(t *testing.T) {
	gene := genome.Locus{Chrom: "7", Strand: genome.Plus, Start: 1000, End: 5000}
	a := Annotation{
		Bounds: genome.Interval{1000, 5000},
		Exons:  []genome.Interval{{1000, 2000}, {3000, 5000}},
		CDSs:   []genome.Interval{{1500, 2000}},
	}

	n, err := Reindex(gene, a, false)
	require.NoError(t, err)
	assert.False(t, n.Unit)
	assert.Equal(t, Span{0, 4000}, n.Bounds)
	assert.Equal(t, []Span{{0, 1000}, {2000, 4000}}, n.Exons)
	assert.Equal(t, []Span{{500, 1000}}, n.CDSs)
}

func TestNormalize_EndToEnd(t *testing.T) {
	gene := genome.Locus{Chrom: "7", Strand: genome.Plus, Start: 1000, End: 5000}
	a := Annotation{
		Bounds: genome.Interval{1000, 5000},
		Exons:  []genome.Interval{{1000, 2000}},
	}

	n, err := Normalize(gene, a)
	require.NoError(t, err)
	assert.Equal(t, Span{0, 1}, n.Bounds)
	assert.Equal(t, []Span{{0, 0.25}}, n.Exons)
	assert.Empty(t, n.CDSs)
}

func TestReindex_StrandAgnostic(t *testing.T) {
	plus := genome.Locus{Chrom: "1", Strand: genome.Plus, Start: 200, End: 1200}
	minus := plus
	minus.Strand = genome.Minus
	a := Annotation{Bounds: genome.Interval{300, 1100}, Exons: []genome.Interval{{300, 500}}}

	np, err := Normalize(plus, a)
	require.NoError(t, err)
	nm, err := Normalize(minus, a)
	require.NoError(t, err)
	assert.Equal(t, np, nm)
}

func TestReindex_DomainErrors(t *testing.T) {
	zero := genome.Locus{Chrom: "1", Strand: genome.Plus, Start: 100, End: 100}
	a := Annotation{Bounds: genome.Interval{100, 100}}

	_, err := Normalize(zero, a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroLength))
	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "normalize", de.Op)

	// Gene-relative reindexing is still defined for a zero-length gene.
	n, err := Reindex(zero, a, false)
	require.NoError(t, err)
	assert.Equal(t, Span{0, 0}, n.Bounds)

	inverted := genome.Locus{Chrom: "1", Strand: genome.Minus, Start: 200, End: 100}
	_, err = Reindex(inverted, a, false)
	assert.True(t, errors.Is(err, ErrInvertedLocus))
}

func TestNormalize_RoundTripProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		start := rng.Int63n(250_000_000)
		length := 1 + rng.Int63n(2_000_000)
		gene := genome.Locus{Chrom: "1", Strand: genome.Plus, Start: start, End: start + length}
		if i%2 == 1 {
			gene.Strand = genome.Minus
		}

		point := func() int64 { return start + rng.Int63n(length+1) }
		interval := func() genome.Interval {
			x, y := point(), point()
			if x > y {
				x, y = y, x
			}
			return genome.Interval{x, y}
		}

		a := Annotation{Bounds: interval()}
		for j := 0; j < 1+rng.Intn(20); j++ {
			a.Exons = append(a.Exons, interval())
		}
		for j := 0; j < rng.Intn(10); j++ {
			a.CDSs = append(a.CDSs, interval())
		}

		n, err := Normalize(gene, a)
		require.NoError(t, err)

		inUnit := func(s Span) bool { return s[0] >= 0 && s[0] <= 1 && s[1] >= 0 && s[1] <= 1 }
		require.True(t, inUnit(n.Bounds), "bounds %v", n.Bounds)
		for _, e := range n.Exons {
			require.True(t, inUnit(e), "exon %v", e)
		}
		for _, c := range n.CDSs {
			require.True(t, inUnit(c), "cds %v", c)
		}

		back, err := Denormalize(gene, n)
		require.NoError(t, err)
		require.Equal(t, a.Bounds, back.Bounds)
		require.Equal(t, a.Exons, back.Exons)
		if len(a.CDSs) == 0 {
			require.Empty(t, back.CDSs)
		} else {
			require.Equal(t, a.CDSs, back.CDSs)
		}
	}
}

func TestFromTranscript(t *testing.T) {
	tr := &genome.Transcript{
		Bounds: genome.Interval{10, 90},
		Exons:  []genome.Interval{{10, 20}},
		CDSs:   []genome.Interval{{12, 18}},
	}
	a := FromTranscript(tr)
	assert.Equal(t, tr.Bounds, a.Bounds)
	assert.Equal(t, tr.Exons, a.Exons)
	assert.Equal(t, tr.CDSs, a.CDSs)
}
