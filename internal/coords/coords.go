// Package coords converts absolute genomic annotation coordinates into
// gene-relative and unit-interval coordinates.
package coords

import (
	"errors"
	"fmt"
	"math"

	"github.com/inodb/vibe-gene/internal/genome"
)

var (
	// ErrZeroLength is returned when unit-normalizing against a gene with start == end.
	ErrZeroLength = errors.New("gene length is zero")
	// ErrInvertedLocus is returned for a locus with start > end.
	ErrInvertedLocus = errors.New("gene start is after gene end")
)

// DomainError reports input that lies outside the normalizer's domain.
type DomainError struct {
	Op    string
	Locus genome.Locus
	Err   error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s %s:%d-%d: %v", e.Op, e.Locus.Chrom, e.Locus.Start, e.Locus.End, e.Err)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Annotation holds the absolute coordinates of a transcript.
type Annotation struct {
	Bounds genome.Interval
	Exons  []genome.Interval
	CDSs   []genome.Interval
}

// Span is a coordinate pair after reindexing.
type Span [2]float64

// Normalized holds reindexed coordinates. When Unit is set the values lie
// in [0, 1] for annotations inside the gene; otherwise they are gene-relative offsets.
type Normalized struct {
	Bounds Span   `json:"bounds"`
	Exons  []Span `json:"exons"`
	CDSs   []Span `json:"CDSs"`
	Unit   bool   `json:"-"`
}

// FromTranscript extracts the annotation coordinates of a transcript.
func FromTranscript(t *genome.Transcript) Annotation {
	return Annotation{Bounds: t.Bounds, Exons: t.Exons, CDSs: t.CDSs}
}

// Reindex subtracts the gene start from every coordinate and, if normalize
// is set, divides by the gene length. Strand is not consulted.
func Reindex(gene genome.Locus, a Annotation, normalize bool) (Normalized, error) {
	length := gene.Length()
	if length < 0 {
		return Normalized{}, &DomainError{Op: "reindex", Locus: gene, Err: ErrInvertedLocus}
	}
	if normalize && length == 0 {
		return Normalized{}, &DomainError{Op: "normalize", Locus: gene, Err: ErrZeroLength}
	}

	scale := 1.0
	if normalize {
		scale = float64(length)
	}
	shift := func(iv genome.Interval) Span {
		return Span{
			float64(iv[0]-gene.Start) / scale,
			float64(iv[1]-gene.Start) / scale,
		}
	}

	n := Normalized{
		Bounds: shift(a.Bounds),
		Exons:  make([]Span, len(a.Exons)),
		CDSs:   make([]Span, len(a.CDSs)),
		Unit:   normalize,
	}
	for i, e := range a.Exons {
		n.Exons[i] = shift(e)
	}
	for i, c := range a.CDSs {
		n.CDSs[i] = shift(c)
	}
	return n, nil
}

// Normalize is Reindex with unit-interval scaling.
func Normalize(gene genome.Locus, a Annotation) (Normalized, error) {
	return Reindex(gene, a, true)
}

// Denormalize maps reindexed coordinates back to absolute ones, rounding to
// the nearest base.
func Denormalize(gene genome.Locus, n Normalized) (Annotation, error) {
	length := gene.Length()
	if length < 0 {
		return Annotation{}, &DomainError{Op: "denormalize", Locus: gene, Err: ErrInvertedLocus}
	}

	scale := 1.0
	if n.Unit {
		scale = float64(length)
	}
	unshift := func(s Span) genome.Interval {
		return genome.Interval{
			int64(math.Round(s[0]*scale)) + gene.Start,
			int64(math.Round(s[1]*scale)) + gene.Start,
		}
	}

	a := Annotation{
		Bounds: unshift(n.Bounds),
		Exons:  make([]genome.Interval, len(n.Exons)),
		CDSs:   make([]genome.Interval, len(n.CDSs)),
	}
	for i, e := range n.Exons {
		a.Exons[i] = unshift(e)
	}
	for i, c := range n.CDSs {
		a.CDSs[i] = unshift(c)
	}
	return a, nil
}
