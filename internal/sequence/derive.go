package sequence

import (
	"fmt"

	"github.com/inodb/vibe-gene/internal/genome"
)

// Reader reads bases [start, end] (1-based, inclusive) of a chromosome.
// *genome.DataDir implements it.
type Reader interface {
	ReadSequence(genomeName, chrom string, start, end int64) (string, error)
}

// GeneSequence returns the DNA of a gene in its reading orientation.
func GeneSequence(r Reader, g *genome.Gene) (string, error) {
	seq, err := r.ReadSequence(g.GenomeName, g.Locus.Chrom, g.Locus.Start, g.Locus.End)
	if err != nil {
		return "", fmt.Errorf("read gene %s: %w", g.Symbol, err)
	}
	if g.IsReverseStrand() {
		seq = ReverseComplement(seq, false)
	}
	return seq, nil
}

// Derive computes the pre-RNA, exonic, coding and protein sequences of a
// transcript. Only a failed genome read is an error; sequences that do not
// exist for the transcript are left nil.
func Derive(r Reader, t *genome.Transcript) (genome.Sequences, error) {
	dna, err := r.ReadSequence(t.GenomeName, t.Locus.Chrom, t.Bounds[0], t.Bounds[1])
	if err != nil {
		return genome.Sequences{}, fmt.Errorf("read transcript %s: %w", t.Accession, err)
	}

	minus := t.Locus.Strand == genome.Minus
	pre := TranscribePreRNA(dna)
	if minus {
		pre = ReverseComplement(pre, true)
	}

	seqs := genome.Sequences{Sequence: pre}
	if len(t.Exons) > 0 {
		exonic := Splice(pre, t.Exons, t.Bounds[0], minus)
		seqs.ExonicSequence = &exonic
	}
	if t.Biotype != "mRNA" || len(t.CDSs) == 0 {
		return seqs, nil
	}

	coding := Splice(pre, t.CDSs, t.Bounds[0], minus)
	seqs.CodingSequence = &coding
	if protein, err := Translate(coding); err == nil {
		seqs.AminoAcidSequence = &protein
	}
	return seqs, nil
}
