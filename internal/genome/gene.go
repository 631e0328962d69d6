// Package genome provides the gene and transcript data model and the on-disk data directory loader.
package genome

import (
	"encoding/json"
	"fmt"
)

// Strand is the DNA orientation of a gene.
type Strand string

// Strand values as they appear in loci and JSON.
const (
	Plus  Strand = "plus"  // forward strand, read left to right
	Minus Strand = "minus" // reverse strand, read right to left
)

// ParseStrand accepts "plus"/"minus" as well as the GTF-style "+"/"-".
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "plus", "+":
		return Plus, nil
	case "minus", "-":
		return Minus, nil
	default:
		return "", fmt.Errorf("unknown strand %q", s)
	}
}

// Locus is the chromosome, strand and absolute bounds of a gene.
// Start <= End on both strands.
type Locus struct {
	Chrom  string
	Strand Strand
	Start  int64
	End    int64
}

// Length returns End - Start.
func (l Locus) Length() int64 {
	return l.End - l.Start
}

// MarshalJSON encodes the locus as [chrom, strand, start, end].
func (l Locus) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.Chrom, l.Strand, l.Start, l.End})
}

// UnmarshalJSON decodes a [chrom, strand, start, end] array.
func (l *Locus) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode locus: %w", err)
	}
	if len(raw) != 4 {
		return fmt.Errorf("decode locus: want 4 elements, got %d", len(raw))
	}
	var strand string
	if err := json.Unmarshal(raw[0], &l.Chrom); err != nil {
		return fmt.Errorf("decode locus chromosome: %w", err)
	}
	if err := json.Unmarshal(raw[1], &strand); err != nil {
		return fmt.Errorf("decode locus strand: %w", err)
	}
	s, err := ParseStrand(strand)
	if err != nil {
		return err
	}
	l.Strand = s
	if err := json.Unmarshal(raw[2], &l.Start); err != nil {
		return fmt.Errorf("decode locus start: %w", err)
	}
	if err := json.Unmarshal(raw[3], &l.End); err != nil {
		return fmt.Errorf("decode locus end: %w", err)
	}
	return nil
}

// Gene represents a genomic region with associated transcripts.
type Gene struct {
	GenomeName  string   `json:"genome_name"`
	NCBIGeneID  string   `json:"ncbi_gene_id"`
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Locus       Locus    `json:"locus"`
	Transcripts []string `json:"transcripts"` // NCBI transcript accessions
	Sequence    string   `json:"sequence,omitempty"`
}

// IsReverseStrand returns true if the gene is on the minus strand.
func (g *Gene) IsReverseStrand() bool {
	return g.Locus.Strand == Minus
}
