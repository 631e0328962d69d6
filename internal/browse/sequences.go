package browse

import (
	"github.com/inodb/vibe-gene/internal/genemap"
	"github.com/inodb/vibe-gene/internal/genome"
)

// NotAvailable is shown in place of a sequence that does not exist.
const NotAvailable = "Not Available"

// SequenceField is one sequence text box of the page.
type SequenceField struct {
	ID       string
	Label    string
	Value    string
	Length   string // "1,234 nt", empty when disabled
	Disabled bool
}

func newSequenceField(id, label string, seq *string, unit string) SequenceField {
	f := SequenceField{ID: id, Label: label}
	if seq == nil {
		f.Value = NotAvailable
		f.Disabled = true
		return f
	}
	f.Value = *seq
	f.Length = genemap.FormatBigNumber(int64(len(*seq))) + " " + unit
	return f
}

// GeneSequenceField is the static DNA field filled from the gene. An empty
// sequence is not available.
func GeneSequenceField(seq string) SequenceField {
	if seq == "" {
		return newSequenceField(DNASequenceID, "DNA", nil, "nt")
	}
	return newSequenceField(DNASequenceID, "DNA", &seq, "nt")
}

// SequenceFields returns the transcript-dependent fields in page order. An
// empty pre-RNA means no sequence was derived.
func SequenceFields(s genome.Sequences) []SequenceField {
	var pre *string
	if s.Sequence != "" {
		pre = &s.Sequence
	}
	return []SequenceField{
		newSequenceField(PreRNASequenceID, "Pre-mRNA", pre, "nt"),
		newSequenceField(SplicedRNASequenceID, "Spliced RNA", s.ExonicSequence, "nt"),
		newSequenceField(CodingRNASequenceID, "Coding RNA", s.CodingSequence, "nt"),
		newSequenceField(ProteinSequenceID, "Protein", s.AminoAcidSequence, "aa"),
	}
}
