package genome

import "strings"

// Interval is an absolute [start, end] coordinate pair.
type Interval [2]int64

// Transcript represents a specific gene isoform.
type Transcript struct {
	GenomeName string            `json:"genome_name"`
	GeneSymbol string            `json:"gene_symbol"`
	Accession  string            `json:"ncbi_accession"` // e.g. NM_004985
	Biotype    string            `json:"biotype"`
	Product    string            `json:"product"`
	Predicted  bool              `json:"predicted"`
	Source     string            `json:"source"` // BestRefSeq, RefSeq, Gnomon, ...
	Xrefs      map[string]string `json:"xrefs"`
	Bounds     Interval          `json:"bounds"` // transcription start/stop
	Locus      Locus             `json:"locus"`
	Exons      []Interval        `json:"exons"`
	CDSs       []Interval        `json:"CDSs"`
}

// Metadata is the transcript summary embedded in the gene page.
type Metadata struct {
	GenomeName string            `json:"genome_name"`
	GeneSymbol string            `json:"gene_symbol"`
	Accession  string            `json:"ncbi_accession"`
	Biotype    string            `json:"biotype"`
	Product    string            `json:"product"`
	Source     string            `json:"source"`
	Xrefs      map[string]string `json:"xrefs"`
}

// Sequences holds the derived sequences of a transcript. Nil pointers mean
// the sequence does not exist for the transcript (e.g. no CDS).
type Sequences struct {
	Sequence          string  `json:"sequence"`
	ExonicSequence    *string `json:"exonic_sequence"`
	CodingSequence    *string `json:"coding_sequence"`
	AminoAcidSequence *string `json:"amino_acid_sequence"`
}

// Detail is the full transcript annotation served by the transcripts endpoint.
type Detail struct {
	Transcript
	Sequences
}

// Metadata returns the summary view of the transcript.
func (t *Transcript) Metadata() Metadata {
	return Metadata{
		GenomeName: t.GenomeName,
		GeneSymbol: t.GeneSymbol,
		Accession:  t.Accession,
		Biotype:    t.Biotype,
		Product:    t.Product,
		Source:     t.Source,
		Xrefs:      t.Xrefs,
	}
}

// IsProteinCoding returns true if the transcript has coding segments and is an mRNA.
func (t *Transcript) IsProteinCoding() bool {
	return len(t.CDSs) > 0 && t.Biotype == "mRNA"
}

// IsPredictedAccession returns true for model (XM_/XR_) accessions.
func IsPredictedAccession(accession string) bool {
	return strings.HasPrefix(accession, "X")
}
