// Package browse holds the gene page view-model: the filtered transcript
// list, the selected transcript's info table, its diagram and its sequence
// fields. Rendering is left to templates.
package browse

// Element IDs of the gene page.
const (
	GeneDataID            = "gene-data"
	TranscriptsListID     = "transcripts-list"
	GeneMapID             = "gene-map"
	SequencesListID       = "sequences-list"
	TranscriptCountID     = "transcript-count"
	NonRefSeqID           = "non-refseq"
	AllTranscriptsID      = "all-transcripts"
	TranscriptInfoTableID = "transcript-info-table"

	DNASequenceID        = "dna-sequence"
	PreRNASequenceID     = "pre-rna-sequence"
	SplicedRNASequenceID = "spliced-rna-sequence"
	CodingRNASequenceID  = "coding-rna-sequence"
	ProteinSequenceID    = "protein-sequence"
)

// Annotation source tooltips.
const (
	RefSeqTooltip      = "RefSeq is a curated database of non-redundant of genomic, transcriptomic, and proteomic sequences run by the NCBI."
	GnomonTooltip      = "Gnomon is the NCBI's gene prediction tool for eukaryotic genomes."
	OtherSourceTooltip = "This transcript was not annotated by NCBI's RefSeq or Gnomon."
)

// Link targets.
const (
	RefSeqURL  = "https://www.ncbi.nlm.nih.gov/refseq/"
	GnomonURL  = "https://www.ncbi.nlm.nih.gov/refseq/annotation_euk/gnomon/"
	NuccoreURL = "https://www.ncbi.nlm.nih.gov/nuccore/"
)
