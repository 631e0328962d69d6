package browse

import (
	"strings"

	"github.com/inodb/vibe-gene/internal/genome"
)

// InfoRow is one row of the transcript info table. URL is empty for plain text.
type InfoRow struct {
	Label    string
	Text     string
	URL      string
	Tooltip  string
	External bool // open in a new tab
}

// FormatBiotype makes a biotype readable: the first underscore becomes a
// space and non-coding transcript types say so.
func FormatBiotype(biotype string) string {
	s := strings.Replace(biotype, "_", " ", 1)
	if strings.Contains(s, "transcript") {
		s = "non-coding " + s
	}
	return s
}

// SourceInfo returns the linked, tooltipped annotation source row.
func SourceInfo(source string) InfoRow {
	row := InfoRow{Label: "Annotation Source", Text: source}
	switch {
	case IsRefSeq(source):
		row.URL, row.Tooltip, row.External = RefSeqURL, RefSeqTooltip, true
	case source == "Gnomon":
		row.URL, row.Tooltip, row.External = GnomonURL, GnomonTooltip, true
	default:
		row.URL, row.Tooltip = "#", OtherSourceTooltip
	}
	return row
}

// InfoRows builds the transcript info table.
func InfoRows(t *genome.Transcript) []InfoRow {
	return []InfoRow{
		{Label: "NCBI Accession", Text: t.Accession, URL: NuccoreURL + t.Accession, External: true},
		SourceInfo(t.Source),
		{Label: "Transcript Type", Text: FormatBiotype(t.Biotype)},
	}
}
