package browse

import (
	"fmt"
	"regexp"

	"github.com/inodb/vibe-gene/internal/genome"
)

// MainVariantPattern matches the product of a gene's main transcript.
var MainVariantPattern = regexp.MustCompile(`(?i)variant 1|variant A|isoform 1`)

// IsRefSeq returns true for curated RefSeq annotation sources.
func IsRefSeq(source string) bool {
	return source == "BestRefSeq" || source == "RefSeq"
}

// FilterTranscripts keeps RefSeq transcripts, or all of them when
// includeNonRefSeq is set. Order is preserved.
func FilterTranscripts(ts []genome.Metadata, includeNonRefSeq bool) []genome.Metadata {
	out := make([]genome.Metadata, 0, len(ts))
	for _, t := range ts {
		if includeNonRefSeq || IsRefSeq(t.Source) {
			out = append(out, t)
		}
	}
	return out
}

// HasNonRefSeq reports whether any transcript comes from a non-RefSeq source.
func HasNonRefSeq(ts []genome.Metadata) bool {
	for _, t := range ts {
		if !IsRefSeq(t.Source) {
			return true
		}
	}
	return false
}

// SelectDefault picks the accession to show from a filtered list. With
// forceMain the first main-variant product wins; otherwise the previous
// selection is kept while it is still listed. The fallback is the first
// transcript, or "" for an empty list.
func SelectDefault(ts []genome.Metadata, previous string, forceMain bool) string {
	if len(ts) == 0 {
		return ""
	}
	if forceMain {
		for _, t := range ts {
			if MainVariantPattern.MatchString(t.Product) {
				return t.Accession
			}
		}
	} else if previous != "" {
		for _, t := range ts {
			if t.Accession == previous {
				return previous
			}
		}
	}
	return ts[0].Accession
}

// CountText is the transcript count line: "KRAS encodes 3 transcripts".
func CountText(symbol string, n int) string {
	noun := "transcripts"
	if n == 1 {
		noun = "transcript"
	}
	return fmt.Sprintf("%s encodes %d %s", symbol, n, noun)
}
