package sequence

import (
	"sort"
	"strings"

	"github.com/inodb/vibe-gene/internal/genome"
)

// Complement returns the complement of a single base. With rna set, A pairs
// with U instead of T. Unknown bases map to N.
func Complement(base byte, rna bool) byte {
	switch base {
	case 'A':
		if rna {
			return 'U'
		}
		return 'T'
	case 'a':
		if rna {
			return 'u'
		}
		return 't'
	case 'T', 'U':
		return 'A'
	case 't', 'u':
		return 'a'
	case 'G':
		return 'C'
	case 'g':
		return 'c'
	case 'C':
		return 'G'
	case 'c':
		return 'g'
	case 'n':
		return 'n'
	default:
		return 'N'
	}
}

// ReverseComplement returns the reverse complement of a DNA or RNA sequence.
func ReverseComplement(seq string, rna bool) string {
	n := len(seq)
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i] = Complement(seq[n-1-i], rna)
	}
	return string(result)
}

// TranscribePreRNA transcribes DNA into unspliced RNA (T to U).
func TranscribePreRNA(dna string) string {
	return strings.NewReplacer("T", "U", "t", "u").Replace(dna)
}

// OrderBounds returns a copy of bounds sorted by start position.
func OrderBounds(bounds []genome.Interval) []genome.Interval {
	out := make([]genome.Interval, len(bounds))
	copy(out, bounds)
	sort.SliceStable(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Splice concatenates the regions of rna covered by bounds. Bounds are
// absolute and inclusive; offset is the absolute coordinate of rna[0].
// With reverse set, rna is in minus-strand orientation: it is flipped back to
// genomic orientation for slicing and the result is flipped again.
func Splice(rna string, bounds []genome.Interval, offset int64, reverse bool) string {
	if reverse {
		rna = ReverseComplement(rna, true)
	}

	var b strings.Builder
	n := int64(len(rna))
	for _, iv := range OrderBounds(bounds) {
		start := clamp(iv[0]-offset, 0, n)
		end := clamp(iv[1]-offset+1, 0, n)
		if start < end {
			b.WriteString(rna[start:end])
		}
	}

	spliced := b.String()
	if reverse {
		spliced = ReverseComplement(spliced, true)
	}
	return spliced
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
