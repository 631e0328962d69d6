// Package sequence derives transcript sequences from genomic DNA: strand
// handling, transcription, splicing and translation.
package sequence

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteCodon is returned when a coding sequence length is not a
// multiple of three.
var ErrIncompleteCodon = errors.New("incomplete codon")

// Standard genetic code: RNA codon to amino acid (single letter).
var codonTable = map[string]byte{
	"UUU": 'F', "UUC": 'F', "UUA": 'L', "UUG": 'L',
	"UCU": 'S', "UCC": 'S', "UCA": 'S', "UCG": 'S',
	"UAU": 'Y', "UAC": 'Y', "UAA": '*', "UAG": '*',
	"UGU": 'C', "UGC": 'C', "UGA": '*', "UGG": 'W',

	"CUU": 'L', "CUC": 'L', "CUA": 'L', "CUG": 'L',
	"CCU": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAU": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGU": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"AUU": 'I', "AUC": 'I', "AUA": 'I', "AUG": 'M',
	"ACU": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAU": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGU": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GUU": 'V', "GUC": 'V', "GUA": 'V', "GUG": 'V',
	"GCU": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAU": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGU": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// TranslateCodon translates an RNA codon to its amino acid. DNA codons are
// accepted too. Returns 'X' for unknown codons and '*' for stop codons.
func TranslateCodon(codon string) byte {
	if len(codon) != 3 {
		return 'X'
	}
	if aa, ok := codonTable[strings.ReplaceAll(strings.ToUpper(codon), "T", "U")]; ok {
		return aa
	}
	return 'X'
}

// Translate translates a coding RNA sequence to amino acids. Stop codons are
// kept as '*'. A trailing partial codon is an error.
func Translate(rna string) (string, error) {
	if len(rna)%3 != 0 {
		return "", fmt.Errorf("translate %d nt: %w %q", len(rna), ErrIncompleteCodon, rna[len(rna)-len(rna)%3:])
	}

	var result strings.Builder
	result.Grow(len(rna) / 3)
	for i := 0; i < len(rna); i += 3 {
		result.WriteByte(TranslateCodon(rna[i : i+3]))
	}
	return result.String(), nil
}
