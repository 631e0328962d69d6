package genome

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrand(t *testing.T) {
	tests := []struct {
		input string
		want  Strand
	}{
		{"plus", Plus},
		{"+", Plus},
		{"minus", Minus},
		{"-", Minus},
	}
	for _, tt := range tests {
		got, err := ParseStrand(tt.input)
		require.NoError(t, err, "ParseStrand(%q)", tt.input)
		assert.Equal(t, tt.want, got, "ParseStrand(%q)", tt.input)
	}

	_, err := ParseStrand("forward")
	assert.Error(t, err)
}

func TestLocus_JSON(t *testing.T) {
	l := Locus{Chrom: "7", Strand: Minus, Start: 1000, End: 5000}

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `["7", "minus", 1000, 5000]`, string(data))

	var got Locus
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, l, got)
	assert.Equal(t, int64(4000), got.Length())
}

func TestLocus_UnmarshalErrors(t *testing.T) {
	var l Locus
	assert.Error(t, json.Unmarshal([]byte(`["7", "plus", 1]`), &l))
	assert.Error(t, json.Unmarshal([]byte(`["7", "sideways", 1, 2]`), &l))
	assert.Error(t, json.Unmarshal([]byte(`["7", "plus", "a", 2]`), &l))
}

func TestDetail_JSONNullSequences(t *testing.T) {
	exonic := "AUGC"
	d := Detail{
		Transcript: Transcript{Accession: "NR_000001", Bounds: Interval{10, 20}},
		Sequences:  Sequences{Sequence: "AUGCAUGC", ExonicSequence: &exonic},
	}

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "NR_000001", raw["ncbi_accession"])
	assert.Equal(t, "AUGC", raw["exonic_sequence"])
	assert.Nil(t, raw["coding_sequence"])
	assert.Nil(t, raw["amino_acid_sequence"])
	assert.Contains(t, raw, "CDSs")
}

func TestIsPredictedAccession(t *testing.T) {
	assert.True(t, IsPredictedAccession("XM_011520901"))
	assert.False(t, IsPredictedAccession("NM_004985"))
}
