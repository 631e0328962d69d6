package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-gene/internal/genome"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/transcripts/hg38/KRAS/NM_004985", func(w http.ResponseWriter, r *http.Request) {
		exonic := "AUG"
		d := genome.Detail{
			Transcript: genome.Transcript{
				GenomeName: "hg38",
				GeneSymbol: "KRAS",
				Accession:  "NM_004985",
				Biotype:    "mRNA",
				Source:     "BestRefSeq",
				Bounds:     genome.Interval{25205246, 25250929},
				Locus:      genome.Locus{Chrom: "12", Strand: genome.Minus, Start: 25205246, End: 25250929},
				Exons:      []genome.Interval{{25205246, 25209911}},
			},
			Sequences: genome.Sequences{Sequence: "AUGC", ExonicSequence: &exonic},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(d)
	})
	mux.HandleFunc("/api/dynamic_search/hg38", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kr as", r.URL.Query().Get("query"))
		w.Write([]byte(`{"KRAS": "KRAS proto-oncogene, GTPase"}`))
	})
	mux.HandleFunc("/api/genemap/hg38/KRAS/NM_004985.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(`<svg></svg>`))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchTranscript(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL + "/")

	d, err := c.FetchTranscript(context.Background(), "hg38", "KRAS", "NM_004985")
	require.NoError(t, err)
	assert.Equal(t, "NM_004985", d.Accession)
	assert.Equal(t, genome.Minus, d.Locus.Strand)
	assert.Equal(t, []genome.Interval{{25205246, 25209911}}, d.Exons)
	require.NotNil(t, d.ExonicSequence)
	assert.Equal(t, "AUG", *d.ExonicSequence)
	assert.Nil(t, d.CodingSequence)
}

func TestFetchTranscript_NotFound(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)

	d, err := c.FetchTranscript(context.Background(), "hg38", "KRAS", "NM_999999")
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestDynamicSearch(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)

	results, err := c.DynamicSearch(context.Background(), "hg38", "kr as")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"KRAS": "KRAS proto-oncogene, GTPase"}, results)
}

func TestFetchGeneMap(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)

	svg, err := c.FetchGeneMap(context.Background(), "hg38", "KRAS", "NM_004985")
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>", string(svg))
}

func TestTimeout(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, WithTimeout(20*time.Millisecond))

	var v any
	err := c.getJSON(context.Background(), "/slow", &v)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoData))
}

func TestOptions(t *testing.T) {
	hc := &http.Client{}
	c := New("http://example.org", WithHTTPClient(hc), WithTimeout(5*time.Second))
	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, 5*time.Second, hc.Timeout)
	assert.Equal(t, DefaultTimeout, New("http://example.org").httpClient.Timeout)
}
