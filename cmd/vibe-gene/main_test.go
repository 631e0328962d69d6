package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/vibe-gene/internal/genome"
)

func writeDataDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "hg38")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "transcripts"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sequences"), 0755))

	genes := "ncbi_gene_id\tsymbol\tname\ttype\tlocus\ttranscripts\n" +
		"1\tTEST1\ttest gene one\tprotein-coding\t('7', 'plus', 3, 14)\t['NM_000001']\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "genes.tsv"), []byte(genes), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transcripts", "index.tsv"), []byte("gene_symbol\tfile_index\nTEST1\t0\n"), 0644))
	transcripts := "transcript\tgene\ttranscript_biotype\tproduct\tsource\txref\ttranscript_bounds\texons\tCDSs\tstart_codon\tstop_codon\n" +
		"NM_000001\tTEST1\tmRNA\ttest, transcript variant 1\tBestRefSeq\tGeneID:1\t(3, 14)\t[(3, 6), (10, 14)]\t[(4, 6), (10, 12)]\t\t\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transcripts", "0.tsv"), []byte(transcripts), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sequences", "chr7.txt"), []byte("NNATGAAATTTGGGCCCNN"), 0644))
	return root
}

// execute runs the root command with an isolated home directory and config.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitSuccess, exitCode(context.Canceled))
	assert.Equal(t, ExitUsage, exitCode(usagef("bad flag")))
	assert.Equal(t, ExitError, exitCode(errors.New("boom")))
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}

func TestParseConfigValue(t *testing.T) {
	assert.Equal(t, true, parseConfigValue("yes"))
	assert.Equal(t, false, parseConfigValue("off"))
	assert.Equal(t, "1m30s", parseConfigValue("90s"))
	assert.Equal(t, ":9000", parseConfigValue(":9000"))
}

func TestConfigSetGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	home := t.TempDir()
	t.Setenv("HOME", home)

	run := func(args ...string) string {
		viper.Reset()
		var out bytes.Buffer
		root := newRootCmd()
		root.SetOut(&out)
		root.SetArgs(args)
		require.NoError(t, root.ExecuteContext(context.Background()))
		return out.String()
	}

	out := run("config", "set", "data.dir", "/srv/genes")
	assert.Contains(t, out, filepath.Join(home, configName))
	assert.FileExists(t, filepath.Join(home, configName))

	assert.Equal(t, "/srv/genes\n", run("config", "get", "data.dir"))
	assert.Equal(t, ":8080\n", run("config", "get", "server.addr"))
	assert.Contains(t, run("config"), "# Config file: "+filepath.Join(home, configName))
}

func TestConfigSetUnknownKey(t *testing.T) {
	_, err := execute(t, "config", "set", "nope", "1")
	var ue usageError
	assert.ErrorAs(t, err, &ue)
}

func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("VIBEGENE_GENOME_DEFAULT", "mm39")
	out, err := execute(t, "config", "get", "genome.default")
	require.NoError(t, err)
	assert.Equal(t, "mm39\n", out)
}

func TestServeRequiresSource(t *testing.T) {
	_, err := execute(t, "serve")
	var ue usageError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, err.Error(), "--data-dir")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	_, err := execute(t, "import", "--bogus")
	var ue usageError
	assert.ErrorAs(t, err, &ue)
}

func TestImport(t *testing.T) {
	data := writeDataDir(t)
	storePath := filepath.Join(t.TempDir(), "genes")

	_, err := execute(t, "import", "--data-dir", data, "--store", storePath)
	require.NoError(t, err)
	assert.FileExists(t, storePath+".duckdb")

	dbPath := filepath.Join(t.TempDir(), "genes.db")
	_, err = execute(t, "import", "--data-dir", data, "--store", dbPath)
	require.NoError(t, err)
	assert.FileExists(t, dbPath)
	assert.NoFileExists(t, dbPath+".duckdb")

	_, err = execute(t, "import", "--data-dir", data, "--store", storePath, "--genome", "mm39")
	var ue usageError
	assert.ErrorAs(t, err, &ue)
}

func TestRenderLocalSVG(t *testing.T) {
	data := writeDataDir(t)
	out := filepath.Join(t.TempDir(), "test1.svg")

	_, err := execute(t, "render", "hg38", "TEST1", "NM_000001", "--data-dir", data, "-o", out)
	require.NoError(t, err)

	svg, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(svg), "<svg "))
	assert.Contains(t, string(svg), `id="gene-map-svg"`)
	assert.Equal(t, 2, strings.Count(string(svg), `class="exon"`))
	assert.Equal(t, 2, strings.Count(string(svg), `class="cds"`))
}

func TestRenderLocalJSON(t *testing.T) {
	data := writeDataDir(t)
	out := filepath.Join(t.TempDir(), "test1.json")

	_, err := execute(t, "render", "hg38", "TEST1", "NM_000001", "--data-dir", data, "--format", "json", "-o", out)
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var d genome.Detail
	require.NoError(t, json.Unmarshal(raw, &d))
	assert.Equal(t, "NM_000001", d.Accession)
	assert.Equal(t, "AUGAAAUUUGGG", d.Sequence)
	require.NotNil(t, d.ExonicSequence)
}

func TestRenderLocalNotFound(t *testing.T) {
	data := writeDataDir(t)
	_, err := execute(t, "render", "hg38", "TEST1", "NM_999999", "--data-dir", data, "-o", filepath.Join(t.TempDir(), "x.svg"))
	assert.ErrorContains(t, err, "transcript NM_999999 not found")

	_, err = execute(t, "render", "hg38", "NOPE", "NM_000001", "--data-dir", data, "-o", filepath.Join(t.TempDir(), "x.svg"))
	assert.ErrorContains(t, err, "gene NOPE not found")
}

func TestRenderRemote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/genemap/hg38/TEST1/NM_000001.svg", r.URL.Path)
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte("<svg></svg>\n"))
	}))
	defer ts.Close()

	out := filepath.Join(t.TempDir(), "remote.svg")
	_, err := execute(t, "render", "hg38", "TEST1", "NM_000001", "--server", ts.URL, "-o", out)
	require.NoError(t, err)

	svg, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>\n", string(svg))
}

func TestRenderBadFormat(t *testing.T) {
	_, err := execute(t, "render", "hg38", "TEST1", "NM_000001", "--format", "png")
	var ue usageError
	assert.ErrorAs(t, err, &ue)
}

func TestSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dynamic_search/hg38", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"KRAS": "KRAS proto-oncogene", "KRT1": "keratin 1"})
	}))
	defer ts.Close()

	out, err := execute(t, "search", "hg38", "kr", "--server", ts.URL)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "KRAS"))
	assert.True(t, strings.HasPrefix(lines[1], "KRT1"))
}
