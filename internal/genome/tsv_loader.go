package genome

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DataDir loads genomes from a data directory laid out as:
//
//	{root}/{genome}/genes.tsv
//	{root}/{genome}/transcripts/index.tsv
//	{root}/{genome}/transcripts/{file_index}.tsv
//	{root}/{genome}/sequences/chr{N}.txt
type DataDir struct {
	root string
}

// NewDataDir creates a loader rooted at dir.
func NewDataDir(dir string) *DataDir {
	return &DataDir{root: dir}
}

// GenomeDir returns the directory of a named genome.
func (d *DataDir) GenomeDir(name string) string {
	return filepath.Join(d.root, name)
}

// Genomes lists the genome names that have a genes table.
func (d *DataDir) Genomes() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(d.root, e.Name(), "genes.tsv")); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadGenes parses the genes table of a genome.
func (d *DataDir) LoadGenes(name string) ([]*Gene, error) {
	rows, err := readTSVFile(filepath.Join(d.GenomeDir(name), "genes.tsv"))
	if err != nil {
		return nil, err
	}

	genes := make([]*Gene, 0, len(rows))
	for i, row := range rows {
		g, err := parseGeneRow(row)
		if err != nil {
			return nil, fmt.Errorf("genes.tsv row %d: %w", i+2, err)
		}
		g.GenomeName = name
		genes = append(genes, g)
	}
	return genes, nil
}

// TranscriptIndex maps gene symbols to transcript file indices.
func (d *DataDir) TranscriptIndex(name string) (map[string]string, error) {
	rows, err := readTSVFile(filepath.Join(d.GenomeDir(name), "transcripts", "index.tsv"))
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(rows))
	for _, row := range rows {
		index[row["gene_symbol"]] = row["file_index"]
	}
	return index, nil
}

// LoadTranscripts parses every transcript file referenced by the index and
// returns transcripts grouped by gene symbol. Genes are needed for the locus.
func (d *DataDir) LoadTranscripts(name string, genes []*Gene) (map[string][]*Transcript, error) {
	index, err := d.TranscriptIndex(name)
	if err != nil {
		return nil, err
	}

	bySymbol := make(map[string]*Gene, len(genes))
	for _, g := range genes {
		bySymbol[g.Symbol] = g
	}

	// Several genes can share one file; parse each file once.
	files := make(map[string][]string)
	for symbol, idx := range index {
		files[idx] = append(files[idx], symbol)
	}

	result := make(map[string][]*Transcript)
	seen := make(map[string]bool)
	for idx, symbols := range files {
		rows, err := readTSVFile(filepath.Join(d.GenomeDir(name), "transcripts", idx+".tsv"))
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			symbol := row["gene"]
			if symbol == "" && len(symbols) == 1 {
				symbol = symbols[0]
			}
			g, ok := bySymbol[symbol]
			if !ok {
				continue
			}
			t, err := parseTranscriptRow(row, g)
			if err != nil {
				return nil, fmt.Errorf("transcripts/%s.tsv row %d: %w", idx, i+2, err)
			}
			key := symbol + "/" + t.Accession
			if seen[key] {
				continue
			}
			seen[key] = true
			result[symbol] = append(result[symbol], t)
		}
	}
	return result, nil
}

// ReadSequence reads bases [start, end] (1-based, inclusive) of a chromosome.
// Chromosome files hold one ASCII byte per base with no line breaks.
func (d *DataDir) ReadSequence(name, chrom string, start, end int64) (string, error) {
	if start < 1 || end < start {
		return "", fmt.Errorf("invalid sequence range %s:%d-%d", chrom, start, end)
	}
	path := filepath.Join(d.GenomeDir(name), "sequences", "chr"+strings.TrimPrefix(chrom, "chr")+".txt")
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open sequence file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, end-start+1)
	n, err := f.ReadAt(buf, start-1)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read sequence %s:%d-%d: %w", chrom, start, end, err)
	}
	if int64(n) != end-start+1 {
		return "", fmt.Errorf("sequence not found for %s:%d-%d", chrom, start, end)
	}
	return string(buf), nil
}

// readTSVFile reads a tab-separated file with a header row into maps keyed by column name.
func readTSVFile(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open TSV file: %w", err)
	}
	defer f.Close()
	return parseTSV(f)
}

func parseTSV(reader io.Reader) ([]map[string]string, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var header []string
	var rows []map[string]string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if header == nil {
			// Tables may be written with a UTF-8 BOM.
			header = strings.Split(strings.TrimPrefix(line, "\ufeff"), "\t")
			continue
		}
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan TSV: %w", err)
	}
	return rows, nil
}

func parseGeneRow(row map[string]string) (*Gene, error) {
	locus, err := ParseLocus(row["locus"])
	if err != nil {
		return nil, err
	}
	return &Gene{
		NCBIGeneID:  row["ncbi_gene_id"],
		Symbol:      row["symbol"],
		Name:        row["name"],
		Type:        row["type"],
		Locus:       locus,
		Transcripts: uniqueStrings(ParseStringList(row["transcripts"])),
	}, nil
}

func parseTranscriptRow(row map[string]string, g *Gene) (*Transcript, error) {
	bounds, err := ParseIntervals(row["transcript_bounds"])
	if err != nil {
		return nil, fmt.Errorf("transcript bounds: %w", err)
	}
	if len(bounds) != 1 {
		return nil, fmt.Errorf("transcript bounds: want one pair, got %d", len(bounds))
	}
	exons, err := ParseIntervals(row["exons"])
	if err != nil {
		return nil, fmt.Errorf("exons: %w", err)
	}
	cdss, err := ParseIntervals(row["CDSs"])
	if err != nil {
		return nil, fmt.Errorf("CDSs: %w", err)
	}

	accession := row["transcript"]
	return &Transcript{
		GenomeName: g.GenomeName,
		GeneSymbol: g.Symbol,
		Accession:  accession,
		Biotype:    row["transcript_biotype"],
		Product:    row["product"],
		Predicted:  IsPredictedAccession(accession),
		Source:     row["source"],
		Xrefs:      ParseXrefs(row["xref"]),
		Bounds:     bounds[0],
		Locus:      Locus{Chrom: g.Locus.Chrom, Strand: g.Locus.Strand, Start: bounds[0][0], End: bounds[0][1]},
		Exons:      exons,
		CDSs:       cdss,
	}, nil
}

var (
	pairPattern   = regexp.MustCompile(`\(\s*'?(-?\d+)'?\s*,\s*'?(-?\d+)'?\s*\)`)
	quotedPattern = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)
)

// ParseIntervals parses a tuple literal "(1, 2)" or a list of tuples
// "[(1, 2), (3, 4)]". An empty string or "[]" yields no intervals.
func ParseIntervals(s string) ([]Interval, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" || s == "()" {
		return nil, nil
	}
	matches := pairPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no coordinate pairs in %q", s)
	}
	intervals := make([]Interval, 0, len(matches))
	for _, m := range matches {
		start, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, err
		}
		end, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, Interval{start, end})
	}
	return intervals, nil
}

// ParseStringList parses a list literal of quoted strings: "['NM_1', 'XM_2']".
func ParseStringList(s string) []string {
	var out []string
	for _, m := range quotedPattern.FindAllStringSubmatch(s, -1) {
		if m[1] != "" {
			out = append(out, m[1])
		} else {
			out = append(out, m[2])
		}
	}
	return out
}

// ParseLocus parses a locus tuple literal: "('7', 'plus', 1000, 5000)".
func ParseLocus(s string) (Locus, error) {
	inner := strings.Trim(strings.TrimSpace(s), "()[]")
	parts := strings.Split(inner, ",")
	if len(parts) != 4 {
		return Locus{}, fmt.Errorf("locus %q: want 4 fields, got %d", s, len(parts))
	}
	for i := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(parts[i]), `'"`)
	}
	strand, err := ParseStrand(parts[1])
	if err != nil {
		return Locus{}, fmt.Errorf("locus %q: %w", s, err)
	}
	start, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Locus{}, fmt.Errorf("locus %q start: %w", s, err)
	}
	end, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return Locus{}, fmt.Errorf("locus %q end: %w", s, err)
	}
	return Locus{Chrom: parts[0], Strand: strand, Start: start, End: end}, nil
}

// ParseXrefs parses "GeneID:3845,HGNC:HGNC:6407" into a map. Only the first
// colon separates the database from the identifier.
func ParseXrefs(s string) map[string]string {
	xrefs := make(map[string]string)
	if s == "" {
		return xrefs
	}
	for _, part := range strings.Split(s, ",") {
		if db, id, ok := strings.Cut(part, ":"); ok {
			xrefs[db] = id
		}
	}
	return xrefs
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
