package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inodb/vibe-gene/internal/genome"
)

// DefaultSearchLimit caps search results when no limit is given.
const DefaultSearchLimit = 50

// SearchResult is one gene matched by a search query.
type SearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Genomes returns the names of imported genomes.
func (s *Store) Genomes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT genome FROM imports ORDER BY genome")
	if err != nil {
		return nil, fmt.Errorf("query genomes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

const geneColumns = `genome, ncbi_gene_id, symbol, name, type, chrom, strand, start, end_, transcripts`

// Gene returns a gene by symbol, or nil if it is not stored.
func (s *Store) Gene(ctx context.Context, genomeName, symbol string) (*genome.Gene, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+geneColumns+` FROM genes WHERE genome = ? AND symbol = ?`, genomeName, symbol)
	g, err := scanGene(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return g, err
}

// RandomGene returns a random gene whose type is one of types, or nil if none match.
func (s *Store) RandomGene(ctx context.Context, genomeName string, types []string) (*genome.Gene, error) {
	if len(types) == 0 {
		return nil, nil
	}
	args := []any{genomeName}
	for _, t := range types {
		args = append(args, t)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(types)), ", ")
	row := s.db.QueryRowContext(ctx,
		`SELECT `+geneColumns+` FROM genes WHERE genome = ? AND type IN (`+placeholders+`)
		 ORDER BY random() LIMIT 1`, args...)
	g, err := scanGene(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return g, err
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search finds genes whose symbol or name contains query, case-insensitively.
// Symbol prefix matches sort first.
func (s *Store) Search(ctx context.Context, genomeName, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	pattern := "%" + likeEscaper.Replace(query) + "%"
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT symbol, name FROM genes
		WHERE genome = ? AND (symbol ILIKE ? ESCAPE '\' OR name ILIKE ? ESCAPE '\')
		ORDER BY (upper(symbol) = upper(?)) DESC, starts_with(upper(symbol), upper(?)) DESC, symbol
		LIMIT %d
	`, limit), genomeName, pattern, pattern, query, query)
	if err != nil {
		return nil, fmt.Errorf("search genes: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Symbol, &r.Name); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

const transcriptColumns = `genome, gene_symbol, accession, biotype, product, predicted, source, xrefs, chrom, strand, start, end_`

// Transcripts returns the transcripts of a gene ordered by accession.
func (s *Store) Transcripts(ctx context.Context, genomeName, symbol string) ([]*genome.Transcript, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transcriptColumns+` FROM transcripts WHERE genome = ? AND gene_symbol = ? ORDER BY accession`,
		genomeName, symbol)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	var transcripts []*genome.Transcript
	byAccession := make(map[string]*genome.Transcript)
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, t)
		byAccession[t.Accession] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(transcripts) == 0 {
		return nil, nil
	}

	if err := s.loadSegments(ctx, genomeName, symbol, "", byAccession); err != nil {
		return nil, err
	}
	return transcripts, nil
}

// Transcript returns one transcript of a gene, or nil if it is not stored.
func (s *Store) Transcript(ctx context.Context, genomeName, symbol, accession string) (*genome.Transcript, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transcriptColumns+` FROM transcripts WHERE genome = ? AND gene_symbol = ? AND accession = ?`,
		genomeName, symbol, accession)
	t, err := scanTranscript(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadSegments(ctx, genomeName, symbol, accession, map[string]*genome.Transcript{accession: t}); err != nil {
		return nil, err
	}
	return t, nil
}

// loadSegments fills exons and CDSs of the given transcripts. An empty
// accession loads segments for every transcript of the gene.
func (s *Store) loadSegments(ctx context.Context, genomeName, symbol, accession string, into map[string]*genome.Transcript) error {
	query := `SELECT accession, kind, start, end_ FROM segments WHERE genome = ? AND gene_symbol = ?`
	args := []any{genomeName, symbol}
	if accession != "" {
		query += ` AND accession = ?`
		args = append(args, accession)
	}
	query += ` ORDER BY accession, kind, idx`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var acc, kind string
		var iv genome.Interval
		if err := rows.Scan(&acc, &kind, &iv[0], &iv[1]); err != nil {
			return fmt.Errorf("scan segment: %w", err)
		}
		t, ok := into[acc]
		if !ok {
			continue
		}
		switch kind {
		case SegmentExon:
			t.Exons = append(t.Exons, iv)
		case SegmentCDS:
			t.CDSs = append(t.CDSs, iv)
		}
	}
	return rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGene(row scanner) (*genome.Gene, error) {
	g := &genome.Gene{}
	var strand, accessions string
	err := row.Scan(
		&g.GenomeName, &g.NCBIGeneID, &g.Symbol, &g.Name, &g.Type,
		&g.Locus.Chrom, &strand, &g.Locus.Start, &g.Locus.End, &accessions,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan gene: %w", err)
	}
	g.Locus.Strand = genome.Strand(strand)
	if err := json.Unmarshal([]byte(accessions), &g.Transcripts); err != nil {
		return nil, fmt.Errorf("decode transcripts of %s: %w", g.Symbol, err)
	}
	return g, nil
}

func scanTranscript(row scanner) (*genome.Transcript, error) {
	t := &genome.Transcript{}
	var strand, xrefs string
	err := row.Scan(
		&t.GenomeName, &t.GeneSymbol, &t.Accession, &t.Biotype, &t.Product, &t.Predicted,
		&t.Source, &xrefs, &t.Locus.Chrom, &strand, &t.Bounds[0], &t.Bounds[1],
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	t.Locus.Strand = genome.Strand(strand)
	t.Locus.Start, t.Locus.End = t.Bounds[0], t.Bounds[1]
	if err := json.Unmarshal([]byte(xrefs), &t.Xrefs); err != nil {
		return nil, fmt.Errorf("decode xrefs of %s: %w", t.Accession, err)
	}
	return t, nil
}
