// Package store keeps imported genomes in DuckDB: genes, transcripts and
// their exon/CDS segments, plus a record of each import.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// ErrNotFound is returned by callers that need a non-nil result.
// Single-row lookups in this package return nil, nil instead.
var ErrNotFound = errors.New("not found")

// Store manages a DuckDB connection.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path, logger: zap.NewNop()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// SetLogger sets the logger used for import progress.
func (s *Store) SetLogger(logger *zap.Logger) {
	s.logger = logger
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS genes (
			genome VARCHAR,
			ncbi_gene_id VARCHAR,
			symbol VARCHAR,
			name VARCHAR,
			type VARCHAR,
			chrom VARCHAR,
			strand VARCHAR,
			start BIGINT,
			end_ BIGINT,
			transcripts VARCHAR,
			CHECK (start <= end_)
		);

		CREATE TABLE IF NOT EXISTS transcripts (
			genome VARCHAR,
			gene_symbol VARCHAR,
			accession VARCHAR,
			biotype VARCHAR,
			product VARCHAR,
			predicted BOOLEAN,
			source VARCHAR,
			xrefs VARCHAR,
			chrom VARCHAR,
			strand VARCHAR,
			start BIGINT,
			end_ BIGINT
		);

		CREATE TABLE IF NOT EXISTS segments (
			genome VARCHAR,
			gene_symbol VARCHAR,
			accession VARCHAR,
			kind VARCHAR,
			idx BIGINT,
			start BIGINT,
			end_ BIGINT
		);

		CREATE TABLE IF NOT EXISTS imports (
			genome VARCHAR, -- one row per genome, replaced by Import
			genes_path VARCHAR,
			genes_size BIGINT,
			genes_mtime TIMESTAMP,
			gene_count BIGINT,
			transcript_count BIGINT,
			imported_at TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_genes_symbol ON genes(genome, symbol);
		CREATE INDEX IF NOT EXISTS idx_transcripts_gene ON transcripts(genome, gene_symbol);
		CREATE INDEX IF NOT EXISTS idx_segments_transcript ON segments(genome, gene_symbol, accession);
	`)
	return err
}

// IsDuckDB checks if a path looks like a DuckDB database file.
func IsDuckDB(path string) bool {
	return strings.HasSuffix(path, ".duckdb") || strings.HasSuffix(path, ".db")
}
