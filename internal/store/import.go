package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gene/internal/genome"
)

// Segment kinds.
const (
	SegmentExon = "exon"
	SegmentCDS  = "cds"
)

// Loader reads a genome from its on-disk tables. *genome.DataDir implements it.
type Loader interface {
	Genomes() ([]string, error)
	GenomeDir(name string) string
	LoadGenes(name string) ([]*genome.Gene, error)
	LoadTranscripts(name string, genes []*genome.Gene) (map[string][]*genome.Transcript, error)
}

// ImportStats summarizes one genome import.
type ImportStats struct {
	Genome      string
	Genes       int
	Transcripts int
	Segments    int
	Skipped     bool // genes table unchanged since the last import
}

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file. ModTime is
// truncated to the microsecond precision DuckDB timestamps keep.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime().UTC().Truncate(time.Microsecond),
	}, nil
}

// Matches returns true if the fingerprint equals another.
func (f FileFingerprint) Matches(other FileFingerprint) bool {
	return f.Path == other.Path && f.Size == other.Size && f.ModTime.Equal(other.ModTime)
}

func genesPath(src Loader, name string) string {
	return filepath.Join(src.GenomeDir(name), "genes.tsv")
}

// UpToDate reports whether the genome was imported from an unchanged genes table.
func (s *Store) UpToDate(ctx context.Context, src Loader, name string) (bool, error) {
	current, err := StatFile(genesPath(src, name))
	if err != nil {
		return false, fmt.Errorf("stat genes table: %w", err)
	}

	var stored FileFingerprint
	err = s.db.QueryRowContext(ctx,
		`SELECT genes_path, genes_size, genes_mtime FROM imports WHERE genome = ?`, name,
	).Scan(&stored.Path, &stored.Size, &stored.ModTime)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query import record: %w", err)
	}
	return current.Matches(stored), nil
}

// ImportAll imports every genome of src, skipping those already up to date.
func (s *Store) ImportAll(ctx context.Context, src Loader) ([]ImportStats, error) {
	names, err := src.Genomes()
	if err != nil {
		return nil, err
	}
	var all []ImportStats
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		fresh, err := s.UpToDate(ctx, src, name)
		if err != nil {
			return all, err
		}
		if fresh {
			s.logger.Info("genome up to date, skipping import", zap.String("genome", name))
			all = append(all, ImportStats{Genome: name, Skipped: true})
			continue
		}
		stats, err := s.Import(ctx, src, name)
		if err != nil {
			return all, err
		}
		all = append(all, stats)
	}
	return all, nil
}

// Import replaces the stored copy of a genome with the contents of src.
func (s *Store) Import(ctx context.Context, src Loader, name string) (ImportStats, error) {
	stats := ImportStats{Genome: name}
	start := time.Now()

	fp, err := StatFile(genesPath(src, name))
	if err != nil {
		return stats, fmt.Errorf("stat genes table: %w", err)
	}
	genes, err := src.LoadGenes(name)
	if err != nil {
		return stats, fmt.Errorf("load genes: %w", err)
	}
	genes = uniqueGenes(genes)
	bySymbol, err := src.LoadTranscripts(name, genes)
	if err != nil {
		return stats, fmt.Errorf("load transcripts: %w", err)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return stats, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	// The old copy stays visible until the new one is complete.
	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return stats, fmt.Errorf("begin import: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if _, err := conn.ExecContext(context.Background(), "ROLLBACK"); err != nil {
			s.logger.Warn("rollback import", zap.String("genome", name), zap.Error(err))
		}
	}()

	for _, table := range []string{"genes", "transcripts", "segments", "imports"} {
		if _, err := conn.ExecContext(ctx, "DELETE FROM "+table+" WHERE genome = ?", name); err != nil {
			return stats, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	err = withAppenders(conn, func(geneApp, txApp, segApp *goduckdb.Appender) error {
		for _, g := range genes {
			accessions, err := json.Marshal(g.Transcripts)
			if err != nil {
				return err
			}
			if err := geneApp.AppendRow(
				name, g.NCBIGeneID, g.Symbol, g.Name, g.Type,
				g.Locus.Chrom, string(g.Locus.Strand), g.Locus.Start, g.Locus.End,
				string(accessions),
			); err != nil {
				return fmt.Errorf("append gene %s: %w", g.Symbol, err)
			}
			stats.Genes++

			for _, t := range bySymbol[g.Symbol] {
				xrefs, err := json.Marshal(t.Xrefs)
				if err != nil {
					return err
				}
				if err := txApp.AppendRow(
					name, g.Symbol, t.Accession, t.Biotype, t.Product, t.Predicted, t.Source,
					string(xrefs), t.Locus.Chrom, string(t.Locus.Strand), t.Bounds[0], t.Bounds[1],
				); err != nil {
					return fmt.Errorf("append transcript %s: %w", t.Accession, err)
				}
				stats.Transcripts++

				n, err := appendSegments(segApp, name, g.Symbol, t)
				if err != nil {
					return err
				}
				stats.Segments += n
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	if _, err := conn.ExecContext(ctx, `
		INSERT INTO imports (genome, genes_path, genes_size, genes_mtime, gene_count, transcript_count, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, name, fp.Path, fp.Size, fp.ModTime, int64(stats.Genes), int64(stats.Transcripts), time.Now().UTC()); err != nil {
		return stats, fmt.Errorf("record import: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return stats, fmt.Errorf("commit import: %w", err)
	}
	committed = true

	s.logger.Info("imported genome",
		zap.String("genome", name),
		zap.Int("genes", stats.Genes),
		zap.Int("transcripts", stats.Transcripts),
		zap.Int("segments", stats.Segments),
		zap.Duration("elapsed", time.Since(start)))
	return stats, nil
}

// withAppenders opens an appender per table on conn, runs fn and flushes.
func withAppenders(conn *sql.Conn, fn func(genes, transcripts, segments *goduckdb.Appender) error) error {
	tables := []string{"genes", "transcripts", "segments"}
	apps := make([]*goduckdb.Appender, 0, len(tables))
	defer func() {
		for _, a := range apps {
			a.Close()
		}
	}()

	for _, table := range tables {
		if err := conn.Raw(func(driverConn any) error {
			a, err := goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
			if err != nil {
				return err
			}
			apps = append(apps, a)
			return nil
		}); err != nil {
			return fmt.Errorf("create %s appender: %w", table, err)
		}
	}

	if err := fn(apps[0], apps[1], apps[2]); err != nil {
		return err
	}
	for i, a := range apps {
		if err := a.Flush(); err != nil {
			return fmt.Errorf("flush %s: %w", tables[i], err)
		}
	}
	return nil
}

func appendSegments(app *goduckdb.Appender, name, symbol string, t *genome.Transcript) (int, error) {
	n := 0
	for kind, segs := range map[string][]genome.Interval{SegmentExon: t.Exons, SegmentCDS: t.CDSs} {
		for i, iv := range segs {
			if err := app.AppendRow(name, symbol, t.Accession, kind, int64(i), iv[0], iv[1]); err != nil {
				return n, fmt.Errorf("append %s %d of %s: %w", kind, i, t.Accession, err)
			}
			n++
		}
	}
	return n, nil
}

// uniqueGenes drops later genes that repeat a symbol.
func uniqueGenes(genes []*genome.Gene) []*genome.Gene {
	seen := make(map[string]bool, len(genes))
	out := genes[:0:0]
	for _, g := range genes {
		if seen[g.Symbol] {
			continue
		}
		seen[g.Symbol] = true
		out = append(out, g)
	}
	return out
}
