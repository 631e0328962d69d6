package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-gene/internal/genome"
	"github.com/inodb/vibe-gene/internal/store"
)

type importOptions struct {
	genomes []string
	force   bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a genome data directory into DuckDB",
		Long: `Import genes, transcripts, exons and CDSs from a data directory into a
DuckDB store. Genomes whose genes table is unchanged since the last import
are skipped unless --force is given.`,
		Example: `  vibe-gene import --data-dir ./data --store genes.duckdb
  vibe-gene import --data-dir ./data --store genes.duckdb --genome hg38 --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, map[string]string{
				"data.dir":   "data-dir",
				"store.path": "store",
			}); err != nil {
				return err
			}
			return runImport(cmd.Context(), viper.GetString("data.dir"), viper.GetString("store.path"), opts)
		},
	}
	cmd.Flags().String("data-dir", "", "genome data directory")
	cmd.Flags().String("store", "", "output DuckDB path")
	cmd.Flags().StringSliceVar(&opts.genomes, "genome", nil, "genomes to import (default all)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "re-import even when unchanged")
	return cmd
}

func runImport(ctx context.Context, dataDir, storePath string, opts importOptions) error {
	if dataDir == "" {
		return usagef("--data-dir is required")
	}
	if storePath == "" {
		return usagef("--store is required")
	}
	if !store.IsDuckDB(storePath) {
		storePath += ".duckdb"
	}

	dd := genome.NewDataDir(dataDir)
	available, err := dd.Genomes()
	if err != nil {
		return err
	}
	names := available
	if len(opts.genomes) > 0 {
		for _, name := range opts.genomes {
			if !slices.Contains(available, name) {
				return usagef("genome %q not found in %s (available: %s)", name, dataDir, strings.Join(available, ", "))
			}
		}
		names = opts.genomes
	}

	st, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer st.Close()
	st.SetLogger(logger)

	fmt.Fprintf(os.Stderr, "Importing genome data into DuckDB...\n")
	fmt.Fprintf(os.Stderr, "  Input:   %s\n", dataDir)
	fmt.Fprintf(os.Stderr, "  Output:  %s\n", storePath)
	fmt.Fprintf(os.Stderr, "  Genomes: %s\n", strings.Join(names, ", "))

	var genes, transcripts int
	for _, name := range names {
		if !opts.force {
			fresh, err := st.UpToDate(ctx, dd, name)
			if err != nil {
				return err
			}
			if fresh {
				fmt.Fprintf(os.Stderr, "  %s: unchanged, skipping\n", name)
				continue
			}
		}
		stats, err := st.Import(ctx, dd, name)
		if err != nil {
			return fmt.Errorf("importing genome %s: %w", name, err)
		}
		fmt.Fprintf(os.Stderr, "  %s: %d genes, %d transcripts, %d segments\n",
			name, stats.Genes, stats.Transcripts, stats.Segments)
		genes += stats.Genes
		transcripts += stats.Transcripts
	}

	sizeStr := "unknown"
	if stat, err := os.Stat(storePath); err == nil {
		sizeStr = fmt.Sprintf("%.2f MB", float64(stat.Size())/(1024*1024))
	}
	abs, _ := filepath.Abs(st.Path())

	fmt.Fprintf(os.Stderr, "\nImport complete!\n")
	fmt.Fprintf(os.Stderr, "  Genes:       %d\n", genes)
	fmt.Fprintf(os.Stderr, "  Transcripts: %d\n", transcripts)
	fmt.Fprintf(os.Stderr, "  Output size: %s\n", sizeStr)
	fmt.Fprintf(os.Stderr, "  Output file: %s\n", abs)
	return nil
}
