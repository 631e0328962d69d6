package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gene/internal/genome"
	"github.com/inodb/vibe-gene/internal/sequence"
	"github.com/inodb/vibe-gene/internal/server"
	"github.com/inodb/vibe-gene/internal/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gene browser web server",
		Long: `Serve the gene browser and its JSON API.

Genes are read from a DuckDB store. When a data directory is given, genomes
whose tables changed since the last import are re-imported at startup and
transcript sequences are derived from its chromosome files.`,
		Example: `  vibe-gene serve --data-dir ./data
  vibe-gene serve --store genes.duckdb --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, map[string]string{
				"server.addr":    "addr",
				"data.dir":       "data-dir",
				"store.path":     "store",
				"genome.default": "genome",
			}); err != nil {
				return err
			}
			return runServe(cmd.Context())
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("data-dir", "", "genome data directory")
	cmd.Flags().String("store", "", "DuckDB store path (in-memory if empty)")
	cmd.Flags().String("genome", "hg38", "genome preselected in the search box")
	return cmd
}

func runServe(ctx context.Context) error {
	dataDir := viper.GetString("data.dir")
	storePath := viper.GetString("store.path")
	if dataDir == "" && storePath == "" {
		return usagef("one of --data-dir or --store is required")
	}

	st, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer st.Close()
	st.SetLogger(logger)

	var seqs sequence.Reader
	if dataDir != "" {
		dd := genome.NewDataDir(dataDir)
		stats, err := st.ImportAll(ctx, dd)
		if err != nil {
			return fmt.Errorf("importing %s: %w", dataDir, err)
		}
		for _, s := range stats {
			logger.Info("genome ready",
				zap.String("genome", s.Genome),
				zap.Int("genes", s.Genes),
				zap.Int("transcripts", s.Transcripts),
				zap.Bool("skipped", s.Skipped))
		}
		seqs = dd
	}

	svc := server.NewService(st, seqs)
	svc.SetLogger(logger)

	srv, err := server.New(svc,
		server.WithLogger(logger),
		server.WithDefaultGenome(viper.GetString("genome.default")))
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, viper.GetString("server.addr"))
}
