package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gene/internal/browse"
	"github.com/inodb/vibe-gene/internal/client"
	"github.com/inodb/vibe-gene/internal/genemap"
	"github.com/inodb/vibe-gene/internal/genome"
	"github.com/inodb/vibe-gene/internal/sequence"
)

// Output formats of the render command.
const (
	formatSVG  = "svg"
	formatJSON = "json"
)

type renderOptions struct {
	output  string
	format  string
	dataDir string
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render <genome> <symbol> <accession>",
		Short: "Render a transcript gene map as SVG",
		Long: `Render the gene map of one transcript, or print the transcript with its
sequences as JSON.

By default the transcript is fetched from a running server. With --data-dir
it is read directly from a data directory instead.`,
		Example: `  vibe-gene render hg38 KRAS NM_004985.5 -o kras.svg
  vibe-gene render hg38 KRAS NM_004985.5 --format json --server http://genes.local
  vibe-gene render hg38 KRAS NM_004985.5 --data-dir ./data`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, map[string]string{
				"client.base_url": "server",
				"client.timeout":  "timeout",
			}); err != nil {
				return err
			}
			if opts.format != formatSVG && opts.format != formatJSON {
				return usagef("unknown format %q (want %s or %s)", opts.format, formatSVG, formatJSON)
			}

			w, closeFn, err := openOutput(opts.output)
			if err != nil {
				return err
			}
			defer closeFn()

			if opts.dataDir != "" {
				return renderLocal(w, genome.NewDataDir(opts.dataDir), args[0], args[1], args[2], opts.format)
			}
			c := client.New(viper.GetString("client.base_url"),
				client.WithTimeout(viper.GetDuration("client.timeout")),
				client.WithLogger(logger))
			return renderRemote(cmd.Context(), w, c, args[0], args[1], args[2], opts.format)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: svg or json")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "read from a data directory instead of a server")
	cmd.Flags().String("server", "http://localhost:8080", "gene browser base URL")
	cmd.Flags().Duration("timeout", client.DefaultTimeout, "request timeout")
	return cmd
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func renderRemote(ctx context.Context, w io.Writer, c *client.Client, genomeName, symbol, accession, format string) error {
	if format == formatJSON {
		d, err := c.FetchTranscript(ctx, genomeName, symbol, accession)
		if err != nil {
			return err
		}
		return writeDetail(w, d)
	}
	svg, err := c.FetchGeneMap(ctx, genomeName, symbol, accession)
	if err != nil {
		return err
	}
	_, err = w.Write(svg)
	return err
}

func renderLocal(w io.Writer, dd *genome.DataDir, genomeName, symbol, accession, format string) error {
	genes, err := dd.LoadGenes(genomeName)
	if err != nil {
		return err
	}
	var gene *genome.Gene
	for _, g := range genes {
		if g.Symbol == symbol {
			gene = g
			break
		}
	}
	if gene == nil {
		return fmt.Errorf("gene %s not found in genome %s", symbol, genomeName)
	}

	bySymbol, err := dd.LoadTranscripts(genomeName, []*genome.Gene{gene})
	if err != nil {
		return err
	}
	var t *genome.Transcript
	for _, candidate := range bySymbol[symbol] {
		if candidate.Accession == accession {
			t = candidate
			break
		}
	}
	if t == nil {
		return fmt.Errorf("transcript %s not found for gene %s", accession, symbol)
	}

	if format == formatJSON {
		seqs, err := sequence.Derive(dd, t)
		if err != nil {
			logger.Warn("transcript sequences unavailable", zap.String("transcript", accession), zap.Error(err))
		}
		return writeDetail(w, &genome.Detail{Transcript: *t, Sequences: seqs})
	}

	diagram, err := browse.Diagram(gene, t)
	if err != nil {
		return err
	}
	_, err = w.Write(genemap.RenderSVG(diagram, genemap.WithID(browse.GeneMapID+"-svg")))
	return err
}

func writeDetail(w io.Writer, d *genome.Detail) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
