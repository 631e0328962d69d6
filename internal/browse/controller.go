package browse

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-gene/internal/coords"
	"github.com/inodb/vibe-gene/internal/genemap"
	"github.com/inodb/vibe-gene/internal/genome"
)

// Fetcher retrieves one transcript annotation. *client.Client implements it
// over HTTP; the server implements it against the store.
type Fetcher interface {
	FetchTranscript(ctx context.Context, genomeName, symbol, accession string) (*genome.Detail, error)
}

// State is everything the page shows.
type State struct {
	Gene              *genome.Gene
	Transcripts       []genome.Metadata // after filtering
	Selected          string
	CountText         string
	IncludeNonRefSeq  bool
	NonRefSeqDisabled bool

	// Set once a transcript has been loaded; kept when a later load fails.
	Detail    *genome.Detail
	Info      []InfoRow
	Diagram   *genemap.Diagram
	SVG       []byte
	DNA       SequenceField
	Sequences []SequenceField
}

// Controller drives the gene page. It is not safe for concurrent use.
type Controller struct {
	gene    *genome.Gene
	all     []genome.Metadata
	fetcher Fetcher
	logger  *zap.Logger
	state   State
}

// NewController creates a controller for a gene and its transcript list.
func NewController(gene *genome.Gene, transcripts []genome.Metadata, fetcher Fetcher) *Controller {
	return &Controller{
		gene:    gene,
		all:     transcripts,
		fetcher: fetcher,
		logger:  zap.NewNop(),
		state: State{
			Gene:              gene,
			NonRefSeqDisabled: !HasNonRefSeq(transcripts),
			DNA:               GeneSequenceField(gene.Sequence),
		},
	}
}

// SetLogger sets the logger.
func (c *Controller) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// State returns the current page state.
func (c *Controller) State() State {
	return c.state
}

// Init builds the RefSeq transcript list, selects the main variant and loads it.
func (c *Controller) Init(ctx context.Context) error {
	return c.Open(ctx, false, "")
}

// Open builds the transcript list with the given filter and loads a single
// transcript: accession when it is listed, otherwise the main variant.
func (c *Controller) Open(ctx context.Context, includeNonRefSeq bool, accession string) error {
	c.state.IncludeNonRefSeq = includeNonRefSeq && !c.state.NonRefSeqDisabled
	c.updateList(true)
	if accession != "" && c.listed(accession) {
		c.state.Selected = accession
	}
	return c.load(ctx, c.state.Selected)
}

// SetIncludeNonRefSeq toggles non-RefSeq transcripts. The toggle is ignored
// when the gene has none. If the filter drops the displayed transcript the
// new default is loaded.
func (c *Controller) SetIncludeNonRefSeq(ctx context.Context, include bool) error {
	if c.state.NonRefSeqDisabled {
		include = false
	}
	c.state.IncludeNonRefSeq = include
	c.updateList(false)

	if c.state.Detail != nil && c.state.Detail.Accession == c.state.Selected {
		return nil
	}
	return c.load(ctx, c.state.Selected)
}

// Select loads a transcript chosen from the list.
func (c *Controller) Select(ctx context.Context, accession string) error {
	if !c.listed(accession) {
		return fmt.Errorf("select transcript %s: not in list", accession)
	}
	c.state.Selected = accession
	return c.load(ctx, accession)
}

func (c *Controller) listed(accession string) bool {
	for _, t := range c.state.Transcripts {
		if t.Accession == accession {
			return true
		}
	}
	return false
}

func (c *Controller) updateList(forceMain bool) {
	c.state.Transcripts = FilterTranscripts(c.all, c.state.IncludeNonRefSeq)
	c.state.CountText = CountText(c.gene.Symbol, len(c.state.Transcripts))
	c.state.Selected = SelectDefault(c.state.Transcripts, c.state.Selected, forceMain)
}

// load fetches a transcript and rebuilds the info table, diagram and
// sequence fields. On any failure the previous display is left untouched.
func (c *Controller) load(ctx context.Context, accession string) error {
	if accession == "" {
		return nil
	}

	d, err := c.fetcher.FetchTranscript(ctx, c.gene.GenomeName, c.gene.Symbol, accession)
	if err != nil {
		c.logger.Warn("fetch transcript failed",
			zap.String("gene", c.gene.Symbol),
			zap.String("transcript", accession),
			zap.Error(err))
		return fmt.Errorf("load transcript %s: %w", accession, err)
	}

	diagram, err := Diagram(c.gene, &d.Transcript)
	if err != nil {
		c.logger.Warn("layout gene map failed",
			zap.String("gene", c.gene.Symbol),
			zap.String("transcript", accession),
			zap.Error(err))
		return fmt.Errorf("load transcript %s: %w", accession, err)
	}

	c.state.Detail = d
	c.state.Info = InfoRows(&d.Transcript)
	c.state.Diagram = diagram
	c.state.SVG = genemap.RenderSVG(diagram)
	c.state.Sequences = SequenceFields(d.Sequences)
	c.logger.Debug("loaded transcript",
		zap.String("gene", c.gene.Symbol),
		zap.String("transcript", accession),
		zap.Int("exons", len(d.Exons)),
		zap.Int("cds", len(d.CDSs)))
	return nil
}

// Diagram normalizes a transcript against its gene and lays out the map.
func Diagram(gene *genome.Gene, t *genome.Transcript) (*genemap.Diagram, error) {
	n, err := coords.Normalize(gene.Locus, coords.FromTranscript(t))
	if err != nil {
		return nil, err
	}
	return genemap.Layout(genemap.Input{
		Annotation: n,
		GeneLength: gene.Locus.Length(),
		Strand:     gene.Locus.Strand,
	})
}
