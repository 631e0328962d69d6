package server

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/inodb/vibe-gene/internal/genome"
	"github.com/inodb/vibe-gene/internal/sequence"
	"github.com/inodb/vibe-gene/internal/store"
)

// MinQueryLength is the shortest query searched.
const MinQueryLength = 3

// RandomGeneTypes are the gene types a random gene is drawn from.
var RandomGeneTypes = []string{"protein-coding", "miRNA", "rRNA", "tRNA"}

// Source is the gene and transcript lookup the service reads from.
// *store.Store implements it.
type Source interface {
	Genomes(ctx context.Context) ([]string, error)
	Gene(ctx context.Context, genomeName, symbol string) (*genome.Gene, error)
	Transcripts(ctx context.Context, genomeName, symbol string) ([]*genome.Transcript, error)
	Transcript(ctx context.Context, genomeName, symbol, accession string) (*genome.Transcript, error)
	Search(ctx context.Context, genomeName, query string, limit int) ([]store.SearchResult, error)
	RandomGene(ctx context.Context, genomeName string, types []string) (*genome.Gene, error)
}

// NotFoundError reports which lookup came back empty. It matches
// store.ErrNotFound under errors.Is.
type NotFoundError struct {
	Kind string // "Genome", "Gene" or "Transcript"
}

func (e *NotFoundError) Error() string { return e.Kind + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == store.ErrNotFound }

// Service answers gene browser queries from a Source, deriving sequences
// from genome files when a sequence reader is configured.
type Service struct {
	src    Source
	seqs   sequence.Reader
	logger *zap.Logger
}

// NewService creates a service. seqs may be nil, in which case no sequences
// are served.
func NewService(src Source, seqs sequence.Reader) *Service {
	return &Service{src: src, seqs: seqs, logger: zap.NewNop()}
}

// SetLogger sets the logger.
func (s *Service) SetLogger(logger *zap.Logger) {
	s.logger = logger
}

// Genomes lists the available genomes.
func (s *Service) Genomes(ctx context.Context) ([]string, error) {
	return s.src.Genomes(ctx)
}

func (s *Service) checkGenome(ctx context.Context, genomeName string) error {
	names, err := s.src.Genomes(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(names, genomeName) {
		return &NotFoundError{Kind: "Genome"}
	}
	return nil
}

// Gene returns a gene with its DNA sequence filled in when available.
func (s *Service) Gene(ctx context.Context, genomeName, symbol string) (*genome.Gene, error) {
	if err := s.checkGenome(ctx, genomeName); err != nil {
		return nil, err
	}
	g, err := s.src.Gene(ctx, genomeName, symbol)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, &NotFoundError{Kind: "Gene"}
	}
	if s.seqs != nil {
		seq, err := sequence.GeneSequence(s.seqs, g)
		if err != nil {
			s.logger.Warn("gene sequence unavailable", zap.String("gene", symbol), zap.Error(err))
		} else {
			g.Sequence = seq
		}
	}
	return g, nil
}

// TranscriptMetadata lists the transcripts of a gene for the page.
func (s *Service) TranscriptMetadata(ctx context.Context, genomeName, symbol string) ([]genome.Metadata, error) {
	ts, err := s.src.Transcripts(ctx, genomeName, symbol)
	if err != nil {
		return nil, err
	}
	out := make([]genome.Metadata, len(ts))
	for i, t := range ts {
		out[i] = t.Metadata()
	}
	return out, nil
}

// Annotation returns a gene and one of its transcripts without reading any
// sequence.
func (s *Service) Annotation(ctx context.Context, genomeName, symbol, accession string) (*genome.Gene, *genome.Transcript, error) {
	if err := s.checkGenome(ctx, genomeName); err != nil {
		return nil, nil, err
	}
	g, err := s.src.Gene(ctx, genomeName, symbol)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, &NotFoundError{Kind: "Gene"}
	}
	t, err := s.src.Transcript(ctx, genomeName, symbol, accession)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, &NotFoundError{Kind: "Transcript"}
	}
	return g, t, nil
}

// FetchTranscript returns a transcript with its derived sequences.
func (s *Service) FetchTranscript(ctx context.Context, genomeName, symbol, accession string) (*genome.Detail, error) {
	_, t, err := s.Annotation(ctx, genomeName, symbol, accession)
	if err != nil {
		return nil, err
	}

	d := &genome.Detail{Transcript: *t}
	if s.seqs != nil {
		seqs, err := sequence.Derive(s.seqs, t)
		if err != nil {
			s.logger.Warn("transcript sequences unavailable", zap.String("transcript", accession), zap.Error(err))
		} else {
			d.Sequences = seqs
		}
	}
	return d, nil
}

// DynamicSearch maps matching gene symbols to names. Short queries match nothing.
func (s *Service) DynamicSearch(ctx context.Context, genomeName, query string) (map[string]string, error) {
	results := make(map[string]string)
	if len(query) < MinQueryLength {
		return results, nil
	}
	found, err := s.src.Search(ctx, genomeName, query, store.DefaultSearchLimit)
	if err != nil {
		return nil, err
	}
	for _, r := range found {
		results[r.Symbol] = r.Name
	}
	return results, nil
}

// Search returns matching genes in rank order.
func (s *Service) Search(ctx context.Context, genomeName, query string) ([]store.SearchResult, error) {
	if err := s.checkGenome(ctx, genomeName); err != nil {
		return nil, err
	}
	return s.src.Search(ctx, genomeName, query, store.DefaultSearchLimit)
}

// RandomGene picks a random gene of one of RandomGeneTypes.
func (s *Service) RandomGene(ctx context.Context, genomeName string) (*genome.Gene, error) {
	if err := s.checkGenome(ctx, genomeName); err != nil {
		return nil, err
	}
	g, err := s.src.RandomGene(ctx, genomeName, RandomGeneTypes)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, &NotFoundError{Kind: "Gene"}
	}
	return g, nil
}

// isNotFound reports whether err is a missing genome, gene or transcript.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
