package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gene/internal/browse"
	"github.com/inodb/vibe-gene/internal/genome"
	"github.com/inodb/vibe-gene/internal/store"
)

const robotsTxt = "User-agent: *\nDisallow: /api/\nDisallow: /random/\n"

type flash struct {
	Class   string
	Message string
}

type indexPage struct {
	Genomes       []string
	DefaultGenome string
	Flash         *flash
}

type genePage struct {
	Genome          string
	State           browse.State
	GeneJSON        string
	TranscriptsJSON string
	IDs             pageIDs
}

type searchPage struct {
	Genome  string
	Query   string
	Results []store.SearchResult
}

// pageIDs exposes element IDs to templates.
type pageIDs struct {
	GeneData, TranscriptsList, GeneMap, SequencesList   string
	TranscriptCount, NonRefSeq, AllTranscripts, InfoTbl string
}

var ids = pageIDs{
	GeneData:        browse.GeneDataID,
	TranscriptsList: browse.TranscriptsListID,
	GeneMap:         browse.GeneMapID,
	SequencesList:   browse.SequencesListID,
	TranscriptCount: browse.TranscriptCountID,
	NonRefSeq:       browse.NonRefSeqID,
	AllTranscripts:  browse.AllTranscriptsID,
	InfoTbl:         browse.TranscriptInfoTableID,
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("render page",
			zap.String("template", name),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
	}
}

// renderIndex shows the index page, optionally with an alert.
func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, f *flash) {
	genomes, err := s.svc.Genomes(r.Context())
	if err != nil {
		s.logger.Error("list genomes", zap.Error(err))
	}
	s.render(w, r, status, "index.html", indexPage{Genomes: genomes, DefaultGenome: s.defaultGenome, Flash: f})
}

// pageError shows err on the index page: 404 for missing data, 500 otherwise.
func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error) {
	if isNotFound(err) {
		s.renderIndex(w, r, http.StatusNotFound, &flash{Class: "alert-danger", Message: err.Error()})
		return
	}
	s.logger.Error("page failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err))
	s.renderIndex(w, r, http.StatusInternalServerError, &flash{Class: "alert-danger", Message: "Something went wrong"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, nil)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(robotsTxt))
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	genomeName, symbol := chi.URLParam(r, "genome"), chi.URLParam(r, "symbol")

	gene, err := s.svc.Gene(ctx, genomeName, symbol)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	transcripts, err := s.svc.TranscriptMetadata(ctx, genomeName, symbol)
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	c := browse.NewController(gene, transcripts, s.svc)
	c.SetLogger(s.logger)
	// Load failures leave the diagram empty; the page still renders.
	q := r.URL.Query()
	if err := c.Open(ctx, q.Get("non_refseq") == "1", q.Get("transcript")); err != nil {
		s.logger.Debug("initial transcript not loaded", zap.String("gene", symbol), zap.Error(err))
	}

	geneJSON, err := json.Marshal(gene)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	if transcripts == nil {
		transcripts = []genome.Metadata{}
	}
	transcriptsJSON, err := json.Marshal(transcripts)
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "gene.html", genePage{
		Genome:          genomeName,
		State:           c.State(),
		GeneJSON:        string(geneJSON),
		TranscriptsJSON: string(transcriptsJSON),
		IDs:             ids,
	})
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	genomeName := chi.URLParam(r, "genome")
	gene, err := s.svc.RandomGene(r.Context(), genomeName)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	http.Redirect(w, r, "/browse/"+url.PathEscape(genomeName)+"/"+url.PathEscape(gene.Symbol), http.StatusFound)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	genomeName := chi.URLParam(r, "genome")
	query, ok := r.URL.Query()["query"]
	if !ok || len(query) == 0 {
		s.renderIndex(w, r, http.StatusBadRequest, &flash{Class: "alert-danger", Message: "No query provided"})
		return
	}
	q := query[0]
	if len(q) < MinQueryLength {
		s.renderIndex(w, r, http.StatusBadRequest, &flash{Class: "alert-danger", Message: "Please provide a query with at least 3 characters"})
		return
	}

	results, err := s.svc.Search(r.Context(), genomeName, q)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "search.html", searchPage{Genome: genomeName, Query: q, Results: results})
}
