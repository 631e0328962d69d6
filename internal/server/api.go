package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gene/internal/browse"
	"github.com/inodb/vibe-gene/internal/genemap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps not-found errors to 404 and everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if isNotFound(err) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	s.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.FetchTranscript(r.Context(),
		chi.URLParam(r, "genome"), chi.URLParam(r, "symbol"), chi.URLParam(r, "accession"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDynamicSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.svc.DynamicSearch(r.Context(), chi.URLParam(r, "genome"), r.URL.Query().Get("query"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGeneMap(w http.ResponseWriter, r *http.Request) {
	accession, ok := strings.CutSuffix(chi.URLParam(r, "file"), ".svg")
	if !ok || accession == "" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Transcript not found"})
		return
	}

	ctx := r.Context()
	genomeName, symbol := chi.URLParam(r, "genome"), chi.URLParam(r, "symbol")
	gene, t, err := s.svc.Annotation(ctx, genomeName, symbol, accession)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	diagram, err := browse.Diagram(gene, t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(genemap.RenderSVG(diagram, genemap.WithID(browse.GeneMapID+"-svg")))
}
