// Package api exposes the analysis engine over a JSON HTTP surface.
// Every mutating route stores a new dataset version; originals are never
// modified, so any prior handle remains a valid undo point.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"datakiln/app"
	"datakiln/domain/core"
	"datakiln/internal"
	"datakiln/internal/analyze"
	"datakiln/internal/config"
	"datakiln/internal/errors"
	"datakiln/internal/profile"
	"datakiln/ports"
)

// Server wires the HTTP routes to the engine services.
type Server struct {
	router   *chi.Mux
	store    *DatasetStore
	reader   ports.TableReader
	cleaning *app.CleaningService
	analysis *app.AnalysisService
	cfg      *config.Config
	log      *internal.Logger
}

// NewServer creates the HTTP server around the given collaborators.
func NewServer(cfg *config.Config, reader ports.TableReader, cleaning *app.CleaningService, analysis *app.AnalysisService) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		store:    NewDatasetStore(),
		reader:   reader,
		cleaning: cleaning,
		analysis: analysis,
		cfg:      cfg,
		log:      internal.DefaultLogger,
	}
	s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store exposes the dataset store (used by the CLI and tests).
func (s *Server) Store() *DatasetStore {
	return s.store
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Route("/datasets", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Get("/plan", s.handleSuggestPlan)
			r.Post("/clean", s.handleClean)
			r.Post("/transform", s.handleTransform)
			r.Get("/stats", s.handleStats)
			r.Get("/correlation", s.handleCorrelation)
			r.Get("/overview", s.handleOverview)
			r.Post("/tests", s.handleTest)
			r.Route("/aggregations", func(r chi.Router) {
				r.Get("/histogram", s.handleHistogram)
				r.Get("/categories", s.handleCategories)
				r.Get("/scatter", s.handleScatter)
				r.Get("/group-means", s.handleGroupMeans)
			})
		})
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxUploadMB << 20); err != nil {
		s.writeError(w, errors.InvalidInput("invalid multipart upload: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, errors.InvalidInput("upload requires a \"file\" part"))
		return
	}
	defer file.Close()

	// The reader works from paths, so spool the upload to a temp file.
	tmp, err := os.CreateTemp(s.cfg.Upload.TempDir, "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		s.writeError(w, errors.Wrap(err, "failed to spool upload"))
		return
	}
	defer os.Remove(tmp.Name())
	size, err := io.Copy(tmp, file)
	tmp.Close()
	if err != nil {
		s.writeError(w, errors.Wrap(err, "failed to spool upload"))
		return
	}

	headers, rows, err := s.reader.Read(r.Context(), tmp.Name())
	if err != nil {
		s.writeError(w, err)
		return
	}

	ds := profile.Build(header.Filename, size, headers, rows)
	stored := s.store.Put(ds, "", "uploaded")
	s.log.Info("ingested dataset %s (%d rows, %d columns)", stored.ID, ds.TotalRows, len(ds.Headers))
	s.writeJSON(w, http.StatusCreated, summarize(stored))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	all := s.store.List()
	summaries := make([]DatasetSummary, 0, len(all))
	for _, stored := range all {
		summaries = append(summaries, summarize(stored))
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(stored))
}

func (s *Server) handleSuggestPlan(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	plan, err := s.cleaning.SuggestPlan(r.Context(), stored.Dataset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req CleanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("invalid clean request: %v", err))
		return
	}
	cleaned, report := s.cleaning.Clean(r.Context(), stored.Dataset, req.Plan)
	child := s.store.Put(cleaned, stored.ID, "cleaned")
	s.log.Info("cleaned dataset %s -> %s (%d applied, %d skipped)", stored.ID, child.ID, report.Applied(), report.Skipped())
	s.writeJSON(w, http.StatusOK, CleanResponse{Dataset: summarize(child), Report: report})
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("invalid transform request: %v", err))
		return
	}
	transformed, report := s.cleaning.Transform(r.Context(), stored.Dataset, req.Actions)
	child := s.store.Put(transformed, stored.ID, "transformed")
	s.writeJSON(w, http.StatusOK, TransformResponse{Dataset: summarize(child), Report: report})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, analyze.Describe(stored.Dataset))
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, analyze.Correlate(stored.Dataset))
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	overview, err := s.analysis.Overview(r.Context(), stored.Dataset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("invalid test request: %v", err))
		return
	}
	result, err := s.analysis.RunTest(r.Context(), stored.Dataset, req.Params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	column := r.URL.Query().Get("column")
	if column == "" {
		s.writeError(w, errors.InvalidInput("histogram requires a column parameter"))
		return
	}
	bins := queryInt(r, "bins", 10)
	s.writeJSON(w, http.StatusOK, analyze.Histogram(stored.Dataset, column, bins))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	column := r.URL.Query().Get("column")
	if column == "" {
		s.writeError(w, errors.InvalidInput("categories requires a column parameter"))
		return
	}
	limit := queryInt(r, "limit", 10)
	s.writeJSON(w, http.StatusOK, analyze.CategoryCounts(stored.Dataset, column, limit))
}

func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	x := r.URL.Query().Get("x")
	y := r.URL.Query().Get("y")
	if x == "" || y == "" {
		s.writeError(w, errors.InvalidInput("scatter requires x and y column parameters"))
		return
	}
	limit := queryInt(r, "limit", 500)
	s.writeJSON(w, http.StatusOK, analyze.ScatterSample(stored.Dataset, x, y, limit))
}

func (s *Server) handleGroupMeans(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.lookup(w, r)
	if !ok {
		return
	}
	value := r.URL.Query().Get("value")
	group := r.URL.Query().Get("group")
	if value == "" || group == "" {
		s.writeError(w, errors.InvalidInput("group-means requires value and group column parameters"))
		return
	}
	s.writeJSON(w, http.StatusOK, analyze.GroupMeans(stored.Dataset, value, group, s.cfg.Engine.GroupMeanLimit))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (StoredDataset, bool) {
	id, err := core.ParseDatasetID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.InvalidInput("invalid dataset id"))
		return StoredDataset{}, false
	}
	stored, err := s.store.Get(id)
	if err != nil {
		s.writeError(w, err)
		return StoredDataset{}, false
	}
	return stored, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput, errors.CodeInsufficientData, errors.CodeColumnNotFound, errors.CodeReaderError:
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, ErrorResponse{Code: code, Message: err.Error()})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
