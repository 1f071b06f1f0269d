// Package fixture serves a small in-memory release catalog over the same
// HTTP surface as the real backend. It backs offline demos (rb fixture) and
// the end-to-end tests of the API client.
package fixture

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	defaultPerPage     = 50
	maxPerPage         = 1000
	defaultPeopleLimit = 100
)

// Server is an http.Handler answering from a Dataset.
type Server struct {
	router *chi.Mux
	data   *Dataset
	delay  time.Duration
	faults map[string]int
	files  string
	logger *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithDataset replaces the embedded demo catalog.
func WithDataset(ds *Dataset) Option {
	return func(s *Server) { s.data = ds }
}

// WithDelay holds every response for d, or until the client gives up.
func WithDelay(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// WithFault makes path answer with status instead of its normal body.
func WithFault(path string, status int) Option {
	return func(s *Server) { s.faults[path] = status }
}

// WithFiles serves /files/<path> from dir. Without it every file is a 404.
func WithFiles(dir string) Option {
	return func(s *Server) { s.files = dir }
}

// WithLogger logs one line per request.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a Server. Without WithDataset it serves the embedded catalog.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		faults: map[string]int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.data == nil {
		ds, err := Default()
		if err != nil {
			return nil, err
		}
		s.data = ds
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Dataset returns the catalog being served.
func (s *Server) Dataset() *Dataset {
	return s.data
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	if s.logger != nil {
		s.router.Use(s.requestLogger)
	}
	s.router.Use(s.slow)
	s.router.Use(s.inject)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/people", s.handlePeople)
		r.Get("/documents", s.handleDocuments)
		r.Get("/documents/{id}", s.handleDocument)
	})

	s.router.Get("/curated/manifest.json", s.handleManifest)

	if s.files != "" {
		s.router.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(s.files))))
	} else {
		s.router.Get("/files/*", func(w http.ResponseWriter, r *http.Request) {
			writeDetail(w, http.StatusNotFound, "File not found")
		})
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", ww.Status(),
			"dur", time.Since(start).Round(time.Millisecond),
			"rid", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) slow(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.delay > 0 {
			t := time.NewTimer(s.delay)
			defer t.Stop()
			select {
			case <-r.Context().Done():
				return
			case <-t.C:
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code, ok := s.faults[r.URL.Path]; ok {
			writeDetail(w, code, "injected fault")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.data.Stats())
}

type documentsPage struct {
	Results    []json.RawMessage `json:"results"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, ok := intParam(w, q.Get("page"), "page", 1, 1, 0)
	if !ok {
		return
	}
	perPage, ok := intParam(w, q.Get("per_page"), "per_page", defaultPerPage, 1, maxPerPage)
	if !ok {
		return
	}

	sel := Query{Type: q.Get("type")}
	if v := q.Get("flightlogs"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "flightlogs must be a boolean")
			return
		}
		sel.Flightlogs = &b
	}

	all := s.data.Select(sel)
	start := min((page-1)*perPage, len(all))
	end := min(start+perPage, len(all))

	writeJSON(w, http.StatusOK, documentsPage{
		Results:    all[start:end],
		Total:      len(all),
		Page:       page,
		PerPage:    perPage,
		TotalPages: (len(all) + perPage - 1) / perPage,
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.data.Find(chi.URLParam(r, "id"))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Document not found")
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, ok := intParam(w, q.Get("limit"), "limit", defaultPeopleLimit, 1, 0)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.data.People(q.Get("type"), limit))
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.data.Manifest)
}

// intParam parses an optional integer query parameter. hi <= 0 means no
// upper bound. On failure it writes a 422 and returns false.
func intParam(w http.ResponseWriter, v, name string, def, lo, hi int) (int, bool) {
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || (hi > 0 && n > hi) {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid "+name)
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
