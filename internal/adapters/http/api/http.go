// Package api exposes the album browser and its settings over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	iterator "github.com/okian/nextalbum/internal/domain/iterator"
	"github.com/okian/nextalbum/internal/domain/model"
	"github.com/okian/nextalbum/pkg/logger"
	"golang.org/x/text/language"
)

// Result is the album under the browser cursor.
type Result = iterator.Result[*model.Album]

// Browser is the album browser driven by the browse routes.
type Browser interface {
	Start(ctx context.Context) (Result, error)
	Advance(ctx context.Context) (Result, error)
	Retreat(ctx context.Context) (Result, error)
	Exclude(ctx context.Context, current Result) (Result, error)
	Current() Result
	Len() int
	Invalidate()
}

// Store is the exclusion list and preference storage behind the
// management routes.
type Store interface {
	ListExclusions(ctx context.Context) ([]model.Exclusion, error)
	DeleteExclusion(ctx context.Context, id string) error
	GetPreferences(ctx context.Context) (model.Preferences, error)
	SetPreferences(ctx context.Context, p model.Preferences) error
}

// guardedBrowser serialises every call into a Browser, which is not safe
// for concurrent use.
type guardedBrowser struct {
	mu sync.Mutex
	b  Browser
}

func (g *guardedBrowser) do(fn func(b Browser) (Result, error)) (Result, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, err := fn(g.b)
	return r, g.b.Len(), err
}

func (g *guardedBrowser) invalidate() {
	g.mu.Lock()
	g.b.Invalidate()
	g.mu.Unlock()
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger for the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCollation sets the language used to order the exclusion list.
func WithCollation(tag language.Tag) Option {
	return func(s *Server) {
		s.collation = tag
	}
}

// Server wires HTTP routes for the browsing API.
type Server struct {
	logger    logger.Logger
	collation language.Tag

	healthHandler      *HealthHandler
	browseHandler      *BrowseHandler
	exclusionsHandler  *ExclusionsHandler
	preferencesHandler *PreferencesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(browser Browser, store Store, opts ...Option) *Server {
	s := &Server{collation: language.English}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	guarded := &guardedBrowser{b: browser}
	s.healthHandler = NewHealthHandler()
	s.browseHandler = NewBrowseHandler(guarded, s.logger)
	s.exclusionsHandler = NewExclusionsHandler(store, guarded, s.collation, s.logger)
	s.preferencesHandler = NewPreferencesHandler(store, guarded, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/browse/start", MetricsMiddleware(s.browseHandler.HandleStart, "browse_start"))
	mux.HandleFunc("/browse/next", MetricsMiddleware(s.browseHandler.HandleNext, "browse_next"))
	mux.HandleFunc("/browse/prev", MetricsMiddleware(s.browseHandler.HandlePrev, "browse_prev"))
	mux.HandleFunc("/browse/exclude", MetricsMiddleware(s.browseHandler.HandleExclude, "browse_exclude"))
	mux.HandleFunc("/exclusions", MetricsMiddleware(s.exclusionsHandler.HandleList, "exclusions"))
	mux.HandleFunc("/exclusions/", MetricsMiddleware(s.exclusionsHandler.HandleDelete, "exclusions_delete"))
	mux.HandleFunc("/preferences", MetricsMiddleware(s.preferencesHandler.HandlePreferences, "preferences"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status and writes it, logging server-side
// failures.
func writeFailure(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", logger.String("code", code), logger.Error(err))
	}
	writeError(w, status, code, err)
}
