// Package web serves the shopping page and the password-gated editors over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/shoplist/pkg/application/services/editor"
	"github.com/vsinha/shoplist/pkg/application/session"
	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/infrastructure/events"
	"github.com/vsinha/shoplist/pkg/infrastructure/metrics"
	"github.com/vsinha/shoplist/pkg/interfaces/cli/output"
	"github.com/vsinha/shoplist/pkg/shoplist"
)

//go:embed templates/*
var templateFS embed.FS

var pages = []string{
	"shopping.gohtml",
	"login.gohtml",
	"recipes.gohtml",
	"baseline.gohtml",
	"history.gohtml",
	"error.gohtml",
}

// Dependencies are the services a Server renders and mutates.
type Dependencies struct {
	Planner        *shoplist.Planner
	RecipeEditor   *editor.RecipeEditor
	BaselineEditor *editor.BaselineEditor
	Gate           *editor.Gate
	Events         *events.InMemoryEventStore
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
}

// Server provides the HTTP wiring between the browser and the shopping services.
type Server struct {
	deps        Dependencies
	templates   map[string]*template.Template
	sessions    *SessionRegistry
	logger      *zap.Logger
	idleTimeout time.Duration
}

// New builds the server with parsed templates so each request only executes them.
func New(deps Dependencies) (*Server, error) {
	if deps.Planner == nil || deps.RecipeEditor == nil || deps.BaselineEditor == nil || deps.Gate == nil {
		return nil, errors.New("web: planner, editors and gate are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Events == nil {
		deps.Events = events.NewInMemoryEventStore(deps.Logger)
	}

	funcs := template.FuncMap{
		"qty":        output.FormatQuantity,
		"units":      func() []entities.Unit { return entities.Units },
		"categories": func() []entities.Category { return entities.Categories },
	}
	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.gohtml", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	planner := deps.Planner
	return &Server{
		deps:      deps,
		templates: templates,
		sessions: NewSessionRegistry(func(string) *session.Session {
			return planner.NewSession()
		}),
		logger:      deps.Logger,
		idleTimeout: DefaultIdleTimeout,
	}, nil
}

// Sessions exposes the session registry.
func (s *Server) Sessions() *SessionRegistry {
	return s.sessions
}

// Handler returns the mux with every route, wrapped with logging and metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.withSession(s.shoppingPage))
	mux.HandleFunc("POST /select", s.withSession(s.selectRecipes))
	mux.HandleFunc("POST /extras", s.withSession(s.addExtra))
	mux.HandleFunc("POST /generate", s.withSession(s.generate))
	mux.HandleFunc("POST /reset", s.withSession(s.reset))
	mux.HandleFunc("GET /export.csv", s.withSession(s.exportCSV))

	mux.HandleFunc("GET /recipes", s.withSession(s.recipesPage))
	mux.HandleFunc("POST /recipes/login", s.withSession(s.login(editor.EditorRecipes, "/recipes")))
	mux.HandleFunc("POST /recipes/save", s.withSession(s.saveRecipe))
	mux.HandleFunc("POST /recipes/delete", s.withSession(s.deleteRecipe))

	mux.HandleFunc("GET /baseline", s.withSession(s.baselinePage))
	mux.HandleFunc("POST /baseline/login", s.withSession(s.login(editor.EditorBaseline, "/baseline")))
	mux.HandleFunc("POST /baseline/save", s.withSession(s.saveBaselineItem))
	mux.HandleFunc("POST /baseline/delete", s.withSession(s.deleteBaselineItem))

	mux.HandleFunc("GET /history", s.history)
	mux.Handle("GET /metrics", s.deps.Metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	return s.instrument(mux)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the HTTP server and the idle-session sweeper on ln, shutting
// both down gracefully when ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("web server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("web server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := s.sessions.Sweep(s.idleTimeout); n > 0 {
					s.logger.Debug("idle sessions dropped", zap.Int("count", n))
				}
				s.deps.Metrics.SetSessions(s.sessions.Len())
			}
		}
	})
	return g.Wait()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.deps.Metrics.ObserveRequest(route, rec.status)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, st *sessionState)

// withSession resolves the cookie session and holds its lock for the request.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, created := s.sessions.acquire(w, r)
		if created {
			s.deps.Metrics.SetSessions(s.sessions.Len())
			s.logger.Debug("session started", zap.String("session", st.sess.ID))
		}
		st.mu.Lock()
		defer st.mu.Unlock()
		h(w, r, st)
	}
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := s.templates[name]
	if !ok {
		http.Error(w, "unknown page "+name, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("template execution failed", zap.String("page", name), zap.Error(err))
	}
}

// fail renders the error page for failures the user cannot fix from the form,
// such as an unreadable record store.
func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	s.render(w, http.StatusInternalServerError, "error.gohtml", errorPage{
		page:    page{Title: "Erro"},
		Message: err.Error(),
	})
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
