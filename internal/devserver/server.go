// Package devserver serves the output tree locally, rebuilds the site when
// sources change and pushes reload notifications to open browsers.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	reloadPath      = "/_sitegen/ws"
	statusPath      = "/_sitegen/status"
	notFoundPage    = "404.html"
	shutdownTimeout = 5 * time.Second
)

var ErrBuilderRequired = errors.New("devserver: builder required")

// Builder runs site builds.
type Builder interface {
	Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error)
}

// Config configures the server.
type Config struct {
	Host string
	Port int
	// Root is the output directory served over HTTP.
	Root string
	// Watch lists source directories or files that trigger rebuilds.
	Watch      []string
	Debounce   time.Duration
	LiveReload bool
}

// Dependencies wires the server. Files defaults to os.DirFS(Root).
type Dependencies struct {
	Builder Builder
	Files   fs.FS
	Logger  interfaces.Logger
}

// Server is the development server.
type Server struct {
	cfg     Config
	builder Builder
	files   fs.FS
	logger  interfaces.Logger
	hub     *Hub
	router  *mux.Router

	mu        sync.RWMutex
	generated map[string]struct{}
	status    Status
}

// Status describes the most recent build.
type Status struct {
	Building    bool      `json:"building"`
	Builds      int       `json:"builds"`
	PagesBuilt  int       `json:"pages_built"`
	PagesFailed int       `json:"pages_failed"`
	Error       string    `json:"error,omitempty"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
	Clients     int       `json:"clients"`
}

// New constructs a server.
func New(cfg Config, deps Dependencies) (*Server, error) {
	if deps.Builder == nil {
		return nil, ErrBuilderRequired
	}
	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = "."
	}
	files := deps.Files
	if files == nil {
		files = os.DirFS(cfg.Root)
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	s := &Server{
		cfg:       cfg,
		builder:   deps.Builder,
		files:     files,
		logger:    logger,
		hub:       newHub(logger),
		generated: map[string]struct{}{},
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Handle(reloadPath, s.hub)
	router.HandleFunc(statusPath, s.handleStatus).Methods(http.MethodGet)

	var site http.Handler = s.fileHandler()
	if s.cfg.LiveReload {
		site = liveReload(site)
	}
	router.PathPrefix("/").Handler(noCache(site)).Methods(http.MethodGet, http.MethodHead)
	return router
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub exposes the live-reload hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Status returns a snapshot of the last build.
func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := s.status
	status.Clients = s.hub.Count()
	return status
}

// Rebuild runs a full build and notifies clients when it succeeds. A build
// with isolated page failures still reloads since its output was written.
func (s *Server) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	s.status.Building = true
	s.mu.Unlock()

	started := time.Now()
	result, err := s.builder.Build(ctx, generator.BuildOptions{})

	s.mu.Lock()
	s.status.Building = false
	s.status.Builds++
	s.status.FinishedAt = time.Now()
	s.status.Error = ""
	if err != nil {
		s.status.Error = err.Error()
	}
	if result != nil {
		s.status.PagesBuilt = result.PagesBuilt
		s.status.PagesFailed = result.PagesFailed
		s.recordGenerated(result)
	}
	s.mu.Unlock()

	logger := logging.WithFields(s.logger, map[string]any{"duration": time.Since(started)})
	if result == nil {
		logger.Error("devserver.rebuild_failed", "error", err)
		return err
	}
	if err != nil {
		logger.Warn("devserver.rebuild_partial", "pages_failed", result.PagesFailed, "error", err)
	} else {
		logger.Info("devserver.rebuilt", "pages", result.PagesBuilt)
	}
	s.hub.Broadcast(ReloadMessage)
	return err
}

// recordGenerated remembers the build outputs so writes to them do not
// retrigger the watcher. Callers hold s.mu.
func (s *Server) recordGenerated(result *generator.BuildResult) {
	generated := make(map[string]struct{}, len(result.Rendered)+len(result.Artifacts))
	for _, page := range result.Rendered {
		generated[s.absolute(page.Output)] = struct{}{}
	}
	for _, artifact := range result.Artifacts {
		generated[s.absolute(artifact)] = struct{}{}
	}
	s.generated = generated
}

func (s *Server) absolute(rel string) string {
	abs, err := filepath.Abs(filepath.Join(s.cfg.Root, filepath.FromSlash(rel)))
	if err != nil {
		return filepath.Clean(rel)
	}
	return abs
}

// ignored reports whether a filesystem event was caused by the generator.
func (s *Server) ignored(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".sitegen") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return true
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.generated[abs]
	return ok
}

// Run performs the initial build, starts watching and serves until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Rebuild(ctx); err != nil {
		s.logger.Warn("devserver.initial_build_failed", "error", err)
	}

	w, err := newWatcher(s.cfg.Watch, s.cfg.Debounce, s.ignored, s.logger)
	if err != nil {
		return err
	}
	go w.run(ctx, func(changed string) {
		s.logger.Info("devserver.change_detected", "path", changed)
		_ = s.Rebuild(ctx)
	})

	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devserver.listening", "addr", "http://"+s.Addr(), "root", s.cfg.Root)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("devserver: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("devserver: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(s.Status())
}

// fileHandler serves the output tree, answering unknown paths with the
// generated 404 page when one exists.
func (s *Server) fileHandler() http.Handler {
	files := http.FileServerFS(s.files)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = "."
		}
		info, err := fs.Stat(s.files, name)
		if err == nil && info.IsDir() {
			_, err = fs.Stat(s.files, path.Join(name, "index.html"))
		}
		if err != nil {
			s.serveNotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	body, err := fs.ReadFile(s.files, notFoundPage)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(body)
}
