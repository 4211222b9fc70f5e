package devserver

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weft-ui/weft/internal/config"
	"github.com/weft-ui/weft/pkg/element"
	"github.com/weft-ui/weft/pkg/snapshot"
)

// Server hosts registered elements over HTTP and WebSocket.
type Server struct {
	cfg      *config.Config
	registry *Registry
	renderer *HTMLRenderer

	observers []element.Observer
	snapshots snapshot.Store

	upgrader websocket.Upgrader
	logger   *log.Logger

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the project configuration. Defaults apply when
// omitted.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		s.cfg = cfg
	}
}

// WithObserver attaches an observer to every instance the server
// constructs. May be given multiple times.
func WithObserver(o element.Observer) Option {
	return func(s *Server) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithSnapshotStore sets the store backing the snapshot endpoint.
// Defaults to an in-memory store.
func WithSnapshotStore(st snapshot.Store) Option {
	return func(s *Server) {
		if st != nil {
			s.snapshots = st
		}
	}
}

// WithLogger sets the server's logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a dev server serving the registry's elements.
func NewServer(registry *Registry, opts ...Option) *Server {
	s := &Server{
		cfg:      config.New(),
		registry: registry,
		renderer: NewHTMLRenderer(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
		snapshots: snapshot.NewMemoryStore(),
		logger:    log.New(os.Stderr, "[weft] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the server's route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/elements/{name}", s.handleElementPage)
	r.Post("/elements/{name}/snapshot", s.handleTakeSnapshot)
	r.Get("/snapshots/{id}", s.handleGetSnapshot)
	r.Get("/ws/{name}", s.handleWebSocket)

	if s.cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.DevAddress(),
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("dev server listening on http://%s", s.cfg.DevAddress())
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleIndex lists the registered elements.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndexPage(w, s.registry.Names())
}

// handleElementPage serves the host page for one element.
func (s *Server) handleElementPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def := s.registry.Lookup(name)
	if def == nil {
		http.NotFound(w, r)
		return
	}
	s.renderElementPage(w, def)
}

// handleWebSocket runs one instance session per connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def := s.registry.Lookup(name)
	if def == nil {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("websocket upgrade for %q: %v", name, err)
		return
	}

	sess := newSession(s, conn, def)
	sess.run()
}
