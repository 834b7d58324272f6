package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/CSCSoftware/evolution-mcp/store"
)

// DefaultPath is the URL prefix the gateway posts events to.
const DefaultPath = "/webhook"

// State is the lifecycle state of a Server.
type State int32

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "stopped"
}

// Options configures a Server.
type Options struct {
	Path   string
	Logger *slog.Logger
}

// Server receives gateway webhook callbacks and feeds them to a store.
// At most one Listener is active per Server.
type Server struct {
	store   *store.Store
	path    string
	logger  *slog.Logger
	handler http.Handler

	mu       sync.Mutex
	state    State
	listener *Listener
}

// Listener is the running HTTP listener returned by Start.
type Listener struct {
	port int
	path string
	srv  *http.Server
	done chan struct{}
}

// Port returns the TCP port the listener is bound to.
func (l *Listener) Port() int { return l.port }

// URL returns the local webhook URL.
func (l *Listener) URL() string { return URL(l.port, l.path) }

// URL builds the local webhook URL for a port and path.
func URL(port int, path string) string {
	if path == "" {
		path = DefaultPath
	}
	return fmt.Sprintf("http://localhost:%d%s", port, path)
}

// New creates a stopped Server.
func New(st *store.Store, opts Options) *Server {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		store:  st,
		path:   opts.Path,
		logger: opts.Logger,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the webhook HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Path returns the configured URL prefix.
func (s *Server) Path() string { return s.path }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.With(s.requirePrefix).Post("/*", s.handleEvent)
	return r
}

// Start binds the listener on port and serves in the background. When the
// server is already running the existing Listener is returned.
func (s *Server) Start(port int) (*Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		s.logger.Info("webhook listener already running", "url", s.listener.URL())
		return s.listener, nil
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}

	l := &Listener{
		port: ln.Addr().(*net.TCPAddr).Port,
		path: s.path,
		srv: &http.Server{
			Handler:           s.handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		done: make(chan struct{}),
	}

	go func() {
		defer close(l.done)
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("webhook listener failed", "error", err)
		}
	}()

	s.state = StateRunning
	s.listener = l
	s.logger.Info("webhook listener started", "url", l.URL())
	return l, nil
}

// Stop closes the listener. Stopping a stopped server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateStopped {
		return nil
	}

	l := s.listener
	err := l.srv.Shutdown(ctx)
	<-l.done

	s.state = StateStopped
	s.listener = nil
	s.logger.Info("webhook listener stopped")
	return err
}

// State reports whether the server is running.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Running is shorthand for State() == StateRunning.
func (s *Server) Running() bool {
	return s.State() == StateRunning
}

// Listener returns the active listener, or nil when stopped.
func (s *Server) Listener() *Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener
}
