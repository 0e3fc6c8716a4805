package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/five82/logstory/internal/analyze"
	"github.com/five82/logstory/internal/config"
	"github.com/five82/logstory/internal/highlight"
	"github.com/five82/logstory/internal/logstore"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Config  config.Config
	Store   logstore.Store
	Logger  zerolog.Logger
	Version string
}

// Server is the HTTP and socket front of the analysis engine.
type Server struct {
	cfg     config.Config
	store   logstore.Store
	log     zerolog.Logger
	version string

	catalog *catalog
	engine  analyze.Engine
	palette *highlight.Palette
	echo    *echo.Echo

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// New builds a Server. A nil Store means an in-memory one.
func New(opts Options) *Server {
	store := opts.Store
	if store == nil {
		store = logstore.NewMemory()
	}
	s := &Server{
		cfg:     opts.Config,
		store:   store,
		log:     opts.Logger,
		version: opts.Version,
		catalog: newCatalog(opts.Config.PatternsFile),
		engine:  analyze.Engine{Timeout: opts.Config.RegexTimeout},
		palette: highlight.NewPalette(),
		conns:   make(map[net.Conn]struct{}),
	}
	s.echo = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			ev := s.log.Debug()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = s.log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	e.GET("/", s.handleIndex)
	e.GET("/static/*", s.handleStatic)
	e.GET("/ws", s.handleSocket)

	g := e.Group("/api")
	g.GET("/health", s.handleHealth)
	g.GET("/log-types", s.handleLogTypes)
	g.GET("/patterns/:log_type", s.handlePatterns)
	g.POST("/upload-log", s.handleUpload, middleware.BodyLimit(strconv.FormatInt(s.maxUpload(), 10)))
	g.GET("/log-content/:log_type", s.handleLogContent)
	g.DELETE("/uploads/:log_type", s.handleDeleteUpload)
	g.POST("/validate", s.handleValidate)
	g.POST("/render", s.handleRender)
	return e
}

func (s *Server) maxUpload() int64 {
	if s.cfg.MaxUploadBytes > 0 {
		return s.cfg.MaxUploadBytes
	}
	return 32 << 20
}

// handleError renders every failure as {"error": "..."}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if code >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"error": msg})
}

// Listen binds addr, or the configured listen address when addr is empty.
func (s *Server) Listen(addr string) (net.Listener, error) {
	if addr == "" {
		addr = s.cfg.Listen
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

// Serve handles connections on ln until ctx is done, then shuts down
// gracefully and drops any open sockets.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.closeSockets()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info().Msg("server stopped")
	return nil
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) closeSockets() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
		delete(s.conns, conn)
	}
}
