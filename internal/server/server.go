package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/shoplist/internal/discovery"
	"github.com/muurk/shoplist/internal/itemstore"
	"github.com/muurk/shoplist/internal/logging"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 5 * time.Second

// Config holds the server configuration
type Config struct {
	Addr      string // Listen address (e.g., ":8080")
	Advertise bool   // Announce over mDNS
	Instance  string // mDNS instance name
	Version   string // Reported in the TXT record and /healthz
}

// Server serves an item store over HTTP with a websocket change feed
type Server struct {
	config *Config
	store  itemstore.Store
	hub    *Hub
	router chi.Router

	listener net.Listener
	ready    chan struct{}
}

// New creates a server for store
func New(config *Config, store itemstore.Store) *Server {
	s := &Server{
		config: config,
		store:  store,
		hub:    NewHub(),
		ready:  make(chan struct{}),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the change-feed hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Ready is closed once the server is listening
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address. Valid after Ready is closed.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/events", s.hub.ServeHTTP)
	r.Route("/items", NewItemsHandler(s.store, s.hub).RegisterRoutes)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"version":     s.config.Version,
		"subscribers": s.hub.Subscribers(),
	})
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.listener = listener

	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Item store listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("version", s.config.Version),
	)

	var advert *zeroconf.Server
	if s.config.Advertise {
		advert, err = s.advertise(listener.Addr())
		if err != nil {
			// Serving still works without mDNS
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
	}
	close(s.ready)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down item store")

		if advert != nil {
			advert.Shutdown()
		}
		s.hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown timeout exceeded: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (s *Server) advertise(addr net.Addr) (*zeroconf.Server, error) {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return nil, fmt.Errorf("unexpected listener address %T", addr)
	}

	txt := []string{
		discovery.TXTPath + "=" + discovery.DefaultPath,
		discovery.TXTVersion + "=" + s.config.Version,
	}

	advert, err := zeroconf.Register(s.config.Instance, discovery.ServiceType, discovery.ServiceDomain, tcpAddr.Port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising over mDNS",
		zap.String("instance", s.config.Instance),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", tcpAddr.Port),
	)
	return advert, nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logging.Info("HTTP request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
