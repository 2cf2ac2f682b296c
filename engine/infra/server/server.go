// Package server hosts the HTTP API: deck generation under the
// versioned API base, a liveness probe, and the optional Prometheus
// metrics endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	deckrouter "github.com/ankigen/ankigen/engine/deck/router"
	deckuc "github.com/ankigen/ankigen/engine/deck/uc"
	"github.com/ankigen/ankigen/engine/export"
	"github.com/ankigen/ankigen/engine/infra/monitoring"
	"github.com/ankigen/ankigen/engine/infra/server/middleware/size"
	"github.com/ankigen/ankigen/engine/infra/server/routes"
	"github.com/ankigen/ankigen/engine/jlpt"
	"github.com/ankigen/ankigen/engine/morph"
	"github.com/ankigen/ankigen/engine/reading"
	"github.com/ankigen/ankigen/pkg/config"
	"github.com/ankigen/ankigen/pkg/logger"
	"github.com/ankigen/ankigen/pkg/version"
)

const (
	httpReadTimeout       = 15 * time.Second
	httpIdleTimeout       = 60 * time.Second
	serverShutdownTimeout = 5 * time.Second
	hostAny               = "0.0.0.0"
	hostLoopback          = "127.0.0.1"
)

// Server wires the morphological analyzer, reading generator, and
// exporters behind a Gin router. The analyzer and reading generator
// load their dictionaries once here; both are read-only afterwards and
// shared by every request.
type Server struct {
	config     *config.Config
	router     *gin.Engine
	monitoring *monitoring.Service
	httpServer *http.Server
}

// NewServer builds a Server from the configuration attached to ctx.
func NewServer(ctx context.Context) (*Server, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("configuration missing from context; attach a manager with config.ContextWithManager")
	}
	s := &Server{config: cfg}
	s.monitoring = monitoring.NewMonitoringServiceWithFallback(ctx, &monitoring.Config{
		Enabled: cfg.Monitoring.Enabled,
		Path:    cfg.Monitoring.Path,
	})
	s.monitoring.SetAsGlobal()
	if err := s.buildRouter(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) buildRouter(ctx context.Context) error {
	if s.config.Runtime.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	analyzer, err := morph.New(morph.Config{Dict: s.config.Analyzer.Dict, Mode: s.config.Analyzer.Mode})
	if err != nil {
		return fmt.Errorf("failed to build analyzer: %w", err)
	}
	reader, err := reading.NewGenerator(s.config.Analyzer.Dict)
	if err != nil {
		return fmt.Errorf("failed to build reading generator: %w", err)
	}
	minLevel, err := jlpt.Parse(s.config.Filter.MinLevel)
	if err != nil {
		return fmt.Errorf("invalid filter.min_level: %w", err)
	}
	format, err := export.ParseFormat(s.config.Output.Format)
	if err != nil {
		return fmt.Errorf("invalid output.format: %w", err)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	if s.monitoring.IsInitialized() {
		r.Use(s.monitoring.GinMiddleware(ctx))
	}
	r.Use(LoggerMiddleware(ctx))
	if s.config.Server.CORSEnabled {
		r.Use(CORSMiddleware())
	}
	r.Use(size.Limit(int64(s.config.Server.MaxUploadMB) << 20))
	r.GET(routes.Health(), healthHandler)
	if s.monitoring.IsInitialized() {
		r.GET(s.monitoring.Path(), gin.WrapH(s.monitoring.ExporterHandler()))
	}
	api := r.Group(routes.Base())
	handler := deckrouter.NewHandler(deckuc.NewGenerate(analyzer, reader), deckrouter.Defaults{
		MinLevel: minLevel,
		Format:   format,
		Sheet:    s.config.Output.Sheet,
	})
	deckrouter.Register(api, handler)
	s.router = r
	return nil
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.GetVersion()})
}

// Run serves HTTP until ctx is canceled or the process receives SIGINT
// or SIGTERM, then drains in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logger.FromContext(ctx)
	s.httpServer = s.createHTTPServer()
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logStartupBanner(ctx)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutdown signal received, draining requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := s.monitoring.Shutdown(shutdownCtx); err != nil {
		log.Warn("monitoring shutdown failed", "error", err)
	}
	log.Info("server shutdown completed")
	return nil
}

func (s *Server) createHTTPServer() *http.Server {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	return &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: httpReadTimeout,
		// Generation on large documents needs a longer write window
		// than a static response, so it comes from configuration.
		WriteTimeout: s.config.Server.Timeout,
		IdleTimeout:  httpIdleTimeout,
	}
}

func (s *Server) logStartupBanner(ctx context.Context) {
	log := logger.FromContext(ctx)
	httpURL := fmt.Sprintf("http://%s:%d", friendlyHost(s.config.Server.Host), s.config.Server.Port)
	lines := []string{
		fmt.Sprintf("ankigen %s", version.GetVersion()),
		fmt.Sprintf("  Decks   > %s%s", httpURL, routes.Decks()),
		fmt.Sprintf("  Health  > %s%s", httpURL, routes.Health()),
	}
	if s.monitoring.IsInitialized() {
		lines = append(lines, fmt.Sprintf("  Metrics > %s%s", httpURL, s.monitoring.Path()))
	}
	log.Info("\n" + strings.Join(lines, "\n"))
}

func friendlyHost(h string) string {
	if h == hostAny || h == "::" || h == "" {
		return hostLoopback
	}
	return h
}
