// Package server exposes the directory, the WebFinger resolver and the
// latency window over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cvhariharan/actordir/models"
)

type Directory interface {
	CreateActor(ctx context.Context, username, displayName, summary string) (*models.ActorRecord, error)
	GetActor(ctx context.Context, username string) (*models.ActorRecord, error)
}

type Resolver interface {
	Resolve(ctx context.Context, resource string) (*models.WebFingerResp, error)
}

type Telemetry interface {
	Observe(ctx context.Context, start time.Time) error
	Snapshot(ctx context.Context) (models.MetricsSnapshot, error)
}

type Server struct {
	echo     *echo.Echo
	dir      Directory
	resolver Resolver
	window   Telemetry
	metrics  *httpMetrics
	log      *zap.Logger
}

func New(dir Directory, resolver Resolver, window Telemetry, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		echo:     echo.New(),
		dir:      dir,
		resolver: resolver,
		window:   window,
		metrics:  newHTTPMetrics(),
		log:      log,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError

	// Latency is recorded outside everything but panic recovery so failed,
	// unmatched and panicking requests are all timed.
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.recordLatency)
	s.echo.Use(s.metrics.middleware)
	s.echo.Use(s.requestLogger())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.index)
	s.echo.GET("/metrics", s.metricsSnapshot)
	s.echo.GET("/metrics/prometheus", echo.WrapHandler(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
	s.echo.GET("/.well-known/webfinger", s.webfinger)
	s.echo.POST("/api/users", s.createUser)
	s.echo.GET("/users/:username", s.actor)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info("server starting", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
