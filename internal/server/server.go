package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"nordclean/internal/session"
	"nordclean/internal/submission"
	"nordclean/pkg/web3forms"
)

//go:embed templates/*.html
var templateFiles embed.FS

const shutdownTimeout = 10 * time.Second

type SelectionManager interface {
	Get(ctx context.Context, sessionID string) (session.Selection, error)
	SelectCleaningType(ctx context.Context, sessionID string, raw string) (session.Selection, error)
	SetFrequency(ctx context.Context, sessionID string, raw string) (session.Selection, error)
	SetHomeSize(ctx context.Context, sessionID string, raw string) (session.Selection, error)
}

type SubmissionRelay interface {
	Submit(ctx context.Context, sessionID string, contact submission.Contact, captchaToken string) (web3forms.Response, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, action, key string) error
}

type Options struct {
	Addr            string
	SessionTTL      time.Duration
	HCaptchaSiteKey string
	// Ready reports backend health for /healthz; nil means always ready.
	Ready func(ctx context.Context) error
}

// Server is the HTTP shell around the calculator.
type Server struct {
	router   *gin.Engine
	logger   *zap.Logger
	opts     Options
	sessions SelectionManager
	relay    SubmissionRelay
	limiter  RateLimiter
}

func New(opts Options, sessions SelectionManager, relay SubmissionRelay, limiter RateLimiter, logger *zap.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		router:   router,
		logger:   logger,
		opts:     opts,
		sessions: sessions,
		relay:    relay,
		limiter:  limiter,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/prislista.xlsx", s.handlePriceList)
	s.router.GET("/api/estimate", s.handleEstimate)

	withSession := s.router.Group("/", sessionMiddleware(s.opts.SessionTTL))
	{
		withSession.GET("/", s.handleIndex)
		withSession.POST("/submit", rateLimit(s.limiter, "submit", s.logger), s.handleSubmit)

		api := withSession.Group("/api/selection")
		api.GET("", s.handleGetSelection)
		api.POST("/type", s.handleSetCleaningType)
		api.POST("/frequency", s.handleSetFrequency)
		api.POST("/size", s.handleSetHomeSize)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.opts.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
