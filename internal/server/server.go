// Package server wires configuration, the worker transport and the HTTP routes.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	awsclient "github.com/cyphera/cyphera-metrics/internal/client/aws"
	"github.com/cyphera/cyphera-metrics/internal/config"
	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/handlers"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/cyphera/cyphera-metrics/internal/middleware"
	"github.com/cyphera/cyphera-metrics/internal/worker"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Worker kinds reported by /health.
const (
	WorkerPool = "pool"
	WorkerSQS  = "sqs"
)

const shutdownTimeout = 10 * time.Second

// Server owns the router and the worker backing it.
type Server struct {
	cfg     *config.Config
	router  *gin.Engine
	pool    *worker.Pool
	limiter *middleware.RateLimiter
	cancel  context.CancelFunc
}

// New builds a server for cfg. Derivation runs on an in-process pool unless an
// SQS request queue is configured.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	if !cfg.UseSQS() {
		pool := worker.NewPool(cfg.Worker.Count, cfg.Worker.QueueSize, cfg.Worker.ResponseBuffer)
		pool.Start()
		s := NewWithOpener(cfg, pool, WorkerPool)
		s.pool = pool
		return s, nil
	}

	client, err := awsclient.NewSQSClient(ctx, cfg.SQS.EndpointURL)
	if err != nil {
		return nil, err
	}
	opener := &worker.SQSOpener{
		Client:           client,
		RequestQueueURL:  cfg.SQS.RequestQueueURL,
		ResponseQueueURL: cfg.SQS.ResponseQueueURL,
		WaitSeconds:      cfg.SQS.WaitSeconds,
	}
	logger.Info("Using SQS worker",
		zap.String("request_queue", cfg.SQS.RequestQueueURL),
		zap.String("response_queue", cfg.SQS.ResponseQueueURL),
	)
	return NewWithOpener(cfg, opener, WorkerSQS), nil
}

// NewWithOpener builds a server whose charts route derives through opener.
func NewWithOpener(cfg *config.Config, opener worker.Opener, workerKind string) *Server {
	if cfg.Stage == constants.ProdEnvironment {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:     cfg,
		router:  gin.New(),
		limiter: middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		cancel:  cancel,
	}
	go s.limiter.Run(ctx)

	InitializeRoutes(s.router, cfg, s.limiter,
		handlers.NewChartsHandler(opener, 0),
		handlers.NewHealthHandler(cfg.Stage, workerKind),
	)
	return s
}

// InitializeRoutes installs middleware and routes on router.
func InitializeRoutes(router *gin.Engine, cfg *config.Config, limiter *middleware.RateLimiter, charts *handlers.ChartsHandler, health *handlers.HealthHandler) {
	router.Use(gin.Recovery())
	router.Use(configureCORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware())
	router.Use(limiter.Middleware())

	router.GET("/health", health.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/charts", middleware.BodyLimitMiddleware(worker.DefaultMaxMessageBytes), charts.DeriveCharts)
	}
}

// Handler returns the router.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// Run serves HTTP on the configured port until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close stops the rate limiter cleanup and the worker pool, if any.
func (s *Server) Close() {
	s.cancel()
	if s.pool != nil {
		s.pool.Stop()
	}
}

func configureCORS(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.CorrelationIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.CorrelationIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}
	return cors.New(corsConfig)
}
