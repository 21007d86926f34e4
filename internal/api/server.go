// Package api serves the HTTP surface: alert history, live status, an SSE
// event stream and runtime settings updates.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"intraday-alert-bot/internal/cache"
	"intraday-alert-bot/internal/database"
	"intraday-alert-bot/internal/engine"
	"intraday-alert-bot/internal/events"
	"intraday-alert-bot/internal/feed"
)

// RateLimiter provides simple in-memory rate limiting per endpoint.
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int
	window   time.Duration
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow checks if a request is allowed for the given key.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-r.window)

	var recent []time.Time
	for _, t := range r.requests[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit {
		r.requests[key] = recent
		return false
	}

	r.requests[key] = append(recent, now)
	return true
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host           string
	Port           int
	ProductionMode bool
	RateLimit      int
	RateWindow     time.Duration
}

// Server is the HTTP API server.
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	cfg         ServerConfig
	symbol      string
	runner      *feed.Runner
	repo        *database.Repository
	cache       *cache.Cache
	bus         *events.Bus
	registry    *prometheus.Registry
	rateLimiter *RateLimiter
	log         zerolog.Logger
}

// NewServer creates the API server and registers all routes.
func NewServer(
	cfg ServerConfig,
	symbol string,
	runner *feed.Runner,
	repo *database.Repository,
	c *cache.Cache,
	bus *events.Bus,
	registry *prometheus.Registry,
	log zerolog.Logger,
) *Server {
	if cfg.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 120
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	router.Use(cors.New(corsConfig))

	s := &Server{
		router:      router,
		cfg:         cfg,
		symbol:      symbol,
		runner:      runner,
		repo:        repo,
		cache:       c,
		bus:         bus,
		registry:    registry,
		rateLimiter: NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
		log:         log.With().Str("component", "api").Logger(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	if s.registry != nil {
		s.router.GET("/metrics", gin.WrapH(
			promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	api := s.router.Group("/api")
	api.Use(s.rateLimitMiddleware())
	{
		api.GET("/status", s.handleStatus)
		api.GET("/alerts", s.handleAlerts)
		api.GET("/alerts/latest", s.handleLatestAlert)
		api.GET("/alerts/stream", s.handleAlertStream)
		api.GET("/settings", s.handleGetSettings)
		api.PUT("/settings", s.handlePutSettings)
	}
}

func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + c.FullPath()
		if !s.rateLimiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// Start runs the HTTP server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info().Str("addr", s.httpServer.Addr).Msg("api server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

func (s *Server) handleStatus(c *gin.Context) {
	if s.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "runner not attached"})
		return
	}
	c.JSON(http.StatusOK, s.runner.Status())
}

// parseLimit parses a limit query parameter. Only a plain positive integer
// within bounds is accepted; "50abc" is a client error, not 50.
func parseLimit(raw string, def, max int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > max {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return n, nil
}

func (s *Server) handleAlerts(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "alert history not available"})
		return
	}

	limit, err := parseLimit(c.Query("limit"), 50, 500)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	var alerts []engine.Alert
	if t := c.Query("type"); t != "" {
		alerts, err = s.repo.GetAlertsByType(c.Request.Context(), s.symbol, engine.AlertType(t), limit)
	} else {
		alerts, err = s.repo.GetRecentAlerts(c.Request.Context(), s.symbol, limit)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("query alerts failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if alerts == nil {
		alerts = []engine.Alert{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

func (s *Server) handleLatestAlert(c *gin.Context) {
	if s.cache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache not available"})
		return
	}

	alert, err := s.cache.GetLatestAlert(c.Request.Context(), s.symbol)
	if errors.Is(err, cache.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no alert yet"})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("cache read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache read failed"})
		return
	}
	c.JSON(http.StatusOK, alert)
}

// handleAlertStream pushes engine events to the client over SSE until the
// client disconnects.
func (s *Server) handleAlertStream(c *gin.Context) {
	if s.bus == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event bus not available"})
		return
	}

	eventCh := make(chan events.Event, 64)
	unsubscribe := s.bus.SubscribeAll(func(e events.Event) {
		select {
		case eventCh <- e:
		default:
			// Slow client; drop rather than block the bus goroutine.
		}
	})
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	keepalive := time.NewTicker(15 * time.Second)
	defer keepalive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case e := <-eventCh:
			c.SSEvent(string(e.Type), e)
			return true
		case <-keepalive.C:
			c.SSEvent("keepalive", time.Now().UTC())
			return true
		}
	})
}

func (s *Server) handleGetSettings(c *gin.Context) {
	if s.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "runner not attached"})
		return
	}
	c.JSON(http.StatusOK, s.currentSettings(c.Request.Context()))
}

// handlePutSettings replaces the engine configuration at runtime. Omitted
// fields fall back to defaults through the engine's own zero-fill, and the
// accepted settings are persisted so restarts keep them.
func (s *Server) handlePutSettings(c *gin.Context) {
	if s.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "runner not attached"})
		return
	}

	var cfg engine.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid settings: %v", err)})
		return
	}

	eng := engine.NewEngine(cfg, s.log)
	s.runner.UpdateEngine(eng)

	applied := eng.Config()
	if s.cache != nil {
		if err := s.cache.SetSettings(c.Request.Context(), s.symbol, applied); err != nil {
			s.log.Error().Err(err).Msg("persist settings failed")
		}
	}

	s.log.Info().Msg("engine settings updated")
	c.JSON(http.StatusOK, applied)
}

func (s *Server) currentSettings(ctx context.Context) engine.Config {
	if s.cache != nil {
		if cfg, err := s.cache.GetSettings(ctx, s.symbol); err == nil {
			return cfg
		}
	}
	return engine.DefaultConfig()
}
