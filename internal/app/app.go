package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/config"
	"github.com/shagor/portfolio-core/internal/database"
	"github.com/shagor/portfolio-core/internal/middleware"
	"github.com/shagor/portfolio-core/internal/pkg/metrics"
	pkgredis "github.com/shagor/portfolio-core/internal/pkg/redis"
	"github.com/shagor/portfolio-core/internal/pkg/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	db      *gorm.DB
	redis   *pkgredis.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New initializes the application: config → DB → Redis → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	logger.Info("database connected", zap.String("target", database.Describe(cfg.Database.Driver, cfg.DSN)))

	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			// the limiter falls back to in-process buckets
			logger.Warn("redis unavailable, using local rate limiter", zap.Error(err))
			rc = nil
		}
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	return build(logger, cfg, db, rc)
}

// build assembles the router around already opened stores.
func build(logger *zap.Logger, cfg *config.AppConfig, db *gorm.DB, rc *pkgredis.Client) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	validation.Register()
	m := metrics.New()

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger, m))
	router.Use(cors.New(corsConfig(cfg)))

	app := &App{cfg: cfg, router: router, db: db, redis: rc, metrics: m, logger: logger}
	if err := app.registerRoutes(); err != nil {
		return nil, err
	}
	return app, nil
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	patterns := allowedOriginPatterns(cfg)
	if len(patterns) == 0 && cfg.IsDev() {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
		return corsCfg
	}
	corsCfg.AllowOriginFunc = func(origin string) bool {
		host := extractOriginHost(origin)
		for _, pattern := range patterns {
			if matchOriginPattern(pattern, host) {
				return true
			}
		}
		return false
	}
	return corsCfg
}

// allowedOriginPatterns merges the client and admin URLs into the configured
// origin patterns.
func allowedOriginPatterns(cfg *config.AppConfig) []string {
	patterns := make([]string, 0, len(cfg.AllowedOrigins)+2)
	seen := map[string]bool{}
	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}
		host := extractOriginHost(raw)
		if !seen[host] {
			seen[host] = true
			patterns = append(patterns, host)
		}
	}
	for _, origin := range cfg.AllowedOrigins {
		add(origin)
	}
	add(cfg.ClientURL)
	add(cfg.AdminURL)
	return patterns
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases the store connections.
func (a *App) Shutdown() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
