package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/middleware"
	"github.com/shagor/portfolio-core/internal/modules/auth"
	"github.com/shagor/portfolio-core/internal/modules/chat"
	"github.com/shagor/portfolio-core/internal/modules/contact"
	"github.com/shagor/portfolio-core/internal/modules/content/blog"
	"github.com/shagor/portfolio-core/internal/modules/content/skill"
	"github.com/shagor/portfolio-core/internal/modules/content/work"
	"github.com/shagor/portfolio-core/internal/modules/cv"
	"github.com/shagor/portfolio-core/internal/modules/storage/filearea"
	"github.com/shagor/portfolio-core/internal/modules/system/health"
	"github.com/shagor/portfolio-core/internal/pkg/mail"
	"github.com/shagor/portfolio-core/internal/pkg/response"
	"go.uber.org/zap"
)

func (a *App) registerRoutes() error {
	r := a.router
	db := a.db
	cfg := a.cfg
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFoundMsg(c, "Route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	api := r.Group("/api", middleware.OptionalAuth(db))

	limiter := a.limiter()
	limit := func(scope string) gin.HandlerFunc {
		return middleware.RateLimit(limiter, scope, a.logger, a.metrics)
	}

	authSvc := auth.NewService(db, a.logger)
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW, limit("auth"))

	workSvc := work.NewService(db)
	work.NewHandler(workSvc).RegisterRoutes(api, authMW)
	blog.NewHandler(blog.NewService(db)).RegisterRoutes(api, authMW)
	skillSvc := skill.NewService(db)
	skill.NewHandler(skillSvc).RegisterRoutes(api, authMW)

	area, err := filearea.New(cfg)
	if err != nil {
		return fmt.Errorf("file area: %w", err)
	}
	cvHandler := cv.NewHandler(cv.NewService(db, area, cfg.MaxUploadBytes(), a.logger))
	cvHandler.RegisterRoutes(api, authMW)
	cvHandler.RegisterFileRoutes(r)

	sender := mail.New(mail.BuildMailConfig(cfg))
	if !sender.Configured() {
		a.logger.Warn("mail relay not configured, contact messages are stored only")
	}
	contactSvc := contact.NewService(db, sender, cfg.Mail.Recipient, a.logger, a.metrics)
	contact.NewHandler(contactSvc).RegisterRoutes(api, authMW, limit("contact"))

	completer, err := chat.NewCompleter(cfg.AI)
	if err != nil {
		return fmt.Errorf("chat provider: %w", err)
	}
	if completer == nil {
		a.logger.Info("no remote chat provider configured, using rule-based replies")
	} else {
		a.logger.Info("chat provider ready", zap.String("provider", completer.Provider()), zap.String("model", completer.Model()))
	}
	chatSvc := chat.NewService(skillSvc, workSvc, completer, chat.NewBreaker(cfg.AI.RetryAfter), nil, chat.Options{
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	}, a.logger, a.metrics)
	chat.NewHandler(chatSvc).RegisterRoutes(api, limit("chat"))

	deps := health.Deps{
		DB:        db,
		Mail:      sender,
		Recipient: cfg.Mail.Recipient,
		LogDir:    cfg.LogDir(),
	}
	if a.redis != nil {
		deps.Redis = a.redis
	}
	health.NewHandler(deps).RegisterRoutes(r, api, authMW)
	return nil
}

// limiter picks the shared Redis window when available. A nil limiter
// disables rate limiting.
func (a *App) limiter() middleware.Limiter {
	rl := a.cfg.RateLimit
	if !rl.Enable {
		return nil
	}
	if a.redis != nil {
		return middleware.NewRedisLimiter(a.redis.Raw(), rl.Requests, rl.Window)
	}
	return middleware.NewLocalLimiter(rl.Requests, rl.Window)
}
