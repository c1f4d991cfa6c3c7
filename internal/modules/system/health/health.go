// Package health serves liveness and a few admin diagnostics.
package health

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/pkg/mail"
	"github.com/shagor/portfolio-core/internal/pkg/response"
	"gorm.io/gorm"
)

// Pinger is an optional dependency checked by the health route.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Relay sends the admin test mail.
type Relay interface {
	Configured() bool
	Send(ctx context.Context, msg mail.Message) error
}

type Deps struct {
	DB        *gorm.DB
	Redis     Pinger // nil when redis is not configured
	Mail      Relay
	Recipient string
	LogDir    string
}

type logItem struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Created  int64  `json:"created"`
}

type Handler struct{ deps Deps }

func NewHandler(deps Deps) *Handler { return &Handler{deps: deps} }

// RegisterRoutes mounts "/" on root and "/health" on api.
func (h *Handler) RegisterRoutes(root gin.IRoutes, api *gin.RouterGroup, authMW gin.HandlerFunc) {
	root.GET("/", h.banner)
	api.GET("/health", h.health)

	admin := api.Group("/health", authMW)
	admin.POST("/email/test", h.testMail)
	admin.GET("/log/list", h.listLogs)
	admin.GET("/log", h.readLog)
}

func (h *Handler) banner(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "OK",
		"message": "Portfolio API is running. Try /api/health or other /api/* endpoints.",
	})
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	dbOK := false
	if h.deps.DB != nil {
		if sqlDB, err := h.deps.DB.DB(); err == nil {
			dbOK = sqlDB.PingContext(ctx) == nil
		}
	}
	body := gin.H{"status": "OK", "message": "Server is running", "database": dbOK}
	if h.deps.Redis != nil {
		body["redis"] = h.deps.Redis.Ping(ctx) == nil
	}
	if !dbOK {
		body["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	response.OK(c, body)
}

func (h *Handler) testMail(c *gin.Context) {
	if h.deps.Mail == nil || !h.deps.Mail.Configured() || h.deps.Recipient == "" {
		response.Error(c, http.StatusUnprocessableEntity, "Email service not configured")
		return
	}
	err := h.deps.Mail.Send(c.Request.Context(), mail.Message{
		To:      []string{h.deps.Recipient},
		Subject: "Portfolio mail test",
		HTML:    "<h1>Mail settings work.</h1><p>Contact form notifications will arrive at this address.</p>",
		Text:    "Mail settings work. Contact form notifications will arrive at this address.",
	})
	if err != nil {
		response.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *Handler) listLogs(c *gin.Context) {
	entries, err := os.ReadDir(h.deps.LogDir)
	if err != nil {
		if os.IsNotExist(err) {
			response.OK(c, []logItem{})
			return
		}
		response.InternalError(c, err)
		return
	}
	items := make([]logItem, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		items = append(items, logItem{
			Filename: entry.Name(),
			Size:     info.Size(),
			Created:  info.ModTime().UnixMilli(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Created > items[j].Created })
	response.OK(c, items)
}

func (h *Handler) readLog(c *gin.Context) {
	filename := filepath.Base(strings.TrimSpace(c.Query("filename")))
	if filename == "." || filename == string(filepath.Separator) || !strings.HasSuffix(filename, ".log") {
		response.BadRequest(c, "filename must be a log file")
		return
	}
	data, err := os.ReadFile(filepath.Join(h.deps.LogDir, filename))
	if err != nil {
		response.NotFoundMsg(c, "log file not exists")
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}
