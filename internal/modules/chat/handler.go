package chat

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the chat widget API. limiter may be nil.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limiter gin.HandlerFunc) {
	g := rg.Group("/chatbot")
	if limiter != nil {
		g.POST("", limiter, h.reply)
	} else {
		g.POST("", h.reply)
	}
	g.GET("/status", h.status)
}

func (h *Handler) reply(c *gin.Context) {
	var dto ChatDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Message is required")
		return
	}
	out, err := h.svc.Reply(c.Request.Context(), dto.Message, dto.ConversationHistory)
	if err != nil {
		if errors.Is(err, errMessageRequired) {
			response.BadRequest(c, "Message is required")
			return
		}
		response.InternalErrorMsg(c, "Failed to process message. Please try again later.", err)
		return
	}
	response.OK(c, out)
}

func (h *Handler) status(c *gin.Context) {
	response.OK(c, h.svc.Status())
}
