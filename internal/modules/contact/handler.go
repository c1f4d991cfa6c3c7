package contact

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/pkg/mail"
	"github.com/shagor/portfolio-core/internal/pkg/response"
	"github.com/shagor/portfolio-core/internal/pkg/validation"
)

var bindMessages = validation.Messages{
	"required": "Name, email, subject, and message are required",
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler {
	validation.Register()
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the contact form. limiter guards the public POST and may be nil.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, limiter gin.HandlerFunc) {
	g := rg.Group("/contact")
	if limiter != nil {
		g.POST("", limiter, h.send)
	} else {
		g.POST("", h.send)
	}
	g.GET("", authMW, h.list)
}

func (h *Handler) send(c *gin.Context) {
	var dto SendDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, validation.Describe(err, bindMessages))
		return
	}
	_, err := h.svc.Send(c.Request.Context(), &dto)
	switch {
	case err == nil:
		response.OK(c, sendResponse{
			Message: "Message sent successfully! We will get back to you soon.",
			Success: true,
		})
	case errors.Is(err, errContactRequired):
		response.BadRequest(c, "Name, email, subject, and message are required")
	case errors.Is(err, errEmailInvalid):
		response.BadRequest(c, "Invalid email format")
	case errors.Is(err, mail.ErrNotConfigured):
		response.InternalErrorMsg(c, "Email service not configured. Please contact the administrator.", err)
	case errors.Is(err, ErrEmailUnavailable):
		response.InternalErrorMsg(c, "Failed to send message. Please try again later.", err)
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}
