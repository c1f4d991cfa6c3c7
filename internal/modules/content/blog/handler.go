package blog

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/models"
	"github.com/shagor/portfolio-core/internal/pkg/response"
	"github.com/shagor/portfolio-core/internal/pkg/validation"
)

var bindMessages = validation.Messages{
	"required": "Title, category, and excerpt are required",
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/blog")
	g.GET("", h.list)
	g.GET("/:id", h.get)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	b, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if b == nil {
		response.NotFoundMsg(c, "Blog not found")
		return
	}
	out, err := toDetail(b)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, out)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateBlogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, validation.Describe(err, bindMessages))
		return
	}
	b, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, errBlogRequired) {
			response.BadRequest(c, "Title, category, and excerpt are required")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, b)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateBlogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, validation.Describe(err, bindMessages))
		return
	}
	b, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, errBlogRequired) {
			response.BadRequest(c, "Title, category, and excerpt cannot be empty")
			return
		}
		response.InternalError(c, err)
		return
	}
	if b == nil {
		response.NotFoundMsg(c, "Blog not found")
		return
	}
	response.OK(c, b)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, errBlogNotFound) {
			response.NotFoundMsg(c, "Blog not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Message(c, "Blog deleted successfully")
}

func toDetail(b *models.BlogModel) (blogResponse, error) {
	html, err := RenderMarkdown(b.Content)
	if err != nil {
		return blogResponse{}, err
	}
	return blogResponse{BlogModel: *b, ContentHTML: html}, nil
}
