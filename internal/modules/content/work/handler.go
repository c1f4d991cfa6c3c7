package work

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/pkg/response"
	"github.com/shagor/portfolio-core/internal/pkg/validation"
)

var bindMessages = validation.Messages{
	"required": "Title and category are required",
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/work")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("/:id/like", h.like)

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
	w, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if w == nil {
		response.NotFoundMsg(c, "Work not found")
		return
	}
	response.OK(c, w)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateWorkDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, validation.Describe(err, bindMessages))
		return
	}
	w, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, errWorkRequired) {
			response.BadRequest(c, "Title and category are required")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, w)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateWorkDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, validation.Describe(err, bindMessages))
		return
	}
	w, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, errWorkRequired) {
			response.BadRequest(c, "Title and category cannot be empty")
			return
		}
		response.InternalError(c, err)
		return
	}
	if w == nil {
		response.NotFoundMsg(c, "Work not found")
		return
	}
	response.OK(c, w)
}

func (h *Handler) like(c *gin.Context) {
	w, err := h.svc.Like(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if w == nil {
		response.NotFoundMsg(c, "Work not found")
		return
	}
	response.OK(c, w)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, errWorkNotFound) {
			response.NotFoundMsg(c, "Work not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Message(c, "Work deleted successfully")
}
