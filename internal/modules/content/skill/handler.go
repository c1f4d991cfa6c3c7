package skill

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/pkg/response"
	"github.com/shagor/portfolio-core/internal/pkg/validation"
)

const typeMessage = `Type must be one of "design", "development", or "tools"`

var bindMessages = validation.Messages{
	"required": "Name, percentage, and type are required",
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/skills")
	g.GET("", h.list)
	g.GET("/:id", h.get)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Query("type"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	sk, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if sk == nil {
		response.NotFoundMsg(c, "Skill not found")
		return
	}
	response.OK(c, sk)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSkillDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, validation.Describe(err, bindMessages))
		return
	}
	sk, err := h.svc.Create(&dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, sk)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateSkillDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, validation.Describe(err, bindMessages))
		return
	}
	sk, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if sk == nil {
		response.NotFoundMsg(c, "Skill not found")
		return
	}
	response.OK(c, sk)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Message(c, "Skill deleted successfully")
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errSkillRequired):
		response.BadRequest(c, "Name, percentage, and type are required")
	case errors.Is(err, errSkillType):
		response.BadRequest(c, typeMessage)
	case errors.Is(err, errSkillNotFound):
		response.NotFoundMsg(c, "Skill not found")
	default:
		response.InternalError(c, err)
	}
}
