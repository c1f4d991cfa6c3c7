package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/middleware"
	"github.com/shagor/portfolio-core/internal/pkg/response"
	"github.com/shagor/portfolio-core/internal/pkg/validation"
)

var registerMessages = validation.Messages{
	"required":     "Email and password are required",
	"Password.min": "Password must be at least 6 characters long",
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	validation.Register()
	return &Handler{svc: svc}
}

// RegisterRoutes mounts /auth. Login and registration are public; limiter
// guards them against password guessing.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, limiter gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/login", limiter, h.login)
	g.POST("/register", limiter, h.register)
	g.POST("/setup", limiter, h.register)

	a := g.Group("", authMW)
	a.GET("/me", h.me)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, validation.Describe(err, registerMessages))
		return
	}
	token, a, err := h.svc.Login(dto.Email, dto.Password, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.UnauthorizedMsg(c, "Invalid credentials")
		case errors.Is(err, errCredentialsMissing):
			response.BadRequest(c, "Email and password are required")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, loginResponse{Token: token, Admin: toAdminResponse(a)})
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, validation.Describe(err, registerMessages))
		return
	}
	a, err := h.svc.Register(&dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrAdminExists):
			response.Conflict(c, "Admin with this email already exists")
		case errors.Is(err, errCredentialsMissing):
			response.BadRequest(c, "Email and password are required")
		case errors.Is(err, errEmailInvalid):
			response.BadRequest(c, "Invalid email format")
		case errors.Is(err, errPasswordTooShort):
			response.BadRequest(c, "Password must be at least 6 characters long")
		default:
			response.InternalError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, registerResponse{
		Message: "Admin registered successfully",
		Admin:   toAdminResponse(a),
	})
}

func (h *Handler) me(c *gin.Context) {
	a, err := h.svc.GetByID(middleware.CurrentAdminID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFoundMsg(c, "Admin not found")
		return
	}
	response.OK(c, toAdminResponse(a))
}
