package cv

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/pkg/response"
)

// room for multipart boundaries and headers around the file itself
const multipartOverhead = 1 << 20

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/cv")
	g.GET("", h.get)

	a := g.Group("", authMW)
	a.POST("/upload", h.upload)
	a.DELETE("", h.delete)
}

// RegisterFileRoutes mounts the public file route outside the API prefix.
func (h *Handler) RegisterFileRoutes(r gin.IRoutes) {
	r.GET("/uploads/:filename", h.serve)
	r.HEAD("/uploads/:filename", h.serve)
}

func (h *Handler) get(c *gin.Context) {
	cur, err := h.svc.Current()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cur == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	response.OK(c, toResponse(cur))
}

func (h *Handler) upload(c *gin.Context) {
	max := h.svc.MaxBytes()
	if max > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max+multipartOverhead)
	}
	fh, err := c.FormFile("cv")
	if err != nil {
		if isTooLarge(err) {
			h.tooLarge(c)
			return
		}
		response.BadRequest(c, "No file uploaded")
		return
	}
	if max > 0 && fh.Size > max {
		h.tooLarge(c)
		return
	}
	if _, err := CheckType(fh.Filename, fh.Header.Get("Content-Type")); err != nil {
		response.UnsupportedMediaType(c, "Only PDF, DOC, and DOCX files are allowed")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	rec, err := h.svc.Replace(c.Request.Context(), Upload{
		OriginalName: fh.Filename,
		Size:         fh.Size,
		MimeType:     fh.Header.Get("Content-Type"),
		Body:         f,
	})
	switch {
	case errors.Is(err, errUnsupportedType):
		response.UnsupportedMediaType(c, "Only PDF, DOC, and DOCX files are allowed")
	case errors.Is(err, errTooLarge):
		h.tooLarge(c)
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Created(c, toResponse(rec))
	}
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context()); err != nil {
		if errors.Is(err, errCVNotFound) {
			response.NotFoundMsg(c, "CV not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Message(c, "CV deleted successfully")
}

func (h *Handler) serve(c *gin.Context) {
	loc := h.svc.Locate(c.Request.Context(), c.Param("filename"))
	switch {
	case loc.Path != "":
		c.File(loc.Path)
	case loc.URL != "":
		c.Redirect(http.StatusFound, loc.URL)
	default:
		response.NotFoundMsg(c, "File not found")
	}
}

func (h *Handler) tooLarge(c *gin.Context) {
	mb := h.svc.MaxBytes() / (1 << 20)
	response.PayloadTooLarge(c, fmt.Sprintf("File too large. Maximum size is %dMB", mb))
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
