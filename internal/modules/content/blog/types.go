package blog

import (
	"errors"

	"github.com/shagor/portfolio-core/internal/models"
)

type CreateBlogDTO struct {
	Title    string `json:"title"    binding:"required"`
	Category string `json:"category" binding:"required"`
	ReadTime string `json:"readTime"`
	Excerpt  string `json:"excerpt"  binding:"required"`
	Date     string `json:"date"`
	Image    string `json:"image"`
	Content  string `json:"content"`
}

type UpdateBlogDTO struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
	ReadTime *string `json:"readTime"`
	Excerpt  *string `json:"excerpt"`
	Date     *string `json:"date"`
	Image    *string `json:"image"`
	Content  *string `json:"content"`
}

// blogResponse adds the rendered body on detail reads.
type blogResponse struct {
	models.BlogModel
	ContentHTML string `json:"contentHtml,omitempty"`
}

const (
	defaultReadTime = "5 min read"
	defaultImage    = "gradient-1"
)

var (
	errBlogNotFound = errors.New("blog not found")
	errBlogRequired = errors.New("title, category, and excerpt are required")
)
