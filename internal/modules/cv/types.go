package cv

import (
	"errors"
	"io"
	"time"

	"github.com/shagor/portfolio-core/internal/models"
)

// Upload is one incoming CV file.
type Upload struct {
	OriginalName string
	Size         int64
	MimeType     string
	Body         io.Reader
}

type cvResponse struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func toResponse(m *models.CVModel) *cvResponse {
	if m == nil {
		return nil
	}
	return &cvResponse{
		ID:           m.ID,
		Filename:     m.Filename,
		OriginalName: m.OriginalName,
		URL:          PublicPath(m.Filename),
		Size:         m.Size,
		MimeType:     m.MimeType,
		UploadedAt:   m.CreatedAt,
	}
}

// PublicPath is where the site links a stored file.
func PublicPath(filename string) string { return "/uploads/" + filename }

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

var allowedMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var (
	errCVNotFound      = errors.New("cv not found")
	errUnsupportedType = errors.New("unsupported cv file type")
	errTooLarge        = errors.New("cv file too large")
)
