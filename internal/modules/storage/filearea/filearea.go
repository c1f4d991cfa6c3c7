// Package filearea stores uploaded files on local disk or in an S3 bucket.
package filearea

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	appcfg "github.com/shagor/portfolio-core/internal/config"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

var ErrInvalidName = errors.New("invalid file name")

// Location tells a reader where a stored file can be fetched.
// Exactly one of Path or URL is set for files that exist.
type Location struct {
	Path string
	URL  string
}

// Found reports whether the location points anywhere.
func (l Location) Found() bool { return l.Path != "" || l.URL != "" }

// Area is a flat namespace of uploaded files.
type Area interface {
	Backend() string
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// Remove deletes name. A missing file is not an error.
	Remove(ctx context.Context, name string) error
	Locate(ctx context.Context, name string) Location
}

// New builds the area selected by cfg.Uploads.Backend.
func New(cfg *appcfg.AppConfig) (Area, error) {
	switch cfg.Uploads.Backend {
	case BackendS3:
		return NewS3Area(cfg.Uploads.S3)
	default:
		return NewLocalArea(cfg.UploadDir())
	}
}

// SafeName returns raw trimmed when it is a bare file name made of
// alphanumerics, hyphens, underscores and dots, and "" otherwise. Names
// carrying a directory part are rejected, not flattened.
func SafeName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return ""
	}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return ""
	}
	return name
}
