package cv

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shagor/portfolio-core/internal/models"
	"github.com/shagor/portfolio-core/internal/modules/storage/filearea"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db       *gorm.DB
	area     filearea.Area
	maxBytes int64
	log      *zap.Logger
	now      func() time.Time
	suffix   func() uint32
}

func NewService(db *gorm.DB, area filearea.Area, maxBytes int64, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:       db,
		area:     area,
		maxBytes: maxBytes,
		log:      log,
		now:      time.Now,
		suffix:   randomSuffix,
	}
}

func randomSuffix() uint32 {
	u := uuid.New()
	return binary.BigEndian.Uint32(u[:4]) % 1_000_000_000
}

func (s *Service) MaxBytes() int64 { return s.maxBytes }

// Current returns the live record, or (nil, nil) when none was uploaded.
func (s *Service) Current() (*models.CVModel, error) {
	var m models.CVModel
	if err := s.db.First(&m, "slot = ?", models.CVSlot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// CheckType validates the extension and declared MIME type of an upload.
func CheckType(originalName, mimeType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(originalName)))
	if !allowedExtensions[ext] {
		return "", errUnsupportedType
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil || !allowedMIMETypes[strings.ToLower(mediaType)] {
		return "", errUnsupportedType
	}
	return ext, nil
}

// Replace stores up as the new CV and retires the previous file.
func (s *Service) Replace(ctx context.Context, up Upload) (*models.CVModel, error) {
	ext, err := CheckType(up.OriginalName, up.MimeType)
	if err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && up.Size > s.maxBytes {
		return nil, errTooLarge
	}

	now := s.now()
	filename := fmt.Sprintf("cv-%d-%09d%s", now.UnixMilli(), s.suffix(), ext)
	mediaType, _, _ := mime.ParseMediaType(up.MimeType)
	if err := s.area.Save(ctx, filename, up.Body, up.Size, mediaType); err != nil {
		return nil, fmt.Errorf("store cv: %w", err)
	}
	loc := s.area.Locate(ctx, filename)
	stored := loc.Path
	if stored == "" {
		stored = loc.URL
	}

	rec := models.CVModel{
		Slot:         models.CVSlot,
		ID:           uuid.NewString(),
		Filename:     filename,
		OriginalName: filepath.Base(up.OriginalName),
		Size:         up.Size,
		MimeType:     mediaType,
		Storage:      s.area.Backend(),
		Path:         stored,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var prev models.CVModel
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prev, "slot = ?", models.CVSlot).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"id", "filename", "original_name", "size", "mime_type", "storage", "created_at", "updated_at",
			}),
		}).Create(&rec).Error
	})
	if err != nil {
		if rmErr := s.area.Remove(ctx, filename); rmErr != nil {
			s.log.Warn("cv: cleanup after failed upsert", zap.String("file", filename), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("save cv record: %w", err)
	}

	if prev.Filename != "" && prev.Filename != filename && s.sameBackend(prev.Storage) {
		if err := s.area.Remove(ctx, prev.Filename); err != nil {
			s.log.Warn("cv: remove previous file", zap.String("file", prev.Filename), zap.Error(err))
		}
	}
	return &rec, nil
}

// Delete removes the stored file and then the record.
func (s *Service) Delete(ctx context.Context) error {
	cur, err := s.Current()
	if err != nil {
		return err
	}
	if cur == nil {
		return errCVNotFound
	}
	if s.sameBackend(cur.Storage) {
		if err := s.area.Remove(ctx, cur.Filename); err != nil {
			return fmt.Errorf("remove cv file: %w", err)
		}
	}
	res := s.db.WithContext(ctx).Where("slot = ? AND id = ?", models.CVSlot, cur.ID).Delete(&models.CVModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errCVNotFound
	}
	return nil
}

// Locate resolves a public file name to its stored location.
func (s *Service) Locate(ctx context.Context, name string) filearea.Location {
	return s.area.Locate(ctx, name)
}

// records written before a backend switch point at files this area cannot reach
func (s *Service) sameBackend(storage string) bool {
	return storage == "" || storage == s.area.Backend()
}
