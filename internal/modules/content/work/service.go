package work

import (
	"errors"
	"strings"

	"github.com/shagor/portfolio-core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns every work item, newest first.
func (s *Service) List() ([]models.WorkModel, error) {
	items := []models.WorkModel{}
	err := s.db.Order("created_at DESC").Find(&items).Error
	return items, err
}

// ListRecent returns at most limit items, newest first.
func (s *Service) ListRecent(limit int) ([]models.WorkModel, error) {
	items := []models.WorkModel{}
	err := s.db.Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (s *Service) GetByID(id string) (*models.WorkModel, error) {
	var w models.WorkModel
	if err := s.db.First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (s *Service) Create(dto *CreateWorkDTO) (*models.WorkModel, error) {
	if strings.TrimSpace(dto.Title) == "" || strings.TrimSpace(dto.Category) == "" {
		return nil, errWorkRequired
	}
	w := models.WorkModel{
		Title:         dto.Title,
		Category:      dto.Category,
		Image:         dto.Image,
		Link:          dto.Link,
		Description:   dto.Description,
		Role:          dto.Role,
		Tools:         models.StringArray(dto.Tools),
		Features:      models.StringArray(dto.Features),
		LiveDemoURL:   dto.LiveDemoURL,
		SourceCodeURL: dto.SourceCodeURL,
	}
	if dto.Likes != nil {
		w.Likes = models.ClampLikes(*dto.Likes)
	}
	if w.Image == "" {
		w.Image = defaultImage
	}
	if w.LiveDemoURL == "" {
		w.LiveDemoURL = dto.Link
	}
	if w.Link == "" {
		w.Link = defaultLink
	}
	if w.Tools == nil {
		w.Tools = models.StringArray{}
	}
	if w.Features == nil {
		w.Features = models.StringArray{}
	}
	return &w, s.db.Create(&w).Error
}

// Update applies every field present in dto. Returns (nil, nil) when id is unknown.
func (s *Service) Update(id string, dto *UpdateWorkDTO) (*models.WorkModel, error) {
	w, err := s.GetByID(id)
	if err != nil || w == nil {
		return w, err
	}
	if (dto.Title != nil && strings.TrimSpace(*dto.Title) == "") ||
		(dto.Category != nil && strings.TrimSpace(*dto.Category) == "") {
		return nil, errWorkRequired
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Category != nil {
		updates["category"] = *dto.Category
	}
	if dto.Image != nil {
		updates["image"] = *dto.Image
	}
	if dto.Likes != nil {
		updates["likes"] = models.ClampLikes(*dto.Likes)
	}
	if dto.Link != nil {
		updates["link"] = *dto.Link
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Role != nil {
		updates["role"] = *dto.Role
	}
	if dto.Tools != nil {
		updates["tools"] = models.StringArray(*dto.Tools)
	}
	if dto.Features != nil {
		updates["features"] = models.StringArray(*dto.Features)
	}
	if dto.LiveDemoURL != nil {
		updates["live_demo_url"] = *dto.LiveDemoURL
	}
	if dto.SourceCodeURL != nil {
		updates["source_code_url"] = *dto.SourceCodeURL
	}
	if len(updates) == 0 {
		return w, nil
	}
	if err := s.db.Model(w).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Like adds one to the like counter. Returns (nil, nil) when id is unknown.
func (s *Service) Like(id string) (*models.WorkModel, error) {
	res := s.db.Model(&models.WorkModel{}).Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id string) error {
	res := s.db.Delete(&models.WorkModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errWorkNotFound
	}
	return nil
}
