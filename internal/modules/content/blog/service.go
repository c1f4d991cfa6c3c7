package blog

import (
	"errors"
	"strings"
	"time"

	"github.com/shagor/portfolio-core/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service { return &Service{db: db, now: time.Now} }

// List returns every post, newest first.
func (s *Service) List() ([]models.BlogModel, error) {
	items := []models.BlogModel{}
	err := s.db.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (s *Service) GetByID(id string) (*models.BlogModel, error) {
	var b models.BlogModel
	if err := s.db.First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (s *Service) Create(dto *CreateBlogDTO) (*models.BlogModel, error) {
	if strings.TrimSpace(dto.Title) == "" || strings.TrimSpace(dto.Category) == "" || strings.TrimSpace(dto.Excerpt) == "" {
		return nil, errBlogRequired
	}
	b := models.BlogModel{
		Title:    dto.Title,
		Category: dto.Category,
		ReadTime: dto.ReadTime,
		Excerpt:  dto.Excerpt,
		Date:     dto.Date,
		Image:    dto.Image,
		Content:  dto.Content,
	}
	if b.ReadTime == "" {
		b.ReadTime = defaultReadTime
	}
	if b.Date == "" {
		b.Date = s.now().Format(models.BlogDateLayout)
	}
	if b.Image == "" {
		b.Image = defaultImage
	}
	return &b, s.db.Create(&b).Error
}

// Update applies every field present in dto. Returns (nil, nil) when id is unknown.
func (s *Service) Update(id string, dto *UpdateBlogDTO) (*models.BlogModel, error) {
	b, err := s.GetByID(id)
	if err != nil || b == nil {
		return b, err
	}
	for _, required := range []*string{dto.Title, dto.Category, dto.Excerpt} {
		if required != nil && strings.TrimSpace(*required) == "" {
			return nil, errBlogRequired
		}
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Category != nil {
		updates["category"] = *dto.Category
	}
	if dto.ReadTime != nil {
		updates["read_time"] = *dto.ReadTime
	}
	if dto.Excerpt != nil {
		updates["excerpt"] = *dto.Excerpt
	}
	if dto.Date != nil {
		updates["date"] = *dto.Date
	}
	if dto.Image != nil {
		updates["image"] = *dto.Image
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if len(updates) == 0 {
		return b, nil
	}
	if err := s.db.Model(b).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id string) error {
	res := s.db.Delete(&models.BlogModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errBlogNotFound
	}
	return nil
}
