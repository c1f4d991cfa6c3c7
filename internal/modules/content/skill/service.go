package skill

import (
	"errors"
	"strings"

	"github.com/shagor/portfolio-core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns skills newest first, optionally restricted to one type.
func (s *Service) List(typ string) ([]models.SkillModel, error) {
	items := []models.SkillModel{}
	q := s.db.Order("created_at DESC")
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	return items, q.Find(&items).Error
}

// TopByPercentage returns up to limit skills, strongest first.
func (s *Service) TopByPercentage(limit int) ([]models.SkillModel, error) {
	items := []models.SkillModel{}
	err := s.db.Order("percentage DESC").Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (s *Service) GetByID(id string) (*models.SkillModel, error) {
	var sk models.SkillModel
	if err := s.db.First(&sk, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sk, nil
}

func (s *Service) Create(dto *CreateSkillDTO) (*models.SkillModel, error) {
	if strings.TrimSpace(dto.Name) == "" || dto.Percentage == nil || dto.Type == "" {
		return nil, errSkillRequired
	}
	if !dto.Type.Valid() {
		return nil, errSkillType
	}
	sk := models.SkillModel{
		Name:       dto.Name,
		Percentage: models.ClampPercentage(*dto.Percentage),
		Type:       dto.Type,
		Icon:       dto.Icon,
	}
	return &sk, s.db.Create(&sk).Error
}

// Update applies every field present in dto. Returns (nil, nil) when id is unknown.
func (s *Service) Update(id string, dto *UpdateSkillDTO) (*models.SkillModel, error) {
	sk, err := s.GetByID(id)
	if err != nil || sk == nil {
		return sk, err
	}
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return nil, errSkillRequired
	}
	if dto.Type != nil && !dto.Type.Valid() {
		return nil, errSkillType
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Percentage != nil {
		updates["percentage"] = models.ClampPercentage(*dto.Percentage)
	}
	if dto.Type != nil {
		updates["type"] = *dto.Type
	}
	if dto.Icon != nil {
		updates["icon"] = *dto.Icon
	}
	if len(updates) == 0 {
		return sk, nil
	}
	if err := s.db.Model(sk).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id string) error {
	res := s.db.Delete(&models.SkillModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errSkillNotFound
	}
	return nil
}
