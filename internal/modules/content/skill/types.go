package skill

import (
	"errors"

	"github.com/shagor/portfolio-core/internal/models"
)

type CreateSkillDTO struct {
	Name       string           `json:"name"       binding:"required"`
	Percentage *int             `json:"percentage" binding:"required"`
	Type       models.SkillType `json:"type"       binding:"required"`
	Icon       string           `json:"icon"`
}

type UpdateSkillDTO struct {
	Name       *string           `json:"name"`
	Percentage *int              `json:"percentage"`
	Type       *models.SkillType `json:"type"`
	Icon       *string           `json:"icon"`
}

var (
	errSkillNotFound = errors.New("skill not found")
	errSkillRequired = errors.New("name, percentage, and type are required")
	errSkillType     = errors.New("invalid skill type")
)
