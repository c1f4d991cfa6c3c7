package models

// SkillType groups skills on the portfolio page.
type SkillType string

const (
	SkillTypeDesign      SkillType = "design"
	SkillTypeDevelopment SkillType = "development"
	SkillTypeTools       SkillType = "tools"
)

// Valid reports whether t is one of the known groups.
func (t SkillType) Valid() bool {
	switch t {
	case SkillTypeDesign, SkillTypeDevelopment, SkillTypeTools:
		return true
	}
	return false
}

// SkillModel is a named proficiency in percent.
type SkillModel struct {
	Base
	Name       string    `json:"name"       gorm:"not null"`
	Percentage int       `json:"percentage" gorm:"index;not null"`
	Type       SkillType `json:"type"       gorm:"type:varchar(32);index;not null"`
	Icon       string    `json:"icon"`
}

func (SkillModel) TableName() string { return "skills" }

// ClampPercentage pins p into [0, 100].
func ClampPercentage(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
