package models

// WorkModel is a portfolio project entry.
type WorkModel struct {
	Base
	Title         string      `json:"title"         gorm:"not null"`
	Category      string      `json:"category"      gorm:"index;not null"`
	Image         string      `json:"image"`
	Likes         int         `json:"likes"         gorm:"not null;default:0"`
	Link          string      `json:"link"`
	Description   string      `json:"description"   gorm:"type:text"`
	Role          string      `json:"role"`
	Tools         StringArray `json:"tools"         gorm:"type:text"`
	Features      StringArray `json:"features"      gorm:"type:text"`
	LiveDemoURL   string      `json:"liveDemoUrl"`
	SourceCodeURL string      `json:"sourceCodeUrl"`
}

func (WorkModel) TableName() string { return "works" }

// ClampLikes keeps like counts non-negative.
func ClampLikes(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
