package models

// BlogDateLayout renders the display date a blog post gets when none is supplied ("Mar 5, 2024").
const BlogDateLayout = "Jan 2, 2006"

// BlogModel is a blog article with Markdown content.
type BlogModel struct {
	Base
	Title    string `json:"title"    gorm:"not null"`
	Category string `json:"category" gorm:"index;not null"`
	ReadTime string `json:"readTime" gorm:"not null"`
	Excerpt  string `json:"excerpt"  gorm:"type:text;not null"`
	Date     string `json:"date"`
	Image    string `json:"image"`
	Content  string `json:"content"  gorm:"type:longtext"`
}

func (BlogModel) TableName() string { return "blogs" }
