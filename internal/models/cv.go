package models

import "time"

// CVSlot is the only row key the cvs table ever holds.
const CVSlot = "current"

// CVModel describes the single uploaded résumé.
type CVModel struct {
	Slot         string    `json:"-"            gorm:"type:varchar(16);primaryKey"`
	ID           string    `json:"id"           gorm:"type:varchar(36);uniqueIndex;not null"`
	Filename     string    `json:"filename"     gorm:"not null"`
	OriginalName string    `json:"originalName" gorm:"not null"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType"`
	Storage      string    `json:"storage"      gorm:"type:varchar(16)"`
	// Path is where the backend put the file: a filesystem path or an object URL.
	Path         string    `json:"-"            gorm:"type:varchar(1024)"`
	CreatedAt    time.Time `json:"uploadedAt"`
	UpdatedAt    time.Time `json:"-"`
}

func (CVModel) TableName() string { return "cvs" }
