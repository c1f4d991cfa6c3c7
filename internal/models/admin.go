package models

import "time"

// AdminModel is an account allowed to manage portfolio content.
type AdminModel struct {
	Base
	Email         string     `json:"email"    gorm:"type:varchar(255);uniqueIndex;not null"`
	Password      string     `json:"-"        gorm:"not null"`
	LastLoginTime *time.Time `json:"lastLoginTime,omitempty"`
	LastLoginIP   string     `json:"-"`
}

func (AdminModel) TableName() string { return "admins" }
