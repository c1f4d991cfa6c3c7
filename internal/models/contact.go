package models

// ContactModel is an inbound message from the contact form.
type ContactModel struct {
	Base
	Name    string `json:"name"    gorm:"not null"`
	Phone   string `json:"phone"`
	Email   string `json:"email"   gorm:"type:varchar(255);index;not null"`
	Subject string `json:"subject" gorm:"not null"`
	Message string `json:"message" gorm:"type:text;not null"`
}

func (ContactModel) TableName() string { return "contacts" }
