package models

// ContactSubmission is a message left through the public contact form.
type ContactSubmission struct {
	Base
	Name    string        `json:"name"    gorm:"not null"`
	Email   string        `json:"email"   gorm:"not null"`
	Phone   *string       `json:"phone"`
	Subject string        `json:"subject" gorm:"not null"`
	Message string        `json:"message" gorm:"type:text;not null"`
	Status  ContactStatus `json:"status"  gorm:"type:varchar(20);not null;default:new;index"`
}

func (ContactSubmission) TableName() string { return "contact_submissions" }
