package models

// HelpRequest is a support ticket, optionally tied to a signed-in user.
type HelpRequest struct {
	Base
	UserID      *uint        `json:"user_id"      gorm:"index"`
	User        *User        `json:"-"            gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Name        string       `json:"name"         gorm:"not null"`
	Email       string       `json:"email"        gorm:"not null"`
	CompanyName *string      `json:"company_name"`
	Phone       *string      `json:"phone"`
	ServiceType string       `json:"service_type" gorm:"not null"`
	Subject     string       `json:"subject"      gorm:"not null"`
	Description string       `json:"description"  gorm:"type:text;not null"`
	Priority    HelpPriority `json:"priority"     gorm:"type:varchar(20);not null;default:medium"`
	Status      HelpStatus   `json:"status"       gorm:"type:varchar(20);not null;default:pending;index"`
}

func (HelpRequest) TableName() string { return "help_requests" }
