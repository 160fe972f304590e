package models

// User is a registered account. Emails are stored lowercased.
type User struct {
	Base
	Email        string  `json:"email"        gorm:"uniqueIndex;not null"`
	PasswordHash string  `json:"-"            gorm:"not null"`
	FullName     string  `json:"full_name"    gorm:"not null"`
	CompanyName  *string `json:"company_name"`
	Phone        *string `json:"phone"`
	Role         Role    `json:"role"         gorm:"type:varchar(20);not null;default:user"`
	IsActive     bool    `json:"is_active"    gorm:"not null"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
