package models

// Service is an offering shown on the services page, ordered by OrderIndex.
type Service struct {
	Base
	Title           string  `json:"title"            gorm:"not null"`
	Slug            string  `json:"slug"             gorm:"uniqueIndex;not null"`
	Icon            *string `json:"icon"`
	Description     string  `json:"description"      gorm:"type:text;not null"`
	LongDescription *string `json:"long_description" gorm:"type:text"`
	Color           *string `json:"color"`
	OrderIndex      int     `json:"order_index"      gorm:"not null;default:0;index"`
	IsActive        bool    `json:"is_active"        gorm:"not null;index"`
}

func (Service) TableName() string { return "services" }
