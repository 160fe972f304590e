package models

import "time"

// Base carries the serial primary key and timestamps shared by all tables.
type Base struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model for auto-migration, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&ContactSubmission{},
		&HelpRequest{},
		&JobPosting{},
		&JobApplication{},
		&BlogPost{},
		&Service{},
	}
}
