package models

// JobPosting is an open (or drafted/closed) position on the careers page.
type JobPosting struct {
	Base
	Title          string    `json:"title"           gorm:"not null"`
	Department     *string   `json:"department"`
	Location       *string   `json:"location"`
	EmploymentType *string   `json:"employment_type"`
	Description    string    `json:"description"     gorm:"type:text;not null"`
	Requirements   *string   `json:"requirements"    gorm:"type:text"`
	SalaryRange    *string   `json:"salary_range"`
	Status         JobStatus `json:"status"          gorm:"type:varchar(20);not null;default:draft;index"`
}

func (JobPosting) TableName() string { return "job_postings" }

// JobApplication is a candidate's application to a posting.
type JobApplication struct {
	Base
	JobID       uint              `json:"job_id"       gorm:"not null;index"`
	Job         *JobPosting       `json:"-"            gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	FullName    string            `json:"full_name"    gorm:"not null"`
	Email       string            `json:"email"        gorm:"not null"`
	Phone       *string           `json:"phone"`
	ResumeURL   *string           `json:"resume_url"`
	CoverLetter *string           `json:"cover_letter" gorm:"type:text"`
	Status      ApplicationStatus `json:"status"       gorm:"type:varchar(20);not null;default:pending;index"`

	// JobTitle is filled by joined reads only.
	JobTitle string `json:"job_title,omitempty" gorm:"->;-:migration"`
}

func (JobApplication) TableName() string { return "job_applications" }
