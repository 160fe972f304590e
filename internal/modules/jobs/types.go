package jobs

import (
	"errors"

	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/validate"
)

type CreateJobDTO struct {
	Title          string           `json:"title"           binding:"required"`
	Department     *string          `json:"department"`
	Location       *string          `json:"location"`
	EmploymentType *string          `json:"employment_type"`
	Description    string           `json:"description"     binding:"required"`
	Requirements   *string          `json:"requirements"`
	SalaryRange    *string          `json:"salary_range"`
	Status         models.JobStatus `json:"status"          binding:"omitempty,oneof=active closed draft"`
}

type UpdateJobDTO struct {
	Title          *string           `json:"title"           binding:"omitempty,min=1"`
	Department     *string           `json:"department"`
	Location       *string           `json:"location"`
	EmploymentType *string           `json:"employment_type"`
	Description    *string           `json:"description"     binding:"omitempty,min=1"`
	Requirements   *string           `json:"requirements"`
	SalaryRange    *string           `json:"salary_range"`
	Status         *models.JobStatus `json:"status"          binding:"omitempty,oneof=active closed draft"`
}

// ApplyDTO is bound from the multipart form; the resume file is read separately.
type ApplyDTO struct {
	FullName    string `form:"full_name"    json:"full_name"    binding:"required,min=2"`
	Email       string `form:"email"        json:"email"        binding:"required,email"`
	Phone       string `form:"phone"        json:"phone"        binding:"omitempty,phone"`
	CoverLetter string `form:"cover_letter" json:"cover_letter"`
}

var messages = validate.Messages{
	"title":       "Title is required",
	"description": "Description is required",
	"status":      "Status must be one of: active, closed, draft",
	"full_name":   "Full name is required",
	"email":       "Invalid email address",
	"phone":       validate.PhoneMessage,
}

var (
	errJobNotFound  = errors.New("job not found")
	errJobNotActive = errors.New("job not found or not active")
)
