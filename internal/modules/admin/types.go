package admin

import (
	"errors"
	"time"

	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/validate"
)

type ContactStatusDTO struct {
	Status models.ContactStatus `json:"status" binding:"required,oneof=new read replied"`
}

type ApplicationStatusDTO struct {
	Status models.ApplicationStatus `json:"status" binding:"required,oneof=pending reviewed interview hired rejected"`
}

type HelpStatusDTO struct {
	Status models.HelpStatus `json:"status" binding:"required,oneof=pending in_progress resolved closed"`
}

var messages = validate.Messages{
	"status.required": "Status is required",
}

// Stats is the dashboard payload. Keys match the admin client.
type Stats struct {
	TotalContacts         int64                      `json:"totalContacts"`
	TotalHelpRequests     int64                      `json:"totalHelpRequests"`
	TotalJobApplications  int64                      `json:"totalJobApplications"`
	TotalBlogPosts        int64                      `json:"totalBlogPosts"`
	TotalUsers            int64                      `json:"totalUsers"`
	TotalServices         int64                      `json:"totalServices"`
	RecentContacts        []models.ContactSubmission `json:"recentContacts"`
	RecentHelpRequests    []models.HelpRequest       `json:"recentHelpRequests"`
	RecentJobApplications []models.JobApplication    `json:"recentJobApplications"`
	HelpRequestsByStatus  []StatusCount              `json:"helpRequestsByStatus"`
	ContactsByMonth       []MonthCount               `json:"contactsByMonth"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// userRow is the admin view of an account; the password hash never leaves the table.
type userRow struct {
	ID          uint        `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	CompanyName *string     `json:"company_name"`
	Phone       *string     `json:"phone"`
	Role        models.Role `json:"role"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
}

var (
	errContactNotFound     = errors.New("contact not found")
	errApplicationNotFound = errors.New("application not found")
	errHelpNotFound        = errors.New("help request not found")
)
