package help

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/mail"
	"github.com/softionyx/site/internal/pkg/validate"
)

type CreateDTO struct {
	Name        string              `json:"name"         binding:"required,min=2"`
	Email       string              `json:"email"        binding:"required,email"`
	CompanyName *string             `json:"company_name"`
	Phone       *string             `json:"phone"        binding:"omitempty,phone"`
	ServiceType string              `json:"service_type" binding:"required"`
	Subject     string              `json:"subject"      binding:"required,min=3"`
	Description string              `json:"description"  binding:"required,min=10"`
	Priority    models.HelpPriority `json:"priority"     binding:"omitempty,oneof=low medium high urgent"`
}

var messages = validate.Messages{
	"name":         "Name is required",
	"email":        "Invalid email address",
	"phone":        validate.PhoneMessage,
	"service_type": "Service type is required",
	"subject":      "Subject is required",
	"description":  "Description must be at least 10 characters",
	"priority":     "Priority must be one of: low, medium, high, urgent",
}

type Service struct {
	db        *gorm.DB
	mailer    mail.Mailer
	recipient string
	log       *zap.Logger
}

func NewService(db *gorm.DB, mailer mail.Mailer, recipient string, log *zap.Logger) *Service {
	return &Service{db: db, mailer: mailer, recipient: recipient, log: log}
}

// Create stores a help request. userID is 0 for anonymous submitters.
func (s *Service) Create(ctx context.Context, userID uint, dto *CreateDTO) (*models.HelpRequest, error) {
	priority := dto.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	req := models.HelpRequest{
		Name:        strings.TrimSpace(dto.Name),
		Email:       strings.TrimSpace(dto.Email),
		CompanyName: optional(dto.CompanyName),
		Phone:       optional(dto.Phone),
		ServiceType: dto.ServiceType,
		Subject:     dto.Subject,
		Description: dto.Description,
		Priority:    priority,
		Status:      models.HelpStatusPending,
	}
	if userID != 0 {
		req.UserID = &userID
	}
	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, fmt.Errorf("create help request: %w", err)
	}
	s.log.Info("help request created", zap.Uint("id", req.ID), zap.String("email", req.Email), zap.String("subject", req.Subject))

	s.notify(ctx, &req)
	return &req, nil
}

func (s *Service) notify(ctx context.Context, req *models.HelpRequest) {
	if s.mailer == nil || !s.mailer.Enabled() || s.recipient == "" {
		return
	}
	msg, err := mail.HelpRequestMessage(s.recipient, mail.HelpRequestData{
		Name:        req.Name,
		Email:       req.Email,
		Company:     deref(req.CompanyName),
		Phone:       deref(req.Phone),
		ServiceType: req.ServiceType,
		Priority:    string(req.Priority),
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.log.Error("help request email failed", zap.Uint("id", req.ID), zap.Error(err))
	}
}

// ListByUser returns a user's requests, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.HelpRequest, error) {
	rows := []models.HelpRequest{}
	return rows, s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&rows).Error
}

// ListAll returns every request, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.HelpRequest, error) {
	rows := []models.HelpRequest{}
	return rows, s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error
}

func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
