package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/softionyx/site/internal/config"
	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/mail"
	"github.com/softionyx/site/internal/pkg/validate"
)

type SubmitDTO struct {
	Name    string `json:"name"    binding:"required,min=2"`
	Email   string `json:"email"   binding:"required,email"`
	Phone   string `json:"phone"   binding:"omitempty,phone"`
	Subject string `json:"subject" binding:"required,min=3"`
	Message string `json:"message" binding:"required,min=10"`
}

var messages = validate.Messages{
	"name":    "Name must be at least 2 characters",
	"email":   "Invalid email address",
	"phone":   validate.PhoneMessage,
	"subject": "Subject must be at least 3 characters",
	"message": "Message must be at least 10 characters",
}

var (
	errSave              = errors.New("save contact submission")
	errNoRecipient       = errors.New("contact recipient is not configured")
	errMailNotConfigured = errors.New("smtp is not configured")
	errSendFailed        = errors.New("send contact email")
)

type Service struct {
	db        *gorm.DB
	mailer    mail.Mailer
	recipient string
	mode      string
	log       *zap.Logger
}

// NewService builds the contact service. mode is config.ContactModePersist
// or config.ContactModeNotify.
func NewService(db *gorm.DB, mailer mail.Mailer, recipient, mode string, log *zap.Logger) *Service {
	if mode == "" {
		mode = config.ContactModePersist
	}
	return &Service{db: db, mailer: mailer, recipient: strings.TrimSpace(recipient), mode: mode, log: log}
}

// Submit stores and/or forwards a contact form message according to the
// configured mode.
func (s *Service) Submit(ctx context.Context, dto *SubmitDTO) error {
	row := models.ContactSubmission{
		Name:    strings.TrimSpace(dto.Name),
		Email:   strings.TrimSpace(dto.Email),
		Subject: strings.TrimSpace(dto.Subject),
		Message: dto.Message,
		Status:  models.ContactStatusNew,
	}
	if p := strings.TrimSpace(dto.Phone); p != "" {
		row.Phone = &p
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if s.mode == config.ContactModePersist {
			return fmt.Errorf("%w: %v", errSave, err)
		}
		s.log.Warn("contact submission not saved", zap.Error(err))
	} else {
		s.log.Info("contact submission saved", zap.Uint("id", row.ID), zap.String("email", row.Email))
	}

	err := s.notify(ctx, dto)
	if err == nil {
		return nil
	}
	if s.mode == config.ContactModeNotify {
		return err
	}
	s.log.Error("contact notification failed", zap.Error(err))
	return nil
}

func (s *Service) notify(ctx context.Context, dto *SubmitDTO) error {
	if s.recipient == "" {
		return errNoRecipient
	}
	if s.mailer == nil || !s.mailer.Enabled() {
		return errMailNotConfigured
	}

	msg, err := mail.ContactMessage(s.recipient, mail.ContactData{
		Name: dto.Name, Email: dto.Email, Phone: dto.Phone, Subject: dto.Subject, Message: dto.Message,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errSendFailed, err)
	}

	err = s.mailer.Send(ctx, msg)
	if errors.Is(err, mail.ErrSenderRejected) && s.mailer.Account() != "" {
		s.log.Warn("sender rejected, resending from account", zap.Error(err))
		msg.From = mail.Address(dto.Name+" via SoftIonyx", s.mailer.Account())
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errSendFailed, err)
	}
	s.log.Info("contact email sent", zap.String("to", s.recipient), zap.String("from", dto.Email))
	return nil
}
