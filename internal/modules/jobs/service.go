package jobs

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/mail"
	"github.com/softionyx/site/internal/pkg/storage"
)

type Service struct {
	db        *gorm.DB
	store     storage.Storage
	mailer    mail.Mailer
	recipient string
	log       *zap.Logger
}

func NewService(db *gorm.DB, store storage.Storage, mailer mail.Mailer, recipient string, log *zap.Logger) *Service {
	return &Service{db: db, store: store, mailer: mailer, recipient: recipient, log: log}
}

// ListActive returns active postings, newest first.
func (s *Service) ListActive(ctx context.Context) ([]models.JobPosting, error) {
	rows := []models.JobPosting{}
	err := s.db.WithContext(ctx).
		Where("status = ?", models.JobStatusActive).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

// GetActive returns errJobNotFound unless the posting exists and is active.
func (s *Service) GetActive(ctx context.Context, id uint) (*models.JobPosting, error) {
	var job models.JobPosting
	err := s.db.WithContext(ctx).Where("id = ? AND status = ?", id, models.JobStatusActive).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// Apply records an application to an active posting. The resume, if
// given, must already have passed storage.Resume.Check and is stored only
// once the posting is known to be active.
func (s *Service) Apply(ctx context.Context, jobID uint, dto *ApplyDTO, resume *multipart.FileHeader) (*models.JobApplication, error) {
	job, err := s.GetActive(ctx, jobID)
	if err != nil {
		if errors.Is(err, errJobNotFound) {
			return nil, errJobNotActive
		}
		return nil, err
	}

	app := models.JobApplication{
		JobID:       job.ID,
		FullName:    strings.TrimSpace(dto.FullName),
		Email:       strings.TrimSpace(dto.Email),
		Phone:       optional(dto.Phone),
		CoverLetter: optional(dto.CoverLetter),
		Status:      models.ApplicationStatusPending,
	}
	var stored *storage.Object
	if resume != nil {
		obj, err := storage.Upload(ctx, s.store, storage.Resume, resume)
		if err != nil {
			return nil, fmt.Errorf("store resume: %w", err)
		}
		stored = &obj
		app.ResumeURL = &obj.URL
	}

	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		if stored != nil {
			s.discard(ctx, stored)
		}
		return nil, fmt.Errorf("create application: %w", err)
	}
	s.log.Info("job application received", zap.Uint("job_id", job.ID), zap.String("email", app.Email))

	s.notify(ctx, job, &app)
	return &app, nil
}

// discard removes a resume whose application row was never written.
func (s *Service) discard(ctx context.Context, obj *storage.Object) {
	if err := s.store.Delete(context.WithoutCancel(ctx), obj.Folder, obj.Name); err != nil {
		s.log.Warn("orphaned resume not removed", zap.String("url", obj.URL), zap.Error(err))
	}
}

func (s *Service) notify(ctx context.Context, job *models.JobPosting, app *models.JobApplication) {
	if s.mailer == nil || !s.mailer.Enabled() || s.recipient == "" {
		return
	}
	data := mail.JobApplicationData{
		JobTitle: job.Title,
		Name:     app.FullName,
		Email:    app.Email,
	}
	if app.Phone != nil {
		data.Phone = *app.Phone
	}
	if app.ResumeURL != nil {
		data.ResumeURL = *app.ResumeURL
	}
	if app.CoverLetter != nil {
		data.CoverLetter = *app.CoverLetter
	}
	msg, err := mail.JobApplicationMessage(s.recipient, data)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.log.Error("job application email failed", zap.Uint("application_id", app.ID), zap.Error(err))
	}
}

// Create stores a posting; status defaults to draft.
func (s *Service) Create(ctx context.Context, dto *CreateJobDTO) (*models.JobPosting, error) {
	status := dto.Status
	if status == "" {
		status = models.JobStatusDraft
	}
	job := models.JobPosting{
		Title:          dto.Title,
		Department:     optionalPtr(dto.Department),
		Location:       optionalPtr(dto.Location),
		EmploymentType: optionalPtr(dto.EmploymentType),
		Description:    dto.Description,
		Requirements:   optionalPtr(dto.Requirements),
		SalaryRange:    optionalPtr(dto.SalaryRange),
		Status:         status,
	}
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return &job, nil
}

// Update writes only the fields present in dto.
func (s *Service) Update(ctx context.Context, id uint, dto *UpdateJobDTO) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := s.db.WithContext(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errJobNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Department != nil {
		updates["department"] = optionalPtr(dto.Department)
	}
	if dto.Location != nil {
		updates["location"] = optionalPtr(dto.Location)
	}
	if dto.EmploymentType != nil {
		updates["employment_type"] = optionalPtr(dto.EmploymentType)
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Requirements != nil {
		updates["requirements"] = optionalPtr(dto.Requirements)
	}
	if dto.SalaryRange != nil {
		updates["salary_range"] = optionalPtr(dto.SalaryRange)
	}
	if dto.Status != nil {
		updates["status"] = *dto.Status
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&job).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update job: %w", err)
		}
	}
	if err := s.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.JobPosting{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errJobNotFound
	}
	return nil
}

func optional(s string) *string {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return &v
}

func optionalPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(*s)
}
