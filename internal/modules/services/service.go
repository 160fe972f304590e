package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/softionyx/site/internal/models"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// ListActive returns active services in display order.
func (s *Service) ListActive(ctx context.Context) ([]models.Service, error) {
	rows := []models.Service{}
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("order_index ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (s *Service) GetActive(ctx context.Context, slug string) (*models.Service, error) {
	var svc models.Service
	err := s.db.WithContext(ctx).Where("slug = ? AND is_active = ?", slug, true).First(&svc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errServiceNotFound
		}
		return nil, err
	}
	return &svc, nil
}

// Create inserts a service; is_active defaults to true.
func (s *Service) Create(ctx context.Context, dto *CreateServiceDTO) (*models.Service, error) {
	svc := models.Service{
		Title:           dto.Title,
		Slug:            strings.TrimSpace(dto.Slug),
		Icon:            optional(dto.Icon),
		Description:     dto.Description,
		LongDescription: optional(dto.LongDescription),
		Color:           optional(dto.Color),
		OrderIndex:      dto.OrderIndex,
		IsActive:        dto.IsActive == nil || *dto.IsActive,
	}
	if err := s.db.WithContext(ctx).Create(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errSlugTaken
		}
		return nil, fmt.Errorf("create service: %w", err)
	}
	s.log.Info("service created", zap.Uint("id", svc.ID), zap.String("slug", svc.Slug))
	return &svc, nil
}

func (s *Service) Update(ctx context.Context, id uint, dto *UpdateServiceDTO) (*models.Service, error) {
	var svc models.Service
	if err := s.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errServiceNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Slug != nil {
		updates["slug"] = strings.TrimSpace(*dto.Slug)
	}
	if dto.Icon != nil {
		updates["icon"] = optional(dto.Icon)
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.LongDescription != nil {
		updates["long_description"] = optional(dto.LongDescription)
	}
	if dto.Color != nil {
		updates["color"] = optional(dto.Color)
	}
	if dto.OrderIndex != nil {
		updates["order_index"] = *dto.OrderIndex
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&svc).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, errSlugTaken
			}
			return nil, fmt.Errorf("update service: %w", err)
		}
	}
	if err := s.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Service{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errServiceNotFound
	}
	return nil
}

func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
