package services

import (
	"errors"

	"github.com/softionyx/site/internal/pkg/validate"
)

type CreateServiceDTO struct {
	Title           string  `json:"title"            binding:"required"`
	Slug            string  `json:"slug"             binding:"required"`
	Icon            *string `json:"icon"`
	Description     string  `json:"description"      binding:"required"`
	LongDescription *string `json:"long_description"`
	Color           *string `json:"color"`
	OrderIndex      int     `json:"order_index"      binding:"min=0"`
	IsActive        *bool   `json:"is_active"`
}

// UpdateServiceDTO is a partial update: nil fields are left untouched.
type UpdateServiceDTO struct {
	Title           *string `json:"title"            binding:"omitempty,min=1"`
	Slug            *string `json:"slug"             binding:"omitempty,min=1"`
	Icon            *string `json:"icon"`
	Description     *string `json:"description"      binding:"omitempty,min=1"`
	LongDescription *string `json:"long_description"`
	Color           *string `json:"color"`
	OrderIndex      *int    `json:"order_index"      binding:"omitempty,min=0"`
	IsActive        *bool   `json:"is_active"`
}

var messages = validate.Messages{
	"title":       "Title is required",
	"slug":        "Slug is required",
	"description": "Description is required",
	"order_index": "Order index must be a non-negative number",
}

var (
	errServiceNotFound = errors.New("service not found")
	errSlugTaken       = errors.New("slug already exists")
)
