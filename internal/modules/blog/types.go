package blog

import (
	"errors"

	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/validate"
)

type CreatePostDTO struct {
	Title         string            `json:"title"          binding:"required"`
	Slug          string            `json:"slug"           binding:"required"`
	Excerpt       *string           `json:"excerpt"`
	Content       string            `json:"content"        binding:"required"`
	FeaturedImage *string           `json:"featured_image" binding:"omitempty,url|len=0"`
	Status        models.PostStatus `json:"status"         binding:"omitempty,oneof=draft published archived"`
}

type UpdatePostDTO struct {
	Title         *string            `json:"title"          binding:"omitempty,min=1"`
	Slug          *string            `json:"slug"           binding:"omitempty,min=1"`
	Excerpt       *string            `json:"excerpt"`
	Content       *string            `json:"content"        binding:"omitempty,min=1"`
	FeaturedImage *string            `json:"featured_image" binding:"omitempty,url|len=0"`
	Status        *models.PostStatus `json:"status"         binding:"omitempty,oneof=draft published archived"`
}

var messages = validate.Messages{
	"title":          "Title is required",
	"slug":           "Slug is required",
	"content":        "Content is required",
	"featured_image": "Featured image must be a valid URL",
	"status":         "Status must be one of: draft, published, archived",
}

// postDetail is the single-post response; content_html is rendered on read.
type postDetail struct {
	models.BlogPost
	ContentHTML string `json:"content_html"`
}

var (
	errPostNotFound = errors.New("post not found")
	errSlugTaken    = errors.New("slug already exists")
)
