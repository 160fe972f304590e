package blog

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/markdown"
	"github.com/softionyx/site/internal/pkg/storage"
)

// Service handles blog post business logic.
type Service struct {
	db    *gorm.DB
	store storage.Storage
	log   *zap.Logger
	now   func() time.Time
}

func NewService(db *gorm.DB, store storage.Storage, log *zap.Logger) *Service {
	return &Service{db: db, store: store, log: log, now: time.Now}
}

func (s *Service) withAuthor(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Select("blog_posts.*, users.full_name AS author_name").
		Joins("LEFT JOIN users ON users.id = blog_posts.author_id")
}

// ListPublished returns published posts, most recently published first.
func (s *Service) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	rows := []models.BlogPost{}
	err := s.withAuthor(ctx).
		Where("blog_posts.status = ?", models.PostStatusPublished).
		Order("blog_posts.published_at DESC, blog_posts.id DESC").
		Find(&rows).Error
	return rows, err
}

// GetPublished fetches a published post by slug and counts the view.
func (s *Service) GetPublished(ctx context.Context, slug string) (*postDetail, error) {
	var post models.BlogPost
	err := s.withAuthor(ctx).
		Where("blog_posts.slug = ? AND blog_posts.status = ?", slug, models.PostStatusPublished).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPostNotFound
		}
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.BlogPost{}).Where("id = ?", post.ID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		s.log.Warn("increment post views failed", zap.Uint("id", post.ID), zap.Error(err))
	} else {
		post.Views++
	}
	return &postDetail{BlogPost: post, ContentHTML: markdown.Render(post.Content)}, nil
}

// Create inserts a post authored by authorID. Status defaults to draft;
// published_at is stamped when created as published.
func (s *Service) Create(ctx context.Context, authorID uint, dto *CreatePostDTO) (*models.BlogPost, error) {
	status := dto.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	post := models.BlogPost{
		Title:         dto.Title,
		Slug:          strings.TrimSpace(dto.Slug),
		Excerpt:       optional(dto.Excerpt),
		Content:       dto.Content,
		FeaturedImage: optional(dto.FeaturedImage),
		AuthorID:      authorID,
		Status:        status,
	}
	if status == models.PostStatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errSlugTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.log.Info("blog post created", zap.Uint("id", post.ID), zap.String("slug", post.Slug))
	return &post, nil
}

// Update patches a post. Setting status to published restamps published_at.
func (s *Service) Update(ctx context.Context, id uint, dto *UpdatePostDTO) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPostNotFound
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
	if dto.Excerpt != nil {
		updates["excerpt"] = optional(dto.Excerpt)
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.FeaturedImage != nil {
		updates["featured_image"] = optional(dto.FeaturedImage)
	}
	if dto.Status != nil {
		updates["status"] = *dto.Status
		if *dto.Status == models.PostStatusPublished {
			updates["published_at"] = s.now()
		}
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&post).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, errSlugTaken
			}
			return nil, fmt.Errorf("update post: %w", err)
		}
	}

	var out models.BlogPost
	if err := s.withAuthor(ctx).Where("blog_posts.id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.BlogPost{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errPostNotFound
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

// UploadImage stores an inline or featured image and returns its URL.
func (s *Service) UploadImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	obj, err := storage.Upload(ctx, s.store, storage.Image, fh)
	if err != nil {
		return "", err
	}
	s.log.Info("blog image uploaded", zap.String("url", obj.URL))
	return obj.URL, nil
}
