package admin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/pagination"
)

const (
	recentLimit = 5
	statsMonths = 6
	monthLayout = "2006-01"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log, now: time.Now}
}

// Stats computes the dashboard numbers. Queries run concurrently and
// nothing is cached.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{
		RecentContacts:        []models.ContactSubmission{},
		RecentHelpRequests:    []models.HelpRequest{},
		RecentJobApplications: []models.JobApplication{},
		HelpRequestsByStatus:  []StatusCount{},
	}
	g, gctx := errgroup.WithContext(ctx)
	db := func() *gorm.DB { return s.db.WithContext(gctx) }

	count := func(dst *int64, model interface{}, query ...interface{}) {
		g.Go(func() error {
			tx := db().Model(model)
			if len(query) > 0 {
				tx = tx.Where(query[0], query[1:]...)
			}
			return tx.Count(dst).Error
		})
	}
	count(&st.TotalContacts, &models.ContactSubmission{})
	count(&st.TotalHelpRequests, &models.HelpRequest{})
	count(&st.TotalJobApplications, &models.JobApplication{})
	count(&st.TotalBlogPosts, &models.BlogPost{}, "status = ?", models.PostStatusPublished)
	count(&st.TotalUsers, &models.User{})
	count(&st.TotalServices, &models.Service{}, "is_active = ?", true)

	g.Go(func() error {
		return db().Order("created_at DESC, id DESC").Limit(recentLimit).Find(&st.RecentContacts).Error
	})
	g.Go(func() error {
		return db().Order("created_at DESC, id DESC").Limit(recentLimit).Find(&st.RecentHelpRequests).Error
	})
	g.Go(func() error {
		return s.applications(db()).Limit(recentLimit).Find(&st.RecentJobApplications).Error
	})
	g.Go(func() error {
		return db().Model(&models.HelpRequest{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Order("count DESC, status ASC").
			Scan(&st.HelpRequestsByStatus).Error
	})
	g.Go(func() error {
		months, err := s.contactsByMonth(db())
		st.ContactsByMonth = months
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return st, nil
}

// contactsByMonth buckets contact submissions of the last six months by
// calendar month. Grouping happens here so the query stays portable.
func (s *Service) contactsByMonth(tx *gorm.DB) ([]MonthCount, error) {
	var stamps []time.Time
	since := s.now().AddDate(0, -statsMonths, 0)
	err := tx.Model(&models.ContactSubmission{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &stamps).Error
	if err != nil {
		return nil, err
	}

	buckets := map[string]int64{}
	for _, t := range stamps {
		buckets[t.UTC().Format(monthLayout)]++
	}
	out := make([]MonthCount, 0, len(buckets))
	for month, n := range buckets {
		out = append(out, MonthCount{Month: month, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (s *Service) applications(tx *gorm.DB) *gorm.DB {
	return tx.Model(&models.JobApplication{}).
		Select("job_applications.*, job_postings.title AS job_title").
		Joins("JOIN job_postings ON job_postings.id = job_applications.job_id").
		Order("job_applications.created_at DESC, job_applications.id DESC")
}

// Contacts and the other list methods return every row, or a
// pagination.Page when q is set.
func (s *Service) Contacts(ctx context.Context, q *pagination.Query) (interface{}, error) {
	tx := s.db.WithContext(ctx).Model(&models.ContactSubmission{}).Order("created_at DESC, id DESC")
	return pagination.Load[models.ContactSubmission](tx, q)
}

func (s *Service) Applications(ctx context.Context, q *pagination.Query) (interface{}, error) {
	return pagination.Load[models.JobApplication](s.applications(s.db.WithContext(ctx)), q)
}

func (s *Service) Users(ctx context.Context, q *pagination.Query) (interface{}, error) {
	tx := s.db.WithContext(ctx).Model(&models.User{}).
		Select("id, email, full_name, company_name, phone, role, is_active, created_at").
		Order("created_at DESC, id DESC")
	return pagination.Load[userRow](tx, q)
}

func (s *Service) HelpRequests(ctx context.Context, q *pagination.Query) (interface{}, error) {
	tx := s.db.WithContext(ctx).Model(&models.HelpRequest{}).Order("created_at DESC, id DESC")
	return pagination.Load[models.HelpRequest](tx, q)
}

// setStatus updates the status column of row id and reloads it into dst.
func (s *Service) setStatus(ctx context.Context, dst interface{}, id uint, status string, notFound error) error {
	res := s.db.WithContext(ctx).Model(dst).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	if err := s.db.WithContext(ctx).First(dst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return err
	}
	return nil
}

func (s *Service) UpdateContactStatus(ctx context.Context, id uint, status models.ContactStatus) (*models.ContactSubmission, error) {
	var row models.ContactSubmission
	if err := s.setStatus(ctx, &row, id, string(status), errContactNotFound); err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) UpdateApplicationStatus(ctx context.Context, id uint, status models.ApplicationStatus) (*models.JobApplication, error) {
	var row models.JobApplication
	if err := s.setStatus(ctx, &row, id, string(status), errApplicationNotFound); err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) UpdateHelpStatus(ctx context.Context, id uint, status models.HelpStatus) (*models.HelpRequest, error) {
	var row models.HelpRequest
	if err := s.setStatus(ctx, &row, id, string(status), errHelpNotFound); err != nil {
		return nil, err
	}
	return &row, nil
}
