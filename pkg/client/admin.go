package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// AdminView is one of the fixed admin dashboard tabs.
type AdminView int

const (
	ViewStats AdminView = iota
	ViewContacts
	ViewJobApplications
	ViewUsers
	ViewHelpRequests
)

var adminViews = [...]string{
	ViewStats:           "stats",
	ViewContacts:        "contacts",
	ViewJobApplications: "job-applications",
	ViewUsers:           "users",
	ViewHelpRequests:    "help-requests",
}

var ErrUnknownView = errors.New("unknown admin view")

func (v AdminView) String() string {
	if !v.Valid() {
		return fmt.Sprintf("AdminView(%d)", int(v))
	}
	return adminViews[v]
}

func (v AdminView) Valid() bool { return v >= 0 && int(v) < len(adminViews) }

// Path is the API route backing the view.
func (v AdminView) Path() string { return "/api/admin/" + v.String() }

// ParseAdminView maps a tab name such as "job-applications" to its view.
func ParseAdminView(name string) (AdminView, error) {
	for i, n := range adminViews {
		if n == name {
			return AdminView(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// AdminView fetches the raw JSON for view with the session's token.
func (s *Session) AdminView(ctx context.Context, view AdminView) (json.RawMessage, error) {
	if !view.Valid() {
		return nil, ErrUnknownView
	}
	var raw json.RawMessage
	if err := s.api.Do(ctx, http.MethodGet, view.Path(), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Stats holds the dashboard totals returned by ViewStats.
type Stats struct {
	TotalContacts        int64 `json:"totalContacts"`
	TotalHelpRequests    int64 `json:"totalHelpRequests"`
	TotalJobApplications int64 `json:"totalJobApplications"`
	TotalBlogPosts       int64 `json:"totalBlogPosts"`
	TotalUsers           int64 `json:"totalUsers"`
	TotalServices        int64 `json:"totalServices"`
}

func (s *Session) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := s.api.Do(ctx, http.MethodGet, ViewStats.Path(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
