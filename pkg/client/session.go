package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

type User struct {
	ID          uint    `json:"id"`
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	CompanyName *string `json:"company_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Role        string  `json:"role"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == "admin" }

type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Session tracks the signed-in user. A persisted token counts as
// authenticated until the server rejects it.
type Session struct {
	api   *Client
	store TokenStore

	mu            sync.RWMutex
	user          *User
	token         string
	authenticated bool
}

// NewSession restores any token held by store.
func NewSession(api *Client, store TokenStore) (*Session, error) {
	if store == nil {
		store = &MemoryTokenStore{}
	}
	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	s := &Session{api: api, store: store}
	s.setToken(token)
	s.authenticated = token != ""
	return s, nil
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Session) Register(ctx context.Context, in RegisterInput) error {
	return s.authenticate(ctx, "/api/auth/register", in)
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, "/api/auth/login", map[string]string{"email": email, "password": password})
}

func (s *Session) authenticate(ctx context.Context, path string, body any) error {
	var out authResponse
	if err := s.api.Do(ctx, http.MethodPost, path, body, &out); err != nil {
		return err
	}
	if out.Token == "" || out.User == nil {
		return ErrInvalidResponse
	}
	if err := s.store.Save(out.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setToken(out.Token)
	s.user = out.User
	s.authenticated = true
	return nil
}

// Logout forgets the token locally. The API is stateless so nothing is sent.
func (s *Session) Logout() error {
	err := s.store.Clear()
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
	return err
}

// LoadUser refreshes the current user from /api/auth/me. Only a 401 clears
// the session; other failures are returned with the state untouched.
func (s *Session) LoadUser(ctx context.Context) error {
	if s.Token() == "" {
		s.mu.Lock()
		s.user = nil
		s.authenticated = false
		s.mu.Unlock()
		return nil
	}

	var u User
	err := s.api.Do(ctx, http.MethodGet, "/api/auth/me", nil, &u)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			_ = s.store.Clear()
			s.mu.Lock()
			s.reset()
			s.mu.Unlock()
		}
		return err
	}

	s.mu.Lock()
	s.user = &u
	s.authenticated = true
	s.mu.Unlock()
	return nil
}

// setToken must be called with mu held or before the session is shared.
func (s *Session) setToken(token string) {
	s.token = token
	s.api.SetToken(token)
}

func (s *Session) reset() {
	s.setToken("")
	s.user = nil
	s.authenticated = false
}
