package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodToken = "token-123"

type fakeAPI struct {
	meStatus atomic.Int32
	lastLang atomic.Value
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authorized := func(r *http.Request) bool { return r.Header.Get("Authorization") == "Bearer "+goodToken }
	user := map[string]any{"id": 7, "email": "ana@example.com", "full_name": "Ana Pop", "role": "admin"}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.lastLang.Store(r.Header.Get("Accept-Language"))
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": goodToken, "user": user})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Registration successful"})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if status := int(f.meStatus.Load()); status != 0 {
			writeJSON(w, status, map[string]any{"success": false, "error": "unavailable"})
			return
		}
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, user)
	})
	mux.HandleFunc("GET /api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "No token provided"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"totalContacts": 3, "totalUsers": 2})
	})
	mux.HandleFunc("GET /api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{user})
	})
	return mux
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, api
}

func TestLoginPersistsToken(t *testing.T) {
	c, api := newTestClient(t, WithLanguage("ro"))
	store := FileTokenStore{Path: filepath.Join(t.TempDir(), "state", "token")}

	s, err := NewSession(c, store)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())

	require.NoError(t, s.Login(context.Background(), "ana@example.com", "secret1"))
	assert.True(t, s.Authenticated())
	assert.Equal(t, goodToken, s.Token())
	assert.Equal(t, "Ana Pop", s.User().FullName)
	assert.True(t, s.User().IsAdmin())
	assert.Equal(t, "ro", api.lastLang.Load())

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, goodToken, saved)

	restored, err := NewSession(c, store)
	require.NoError(t, err)
	assert.True(t, restored.Authenticated())
	assert.Nil(t, restored.User())
	require.NoError(t, restored.LoadUser(context.Background()))
	assert.Equal(t, "ana@example.com", restored.User().Email)
}

func TestLoginFailureKeepsStateAndSurfacesMessage(t *testing.T) {
	c, _ := newTestClient(t)
	s, err := NewSession(c, nil)
	require.NoError(t, err)

	err = s.Login(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.False(t, s.Authenticated())
	assert.Empty(t, c.Token())
}

func TestRegisterRejectsResponseWithoutToken(t *testing.T) {
	c, _ := newTestClient(t)
	s, err := NewSession(c, nil)
	require.NoError(t, err)

	err = s.Register(context.Background(), RegisterInput{Email: "x@example.com", Password: "secret1", FullName: "X"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.False(t, s.Authenticated())
}

func TestLoadUserClearsOnlyOn401(t *testing.T) {
	c, api := newTestClient(t)
	store := &MemoryTokenStore{}
	require.NoError(t, store.Save(goodToken))
	s, err := NewSession(c, store)
	require.NoError(t, err)

	api.meStatus.Store(http.StatusInternalServerError)
	err = s.LoadUser(context.Background())
	require.Error(t, err)
	assert.True(t, s.Authenticated())
	assert.Equal(t, goodToken, s.Token())

	api.meStatus.Store(http.StatusUnauthorized)
	err = s.LoadUser(context.Background())
	require.Error(t, err)
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.Empty(t, c.Token())
	saved, _ := store.Load()
	assert.Empty(t, saved)
}

func TestLoadUserWithoutToken(t *testing.T) {
	c, _ := newTestClient(t)
	s, err := NewSession(c, nil)
	require.NoError(t, err)
	require.NoError(t, s.LoadUser(context.Background()))
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.User())
}

func TestLogout(t *testing.T) {
	c, _ := newTestClient(t)
	store := FileTokenStore{Path: filepath.Join(t.TempDir(), "token")}
	s, err := NewSession(c, store)
	require.NoError(t, err)
	require.NoError(t, s.Login(context.Background(), "ana@example.com", "secret1"))

	require.NoError(t, s.Logout())
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, c.Token())
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
	require.NoError(t, s.Logout())
}

func TestAdminViews(t *testing.T) {
	c, _ := newTestClient(t)
	s, err := NewSession(c, nil)
	require.NoError(t, err)

	_, err = s.Stats(context.Background())
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	require.NoError(t, s.Login(context.Background(), "ana@example.com", "secret1"))
	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalContacts)
	assert.EqualValues(t, 2, stats.TotalUsers)

	raw, err := s.AdminView(context.Background(), ViewUsers)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ana@example.com")

	_, err = s.AdminView(context.Background(), AdminView(42))
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestParseAdminView(t *testing.T) {
	for _, v := range []AdminView{ViewStats, ViewContacts, ViewJobApplications, ViewUsers, ViewHelpRequests} {
		got, err := ParseAdminView(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	assert.Equal(t, "/api/admin/job-applications", ViewJobApplications.Path())
	_, err := ParseAdminView("settings")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
}
