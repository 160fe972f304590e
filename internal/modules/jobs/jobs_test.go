package jobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/softionyx/site/internal/database/dbtest"
	"github.com/softionyx/site/internal/middleware"
	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/jwt"
	"github.com/softionyx/site/internal/pkg/mail/mailtest"
	"github.com/softionyx/site/internal/pkg/storage"
	"github.com/softionyx/site/internal/pkg/validate"
)

type fixture struct {
	router    *gin.Engine
	db        *gorm.DB
	mailer    *mailtest.Recorder
	uploads   string
	adminAuth string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validate.Register()
	jwt.SetSecret("jobs-test-secret")
	t.Cleanup(func() { jwt.SetSecret("") })

	db := dbtest.Open(t)
	dir := t.TempDir()
	store, err := storage.NewLocal(dir, "http://localhost:3000")
	require.NoError(t, err)
	mailer := mailtest.New()
	log := zaptest.NewLogger(t)

	r := gin.New()
	NewHandler(NewService(db, store, mailer, "hr@softionyx.com", log)).
		RegisterRoutes(r.Group("/api"), middleware.RateLimit(middleware.NewMemoryStore(), middleware.APILimit, log))

	token, err := jwt.Sign(1, "admin@softionyx.com", string(models.RoleAdmin), time.Hour)
	require.NoError(t, err)
	return &fixture{router: r, db: db, mailer: mailer, uploads: dir, adminAuth: token}
}

func (f *fixture) json(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type resume struct {
	name, contentType string
	data              []byte
}

func (f *fixture) apply(t *testing.T, jobID uint, fields map[string]string, file *resume) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename="%s"`, file.name))
		h.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) seedJob(t *testing.T, title string, status models.JobStatus) models.JobPosting {
	t.Helper()
	job := models.JobPosting{Title: title, Description: "Build things", Status: status}
	require.NoError(t, f.db.Create(&job).Error)
	return job
}

func (f *fixture) applications() int64 {
	var n int64
	f.db.Model(&models.JobApplication{}).Count(&n)
	return n
}

func storedFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(dir, "resumes"))
	require.NoError(t, err)
	return entries
}

type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// streamedApplication is a multipart application whose resume part is size
// bytes of zeros, generated while the server reads it.
func streamedApplication(t *testing.T, fields map[string]string, size int64) (*countingReader, string) {
	t.Helper()
	var head bytes.Buffer
	mw := multipart.NewWriter(&head)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="resume"; filename="cv.pdf"`)
	h.Set("Content-Type", "application/pdf")
	_, err := mw.CreatePart(h)
	require.NoError(t, err)

	tail := strings.NewReader("\r\n--" + mw.Boundary() + "--\r\n")
	body := &countingReader{r: io.MultiReader(&head, io.LimitReader(zeros{}, size), tail)}
	return body, mw.FormDataContentType()
}

var applicant = map[string]string{"full_name": "Maria Ionescu", "email": "maria@example.com", "cover_letter": "Hire me"}

func TestListAndGetOnlyActive(t *testing.T) {
	f := setup(t)
	active := f.seedJob(t, "Go Engineer", models.JobStatusActive)
	draft := f.seedJob(t, "Secret Role", models.JobStatusDraft)

	w := f.json(t, http.MethodGet, "/api/jobs", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.JobPosting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	assert.Equal(t, http.StatusOK, f.json(t, http.MethodGet, fmt.Sprintf("/api/jobs/%d", active.ID), "", "").Code)
	w = f.json(t, http.MethodGet, fmt.Sprintf("/api/jobs/%d", draft.ID), "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Job not found")
	assert.Equal(t, http.StatusNotFound, f.json(t, http.MethodGet, "/api/jobs/abc", "", "").Code)
}

func TestApplyWithResume(t *testing.T) {
	f := setup(t)
	job := f.seedJob(t, "Go Engineer", models.JobStatusActive)

	w := f.apply(t, job.ID, applicant, &resume{"cv.pdf", "application/pdf", []byte("%PDF-1.7")})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		Success     bool                  `json:"success"`
		Message     string                `json:"message"`
		Application models.JobApplication `json:"application"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Application submitted successfully", out.Message)
	require.NotNil(t, out.Application.ResumeURL)
	assert.True(t, strings.HasPrefix(*out.Application.ResumeURL, "http://localhost:3000/uploads/resumes/"))
	assert.True(t, strings.HasSuffix(*out.Application.ResumeURL, ".pdf"))
	assert.Equal(t, models.ApplicationStatusPending, out.Application.Status)
	assert.Len(t, storedFiles(t, f.uploads), 1)

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "New Job Application: Go Engineer", sent[0].Subject)
	assert.Equal(t, "maria@example.com", sent[0].ReplyTo)
}

func TestApplyWithoutResume(t *testing.T) {
	f := setup(t)
	job := f.seedJob(t, "Go Engineer", models.JobStatusActive)

	w := f.apply(t, job.ID, applicant, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"resume_url":null`)
}

func TestApplyToInactiveOrMissingJob(t *testing.T) {
	f := setup(t)
	closed := f.seedJob(t, "Old Role", models.JobStatusClosed)
	cv := &resume{"cv.pdf", "application/pdf", []byte("%PDF")}

	for _, id := range []uint{closed.ID, 4242} {
		w := f.apply(t, id, applicant, cv)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Job not found or not active")
	}
	assert.Zero(t, f.applications())
	assert.Empty(t, storedFiles(t, f.uploads))
}

func TestApplyRejectsBadResume(t *testing.T) {
	f := setup(t)
	job := f.seedJob(t, "Go Engineer", models.JobStatusActive)

	w := f.apply(t, job.ID, applicant, &resume{"cv.png", "image/png", []byte("png")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid file type. Only PDF, DOC, and DOCX files are allowed.")

	big := bytes.Repeat([]byte("a"), int(storage.Resume.MaxSize)+1)
	w = f.apply(t, job.ID, applicant, &resume{"cv.pdf", "application/pdf", big})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File too large")

	w = f.apply(t, job.ID, map[string]string{"full_name": "M", "email": "maria@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Full name is required")

	assert.Zero(t, f.applications())
}

func TestApplyStopsReadingOversizedBody(t *testing.T) {
	f := setup(t)
	job := f.seedJob(t, "Go Engineer", models.JobStatusActive)

	body, contentType := streamedApplication(t, applicant, 60<<20)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", job.ID), body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File too large. Maximum size is 5MB.")
	assert.LessOrEqual(t, body.n, storage.Resume.BodyLimit()+1)
	assert.Zero(t, f.applications())
	assert.Empty(t, storedFiles(t, f.uploads))
}

func TestApplyRemovesResumeWhenInsertFails(t *testing.T) {
	f := setup(t)
	job := f.seedJob(t, "Go Engineer", models.JobStatusActive)
	require.NoError(t, f.db.Migrator().DropTable(&models.JobApplication{}))

	w := f.apply(t, job.ID, applicant, &resume{"cv.pdf", "application/pdf", []byte("%PDF-1.7")})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, storedFiles(t, f.uploads))
	assert.Empty(t, f.mailer.Sent())
}

func TestAdminCRUD(t *testing.T) {
	f := setup(t)

	userToken, err := jwt.Sign(2, "u@example.com", "user", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, f.json(t, http.MethodPost, "/api/jobs", `{"title":"X","description":"Y"}`, userToken).Code)
	assert.Equal(t, http.StatusUnauthorized, f.json(t, http.MethodPost, "/api/jobs", `{"title":"X","description":"Y"}`, "").Code)

	w := f.json(t, http.MethodPost, "/api/jobs", `{"title":"Designer","description":"Make it pretty","location":"Remote"}`, f.adminAuth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var job models.JobPosting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, models.JobStatusDraft, job.Status)

	w = f.json(t, http.MethodPost, "/api/jobs", `{"description":"no title"}`, f.adminAuth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title is required")

	w = f.json(t, http.MethodPut, fmt.Sprintf("/api/jobs/%d", job.ID), `{"status":"active"}`, f.adminAuth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.JobPosting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.JobStatusActive, updated.Status)
	assert.Equal(t, "Designer", updated.Title)
	require.NotNil(t, updated.Location)
	assert.Equal(t, "Remote", *updated.Location)

	assert.Equal(t, http.StatusBadRequest, f.json(t, http.MethodPut, fmt.Sprintf("/api/jobs/%d", job.ID), `{"status":"open"}`, f.adminAuth).Code)
	assert.Equal(t, http.StatusNotFound, f.json(t, http.MethodPut, "/api/jobs/999", `{"title":"x"}`, f.adminAuth).Code)

	w = f.json(t, http.MethodDelete, fmt.Sprintf("/api/jobs/%d", job.ID), "", f.adminAuth)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, f.json(t, http.MethodDelete, fmt.Sprintf("/api/jobs/%d", job.ID), "", f.adminAuth).Code)
}
