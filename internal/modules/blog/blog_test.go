package blog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
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
	"github.com/softionyx/site/internal/pkg/storage"
	"github.com/softionyx/site/internal/pkg/validate"
)

type fixture struct {
	router *gin.Engine
	db     *gorm.DB
	svc    *Service
	admin  models.User
	token  string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validate.Register()
	jwt.SetSecret("blog-test-secret")
	t.Cleanup(func() { jwt.SetSecret("") })

	db := dbtest.Open(t)
	store, err := storage.NewLocal(t.TempDir(), "http://localhost:3000")
	require.NoError(t, err)
	log := zaptest.NewLogger(t)
	svc := NewService(db, store, log)

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"),
		middleware.RateLimit(middleware.NewMemoryStore(), middleware.APILimit, log))

	admin := models.User{Email: "admin@softionyx.com", PasswordHash: "x", FullName: "Site Admin", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)
	token, err := jwt.Sign(admin.ID, admin.Email, string(admin.Role), time.Hour)
	require.NoError(t, err)
	return &fixture{router: r, db: db, svc: svc, admin: admin, token: token}
}

func (f *fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) create(t *testing.T, body string) models.BlogPost {
	t.Helper()
	w := f.do(http.MethodPost, "/api/blog", body, f.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post models.BlogPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	return post
}

func TestCreateDefaultsToDraft(t *testing.T) {
	f := setup(t)

	post := f.create(t, `{"title":"Hello","slug":"hello","content":"# Hi"}`)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
	assert.Equal(t, f.admin.ID, post.AuthorID)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/blog/hello", "", "").Code)
}

func TestCreatePublishedStampsPublishedAt(t *testing.T) {
	f := setup(t)
	post := f.create(t, `{"title":"Launch","slug":"launch","content":"We launched","status":"published"}`)
	require.NotNil(t, post.PublishedAt)
}

func TestUpdateToPublishedSetsPublishedAt(t *testing.T) {
	f := setup(t)
	post := f.create(t, `{"title":"Later","slug":"later","content":"Soon"}`)

	stamp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return stamp }

	w := f.do(http.MethodPut, fmt.Sprintf("/api/blog/%d", post.ID), `{"status":"published"}`, f.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.BlogPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.PostStatusPublished, updated.Status)
	require.NotNil(t, updated.PublishedAt)
	assert.True(t, stamp.Equal(*updated.PublishedAt))
	assert.Equal(t, "Later", updated.Title)
	require.NotNil(t, updated.AuthorName)
	assert.Equal(t, "Site Admin", *updated.AuthorName)

	// A title-only edit leaves published_at alone.
	f.svc.now = func() time.Time { return stamp.Add(time.Hour) }
	w = f.do(http.MethodPut, fmt.Sprintf("/api/blog/%d", post.ID), `{"title":"Later, now"}`, f.token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, stamp.Equal(*updated.PublishedAt))
}

func TestListAndGetPublished(t *testing.T) {
	f := setup(t)
	f.svc.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	f.create(t, `{"title":"Old","slug":"old","content":"old","status":"published"}`)
	f.svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	f.create(t, `{"title":"New","slug":"new","content":"**bold** text","status":"published"}`)
	f.create(t, `{"title":"Hidden","slug":"hidden","content":"x"}`)

	w := f.do(http.MethodGet, "/api/blog", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.BlogPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Slug)
	assert.Equal(t, "old", list[1].Slug)
	require.NotNil(t, list[0].AuthorName)
	assert.Equal(t, "Site Admin", *list[0].AuthorName)

	for want := 1; want <= 2; want++ {
		w = f.do(http.MethodGet, "/api/blog/new", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var detail struct {
			Views       int    `json:"views"`
			ContentHTML string `json:"content_html"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
		assert.Equal(t, want, detail.Views)
		assert.Contains(t, detail.ContentHTML, "<strong>bold</strong>")
	}
}

func TestValidationAndDuplicateSlug(t *testing.T) {
	f := setup(t)
	f.create(t, `{"title":"One","slug":"same","content":"x"}`)

	w := f.do(http.MethodPost, "/api/blog", `{"title":"Two","slug":"same","content":"y"}`, f.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Slug already exists")

	w = f.do(http.MethodPost, "/api/blog", `{"title":"Two","content":"y"}`, f.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Slug is required")

	w = f.do(http.MethodPost, "/api/blog", `{"title":"Two","slug":"two","content":"y","featured_image":"not a url"}`, f.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Featured image must be a valid URL")

	post := f.create(t, `{"title":"Two","slug":"two","content":"y","featured_image":""}`)
	assert.Nil(t, post.FeaturedImage)

	w = f.do(http.MethodPut, fmt.Sprintf("/api/blog/%d", post.ID), `{"slug":"same"}`, f.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Slug already exists")
}

func TestDeleteAndAdminOnly(t *testing.T) {
	f := setup(t)
	post := f.create(t, `{"title":"Bye","slug":"bye","content":"x"}`)

	userToken, err := jwt.Sign(99, "u@example.com", "user", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, fmt.Sprintf("/api/blog/%d", post.ID), "", userToken).Code)

	w := f.do(http.MethodDelete, fmt.Sprintf("/api/blog/%d", post.ID), "", f.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Post deleted successfully")

	w = f.do(http.MethodDelete, fmt.Sprintf("/api/blog/%d", post.ID), "", f.token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Post not found")
}

func TestUploadImage(t *testing.T) {
	f := setup(t)

	upload := func(name, contentType string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, name))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write([]byte("image-bytes"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/blog/images", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+f.token)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		return w
	}

	w := upload("cover.png", "image/png")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, strings.HasPrefix(out.URL, "http://localhost:3000/uploads/images/"))
	assert.True(t, strings.HasSuffix(out.URL, ".png"))

	w = upload("doc.pdf", "application/pdf")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Only JPG, PNG, and WEBP images are allowed")
}

type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestUploadImageStopsReadingOversizedBody(t *testing.T) {
	f := setup(t)

	var head bytes.Buffer
	mw := multipart.NewWriter(&head)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="huge.png"`)
	h.Set("Content-Type", "image/png")
	_, err := mw.CreatePart(h)
	require.NoError(t, err)

	var read int64
	src := io.MultiReader(&head, io.LimitReader(zeros{}, 80<<20), strings.NewReader("\r\n--"+mw.Boundary()+"--\r\n"))
	body := readerFunc(func(p []byte) (int, error) {
		n, err := src.Read(p)
		read += int64(n)
		return n, err
	})

	req := httptest.NewRequest(http.MethodPost, "/api/blog/images", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File too large. Maximum size is 10MB.")
	assert.LessOrEqual(t, read, storage.Image.BodyLimit()+1)
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
