package seo

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/softionyx/site/internal/database/dbtest"
	"github.com/softionyx/site/internal/middleware"
	"github.com/softionyx/site/internal/models"
)

func TestSitemapAndRobots(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)

	author := models.User{Email: "a@softionyx.com", PasswordHash: "x", FullName: "A", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&author).Error)
	now := time.Now()
	require.NoError(t, db.Create(&[]models.BlogPost{
		{Title: "Live", Slug: "live-post", Content: "x", AuthorID: author.ID, Status: models.PostStatusPublished, PublishedAt: &now},
		{Title: "Draft", Slug: "draft-post", Content: "x", AuthorID: author.ID, Status: models.PostStatusDraft},
	}).Error)
	require.NoError(t, db.Create(&[]models.Service{
		{Title: "Web", Slug: "web-dev", Description: "x", IsActive: true},
		{Title: "Old", Slug: "old-thing", Description: "x", IsActive: false},
	}).Error)

	r := gin.New()
	NewHandler(db, "https://softionyx.com/", zaptest.NewLogger(t)).RegisterRoutes(r, middleware.PublicCache(time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=3600")
	body := w.Body.String()
	assert.Contains(t, body, "<loc>https://softionyx.com/</loc>")
	assert.Contains(t, body, "<loc>https://softionyx.com/careers</loc>")
	assert.Contains(t, body, "<loc>https://softionyx.com/blog/live-post</loc>")
	assert.Contains(t, body, "<loc>https://softionyx.com/services/web-dev</loc>")
	assert.NotContains(t, body, "draft-post")
	assert.NotContains(t, body, "old-thing")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Disallow: /api/")
	assert.Contains(t, w.Body.String(), "Sitemap: https://softionyx.com/sitemap.xml")
}

func TestRenderXMLEscapes(t *testing.T) {
	out := string(renderXML([]sitemapURL{{Loc: "https://x.test/?a=1&b=2", ChangeFreq: "daily", Priority: 0.5}}))
	assert.Contains(t, out, "<loc>https://x.test/?a=1&amp;b=2</loc>")
	assert.NotContains(t, out, "<lastmod>")
}
