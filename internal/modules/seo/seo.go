// Package seo serves sitemap.xml and robots.txt.
package seo

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/softionyx/site/internal/models"
)

type sitemapURL struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}

// staticPages are the client routes that always exist.
var staticPages = []sitemapURL{
	{Loc: "/", ChangeFreq: "weekly", Priority: 1.0},
	{Loc: "/about", ChangeFreq: "monthly", Priority: 0.8},
	{Loc: "/services", ChangeFreq: "weekly", Priority: 0.9},
	{Loc: "/portfolio", ChangeFreq: "monthly", Priority: 0.7},
	{Loc: "/careers", ChangeFreq: "weekly", Priority: 0.8},
	{Loc: "/blog", ChangeFreq: "weekly", Priority: 0.8},
	{Loc: "/contact", ChangeFreq: "monthly", Priority: 0.7},
}

type Handler struct {
	db      *gorm.DB
	baseURL string
	log     *zap.Logger
}

func NewHandler(db *gorm.DB, baseURL string, log *zap.Logger) *Handler {
	return &Handler{db: db, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// RegisterRoutes mounts the SEO endpoints at the site root.
func (h *Handler) RegisterRoutes(r gin.IRoutes, cache gin.HandlerFunc) {
	r.GET("/sitemap.xml", cache, h.sitemap)
	r.GET("/robots.txt", cache, h.robots)
}

func (h *Handler) sitemap(c *gin.Context) {
	urls, err := h.collect(c.Request.Context())
	if err != nil {
		h.log.Error("build sitemap failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "error generating sitemap")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", renderXML(urls))
}

func (h *Handler) robots(c *gin.Context) {
	body := "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /admin\n" +
		"Disallow: /api/\n" +
		"Sitemap: " + h.baseURL + "/sitemap.xml\n"
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

// collect lists static pages followed by published posts and active services.
func (h *Handler) collect(ctx context.Context) ([]sitemapURL, error) {
	urls := make([]sitemapURL, 0, len(staticPages))
	for _, p := range staticPages {
		p.Loc = h.baseURL + p.Loc
		urls = append(urls, p)
	}

	var posts []models.BlogPost
	err := h.db.WithContext(ctx).
		Select("slug, updated_at").
		Where("status = ?", models.PostStatusPublished).
		Order("published_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:        h.baseURL + "/blog/" + p.Slug,
			LastMod:    p.UpdatedAt,
			ChangeFreq: "monthly",
			Priority:   0.6,
		})
	}

	var services []models.Service
	err = h.db.WithContext(ctx).
		Select("slug, updated_at").
		Where("is_active = ?", true).
		Order("order_index ASC").
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	for _, s := range services {
		urls = append(urls, sitemapURL{
			Loc:        h.baseURL + "/services/" + s.Slug,
			LastMod:    s.UpdatedAt,
			ChangeFreq: "monthly",
			Priority:   0.7,
		})
	}
	return urls, nil
}

func renderXML(urls []sitemapURL) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, u := range urls {
		b.WriteString("  <url>\n    <loc>")
		_ = xml.EscapeText(&b, []byte(u.Loc))
		b.WriteString("</loc>\n")
		if !u.LastMod.IsZero() {
			fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", u.LastMod.UTC().Format("2006-01-02"))
		}
		fmt.Fprintf(&b, "    <changefreq>%s</changefreq>\n    <priority>%.1f</priority>\n  </url>\n", u.ChangeFreq, u.Priority)
	}
	b.WriteString("</urlset>\n")
	return b.Bytes()
}
