package app

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/softionyx/site/internal/config"
	"github.com/softionyx/site/internal/middleware"
	"github.com/softionyx/site/internal/modules/admin"
	"github.com/softionyx/site/internal/modules/auth"
	"github.com/softionyx/site/internal/modules/blog"
	"github.com/softionyx/site/internal/modules/contact"
	"github.com/softionyx/site/internal/modules/health"
	"github.com/softionyx/site/internal/modules/help"
	"github.com/softionyx/site/internal/modules/jobs"
	"github.com/softionyx/site/internal/modules/seo"
	"github.com/softionyx/site/internal/modules/services"
	"github.com/softionyx/site/internal/pkg/response"
)

const (
	seoCacheTTL      = time.Hour
	servicesCacheTTL = 5 * time.Minute
)

func (a *App) registerRoutes(store middleware.RateStore) {
	r := a.router
	db := a.deps.DB
	cfg := a.cfg
	log := a.logger

	limiter := func(l middleware.Limit) gin.HandlerFunc {
		return middleware.RateLimit(store, l, log.Named("ratelimit"))
	}
	apiLimit := limiter(middleware.APILimit)

	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})
	if cfg.IsProduction() {
		r.NoRoute(spaFallback(cfg.ClientDistDir()))
	} else {
		r.NoRoute(func(c *gin.Context) {
			response.NotFound(c, "Not found")
		})
	}

	if cfg.Storage.Driver == config.StorageDriverLocal {
		r.Static("/uploads", cfg.UploadDir())
	}

	seo.NewHandler(db, cfg.BaseURL, log.Named("seo")).
		RegisterRoutes(r, middleware.PublicCache(seoCacheTTL))

	api := r.Group("/api")

	var redisPing health.Pinger
	if a.deps.Redis != nil {
		redisPing = a.deps.Redis
	}
	health.NewHandler(db, redisPing, log.Named("health")).RegisterRoutes(api, apiLimit)

	auth.NewHandler(auth.NewService(db, a.deps.Mailer, cfg.BaseURL, log.Named("auth"))).
		RegisterRoutes(api, limiter(middleware.AuthLimit))

	contact.NewHandler(contact.NewService(db, a.deps.Mailer, cfg.NotifyRecipient(), cfg.Contact.Mode, log.Named("contact"))).
		RegisterRoutes(api, limiter(middleware.ContactLimit))

	help.NewHandler(help.NewService(db, a.deps.Mailer, cfg.NotifyRecipient(), log.Named("help"))).
		RegisterRoutes(api, limiter(middleware.HelpLimit))

	jobs.NewHandler(jobs.NewService(db, a.deps.Storage, a.deps.Mailer, cfg.NotifyRecipient(), log.Named("jobs"))).
		RegisterRoutes(api, apiLimit)

	blog.NewHandler(blog.NewService(db, a.deps.Storage, log.Named("blog"))).
		RegisterRoutes(api, apiLimit)

	services.NewHandler(services.NewService(db, log.Named("services"))).
		RegisterRoutes(api, apiLimit, middleware.PublicCache(servicesCacheTTL))

	admin.NewHandler(admin.NewService(db, log.Named("admin"))).
		RegisterRoutes(api, apiLimit)
}
