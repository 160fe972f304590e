package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/softionyx/site/internal/config"
	"github.com/softionyx/site/internal/database"
	"github.com/softionyx/site/internal/middleware"
	"github.com/softionyx/site/internal/pkg/mail"
	pkgredis "github.com/softionyx/site/internal/pkg/redis"
	"github.com/softionyx/site/internal/pkg/response"
	"github.com/softionyx/site/internal/pkg/storage"
)

const rateSweepInterval = time.Minute

// Deps are the external resources the HTTP layer runs on.
type Deps struct {
	DB      *gorm.DB
	Redis   *pkgredis.Client // nil keeps rate-limit counters in memory
	Mailer  mail.Mailer
	Storage storage.Storage
}

// App holds all application dependencies.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	deps    Deps
	logger  *zap.Logger
	cancel  context.CancelFunc
	started time.Time
}

// New initializes the application: DB → Redis → storage → mail → routes.
func New(ctx context.Context, logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("redis: %w", err)
		}
	}

	st, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("storage: %w", err)
	}

	mailer := mail.New(mail.Config{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	})
	if !mailer.Enabled() {
		logger.Warn("SMTP credentials missing, email notifications are disabled")
	}

	return NewWithDeps(logger, cfg, Deps{DB: db, Redis: rc, Mailer: mailer, Storage: st}), nil
}

// NewWithDeps builds the router on already opened resources.
func NewWithDeps(logger *zap.Logger, cfg *config.AppConfig, deps Deps) *App {
	applyRuntimeSettings(cfg, logger)

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.CustomRecovery(func(c *gin.Context, rec interface{}) {
		logger.Error("panic recovered", zap.Any("panic", rec), zap.String("path", c.Request.URL.Path))
		response.InternalError(c, "Internal server error", nil)
	}))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(newCORS(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{cfg: cfg, router: router, deps: deps, logger: logger, cancel: cancel, started: time.Now()}
	app.registerRoutes(app.rateStore(ctx))
	return app
}

func (a *App) rateStore(ctx context.Context) middleware.RateStore {
	if a.deps.Redis != nil {
		return middleware.NewRedisStore(a.deps.Redis)
	}
	store := middleware.NewMemoryStore()
	go store.Run(ctx, rateSweepInterval)
	return store
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf("%s:%d", a.cfg.Host, a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background goroutines and releases connections.
func (a *App) Shutdown() {
	a.cancel()
	if a.deps.Redis != nil {
		if err := a.deps.Redis.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if a.deps.DB != nil {
		if err := database.Close(a.deps.DB); err != nil {
			a.logger.Warn("database close failed", zap.Error(err))
		}
	}
	a.logger.Info("application stopped", zap.String("uptime", humanizeDuration(time.Since(a.started))))
}
