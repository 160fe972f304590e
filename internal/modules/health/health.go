// Package health reports process and dependency liveness.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// Pinger is an optional dependency whose reachability is reported.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db    *gorm.DB
	redis Pinger
	log   *zap.Logger
	now   func() time.Time
}

// NewHandler builds the health handler. redis may be nil when no shared
// rate-limit store is configured.
func NewHandler(db *gorm.DB, redis Pinger, log *zap.Logger) *Handler {
	return &Handler{db: db, redis: redis, log: log, now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.GET("/health", limit, h.check)
}

func (h *Handler) check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	dbOK := h.pingDB(ctx)
	status, code := "ok", http.StatusOK
	if !dbOK {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	body := gin.H{
		"status":    status,
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
		"database":  dbOK,
	}
	if h.redis != nil {
		err := h.redis.Ping(ctx)
		if err != nil {
			h.log.Warn("redis health check failed", zap.Error(err))
		}
		body["redis"] = err == nil
	}
	c.JSON(code, body)
}

func (h *Handler) pingDB(ctx context.Context) bool {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.log.Warn("database health check failed", zap.Error(err))
		return false
	}
	return true
}
