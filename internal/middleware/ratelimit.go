package middleware

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/softionyx/site/internal/pkg/redis"
	"github.com/softionyx/site/internal/pkg/response"
)

// Limit configures one named fixed-window limiter keyed by client IP.
type Limit struct {
	Name    string
	Max     int64
	Window  time.Duration
	Message string
	// SkipSuccessful refunds requests that finish with status < 400.
	SkipSuccessful bool
}

var (
	APILimit = Limit{
		Name:    "api",
		Max:     100,
		Window:  15 * time.Minute,
		Message: "Too many requests from this IP, please try again later.",
	}
	AuthLimit = Limit{
		Name:           "auth",
		Max:            5,
		Window:         15 * time.Minute,
		Message:        "Too many authentication attempts, please try again later.",
		SkipSuccessful: true,
	}
	ContactLimit = Limit{
		Name:    "contact",
		Max:     10,
		Window:  time.Hour,
		Message: "Too many contact form submissions, please try again later.",
	}
	HelpLimit = Limit{
		Name:    "help",
		Max:     5,
		Window:  time.Hour,
		Message: "Too many help requests, please try again later.",
	}
)

// RateStore counts hits per key within a window.
type RateStore interface {
	// Incr counts one hit and returns the total and the time until the window resets.
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Decr(ctx context.Context, key string) error
}

// RateLimit returns a middleware enforcing l against store. Store errors
// let the request through.
func RateLimit(store RateStore, l Limit, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "rate_limit:" + l.Name + ":" + ip
		count, reset, err := store.Incr(ctx, key, l.Window)
		if err != nil {
			log.Warn("rate limit store unavailable", zap.String("limiter", l.Name), zap.Error(err))
			c.Next()
			return
		}

		resetSecs := strconv.Itoa(int(math.Ceil(reset.Seconds())))
		c.Header("RateLimit-Limit", strconv.FormatInt(l.Max, 10))
		c.Header("RateLimit-Remaining", strconv.FormatInt(max(l.Max-count, 0), 10))
		c.Header("RateLimit-Reset", resetSecs)

		if count > l.Max {
			log.Warn("rate limit exceeded",
				zap.String("limiter", l.Name),
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", resetSecs)
			response.TooManyRequests(c, l.Message)
			return
		}

		c.Next()

		if l.SkipSuccessful && c.Writer.Status() < 400 {
			if err := store.Decr(context.WithoutCancel(ctx), key); err != nil {
				log.Warn("rate limit refund failed", zap.String("limiter", l.Name), zap.Error(err))
			}
		}
	}
}

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a process-local RateStore. Counters reset on restart.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*window), now: time.Now}
}

func (m *MemoryStore) Incr(_ context.Context, key string, d time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(d)}
		m.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt.Sub(now), nil
}

func (m *MemoryStore) Decr(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[key]; ok && w.count > 0 {
		w.count--
	}
	return nil
}

// Sweep drops expired windows.
func (m *MemoryStore) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, k)
		}
	}
}

// Run sweeps every interval until ctx is done.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *MemoryStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

// RedisStore shares counters between instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "softionyx:"}
}

func (r *RedisStore) Incr(ctx context.Context, key string, d time.Duration) (int64, time.Duration, error) {
	return r.client.IncrWindow(ctx, r.prefix+key, d)
}

func (r *RedisStore) Decr(ctx context.Context, key string) error {
	return r.client.Decr(ctx, r.prefix+key)
}
