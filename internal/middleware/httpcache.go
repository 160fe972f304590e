package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const staleWhileRevalidate = 60

// PublicCache marks successful GET responses as cacheable by browsers and
// CDNs for ttl. Authenticated requests and non-200 responses get a
// no-store header instead. Handlers that set Cache-Control win.
func PublicCache(ttl time.Duration) gin.HandlerFunc {
	secs := strconv.Itoa(int(ttl / time.Second))
	public := "public, max-age=" + secs + ", stale-while-revalidate=" + strconv.Itoa(staleWhileRevalidate)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}
		c.Writer = &cacheHeaderWriter{
			ResponseWriter: c.Writer,
			public:         public,
			private:        IsAuthenticated(c) || c.GetHeader("Authorization") != "",
		}
		c.Next()
	}
}

type cacheHeaderWriter struct {
	gin.ResponseWriter
	public  string
	private bool
	decided bool
}

func (w *cacheHeaderWriter) WriteHeader(code int) {
	if !w.decided {
		w.decided = true
		h := w.Header()
		if h.Get("Cache-Control") == "" {
			if code == http.StatusOK && !w.private {
				h.Set("Cache-Control", w.public)
			} else {
				h.Set("Cache-Control", "private, max-age=0, no-cache, no-store, must-revalidate")
			}
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *cacheHeaderWriter) Write(data []byte) (int, error) {
	if !w.decided {
		w.WriteHeader(w.Status())
	}
	return w.ResponseWriter.Write(data)
}

func (w *cacheHeaderWriter) WriteString(s string) (int, error) {
	if !w.decided {
		w.WriteHeader(w.Status())
	}
	return w.ResponseWriter.WriteString(s)
}
