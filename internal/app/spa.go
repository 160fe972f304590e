package app

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/softionyx/site/internal/pkg/response"
)

// spaFallback serves the built client: existing files as-is, any other GET
// path as index.html so client-side routing works. API paths stay 404.
func spaFallback(dist string) gin.HandlerFunc {
	index := filepath.Join(dist, "index.html")
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			response.NotFound(c, "Not found")
			return
		}

		file := filepath.Join(dist, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && info.Mode().IsRegular() {
			c.File(file)
			return
		}
		if _, err := os.Stat(index); err != nil {
			response.NotFound(c, "Not found")
			return
		}
		c.File(index)
	}
}
