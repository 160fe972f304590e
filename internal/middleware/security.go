package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

var cspDirectives = []string{
	"default-src 'self'",
	"base-uri 'self'",
	"font-src 'self' https://fonts.gstatic.com",
	"form-action 'self'",
	"frame-ancestors 'self'",
	"frame-src 'self' https://my.spline.design",
	"img-src 'self' data: https: blob:",
	"object-src 'none'",
	"script-src 'self' https://cdn.jsdelivr.net https://cdnjs.cloudflare.com https://my.spline.design",
	"script-src-attr 'none'",
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
	"connect-src 'self' https://my.spline.design https://api.iconify.design https://api.simplesvg.com https://api.unisvg.com",
}

var (
	cspHTTP  = strings.Join(cspDirectives, "; ")
	cspHTTPS = cspHTTP + "; upgrade-insecure-requests"
)

// IsHTTPS reports whether the request reached us (or the proxy) over TLS.
func IsHTTPS(c *gin.Context) bool {
	return c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}

// SecurityHeaders sets the CSP and hardening headers. Transport-bound
// headers (HSTS, COOP, CORP, upgrade-insecure-requests) are only sent on
// HTTPS so plain-HTTP deployments keep working.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("X-Download-Options", "noopen")
		h.Set("X-Permitted-Cross-Domain-Policies", "none")
		h.Set("X-XSS-Protection", "0")

		if IsHTTPS(c) {
			h.Set("Content-Security-Policy", cspHTTPS)
			h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			h.Set("Cross-Origin-Resource-Policy", "same-origin")
			h.Set("Origin-Agent-Cluster", "?1")
		} else {
			h.Set("Content-Security-Policy", cspHTTP)
		}
		c.Next()
	}
}
