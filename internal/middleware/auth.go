package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/jwt"
	"github.com/softionyx/site/internal/pkg/response"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "user_email"
	ContextKeyRole   = "user_role"
)

var errNoToken = errors.New("token is required")

// Auth rejects requests without a valid bearer token. The token alone
// identifies the caller; handlers that need the user row load it.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "Authentication required")
			return
		}
		claims, err := ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the caller identity if a valid token is present, but
// does not block the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := ValidateToken(extractToken(c)); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != models.RoleAdmin {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// ValidateToken parses a raw or "Bearer "-prefixed token.
func ValidateToken(raw string) (*jwt.Claims, error) {
	token := NormalizeToken(raw)
	if token == "" {
		return nil, errNoToken
	}
	return jwt.Parse(token)
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyRole, models.Role(claims.Role))
}

// CurrentUserID returns the authenticated user id, or 0.
func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(uint)
	return id
}

func CurrentEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

func CurrentRole(c *gin.Context) models.Role {
	v, _ := c.Get(ContextKeyRole)
	role, _ := v.(models.Role)
	return role
}

// IsAuthenticated returns true if the request carried a valid token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != 0
}

func extractToken(c *gin.Context) string {
	return NormalizeToken(c.GetHeader("Authorization"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
