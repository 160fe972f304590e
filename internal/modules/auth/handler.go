package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/softionyx/site/internal/middleware"
	"github.com/softionyx/site/internal/pkg/jwt"
	"github.com/softionyx/site/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts /auth. limit is the auth rate limiter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/register", limit, h.register)
	g.POST("/login", limit, h.login)
	g.GET("/me", middleware.Auth(), h.me)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	u, token, err := h.svc.Register(c.Request.Context(), &dto)
	switch {
	case err == nil:
	case errors.Is(err, errEmailTaken):
		response.BadRequest(c, "Email already registered")
		return
	case errors.Is(err, jwt.ErrNoSecret):
		h.svc.log.Error("JWT secret is not configured")
		response.InternalError(c, "Server configuration error", nil)
		return
	default:
		response.InternalError(c, "Registration failed", err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "Registration successful",
		Token:   token,
		User:    toUserResponse(u),
	})
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	u, token, err := h.svc.Login(c.Request.Context(), &dto)
	switch {
	case err == nil:
	case errors.Is(err, errInvalidCredentials):
		response.Unauthorized(c, "Invalid email or password")
		return
	case errors.Is(err, errInactive):
		response.Unauthorized(c, "Account is inactive")
		return
	case errors.Is(err, jwt.ErrNoSecret):
		h.svc.log.Error("JWT secret is not configured")
		response.InternalError(c, "Server configuration error", nil)
		return
	default:
		response.InternalError(c, "Login failed", err)
		return
	}
	response.OK(c, authResponse{Success: true, Token: token, User: toUserResponse(u)})
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, "Failed to load user", err)
		return
	}
	response.OK(c, toProfileResponse(u))
}
