package help

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/softionyx/site/internal/middleware"
	"github.com/softionyx/site/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	g := rg.Group("/help")
	g.POST("", limit, middleware.OptionalAuth(), h.create)
	g.GET("/my-requests", middleware.Auth(), h.mine)
	g.GET("/all", middleware.Auth(), middleware.RequireAdmin(), h.all)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	req, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.InternalError(c, "Failed to submit help request", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Help request submitted successfully. We will contact you soon!",
		"request": req,
	})
}

func (h *Handler) mine(c *gin.Context) {
	rows, err := h.svc.ListByUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, "Failed to fetch help requests", err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) all(c *gin.Context) {
	rows, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Failed to fetch help requests", err)
		return
	}
	response.OK(c, rows)
}
