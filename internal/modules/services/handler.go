package services

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts /services. cache wraps the public reads.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit, cache gin.HandlerFunc) {
	g := rg.Group("/services", limit)
	g.GET("", cache, h.list)
	g.GET("/:slug", cache, h.get)

	admin := g.Group("", middleware.Auth(), middleware.RequireAdmin())
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	rows, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Failed to fetch services", err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) get(c *gin.Context) {
	svc, err := h.svc.GetActive(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, errServiceNotFound) {
			response.NotFound(c, "Service not found")
			return
		}
		response.InternalError(c, "Failed to fetch service", err)
		return
	}
	response.OK(c, svc)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateServiceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	svc, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, errSlugTaken) {
			response.BadRequest(c, "Slug already exists")
			return
		}
		response.InternalError(c, "Failed to create service", err)
		return
	}
	response.Created(c, svc)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Service not found")
		return
	}
	var dto UpdateServiceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	svc, err := h.svc.Update(c.Request.Context(), id, &dto)
	switch {
	case err == nil:
		response.OK(c, svc)
	case errors.Is(err, errServiceNotFound):
		response.NotFound(c, "Service not found")
	case errors.Is(err, errSlugTaken):
		response.BadRequest(c, "Slug already exists")
	default:
		response.InternalError(c, "Failed to update service", err)
	}
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Service not found")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, errServiceNotFound) {
			response.NotFound(c, "Service not found")
			return
		}
		response.InternalError(c, "Failed to delete service", err)
		return
	}
	response.Success(c, http.StatusOK, "Service deleted successfully")
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
