package blog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/softionyx/site/internal/middleware"
	"github.com/softionyx/site/internal/pkg/response"
	"github.com/softionyx/site/internal/pkg/storage"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	g := rg.Group("/blog", limit)
	g.GET("", h.list)
	g.GET("/:slug", h.get)

	admin := g.Group("", middleware.Auth(), middleware.RequireAdmin())
	admin.POST("", h.create)
	admin.POST("/images", h.uploadImage)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	rows, err := h.svc.ListPublished(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Failed to fetch blog posts", err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) get(c *gin.Context) {
	post, err := h.svc.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, errPostNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		response.InternalError(c, "Failed to fetch blog post", err)
		return
	}
	response.OK(c, post)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	post, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		if errors.Is(err, errSlugTaken) {
			response.BadRequest(c, "Slug already exists")
			return
		}
		response.InternalError(c, "Failed to create blog post", err)
		return
	}
	response.Created(c, post)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Post not found")
		return
	}
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	post, err := h.svc.Update(c.Request.Context(), id, &dto)
	switch {
	case err == nil:
		response.OK(c, post)
	case errors.Is(err, errPostNotFound):
		response.NotFound(c, "Post not found")
	case errors.Is(err, errSlugTaken):
		response.BadRequest(c, "Slug already exists")
	default:
		response.InternalError(c, "Failed to update blog post", err)
	}
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Post not found")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, errPostNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		response.InternalError(c, "Failed to delete blog post", err)
		return
	}
	response.Success(c, http.StatusOK, "Post deleted successfully")
}

func (h *Handler) uploadImage(c *gin.Context) {
	storage.Image.LimitBody(c.Writer, c.Request)

	fh, err := c.FormFile("image")
	if err != nil {
		if storage.TooLarge(err) {
			response.BadRequest(c, storage.Image.SizeMessage)
			return
		}
		response.BadRequest(c, "No image uploaded")
		return
	}
	url, err := h.svc.UploadImage(c.Request.Context(), fh)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidType) || storage.TooLarge(err) {
			response.BadRequest(c, storage.Image.Message(err))
			return
		}
		response.InternalError(c, "Failed to upload image", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
