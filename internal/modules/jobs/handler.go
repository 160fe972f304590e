package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

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
	g := rg.Group("/jobs", limit)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("/:id/apply", h.apply)

	admin := g.Group("", middleware.Auth(), middleware.RequireAdmin())
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	rows, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Failed to fetch jobs", err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Job not found")
		return
	}
	job, err := h.svc.GetActive(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errJobNotFound) {
			response.NotFound(c, "Job not found")
			return
		}
		response.InternalError(c, "Failed to fetch job", err)
		return
	}
	response.OK(c, job)
}

func (h *Handler) apply(c *gin.Context) {
	storage.Resume.LimitBody(c.Writer, c.Request)

	var dto ApplyDTO
	if err := c.ShouldBind(&dto); err != nil {
		if storage.TooLarge(err) {
			response.BadRequest(c, storage.Resume.SizeMessage)
			return
		}
		response.BadRequest(c, messages.Translate(err))
		return
	}

	resume, err := c.FormFile("resume")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		resume = nil
	case storage.TooLarge(err):
		response.BadRequest(c, storage.Resume.SizeMessage)
		return
	case err != nil:
		response.BadRequest(c, "Invalid resume upload")
		return
	default:
		if err := storage.Resume.Check(resume); err != nil {
			response.BadRequest(c, storage.Resume.Message(err))
			return
		}
	}

	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Job not found or not active")
		return
	}

	app, err := h.svc.Apply(c.Request.Context(), id, &dto, resume)
	switch {
	case err == nil:
	case errors.Is(err, errJobNotActive):
		response.NotFound(c, "Job not found or not active")
		return
	case storage.TooLarge(err), errors.Is(err, storage.ErrInvalidType):
		response.BadRequest(c, storage.Resume.Message(err))
		return
	default:
		response.InternalError(c, "Failed to submit application", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Application submitted successfully",
		"application": app,
	})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateJobDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	job, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		response.InternalError(c, "Failed to create job posting", err)
		return
	}
	h.svc.log.Info("job posting created",
		zap.Uint("id", job.ID), zap.String("title", job.Title), zap.String("by", middleware.CurrentEmail(c)))
	response.Created(c, job)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Job not found")
		return
	}
	var dto UpdateJobDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	job, err := h.svc.Update(c.Request.Context(), id, &dto)
	if err != nil {
		if errors.Is(err, errJobNotFound) {
			response.NotFound(c, "Job not found")
			return
		}
		response.InternalError(c, "Failed to update job posting", err)
		return
	}
	response.OK(c, job)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Job not found")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, errJobNotFound) {
			response.NotFound(c, "Job not found")
			return
		}
		response.InternalError(c, "Failed to delete job posting", err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted successfully")
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
