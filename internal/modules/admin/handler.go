package admin

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/softionyx/site/internal/middleware"
	"github.com/softionyx/site/internal/pkg/pagination"
	"github.com/softionyx/site/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	g := rg.Group("/admin", middleware.Auth(), limit, middleware.RequireAdmin())
	g.GET("/stats", h.stats)
	g.GET("/contacts", h.contacts)
	g.PATCH("/contacts/:id", h.updateContact)
	g.GET("/job-applications", h.applications)
	g.PATCH("/job-applications/:id", h.updateApplication)
	g.GET("/users", h.users)
	g.GET("/help-requests", h.helpRequests)
	g.PATCH("/help-requests/:id", h.updateHelpRequest)
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Failed to fetch stats", err)
		return
	}
	response.OK(c, st)
}

func respondList(c *gin.Context, body interface{}, err error, failure string) {
	if err != nil {
		response.InternalError(c, failure, err)
		return
	}
	response.OK(c, body)
}

func (h *Handler) contacts(c *gin.Context) {
	body, err := h.svc.Contacts(c.Request.Context(), pagination.Parse(c))
	respondList(c, body, err, "Failed to fetch contacts")
}

func (h *Handler) applications(c *gin.Context) {
	body, err := h.svc.Applications(c.Request.Context(), pagination.Parse(c))
	respondList(c, body, err, "Failed to fetch applications")
}

func (h *Handler) users(c *gin.Context) {
	body, err := h.svc.Users(c.Request.Context(), pagination.Parse(c))
	respondList(c, body, err, "Failed to fetch users")
}

func (h *Handler) helpRequests(c *gin.Context) {
	body, err := h.svc.HelpRequests(c.Request.Context(), pagination.Parse(c))
	respondList(c, body, err, "Failed to fetch help requests")
}

func (h *Handler) updateContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Contact not found")
		return
	}
	var dto ContactStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	row, err := h.svc.UpdateContactStatus(c.Request.Context(), id, dto.Status)
	if err != nil {
		if errors.Is(err, errContactNotFound) {
			response.NotFound(c, "Contact not found")
			return
		}
		response.InternalError(c, "Failed to update contact", err)
		return
	}
	h.audit(c, "contact status updated", id, string(dto.Status))
	response.OK(c, row)
}

func (h *Handler) updateApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Application not found")
		return
	}
	var dto ApplicationStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	row, err := h.svc.UpdateApplicationStatus(c.Request.Context(), id, dto.Status)
	if err != nil {
		if errors.Is(err, errApplicationNotFound) {
			response.NotFound(c, "Application not found")
			return
		}
		response.InternalError(c, "Failed to update application", err)
		return
	}
	h.audit(c, "job application status updated", id, string(dto.Status))
	response.OK(c, row)
}

func (h *Handler) updateHelpRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Help request not found")
		return
	}
	var dto HelpStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}
	row, err := h.svc.UpdateHelpStatus(c.Request.Context(), id, dto.Status)
	if err != nil {
		if errors.Is(err, errHelpNotFound) {
			response.NotFound(c, "Help request not found")
			return
		}
		response.InternalError(c, "Failed to update help request", err)
		return
	}
	h.audit(c, "help request status updated", id, string(dto.Status))
	response.OK(c, row)
}

func (h *Handler) audit(c *gin.Context, msg string, id uint, status string) {
	h.svc.log.Info(msg, zap.Uint("id", id), zap.String("status", status), zap.String("by", middleware.CurrentEmail(c)))
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
