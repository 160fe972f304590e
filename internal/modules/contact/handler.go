package contact

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/softionyx/site/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts POST /contact behind the contact rate limiter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.POST("/contact", limit, h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	var dto SubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, messages.Translate(err))
		return
	}

	err := h.svc.Submit(c.Request.Context(), &dto)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, "Thank you for your message! We will get back to you soon.")
	case errors.Is(err, errNoRecipient):
		response.InternalError(c, "Email configuration is missing. Please contact the administrator.", nil)
	case errors.Is(err, errMailNotConfigured):
		response.InternalError(c, "Email service is not configured. Please contact the administrator.", nil)
	case errors.Is(err, errSendFailed):
		response.InternalError(c, "Failed to send email. Please try again later or contact us directly.", err)
	default:
		response.InternalError(c, "Failed to send message. Please try again later.", err)
	}
}
