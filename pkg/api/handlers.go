package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"formrelay/pkg/middleware"
	"formrelay/pkg/models"
	"formrelay/pkg/services"
)

const maxBodyBytes = 64 << 10

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	submissionService services.FormSubmissionService
	logger            *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(submissionService services.FormSubmissionService, logger *zap.Logger) *Handlers {
	return &Handlers{
		submissionService: submissionService,
		logger:            logger,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// HandleFormSubmission relays a contact form post. It is mounted on every
// path, so it enforces the method itself.
func (h *Handlers) HandleFormSubmission(c *gin.Context) {
	logger := middleware.Logger(c, h.logger)

	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, models.Result{Success: false, Error: models.ErrMsgMethodNotAllowed})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req models.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			c.JSON(http.StatusBadRequest, models.Result{Success: false, Error: validationMessage(validationErrs)})
			return
		}
		logger.Error("Error parsing request body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.Result{Success: false, Error: models.ErrMsgInternal})
		return
	}

	err := h.submissionService.Submit(c.Request.Context(), req, c.ClientIP())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.Result{Success: true, Message: models.MsgSubmitted})
	case errors.Is(err, services.ErrMissingToken):
		c.JSON(http.StatusBadRequest, models.Result{Success: false, Error: models.ErrMsgMissingToken})
	case errors.Is(err, services.ErrIncompleteForm):
		c.JSON(http.StatusBadRequest, models.Result{Success: false, Error: models.ErrMsgMissingFields})
	case errors.Is(err, services.ErrVerificationFailed):
		c.JSON(http.StatusForbidden, models.Result{Success: false, Error: models.ErrMsgVerificationFailed})
	case errors.Is(err, services.ErrSubmissionFailed):
		c.JSON(http.StatusInternalServerError, models.Result{Success: false, Error: models.ErrMsgSubmissionFailed})
	default:
		logger.Error("Error relaying form submission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.Result{Success: false, Error: models.ErrMsgInternal})
	}
}

// A missing token outranks missing form fields
func validationMessage(errs validator.ValidationErrors) string {
	for _, fe := range errs {
		if fe.StructField() == "TurnstileToken" {
			return models.ErrMsgMissingToken
		}
	}
	return models.ErrMsgMissingFields
}
