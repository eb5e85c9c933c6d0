package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"formrelay/pkg/clients/mautic"
	"formrelay/pkg/clients/turnstile"
	"formrelay/pkg/config"
	"formrelay/pkg/models"
	"formrelay/pkg/utils"
)

var (
	ErrMissingToken       = errors.New("missing verification token")
	ErrVerificationFailed = errors.New("verification failed")
	ErrSubmissionFailed   = errors.New("form submission failed")
	ErrIncompleteForm     = errors.New("missing required form fields")

	// Reported to callers as an internal error, like any malformed body
	ErrMissingFormData = errors.New("missing form data")
)

// FormSubmissionService defines the interface for relaying contact form submissions
type FormSubmissionService interface {
	Submit(ctx context.Context, req models.SubmissionRequest, remoteIP string) error
}

type formSubmissionServiceImpl struct {
	turnstileClient turnstile.Client
	mauticClient    mautic.Client
	config          *config.Config
	logger          *zap.Logger
}

// NewFormSubmissionService creates a new submission service
func NewFormSubmissionService(
	turnstileClient turnstile.Client,
	mauticClient mautic.Client,
	config *config.Config,
	logger *zap.Logger,
) FormSubmissionService {
	return &formSubmissionServiceImpl{
		turnstileClient: turnstileClient,
		mauticClient:    mauticClient,
		config:          config,
		logger:          logger,
	}
}

// Submit verifies the Turnstile token and forwards the lead to Mautic.
// Each remote call is attempted once; errors other than the package
// sentinels are internal failures.
func (s *formSubmissionServiceImpl) Submit(ctx context.Context, req models.SubmissionRequest, remoteIP string) error {
	if req.TurnstileToken == "" {
		return ErrMissingToken
	}
	if req.FormData == nil {
		return ErrMissingFormData
	}
	if !complete(req.FormData) {
		return ErrIncompleteForm
	}

	emailHash := utils.HashEmail(req.FormData.Email)
	logger := s.logger.With(zap.String("email_hash", emailHash))

	// Verify the token before anything leaves for Mautic
	verdict, err := s.turnstileClient.Verify(ctx, req.TurnstileToken, remoteIP)
	if err != nil {
		return fmt.Errorf("error with Turnstile API: %w", err)
	}
	if !verdict.Success {
		logger.Warn("Turnstile verification failed", zap.Strings("error_codes", verdict.ErrorCodes))
		return ErrVerificationFailed
	}

	lead := models.Lead{
		Name:     req.FormData.Name,
		Company:  req.FormData.Company,
		Email:    req.FormData.Email,
		Interest: req.FormData.Interest,
		Budget:   req.FormData.Budget,
		Source:   req.FormData.Source,
	}
	if lead.Source == "" {
		lead.Source = s.config.DefaultSource
	}

	if err := s.mauticClient.SubmitForm(ctx, lead); err != nil {
		var sinkErr *mautic.SinkError
		if errors.As(err, &sinkErr) {
			logger.Error("Mautic submission failed",
				zap.Int("status", sinkErr.StatusCode),
				zap.String("body", sinkErr.Body),
			)
		} else {
			logger.Error("Mautic submission failed", zap.Error(err))
		}
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	logger.Info("Relayed form submission",
		zap.String("interest", lead.Interest),
		zap.String("source", lead.Source),
		zap.String("submitted_at", req.FormData.Timestamp),
	)
	return nil
}

// complete reports whether every field except source and timestamp is set
func complete(f *models.FormData) bool {
	return f.Name != "" && f.Company != "" && f.Email != "" && f.Interest != "" && f.Budget != ""
}
