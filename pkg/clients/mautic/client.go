package mautic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"formrelay/pkg/models"
)

// Client defines the interface for submitting leads to a Mautic form
type Client interface {
	SubmitForm(ctx context.Context, lead models.Lead) error
}

// SinkError is returned when Mautic answers with a non-2xx status.
// Body is kept for server-side logs only.
type SinkError struct {
	StatusCode int
	Body       string
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("error from Mautic API: status %d", e.StatusCode)
}

type clientImpl struct {
	baseURL    string
	formID     int
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Mautic client
func NewClient(baseURL string, formID int, timeout time.Duration, logger *zap.Logger) Client {
	return &clientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		formID:     formID,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (c *clientImpl) SubmitForm(ctx context.Context, lead models.Lead) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	formID := strconv.Itoa(c.formID)
	submitURL := fmt.Sprintf("%s/form/submit?formId=%s", c.baseURL, url.QueryEscape(formID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, submitURL, strings.NewReader(EncodeForm(formID, lead)))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error submitting Mautic form: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &SinkError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logger.Debug("Submitted Mautic form", zap.Int("form_id", c.formID), zap.Int("status", resp.StatusCode))
	return nil
}

// EncodeForm builds the urlencoded Mautic body. Unlike url.Values.Encode it keeps
// the field order Mautic's own form markup posts.
func EncodeForm(formID string, lead models.Lead) string {
	fields := [][2]string{
		{"formId", formID},
		{"name", lead.Name},
		{"company", lead.Company},
		{"email", lead.Email},
		{"interest", lead.Interest},
		{"budget", lead.Budget},
		{"source", lead.Source},
		{"return", ""},
		{"messenger", "1"},
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape("mauticform[" + f[0] + "]"))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f[1]))
	}
	return b.String()
}
