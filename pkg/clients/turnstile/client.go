package turnstile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"formrelay/pkg/models"
)

// Client defines the interface for interacting with the Turnstile siteverify API
type Client interface {
	Verify(ctx context.Context, token, remoteIP string) (*models.TurnstileResponse, error)
}

type clientImpl struct {
	secret     string
	verifyURL  string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Turnstile client
func NewClient(secret, verifyURL string, timeout time.Duration, logger *zap.Logger) Client {
	return &clientImpl{
		secret:     secret,
		verifyURL:  verifyURL,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Verify checks a widget token. A token rejected by Cloudflare is not an error:
// the caller inspects Success on the returned response.
func (c *clientImpl) Verify(ctx context.Context, token, remoteIP string) (*models.TurnstileResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	jsonPayload, err := json.Marshal(models.TurnstileRequest{
		Secret:   c.secret,
		Response: token,
		RemoteIP: remoteIP,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error verifying Turnstile token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	// siteverify answers rejections with a JSON body too, so the status alone decides nothing
	var response models.TurnstileResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error parsing response (status %d): %w", resp.StatusCode, err)
	}

	c.logger.Debug("Turnstile verification",
		zap.Bool("success", response.Success),
		zap.String("hostname", response.Hostname),
		zap.Strings("error_codes", response.ErrorCodes),
	)
	return &response, nil
}
