package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"harvestsync-service/internal/domain/repository"
	"harvestsync-service/pkg/logger"

	"golang.org/x/oauth2"
)

// HTTPAPIClient implements the APIClient interface over HTTP. Requests carry
// the bearer token supplied by the token source; non-2xx responses surface
// as *repository.APIError with the status and raw body preserved.
type HTTPAPIClient struct {
	logger logger.Logger
	client *http.Client
}

// NewHTTPAPIClient creates a new HTTP API client. A nil token source yields
// an unauthenticated client.
func NewHTTPAPIClient(ctx context.Context, tokenSource oauth2.TokenSource, logger logger.Logger, timeout time.Duration) *HTTPAPIClient {
	var client *http.Client
	if tokenSource != nil {
		client = oauth2.NewClient(ctx, tokenSource)
	} else {
		client = &http.Client{}
	}
	client.Timeout = timeout

	return &HTTPAPIClient{
		logger: logger,
		client: client,
	}
}

// Get fetches a resource and returns the raw response body
func (c *HTTPAPIClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &repository.APIError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// Post submits a JSON body and returns the raw response body
func (c *HTTPAPIClient) Post(ctx context.Context, url string, body interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, &repository.APIError{Message: "failed to marshal request body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &repository.APIError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

func (c *HTTPAPIClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &repository.APIError{Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &repository.APIError{
			Status:  resp.StatusCode,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := extractErrorMessage(data)
		if message == "" {
			message = fmt.Sprintf("request failed (%d)", resp.StatusCode)
		}
		c.logger.Error("API request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"status", resp.StatusCode,
			"message", message)

		return nil, &repository.APIError{
			Status:  resp.StatusCode,
			Message: message,
			Body:    data,
		}
	}

	return data, nil
}

// extractErrorMessage pulls a human message out of a JSON error body,
// checking the message, error and title fields the backends use
func extractErrorMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	if parsed.Error != "" {
		return parsed.Error
	}
	return parsed.Title
}
