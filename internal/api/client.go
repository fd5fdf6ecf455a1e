package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lamim/clipwright/internal/config"
	"github.com/lamim/clipwright/internal/metrics"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests
const DefaultHTTPTimeout = 120 * time.Second

// Client handles HTTP requests to OpenAI-compatible API endpoints. It makes
// exactly one call per invocation: no retries, no streaming. Failures surface
// immediately to the caller as typed errors.
type Client struct {
	httpClient      *http.Client
	secrets         *config.Secrets
	rateLimiterPool *RateLimiterPool
	collector       *metrics.Collector
	logger          *slog.Logger
}

// NewClient creates a new API client
func NewClient(secrets *config.Secrets, collector *metrics.Collector, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
		},
		secrets:         secrets,
		rateLimiterPool: NewRateLimiterPool(),
		collector:       collector,
		logger:          logger,
	}
}

// Invoke executes a single text-generation call for the given request text.
// One call returns one complete text or one error.
func (c *Client) Invoke(ctx context.Context, requestText string, modelCfg config.ModelConfig) (string, error) {
	resp, err := c.ChatCompletion(ctx, modelCfg, []Message{
		{Role: "user", Content: requestText},
	})
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Message.Content, nil
}

// ValidateCredential verifies the API credential for the given endpoint by
// listing models. A 401 or 403 response means the credential is invalid; any
// other failure is reported as unverifiable.
func (c *Client) ValidateCredential(ctx context.Context, modelCfg config.ModelConfig) error {
	endpoint := joinEndpoint(modelCfg.BaseURL, "models")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &CredentialError{Reason: "failed to create request", Err: err}
	}

	apiKey := c.secrets.GetAPIKey(modelCfg.BaseURL)
	if apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &CredentialError{Reason: "endpoint unreachable", Err: err}
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return &CredentialError{Reason: fmt.Sprintf("credential rejected with status %d", httpResp.StatusCode)}
	case httpResp.StatusCode >= 400:
		return &CredentialError{Reason: fmt.Sprintf("unexpected status %d from model listing", httpResp.StatusCode)}
	}

	c.logger.Debug("Credential validated", "endpoint", endpoint)
	return nil
}

// ChatCompletion sends a single chat completion request to the specified model
func (c *Client) ChatCompletion(
	ctx context.Context,
	modelCfg config.ModelConfig,
	messages []Message,
) (*ChatCompletionResponse, error) {
	// Rate limiting is pacing, not retrying: one request still maps to one
	// upstream call.
	modelID := fmt.Sprintf("%s:%s", modelCfg.BaseURL, modelCfg.ModelName)

	waitStart := time.Now()
	if err := c.rateLimiterPool.Wait(ctx, modelID, modelCfg.RateLimitPerMinute); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}
	if c.collector != nil {
		c.collector.RecordRateLimiterWait(modelCfg.ModelName, time.Since(waitStart))
	}

	req := ChatCompletionRequest{
		Model:       modelCfg.ModelName,
		Messages:    messages,
		Temperature: modelCfg.Temperature,
		TopP:        modelCfg.TopP,
		MaxTokens:   modelCfg.MaxOutputTokens,
		N:           1,
	}

	return c.doRequest(ctx, modelCfg.BaseURL, req)
}

func (c *Client) doRequest(
	ctx context.Context,
	baseURL string,
	req ChatCompletionRequest,
) (*ChatCompletionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := joinEndpoint(baseURL, "chat/completions")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	apiKey := c.secrets.GetAPIKey(baseURL)
	if apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
		c.logger.Debug("API request", "endpoint", endpoint, "has_key", true)
	} else {
		c.logger.Warn("API request without key", "endpoint", endpoint)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &APIError{
			Message: fmt.Sprintf("request failed: %v", err),
		}
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
		return nil, &CredentialError{Reason: fmt.Sprintf("request rejected with status %d", httpResp.StatusCode)}
	}

	if httpResp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, &APIError{
				Message:    errResp.Error.Message,
				StatusCode: httpResp.StatusCode,
				Type:       errResp.Error.Type,
				Code:       errResp.Error.Code,
			}
		}

		return nil, &APIError{
			Message:    fmt.Sprintf("API request failed with status %d: %s", httpResp.StatusCode, string(respBody)),
			StatusCode: httpResp.StatusCode,
		}
	}

	var resp ChatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned in response")
	}

	return &resp, nil
}

func joinEndpoint(baseURL, path string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + path
}
