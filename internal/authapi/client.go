// Package authapi is the HTTP client for the platform's authentication
// service. The only operation jobdeck needs from it is requesting a
// password-reset email; tokens, sessions, and registration stay on the
// server side.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobdeck/internal/logging"
)

// ResetCompletePath is appended to the platform origin to form the
// redirect target the reset email links back to.
const ResetCompletePath = "/reset-password/complete"

// PasswordResetter requests a password-reset email for an account.
type PasswordResetter interface {
	RequestReset(ctx context.Context, email, redirectURL string) error
}

// APIError is a non-2xx response from the platform. Message carries the
// server's human-readable text; callers classify on it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to the auth service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an auth-service client for the given platform origin.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ResetRedirectURL builds the redirect target for the given origin.
func ResetRedirectURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + ResetCompletePath
}

type resetRequest struct {
	Email       string `json:"email"`
	RedirectURL string `json:"redirect_url"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// RequestReset asks the auth service to send a password-reset email for
// the account. Failures preserve the server's message so the caller can
// surface or classify it.
func (c *Client) RequestReset(ctx context.Context, email, redirectURL string) error {
	reqID := uuid.NewString()[:8]
	rl := logging.WithRequestID(logging.CategoryAuthAPI, reqID)
	rl.Info("Requesting password reset for %s", email)

	body, err := json.Marshal(resetRequest{Email: email, RedirectURL: redirectURL})
	if err != nil {
		return fmt.Errorf("failed to marshal reset request: %w", err)
	}

	url := c.baseURL + "/v1/auth/password-reset"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		rl.Error("Request failed: %v", err)
		return fmt.Errorf("password reset request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		rl.Info("Reset email accepted (status %d)", resp.StatusCode)
		return nil
	}

	apiErr := decodeAPIError(resp)
	rl.Warn("Auth service rejected reset: %d %q", apiErr.StatusCode, apiErr.Message)
	return apiErr
}

// decodeAPIError turns a non-2xx response into an *APIError. It prefers
// the server's structured message and falls back to the raw body or a
// status-specific default.
func decodeAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)

	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: er.Error.Message}
	}

	if msg := strings.TrimSpace(string(body)); msg != "" && msg != "{}" {
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return &APIError{StatusCode: resp.StatusCode, Message: "rate limit exceeded"}
	case http.StatusNotFound:
		return &APIError{StatusCode: resp.StatusCode, Message: "account not found"}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("auth service returned status %d", resp.StatusCode)}
}
