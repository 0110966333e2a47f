package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds every outbound provider call.
	DefaultTimeout = 8 * time.Second

	// defaultRateLimitRPS is deliberately generous: the limiter exists to
	// self-throttle against provider quotas, not to queue work.
	defaultRateLimitRPS = 5

	// maxResponseBytes caps how much of a provider response we will read.
	maxResponseBytes = 1 << 20
)

// ProviderError describes a failed provider call for logs. It is carried
// inside a TransportError result, never returned to callers directly.
type ProviderError struct {
	Code     string
	Message  string
	Provider string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Standard error codes
const (
	ErrCodeRequestFailed   = "REQUEST_FAILED"
	ErrCodeBadStatus       = "BAD_STATUS"
	ErrCodeInvalidResponse = "INVALID_RESPONSE"
	ErrCodeInvalidNumber   = "INVALID_NUMBER"
	ErrCodeThrottled       = "THROTTLED"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func newLimiter(rps int) *rate.Limiter {
	if rps <= 0 {
		rps = defaultRateLimitRPS
	}
	return rate.NewLimiter(rate.Limit(rps), rps*2)
}

// getJSON performs one GET against a provider endpoint and decodes the JSON
// body into out. Non-2xx statuses and malformed bodies are reported as
// errors; the caller maps any error to a TransportError result. No retries.
func getJSON(ctx context.Context, provider string, client *http.Client, limiter *rate.Limiter, req *http.Request, out interface{}) error {
	if err := limiter.Wait(ctx); err != nil {
		return &ProviderError{Code: ErrCodeThrottled, Message: err.Error(), Provider: provider}
	}

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return &ProviderError{Code: ErrCodeRequestFailed, Message: err.Error(), Provider: provider}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProviderError{
			Code:     ErrCodeBadStatus,
			Message:  fmt.Sprintf("unexpected HTTP status %d", resp.StatusCode),
			Provider: provider,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &ProviderError{Code: ErrCodeRequestFailed, Message: err.Error(), Provider: provider}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{Code: ErrCodeInvalidResponse, Message: err.Error(), Provider: provider}
	}
	return nil
}
