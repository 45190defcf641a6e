package utils

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient("http://localhost:8080/api", 30*time.Second)
//	resp, err := client.R().Get("customers")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an HTTPClient whose relative request paths resolve
// against baseURL. A zero timeout leaves resty's default (none) in place.
//
// resty's own retry machinery stays disabled: callers that retry build a
// fresh request for every attempt.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}
