package errors

import (
	"context"
	"errors"
	"net"
)

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) || errors.Is(err, ErrNoAPIKey)
}

// IsRateLimitError reports whether err is a rate limit or quota failure
func IsRateLimitError(err error) bool {
	var limitErr *UsageLimitError
	return errors.As(err, &limitErr)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsUnknownModelError reports whether err is a rejected model selection
func IsUnknownModelError(err error) bool {
	var modelErr *UnknownModelError
	return errors.As(err, &modelErr)
}

// GetHTTPStatus extracts the HTTP status code carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}
	var limitErr *UsageLimitError
	if errors.As(err, &limitErr) {
		return limitErr.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint carried by err, if any
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody extracts the raw response body carried by err, if any
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

// GetPartial returns the text streamed before err interrupted a reply
func GetPartial(err error) string {
	var streamErr *StreamError
	if errors.As(err, &streamErr) {
		return streamErr.Partial
	}
	return ""
}
