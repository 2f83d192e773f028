package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/sashabaranov/go-openai"
)

const testEndpoint = "https://api.openai.com/v1/chat/completions"

func TestFromProvider_Nil(t *testing.T) {
	if err := FromProvider(testEndpoint, nil); err != nil {
		t.Errorf("FromProvider(nil) = %v, want nil", err)
	}
}

func TestFromProvider_APIErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"unauthorized", 401, IsAuthError},
		{"forbidden", 403, IsAuthError},
		{"rate limited", 429, IsRateLimitError},
		{"gateway timeout", 504, IsTimeoutError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromProvider(testEndpoint, &openai.APIError{
				HTTPStatusCode: tt.status,
				Message:        "provider says no",
			})
			if !tt.check(err) {
				t.Errorf("unexpected classification: %T %v", err, err)
			}
		})
	}
}

func TestFromProvider_APIErrorServer(t *testing.T) {
	err := FromProvider(testEndpoint, fmt.Errorf("stream: %w", &openai.APIError{
		HTTPStatusCode: 500,
		Message:        "The server had an error",
	}))

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Endpoint != testEndpoint {
		t.Errorf("Endpoint = %s, want %s", apiErr.Endpoint, testEndpoint)
	}
	if apiErr.Message != "The server had an error" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestFromProvider_RequestErrorBody(t *testing.T) {
	body := []byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	err := FromProvider(testEndpoint, &openai.RequestError{
		HTTPStatusCode: 401,
		Err:            errors.New("error, status code: 401"),
		Body:           body,
	})

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T", err)
	}
	if authErr.Message != "Incorrect API key provided" {
		t.Errorf("Message = %q", authErr.Message)
	}
	if got := GetHTTPStatus(err); got != 401 {
		t.Errorf("GetHTTPStatus() = %d, want 401", got)
	}
}

func TestFromProvider_RequestErrorNonJSON(t *testing.T) {
	err := FromProvider(testEndpoint, &openai.RequestError{
		HTTPStatusCode: 502,
		Err:            errors.New("error, status code: 502"),
		Body:           []byte("<html>Bad Gateway</html>"),
	})

	if got := GetHTTPStatus(err); got != 502 {
		t.Errorf("GetHTTPStatus() = %d, want 502", got)
	}
	if got := GetResponseBody(err); got != "<html>Bad Gateway</html>" {
		t.Errorf("GetResponseBody() = %q", got)
	}
}

func TestFromProvider_Context(t *testing.T) {
	if !IsTimeoutError(FromProvider(testEndpoint, context.DeadlineExceeded)) {
		t.Error("deadline exceeded should be a timeout")
	}
	if err := FromProvider(testEndpoint, context.Canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("cancellation should be kept, got %v", err)
	}
}

func TestFromProvider_Network(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	err := FromProvider(testEndpoint, opErr)

	if !IsNetworkError(err) {
		t.Errorf("expected network error, got %T", err)
	}
	if got := GetEndpoint(err); got != testEndpoint {
		t.Errorf("GetEndpoint() = %s, want %s", got, testEndpoint)
	}
}

func TestFromProvider_AlreadyClassified(t *testing.T) {
	orig := NewUsageLimitError("quota")
	if got := FromProvider(testEndpoint, orig); got != error(orig) {
		t.Errorf("classified error was rewrapped: %v", got)
	}
}

func TestFromProvider_Unknown(t *testing.T) {
	orig := errors.New("something else")
	if got := FromProvider(testEndpoint, orig); got != orig {
		t.Errorf("FromProvider() = %v, want original error", got)
	}
}
