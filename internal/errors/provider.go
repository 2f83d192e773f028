package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
)

// maxBodyLen caps the response body kept on an APIError
const maxBodyLen = 4096

// FromProvider converts an error returned by the go-openai client into one of
// the package's typed errors. It only classifies; nothing is retried.
func FromProvider(endpoint string, err error) error {
	if err == nil {
		return nil
	}

	if isClassified(err) || errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(endpoint)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fromStatus(apiErr.HTTPStatusCode, endpoint, apiErr.Message, "")
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := bodyMessage(reqErr.Body)
		if msg == "" && reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return fromStatus(reqErr.HTTPStatusCode, endpoint, msg, truncateBody(reqErr.Body))
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewTimeoutError(endpoint)
		}
		return NewNetworkErrorWithEndpoint("chat completion", endpoint, err)
	}

	return err
}

func fromStatus(status int, endpoint, message, body string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: status, Message: message}
	case http.StatusTooManyRequests:
		return &UsageLimitError{StatusCode: status, Message: message}
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return NewTimeoutError(message)
	}
	if message == "" {
		message = "chat completion failed"
	}
	return NewAPIErrorWithBody(status, endpoint, message, body)
}

// bodyMessage pulls the human readable message out of an OpenAI style error
// body ({"error": {"message": ...}}), falling back to a bare "message" field.
func bodyMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
		return msg.String()
	}
	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return msg.String()
	}
	return ""
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodyLen {
		s = s[:maxBodyLen]
	}
	return s
}

func isClassified(err error) bool {
	var (
		authErr    *AuthError
		apiErr     *APIError
		timeoutErr *TimeoutError
		limitErr   *UsageLimitError
		netErr     *NetworkError
	)
	return errors.As(err, &authErr) ||
		errors.As(err, &apiErr) ||
		errors.As(err, &timeoutErr) ||
		errors.As(err, &limitErr) ||
		errors.As(err, &netErr)
}
