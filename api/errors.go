package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any *Error with status 401. Callers treat it
	// as "log in again".
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTransport wraps failures that never produced an HTTP response.
	ErrTransport = errors.New("transport failure")
	// ErrPaymentVerification is returned when the backend rejects the
	// payment provider's callback identifiers.
	ErrPaymentVerification = errors.New("payment verification failed")
	// ErrMissingToken is returned when a login response carries no token.
	ErrMissingToken = errors.New("login response carried no token")
	// ErrMissingID is returned before any request is sent for an empty id.
	ErrMissingID = errors.New("missing id")
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status    int
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// newError builds an Error from a response body, preferring the server's
// "error" field, then "message", then a generic status message.
func newError(status int, body []byte, requestID string) *Error {
	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		switch v := payload.Error.(type) {
		case string:
			msg = v
		case map[string]any:
			if m, ok := v["message"].(string); ok {
				msg = m
			}
		}
		if msg == "" {
			msg = payload.Message
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &Error{Status: status, Message: msg, RequestID: requestID}
}

// IsUnauthorized reports whether err is, or wraps, a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
