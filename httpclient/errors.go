package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNetworkConnection = errors.New("network connection failed")
	ErrEncoding          = errors.New("response is not a valid envelope")
	ErrInvalidURL        = errors.New("invalid URL")
	ErrCanceled          = errors.New("request canceled")
)

// HTTPError is a response with a non-2xx status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// StatusError is a well-formed envelope whose status is not a success.
// Payload holds the decoded error model when the envelope carried one.
type StatusError struct {
	Message string
	Code    string
	Payload any
}

func (e *StatusError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("status failed: %s (code %s)", e.Message, e.Code)
	case e.Message != "":
		return "status failed: " + e.Message
	case e.Code != "":
		return "status failed with code " + e.Code
	}

	return "status failed"
}

// Unwrap exposes the error model when it is itself an error.
func (e *StatusError) Unwrap() error {
	if err, ok := e.Payload.(error); ok {
		return err
	}

	return nil
}

// APIError is the default model of the structured error payload.
type APIError struct {
	Message string            `json:"message"`
	Code    string            `json:"code" model:"optional"`
	Details map[string]string `json:"details" model:"optional"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}

	return e.Code + ": " + e.Message
}
