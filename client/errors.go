package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sammy-project/sammy-client-go/api"
)

const fallbackMessage = "An error occurred while communicating with the server."

// Error is the only error type returned by Client operations. Error() yields
// the normalized message; the underlying Failure is reachable with errors.As.
type Error struct {
	Message string
	failure Failure
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	if e.failure == nil {
		return nil
	}
	return e.failure
}

// Failure is one of *RequestError, *NetworkError, *HTTPError or *DecodeError.
type Failure interface {
	error
	failure()
}

type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return errMessage("build request", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
func (*RequestError) failure() {}

type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return errMessage("", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
func (*NetworkError) failure() {}

type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return errMessage("decode response", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
func (*DecodeError) failure() {}

type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	// Detail is the text of the body's "detail" field: a JSON string
	// unquoted, any other value as compact JSON. Empty when absent.
	Detail string
}

func newHTTPError(method, url string, statusCode int, body []byte) *HTTPError {
	return &HTTPError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
		Detail:     extractDetail(body),
	}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("[%s] %q: %d", e.Method, e.URL, e.StatusCode)
}

func (*HTTPError) failure() {}

func extractDetail(body []byte) string {
	var resp api.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	raw := bytes.TrimSpace(resp.Detail)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

func errMessage(prefix string, err error) string {
	switch {
	case err == nil:
		return ""
	case prefix == "":
		return err.Error()
	default:
		return prefix + ": " + err.Error()
	}
}

// Normalize turns a failure into an *Error. The message is, in order of
// preference: the server's detail, "Server error: <status>", the failure's own
// message, and finally a fixed fallback.
func Normalize(f Failure) *Error {
	var (
		detail string
		status int
	)
	switch f := f.(type) {
	case *HTTPError:
		detail, status = f.Detail, f.StatusCode
	case *RequestError, *NetworkError, *DecodeError, nil:
	default:
		panic(fmt.Sprintf("unhandled failure type %T", f))
	}

	message := fallbackMessage
	switch {
	case detail != "":
		message = detail
	case status != 0:
		message = fmt.Sprintf("Server error: %d", status)
	case f != nil && f.Error() != "":
		message = f.Error()
	}
	return &Error{Message: message, failure: f}
}
