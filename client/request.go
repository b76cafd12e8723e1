package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// RequestOptions describes one call made through Client.Do.
type RequestOptions struct {
	// Method defaults to GET.
	Method string
	// Body is encoded as JSON when non-nil.
	Body any
	// Headers override the client's defaults key by key.
	Headers http.Header
}

// Do sends a request to path, relative to the client's base URL, and decodes a
// successful response body into target. A nil target discards the body.
//
// Every error returned by Do is an *Error.
func (c *Client) Do(ctx context.Context, path string, opts RequestOptions, target any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	if f := c.do(ctx, method, path, opts, target); f != nil {
		c.log.Error(f, "API Error", "method", method, "path", path)
		return Normalize(f)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, opts RequestOptions, target any) Failure {
	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return &RequestError{Err: err}
		}
		body = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RequestError{Err: err}
	}
	for k, v := range c.headers {
		request.Header[k] = v
	}
	for k, v := range opts.Headers {
		request.Header[http.CanonicalHeaderKey(k)] = v
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer response.Body.Close()

	bodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return newHTTPError(method, request.URL.String(), response.StatusCode, bodyBytes)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
