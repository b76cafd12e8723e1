package client

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-logr/logr"

	"github.com/sammy-project/sammy-client-go/api"
	"github.com/sammy-project/sammy-client-go/config"
	"github.com/sammy-project/sammy-client-go/internal/version"
)

const (
	ContentTypeJSON = "application/json"

	headerContentType = "Content-Type"
	headerUserAgent   = "User-Agent"

	systemsPath    = "/systems"
	componentsPath = "/components"
)

// Client issues requests against a single SAMmy API. It holds no mutable state
// after construction and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	log        logr.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(l logr.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithHeader adds a header to every request. Content-Type is always
// application/json and cannot be replaced here.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

func New(cfg config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: http.DefaultClient,
		headers:    http.Header{},
		log:        logr.Discard(),
	}
	c.headers.Set(headerUserAgent, version.UserAgent())
	for _, opt := range opts {
		opt(c)
	}
	c.headers.Set(headerContentType, ContentTypeJSON)
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Systems() *ResourceClient[api.System, api.SystemBase] {
	return newResourceClient[api.System, api.SystemBase](c, systemsPath)
}

func (c *Client) Components() *ResourceClient[api.ComponentItem, api.ComponentBase] {
	return newResourceClient[api.ComponentItem, api.ComponentBase](c, componentsPath)
}
