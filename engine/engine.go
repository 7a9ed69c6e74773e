package engine

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Engine names accepted by New.
const (
	NameResty = "resty"
	NameUTLS  = "utls"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "resty", "utls").
	Name() string

	// Fetch retrieves the page content for the given request. A response
	// outside the 2xx range is reported as a *StatusError.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Timeout time.Duration
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	HTML       string
	StatusCode int
	FinalURL   string
	EngineName string
}

// Options configures the transport shared by every engine.
type Options struct {
	UserAgent      string
	AcceptLanguage string
	Proxy          string
	Timeout        time.Duration
}

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// New builds the engine registered under name. An empty name selects resty.
func New(name string, opts Options) (Engine, error) {
	if opts.Proxy != "" {
		if err := validateProxy(opts.Proxy); err != nil {
			return nil, err
		}
	}

	switch strings.ToLower(name) {
	case "", NameResty:
		return NewRestyEngine(opts), nil
	case NameUTLS:
		return NewHTTPEngine(opts)
	default:
		return nil, fmt.Errorf("engine: unknown engine %q", name)
	}
}

// defaultHeaders are browser-like headers sent with every request.
func defaultHeaders(opts Options) map[string]string {
	h := map[string]string{
		"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	}
	if opts.UserAgent != "" {
		h["User-Agent"] = opts.UserAgent
	}
	if opts.AcceptLanguage != "" {
		h["Accept-Language"] = opts.AcceptLanguage
	}
	return h
}

func validateProxy(proxy string) error {
	u, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("engine: invalid proxy URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return fmt.Errorf("engine: unsupported proxy scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("engine: proxy URL has no host")
	}
	return nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
