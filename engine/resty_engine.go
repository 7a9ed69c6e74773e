package engine

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// RestyEngine is the default engine: a resty client with standard TLS,
// browser-like headers and no retries.
type RestyEngine struct {
	client *resty.Client
}

// NewRestyEngine creates a RestyEngine. The proxy, if any, must already be
// validated.
func NewRestyEngine(opts Options) *RestyEngine {
	client := resty.New()
	client.SetHeaders(defaultHeaders(opts))
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	client.SetRetryCount(0)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Proxy != "" {
		client.SetProxy(opts.Proxy)
	}
	return &RestyEngine{client: client}
}

func (e *RestyEngine) Name() string { return NameResty }

func (e *RestyEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	res, err := e.client.R().
		SetContext(ctx).
		Get(req.URL)
	if err != nil {
		return nil, fmt.Errorf("resty_engine: do request: %w", err)
	}
	if !res.IsSuccess() {
		return nil, &StatusError{StatusCode: res.StatusCode(), URL: req.URL}
	}

	finalURL := req.URL
	if raw := res.RawResponse; raw != nil && raw.Request != nil {
		finalURL = raw.Request.URL.String()
	}

	return &FetchResult{
		HTML:       res.String(),
		StatusCode: res.StatusCode(),
		FinalURL:   finalURL,
		EngineName: e.Name(),
	}, nil
}
