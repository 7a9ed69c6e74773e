package engine

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	tls "github.com/refraction-networking/utls"
)

// maxBody caps how much of a response body is read.
const maxBody = 10 << 20

// HTTPEngine fetches pages over net/http with a Chrome-like TLS fingerprint.
// Some sites serve a bot wall to Go's default ClientHello; this engine gets
// past those without a browser.
type HTTPEngine struct {
	client  *http.Client
	headers map[string]string
}

// chromeH1Spec builds a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1 only, since Go's http.Transport cannot speak h2 over a utls
// connection.
func chromeH1Spec() (tls.ClientHelloSpec, error) {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return tls.ClientHelloSpec{}, fmt.Errorf("http_engine: build tls spec: %w", err)
	}
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	return spec, nil
}

// NewHTTPEngine creates an HTTPEngine. It fails when the TLS fingerprint
// cannot be generated or the proxy URL is unusable.
func NewHTTPEngine(opts Options) (*HTTPEngine, error) {
	spec, err := chromeH1Spec()
	if err != nil {
		return nil, err
	}

	dial, err := newDialer(opts.Proxy)
	if err != nil {
		return nil, err
	}

	// Both dial hooks go through dial. transport.Proxy must stay nil: when it
	// is set, net/http handshakes over the tunnel itself and skips
	// DialTLSContext.
	transport := &http.Transport{
		DialContext: dial,
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dial(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("http_engine: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
	return &HTTPEngine{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		headers: defaultHeaders(opts),
	}, nil
}

func (e *HTTPEngine) Name() string { return NameUTLS }

func (e *HTTPEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("http_engine: build request: %w", err)
	}
	for k, v := range e.headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Accept-Encoding", "identity") // no compression for simplicity

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http_engine: do request: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: req.URL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("http_engine: read body: %w", err)
	}

	return &FetchResult{
		HTML:       string(body),
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		EngineName: e.Name(),
	}, nil
}
