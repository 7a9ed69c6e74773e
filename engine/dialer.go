package engine

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// dialFunc opens a raw TCP connection to addr.
type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// newDialer returns a dialer that reaches addr directly or through the
// proxy. SOCKS5 goes through x/net/proxy; http(s) proxies are tunnelled
// with CONNECT so the caller can run its own TLS handshake on top.
func newDialer(proxyURL string) (dialFunc, error) {
	direct := &net.Dialer{Timeout: 10 * time.Second}
	if proxyURL == "" {
		return direct.DialContext, nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("engine: invalid proxy URL: %w", err)
	}

	switch u.Scheme {
	case "socks5", "socks5h":
		d, err := proxy.FromURL(u, direct)
		if err != nil {
			return nil, fmt.Errorf("engine: socks5 proxy: %w", err)
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("engine: socks5 dialer does not support contexts")
		}
		return cd.DialContext, nil
	case "http", "https":
		return connectDialer(u, direct), nil
	default:
		return nil, fmt.Errorf("engine: unsupported proxy scheme %q", u.Scheme)
	}
}

func connectDialer(proxyURL *url.URL, direct *net.Dialer) dialFunc {
	proxyAddr := proxyURL.Host
	if proxyURL.Port() == "" {
		port := "80"
		if proxyURL.Scheme == "https" {
			port = "443"
		}
		proxyAddr = net.JoinHostPort(proxyURL.Hostname(), port)
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := direct.DialContext(ctx, network, proxyAddr)
		if err != nil {
			return nil, fmt.Errorf("engine: dial proxy: %w", err)
		}
		if proxyURL.Scheme == "https" {
			tlsConn := tls.Client(conn, &tls.Config{ServerName: proxyURL.Hostname()})
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, fmt.Errorf("engine: proxy tls handshake: %w", err)
			}
			conn = tlsConn
		}

		if deadline, ok := ctx.Deadline(); ok {
			conn.SetDeadline(deadline)
			defer conn.SetDeadline(time.Time{})
		}

		req := &http.Request{
			Method: http.MethodConnect,
			URL:    &url.URL{Opaque: addr},
			Host:   addr,
			Header: make(http.Header),
		}
		if user := proxyURL.User; user != nil {
			pass, _ := user.Password()
			creds := base64.StdEncoding.EncodeToString([]byte(user.Username() + ":" + pass))
			req.Header.Set("Proxy-Authorization", "Basic "+creds)
		}
		if err := req.Write(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("engine: write CONNECT: %w", err)
		}

		// The tunnel is silent until the client speaks, so nothing past the
		// response head is buffered.
		resp, err := http.ReadResponse(bufio.NewReader(conn), req)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("engine: read CONNECT response: %w", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			conn.Close()
			return nil, fmt.Errorf("engine: proxy CONNECT %s: %s", addr, resp.Status)
		}
		return conn, nil
	}
}
