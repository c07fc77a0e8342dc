// Package httpclient builds the HTTP client used to reach the storage API,
// with optional HTTP or SOCKS5 proxy support.
package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// Options configures the HTTP client.
type Options struct {
	// Timeout for the whole request; zero disables it.
	Timeout time.Duration
	// Proxy is an http://, https:// or socks5:// URL. Empty means the
	// HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment is honored.
	Proxy string
}

// New creates a new HTTP client.
func New(opts Options) (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if opts.Proxy != "" {
		if err := configureProxy(transport, opts.Proxy); err != nil {
			return nil, fmt.Errorf("configure proxy: %w", err)
		}
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}, nil
}

func configureProxy(transport *http.Transport, rawURL string) error {
	proxyURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse proxy URL: %w", err)
	}

	switch proxyURL.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(proxyURL)
		return nil
	case "socks5", "socks5h":
		return configureSocks5Proxy(transport, proxyURL)
	default:
		return fmt.Errorf("unsupported proxy scheme %q", proxyURL.Scheme)
	}
}

func configureSocks5Proxy(transport *http.Transport, proxyURL *url.URL) error {
	var auth *proxy.Auth
	if proxyURL.User != nil {
		password, _ := proxyURL.User.Password()
		auth = &proxy.Auth{
			User:     proxyURL.User.Username(),
			Password: password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, proxy.Direct)
	if err != nil {
		return fmt.Errorf("create SOCKS5 dialer: %w", err)
	}

	transport.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	} else {
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}

	return nil
}

// MaskProxyURL hides the password of a proxy URL so it can be logged.
func MaskProxyURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	if u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			u.User = url.UserPassword(u.User.Username(), "****")
		}
	}

	return u.String()
}
