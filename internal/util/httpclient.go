// Package util provides the shared HTTP client, logging and terminal helpers
package util

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// httpClientConfig holds configuration for creating tuned HTTP clients
type httpClientConfig struct {
	timeout             time.Duration
	maxIdleConns        int
	maxIdleConnsPerHost int
	idleConnTimeout     time.Duration
	tlsHandshakeTimeout time.Duration
	expectContinue      time.Duration
	keepAlive           time.Duration
	dialTimeout         time.Duration
}

// DefaultTimeout bounds every request issued by the scraper.
const DefaultTimeout = 30 * time.Second

func defaultConfig() httpClientConfig {
	return httpClientConfig{
		timeout:             DefaultTimeout,
		maxIdleConns:        20,
		maxIdleConnsPerHost: 4,
		idleConnTimeout:     90 * time.Second,
		tlsHandshakeTimeout: 10 * time.Second,
		expectContinue:      1 * time.Second,
		keepAlive:           30 * time.Second,
		dialTimeout:         10 * time.Second,
	}
}

// createTransport creates an HTTP transport with the given config
func createTransport(cfg httpClientConfig) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.dialTimeout,
			KeepAlive: cfg.keepAlive,
		}).DialContext,
		MaxIdleConns:          cfg.maxIdleConns,
		MaxIdleConnsPerHost:   cfg.maxIdleConnsPerHost,
		IdleConnTimeout:       cfg.idleConnTimeout,
		TLSHandshakeTimeout:   cfg.tlsHandshakeTimeout,
		ExpectContinueTimeout: cfg.expectContinue,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// NewHTTPClient returns a client sharing the tuned transport settings.
// When followRedirects is false the client hands 3xx responses back to the
// caller instead of following them.
func NewHTTPClient(followRedirects bool) *http.Client {
	cfg := defaultConfig()
	client := &http.Client{
		Transport: createTransport(cfg),
		Timeout:   cfg.timeout,
	}
	if !followRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}
