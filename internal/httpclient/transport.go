package httpclient

import (
	"net/http"
	"time"
)

// NewTransport creates a configured HTTP transport for outbound lookups
// The transport is reused across requests for connection pooling
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,

		// Maximum number of idle connections across all hosts
		MaxIdleConns: 50,

		// Lookups go to a handful of feeds, keep a few warm connections per host
		MaxIdleConnsPerHost: 10,

		// How long an idle connection stays in the pool
		IdleConnTimeout: 90 * time.Second,

		// Handshake and header timeouts stay below the per-lookup deadline
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,

		ForceAttemptHTTP2: true,
	}
}
