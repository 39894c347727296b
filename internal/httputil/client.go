package httputil

import (
	"net/http"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second
	UserAgent      = "weatherboard/1.0"
	acceptCSV      = "text/csv, text/plain;q=0.9, */*;q=0.5"
)

// NewClient returns an HTTP client for fetching CSV resources: standard
// timeout, and a User-Agent and Accept header on every request.
func NewClient() *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: &headerTransport{base: http.DefaultTransport},
	}
}

type headerTransport struct {
	base http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", acceptCSV)
	}
	return t.base.RoundTrip(req)
}
