// Package httpclient provides the HTTP client used for notifier calls.
package httpclient

import (
	"net/http"
	"time"
)

// New returns a client with an overall request timeout, so a stuck
// notifier cannot hold an upload or status change open indefinitely.
func New(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
