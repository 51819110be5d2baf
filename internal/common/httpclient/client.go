// internal/common/httpclient/client.go
package httpclient

import (
	"context"
	"net/http"
	"time"
)

// Client is the timeout-bound HTTP client the dispatcher delivers playbook
// requests with. The timeout is the whole-request deadline (dial through
// body), matching worker.timeout from config.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DoWithContext issues the request under ctx; cancellation and the client
// timeout both abort the exchange, whichever fires first.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
