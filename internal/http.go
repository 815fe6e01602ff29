package internal

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// newHTTPClient retries connection errors and 5xx responses a few times.
func newHTTPClient(timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = nil
	return client
}
