// Package rpccheck asks a Substrate-based node for its health over
// JSON-RPC.
package rpccheck

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/vertti/hostverify/pkg/check"
)

const healthRequest = `{"jsonrpc":"2.0","id":1,"method":"system_health","params":[]}`

// HTTPClient abstracts HTTP requests for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Check calls system_health on a node's RPC endpoint.
type Check struct {
	URL        string        // RPC endpoint, e.g. http://127.0.0.1:9933
	MinPeers   int           // fail below this many peers when the node should have peers
	NotSyncing bool          // fail while the node is major-syncing
	Timeout    time.Duration // request timeout (default: 5s)
	Retry      int           // retry count on transport failure
	RetryDelay time.Duration // delay between retries (default: 1s)
	Client     HTTPClient    // injected for testing
}

// Run executes the RPC health check.
func (c *Check) Run() check.Result {
	result := check.Result{
		Name: "rpc: " + c.URL,
	}

	parsedURL, err := url.Parse(c.URL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return result.Failf("invalid URL: %s", c.URL)
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	retryDelay := c.RetryDelay
	if retryDelay == 0 {
		retryDelay = 1 * time.Second
	}

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	maxAttempts := c.Retry + 1
	var body string
	for attempt := 1; ; attempt++ {
		body, err = c.call(client)
		if err == nil {
			break
		}
		if attempt >= maxAttempts {
			if maxAttempts > 1 {
				return result.Fail(fmt.Sprintf("request failed after %d attempts", maxAttempts), err)
			}
			return result.Fail("request failed", err)
		}
		time.Sleep(retryDelay)
	}

	if rpcErr := gjson.Get(body, "error"); rpcErr.Exists() {
		return result.Failf("rpc error %d: %s", rpcErr.Get("code").Int(), rpcErr.Get("message").String())
	}

	health := gjson.Get(body, "result")
	if !health.IsObject() {
		return result.Failf("unexpected response: %s", body)
	}

	peers := health.Get("peers").Int()
	syncing := health.Get("isSyncing").Bool()
	shouldHavePeers := health.Get("shouldHavePeers").Bool()

	result.AddDetailf("peers: %d", peers).
		AddDetailf("syncing: %t", syncing)

	if shouldHavePeers && peers < int64(c.MinPeers) {
		return result.Failf("peers %d < minimum %d", peers, c.MinPeers)
	}
	if c.NotSyncing && syncing {
		return result.Failf("node is syncing")
	}

	return result.Pass()
}

func (c *Check) call(client HTTPClient) (string, error) {
	req, err := http.NewRequest(http.MethodPost, c.URL, bytes.NewBufferString(healthRequest))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	return string(data), nil
}
