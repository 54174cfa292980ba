// Package testutil holds fakes for the node's HTTP endpoints.
package testutil

import (
	"io"
	"net/http"
	"strings"
)

// MockHTTPClient answers RPC and metrics requests without a network.
type MockHTTPClient struct {
	DoFunc   func(req *http.Request) (*http.Response, error)
	Requests int
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.Requests++
	return m.DoFunc(req)
}

// StaticClient answers every request with the same status and body.
func StaticClient(status int, body string) *MockHTTPClient {
	return &MockHTTPClient{DoFunc: func(*http.Request) (*http.Response, error) {
		return MockResponse(status, body), nil
	}}
}

// FailingClient fails every request with err, like an unreachable node.
func FailingClient(err error) *MockHTTPClient {
	return &MockHTTPClient{DoFunc: func(*http.Request) (*http.Response, error) {
		return nil, err
	}}
}

// FlakyClient fails the first n requests with err, then answers 200 with body.
func FlakyClient(n int, err error, body string) *MockHTTPClient {
	c := &MockHTTPClient{}
	c.DoFunc = func(*http.Request) (*http.Response, error) {
		if c.Requests <= n {
			return nil, err
		}
		return MockResponse(http.StatusOK, body), nil
	}
	return c
}

// MockResponse creates an http.Response with given status and body.
func MockResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// RPCResult wraps a JSON-RPC result in a response envelope with id 1.
func RPCResult(result string) string {
	return `{"jsonrpc":"2.0","result":` + result + `,"id":1}`
}

// ContainsDetail reports whether any detail contains substr.
func ContainsDetail(details []string, substr string) bool {
	for _, d := range details {
		if strings.Contains(d, substr) {
			return true
		}
	}
	return false
}
