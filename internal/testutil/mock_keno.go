// Package testutil provides testing utilities for the catalog proxy.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior of a mock vendor RPC method.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockKeno is a configurable mock of the vendor API. It speaks the real
// contract: a single POST endpoint with the RPC method in the JSON body.
type MockKeno struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[string]MockResponse

	// Tracking
	RequestCount int
	MethodCounts map[string]int
	LastAPIKey   string
}

// NewMockKeno creates a new mock vendor server.
func NewMockKeno() *MockKeno {
	mock := &MockKeno{
		responses:    make(map[string]MockResponse),
		MethodCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			APIKey string `json:"apikey"`
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad rpc body", http.StatusBadRequest)
			return
		}

		mock.mu.Lock()
		mock.RequestCount++
		mock.MethodCounts[body.Method]++
		mock.LastAPIKey = body.APIKey
		resp, ok := mock.responses[body.Method]
		mock.mu.Unlock()

		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"errors": "unknown method"}`))
			return
		}

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.StatusCode != 0 {
			w.WriteHeader(resp.StatusCode)
		}
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockKeno) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockKeno) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockKeno) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.MethodCounts = make(map[string]int)
	m.LastAPIKey = ""
}

// SetResponse configures the response for one RPC method.
func (m *MockKeno) SetResponse(method string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[method] = resp
}

// SetCategories configures a GetProductCategories payload.
func (m *MockKeno) SetCategories(categoriesJSON string) {
	m.SetResponse("GetProductCategories", MockResponse{
		Body: `{"categories": ` + categoriesJSON + `}`,
	})
}

// SetProductBase configures a GetProductBase payload.
func (m *MockKeno) SetProductBase(connectionStatus, productsJSON string) {
	m.SetResponse("GetProductBase", MockResponse{
		Body: `{"connection_status": "` + connectionStatus + `", "products_base": ` + productsJSON + `}`,
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockKeno) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetMethodCount returns the number of calls for one RPC method.
func (m *MockKeno) GetMethodCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.MethodCounts[method]
}
