package keno

import (
	"context"
	"testing"
	"time"

	"github.com/keno-tools/catalog-proxy/internal/testutil"
)

func newTestClient(t *testing.T, mock *testutil.MockKeno) *Client {
	t.Helper()

	cfg := DefaultConfig("test-key")
	cfg.Endpoint = mock.URL()
	cfg.Timeout = 5 * time.Second

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(Config{})
	if err == nil {
		t.Error("New should fail without endpoint")
	}
}

func TestClient_FetchCategoryTree(t *testing.T) {
	mock := testutil.NewMockKeno()
	defer mock.Close()

	mock.SetCategories(`[
		{"id": 1, "name": "Energy Storage", "categories": [
			{"id": "11", "name": "Batteries", "parent_id": 1}
		]},
		{"id": 2, "name": "Cooling"}
	]`)

	client := newTestClient(t, mock)

	tree, err := client.FetchCategoryTree(context.Background())
	if err != nil {
		t.Fatalf("FetchCategoryTree failed: %v", err)
	}

	if len(tree) != 2 {
		t.Fatalf("got %d roots, want 2", len(tree))
	}
	if tree[0].ID != 1 || tree[0].Name != "Energy Storage" {
		t.Errorf("root[0] = %+v", tree[0])
	}
	if len(tree[0].Children) != 1 {
		t.Fatalf("root[0] children = %d, want 1", len(tree[0].Children))
	}
	// String-typed IDs decode the same as numeric ones.
	if tree[0].Children[0].ID != 11 {
		t.Errorf("child ID = %d, want 11", tree[0].Children[0].ID)
	}

	if mock.LastAPIKey != "test-key" {
		t.Errorf("credential not sent, got %q", mock.LastAPIKey)
	}
	if got := mock.GetMethodCount(MethodGetProductCategories); got != 1 {
		t.Errorf("GetProductCategories calls = %d, want 1", got)
	}
}

func TestClient_FetchProductBase(t *testing.T) {
	mock := testutil.NewMockKeno()
	defer mock.Close()

	mock.SetProductBase("Success", `[
		{"index": "SKU-1", "subcategory_id": 78, "description": {"lt": "tekstas"}},
		{"index": "SKU-2", "subcategory_id": "79"}
	]`)

	client := newTestClient(t, mock)

	base, err := client.FetchProductBase(context.Background())
	if err != nil {
		t.Fatalf("FetchProductBase failed: %v", err)
	}

	if base.ConnectionStatus != "Success" {
		t.Errorf("connection_status = %q, want Success", base.ConnectionStatus)
	}
	if len(base.ProductsBase) != 2 {
		t.Fatalf("got %d products, want 2", len(base.ProductsBase))
	}
	if base.ProductsBase[0]["index"] != "SKU-1" {
		t.Errorf("product[0] index = %v", base.ProductsBase[0]["index"])
	}
}

func TestClient_TransportError(t *testing.T) {
	mock := testutil.NewMockKeno()
	defer mock.Close()

	mock.SetResponse(MethodGetProductBase, testutil.MockResponse{
		StatusCode: 503,
		Body:       "upstream down",
	})

	client := newTestClient(t, mock)

	_, err := client.FetchProductBase(context.Background())
	if err == nil {
		t.Fatal("expected error on 503")
	}

	ke, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *keno.Error, got %T: %v", err, err)
	}
	if ke.Kind != ErrorKindTransport {
		t.Errorf("kind = %q, want transport", ke.Kind)
	}
	if ke.StatusCode != 503 {
		t.Errorf("status = %d, want 503", ke.StatusCode)
	}
}

func TestClient_ApplicationError(t *testing.T) {
	mock := testutil.NewMockKeno()
	defer mock.Close()

	mock.SetResponse(MethodGetProductCategories, testutil.MockResponse{
		Body: `{"errors": "invalid api key"}`,
	})

	client := newTestClient(t, mock)

	_, err := client.FetchCategoryTree(context.Background())
	if err == nil {
		t.Fatal("expected error on errors field")
	}

	ke, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *keno.Error, got %T: %v", err, err)
	}
	if ke.Kind != ErrorKindApplication {
		t.Errorf("kind = %q, want application", ke.Kind)
	}
	if ke.Message != "invalid api key" {
		t.Errorf("message = %q, want vendor message", ke.Message)
	}
}

func TestClient_NullErrorsFieldIsSuccess(t *testing.T) {
	mock := testutil.NewMockKeno()
	defer mock.Close()

	mock.SetResponse(MethodGetProductBase, testutil.MockResponse{
		Body: `{"errors": null, "connection_status": "Success", "products_base": []}`,
	})

	client := newTestClient(t, mock)

	base, err := client.FetchProductBase(context.Background())
	if err != nil {
		t.Fatalf("null errors field should not fail: %v", err)
	}
	if base.ConnectionStatus != "Success" {
		t.Errorf("connection_status = %q", base.ConnectionStatus)
	}
}

func TestClient_Timeout(t *testing.T) {
	mock := testutil.NewMockKeno()
	defer mock.Close()

	mock.SetResponse(MethodGetProductBase, testutil.MockResponse{
		Body:  `{"connection_status": "Success", "products_base": []}`,
		Delay: 500 * time.Millisecond,
	})

	cfg := DefaultConfig("test-key")
	cfg.Endpoint = mock.URL()
	cfg.Timeout = 50 * time.Millisecond

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.FetchProductBase(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}

	ke, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *keno.Error, got %T: %v", err, err)
	}
	if ke.Kind != ErrorKindTransport {
		t.Errorf("timeout should classify as transport, got %q", ke.Kind)
	}
}

func TestClient_RetryOnTransportError(t *testing.T) {
	mock := testutil.NewMockKeno()
	defer mock.Close()

	mock.SetResponse(MethodGetProductBase, testutil.MockResponse{StatusCode: 502})

	cfg := DefaultConfig("test-key")
	cfg.Endpoint = mock.URL()
	cfg.MaxAttempts = 3
	cfg.InitialBackoff = time.Millisecond

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.FetchProductBase(context.Background())
	if err == nil {
		t.Fatal("expected error after retries")
	}
	if got := mock.GetRequestCount(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestClient_NoRetryOnApplicationError(t *testing.T) {
	mock := testutil.NewMockKeno()
	defer mock.Close()

	mock.SetResponse(MethodGetProductBase, testutil.MockResponse{
		Body: `{"errors": "bad request"}`,
	})

	cfg := DefaultConfig("test-key")
	cfg.Endpoint = mock.URL()
	cfg.MaxAttempts = 3
	cfg.InitialBackoff = time.Millisecond

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.FetchProductBase(context.Background())
	if err == nil {
		t.Fatal("expected application error")
	}
	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("application errors must not retry, attempts = %d", got)
	}
}
