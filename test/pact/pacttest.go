//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "catalog-api"
	ConsumerName = "storefront-web"

	StateCatalogBaseline = "catalog baseline"
	StateStoreExists     = "store with id 1 exists"
	StateInventorySeeded = "inventory seeded for store 1"
)

const (
	ExistingStoreID   int64 = 1
	MissingStoreID    int64 = 404
	ExistingProductID int64 = 1

	ExampleProductSKU  = "SKU-PACT-1001"
	ExampleProductName = "Espresso Beans"
	ExampleStock       = 10
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleStorePayload provides stable test data for store interactions.
func ExampleStorePayload() map[string]any {
	return map[string]any{
		"name":    "Downtown",
		"address": "12 Main St",
	}
}

// ExampleProductView mirrors the product projection in list responses.
func ExampleProductView() map[string]any {
	return map[string]any{
		"id":       ExistingProductID,
		"name":     ExampleProductName,
		"category": "Coffee",
		"price":    12.5,
		"sku":      ExampleProductSKU,
	}
}

// ExamplePlaceOrderPayload provides stable order placement test data.
func ExamplePlaceOrderPayload() map[string]any {
	return map[string]any{
		"storeId": ExistingStoreID,
		"customer": map[string]any{
			"name":  "Pact Customer",
			"email": "pact.customer@example.com",
			"phone": "+1234567890",
		},
		"items": []map[string]any{
			{"productId": ExistingProductID, "quantity": 2},
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
