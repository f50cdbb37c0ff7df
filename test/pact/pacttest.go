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
	ProviderName = "commerce-api"
	ConsumerName = "storefront-portal"

	StateCatalogBaseline = "catalog baseline"
	StateProductExists   = "product prod-pact-101 exists"
	StateProductMissing  = "no product with id prod-pact-404"
	StateOrderReady      = "product and customer ready for purchase"
	StateSessionActive   = "an authenticated session exists"
)

const (
	ExistingProductID = "prod-pact-101"
	MissingProductID  = "prod-pact-404"
	ExistingSKU       = "PACT-SKU-01"

	PurchaseCustomerID = "cust-pact-201"
	PurchaseCity       = "Jakarta"

	SessionToken    = "pact-session-token"
	SessionUsername = "pact-user"
)

// ExampleProductPayload provides stable test data for pact interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":    ExistingProductID,
		"name":  "Pact Widget",
		"price": "100.00",
		"stock": 5,
		"sku":   ExistingSKU,
	}
}

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

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
