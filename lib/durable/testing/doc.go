// Package testing provides a conformance suite for durable.IDurableStore
// implementations.
//
// Example usage:
//
//	dtesting.RunDurableStoreTests(t, "MyStore", func(t *testing.T) durable.IDurableStore {
//		return NewMyStore(t.TempDir())
//	})
package testing
