// Package testing provides a conformance suite for replog.ILog implementations.
//
// Example usage:
//
//	rltesting.RunLogTests(t, "MyLog", func() replog.ILog {
//		return NewMyLog()
//	})
package testing
