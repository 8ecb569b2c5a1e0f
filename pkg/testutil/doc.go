// Package testutil provides shared test infrastructure.
//
// Key components:
//   - MemoryFS: in-memory fsys.FS implementation for fast, isolated
//     tests, with per-path error injection
//   - Assert helpers for tests that predate the testify convention
//
// Test data should be defined inline, not in external files, and each
// test should be completely isolated with no shared state.
package testutil
