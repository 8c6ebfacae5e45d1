// Package testutil holds the shared harness and mock runners used by the
// integration tests: write pipeline files into a temp dir, run the full app
// over them and inspect the final state.
package testutil
