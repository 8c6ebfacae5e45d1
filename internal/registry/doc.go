// Package registry maps runner names used in pipeline files to the Go code
// that implements them.
//
// Modules register their runners at startup. The pipeline builder binds each
// configured task to a runner, decoding the task's arguments into the
// runner's input struct before any task runs, so argument mistakes are
// construction errors rather than task failures.
package registry
