// Package app wires the orchestrator into a runnable application: it owns the
// logger, the runner registry, the Prometheus registry and the optional
// health server, loads a pipeline through a config.Loader and executes it.
// It is independent of any entrypoint; the CLI is one caller.
package app
