// Package pipeline assembles task graphs.
//
// Builder covers the common loader -> analyses -> aggregator shape in a few
// calls. FromModel turns a loaded config.Model into a graph by binding every
// task to a runner from a registry.
package pipeline
