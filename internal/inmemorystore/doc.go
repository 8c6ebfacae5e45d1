// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of nodestore.Store.
//
// It is backed by sync.Map: the key space is fixed per run and every key is
// written once, which is the access pattern sync.Map is built for.
package inmemorystore
