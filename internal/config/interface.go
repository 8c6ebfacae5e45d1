package config

import "context"

// Loader reads pipeline definitions from the given files or directories and
// translates them into a Model.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}
