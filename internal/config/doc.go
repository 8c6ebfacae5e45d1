// Package config defines the format-agnostic pipeline model and the Loader
// interface that produces it.
//
// A Model is what the pipeline package turns into a task graph. Concrete
// loaders, such as the HCL one, live in their own packages.
package config
