package config

import (
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Model is the loaded pipeline: global settings plus every task definition,
// in the order the files declared them.
type Model struct {
	Settings Settings
	Tasks    []*Task
	// Files lists the source files that contributed to the model.
	Files []string
}

// Settings holds run options declared inside the pipeline itself. Nil
// fields were not set and leave the application defaults in place.
type Settings struct {
	Workers     *int
	TaskTimeout *time.Duration
}

// Task is the format-agnostic representation of one task definition.
type Task struct {
	Name      string
	Runner    string
	DependsOn []string
	Priority  int
	// Arguments is an object value, or cty.EmptyObjectVal when none were given.
	Arguments cty.Value
	// Source locates the definition for error messages, e.g. "main.hcl:12".
	Source string
}

// Task returns the named definition, or nil.
func (m *Model) Task(name string) *Task {
	for _, t := range m.Tasks {
		if t.Name == name {
			return t
		}
	}
	return nil
}
