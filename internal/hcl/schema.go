package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the set of top-level blocks a pipeline file may contain.
type fileRoot struct {
	Pipeline []*pipelineBlock `hcl:"pipeline,block"`
	Tasks    []*taskBlock     `hcl:"task,block"`
}

// pipelineBlock maps `pipeline { ... }`.
type pipelineBlock struct {
	Workers     *int      `hcl:"workers,optional"`
	TaskTimeout *string   `hcl:"task_timeout,optional"`
	DeclRange   hcl.Range `hcl:",def_range"`
}

// taskBlock maps `task "<name>" { ... }`.
type taskBlock struct {
	Name      string          `hcl:"name,label"`
	Runner    string          `hcl:"runner"`
	Priority  *int            `hcl:"priority,optional"`
	DependsOn []string        `hcl:"depends_on,optional"`
	Arguments *argumentsBlock `hcl:"arguments,block"`
	DeclRange hcl.Range       `hcl:",def_range"`
}

// argumentsBlock keeps the body raw so each attribute can be evaluated
// individually into an object value.
type argumentsBlock struct {
	Body hcl.Body `hcl:",remain"`
}
