package hcl

import (
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/wavegrid/internal/config"
)

// translateSettings converts a pipeline block into config.Settings.
func translateSettings(p *pipelineBlock) (config.Settings, error) {
	var s config.Settings
	if p.Workers != nil {
		if *p.Workers < 1 {
			return s, fmt.Errorf("%s: workers must be at least 1, got %d", location(p.DeclRange), *p.Workers)
		}
		w := *p.Workers
		s.Workers = &w
	}
	if p.TaskTimeout != nil {
		d, err := time.ParseDuration(*p.TaskTimeout)
		if err != nil {
			return s, fmt.Errorf("%s: invalid task_timeout: %w", location(p.DeclRange), err)
		}
		if d < 0 {
			return s, fmt.Errorf("%s: task_timeout must not be negative", location(p.DeclRange))
		}
		s.TaskTimeout = &d
	}
	return s, nil
}

// translateTask converts a task block into the agnostic model, evaluating
// its arguments.
func translateTask(tb *taskBlock, evalCtx *hcl.EvalContext) (*config.Task, error) {
	src := location(tb.DeclRange)
	if tb.Runner == "" {
		return nil, fmt.Errorf("%s: task %q: runner must not be empty", src, tb.Name)
	}

	args := cty.EmptyObjectVal
	if tb.Arguments != nil {
		var err error
		args, err = evalArguments(tb.Arguments.Body, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("%s: task %q: %w", src, tb.Name, err)
		}
	}

	t := &config.Task{
		Name:      tb.Name,
		Runner:    tb.Runner,
		DependsOn: append([]string(nil), tb.DependsOn...),
		Arguments: args,
		Source:    src,
	}
	if tb.Priority != nil {
		t.Priority = *tb.Priority
	}
	return t, nil
}

// evalArguments evaluates every attribute of an arguments block into one
// object value. Nested blocks are not allowed.
func evalArguments(body hcl.Body, evalCtx *hcl.EvalContext) (cty.Value, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return cty.NilVal, diags
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	vals := make(map[string]cty.Value, len(attrs))
	for _, name := range names {
		v, diags := attrs[name].Expr.Value(evalCtx)
		if diags.HasErrors() {
			return cty.NilVal, diags
		}
		vals[name] = v
	}
	if len(vals) == 0 {
		return cty.EmptyObjectVal, nil
	}
	return cty.ObjectVal(vals), nil
}

func location(r hcl.Range) string {
	return fmt.Sprintf("%s:%d", r.Filename, r.Start.Line)
}
