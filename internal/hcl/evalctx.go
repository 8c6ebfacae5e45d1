package hcl

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// newEvalContext builds the context pipeline expressions are evaluated in.
func newEvalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vars[k] = cty.StringVal(v)
	}
	envVal := cty.MapValEmpty(cty.String)
	if len(vars) > 0 {
		envVal = cty.MapVal(vars)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal,
		},
		Functions: map[string]function.Function{
			"upper":      stdlib.UpperFunc,
			"lower":      stdlib.LowerFunc,
			"trimspace":  stdlib.TrimSpaceFunc,
			"replace":    stdlib.ReplaceFunc,
			"join":       stdlib.JoinFunc,
			"split":      stdlib.SplitFunc,
			"format":     stdlib.FormatFunc,
			"length":     stdlib.LengthFunc,
			"concat":     stdlib.ConcatFunc,
			"coalesce":   stdlib.CoalesceFunc,
			"jsonencode": stdlib.JSONEncodeFunc,
			"min":        stdlib.MinFunc,
			"max":        stdlib.MaxFunc,
		},
	}
}

// processEnv returns the current process environment as a map.
func processEnv() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k != "" {
			env[k] = v
		}
	}
	return env
}
