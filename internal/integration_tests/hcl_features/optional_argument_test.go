package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vk/wavegrid/internal/node"
	"github.com/vk/wavegrid/internal/testutil"
	"github.com/vk/wavegrid/modules/fail"
)

// TestHCLFeatures_OptionalArgument checks that pointer-typed inputs may be
// omitted and fall back to the runner's default.
func TestHCLFeatures_OptionalArgument(t *testing.T) {
	t.Parallel()
	gridHCL := `
		task "defaulted" {
			runner = "fail"
		}
		task "explicit" {
			runner = "fail"
			arguments {
				message = "custom"
			}
		}
	`
	result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": gridHCL}, &fail.Module{})

	res := testutil.RequireState(t, result, "defaulted", node.Failed)
	assert.EqualError(t, res.Err, fail.DefaultMessage)
	res = testutil.RequireState(t, result, "explicit", node.Failed)
	assert.EqualError(t, res.Err, "custom")
}
