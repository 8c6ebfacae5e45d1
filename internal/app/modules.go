package app

import (
	"io"

	"github.com/vk/wavegrid/internal/registry"
	"github.com/vk/wavegrid/modules/env_vars"
	"github.com/vk/wavegrid/modules/fail"
	"github.com/vk/wavegrid/modules/http_request"
	"github.com/vk/wavegrid/modules/print"
	"github.com/vk/wavegrid/modules/sleep"
	"github.com/vk/wavegrid/modules/socketio_request"
)

// CoreModules is the definitive list of runners compiled into the wavegrid
// binary. print writes to out.
func CoreModules(out io.Writer) []registry.Module {
	return []registry.Module{
		&env_vars.Module{},
		&print.Module{Out: out},
		&sleep.Module{},
		&fail.Module{},
		&http_request.Module{},
		&socketio_request.Module{},
	}
}
