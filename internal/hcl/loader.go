package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/wavegrid/internal/config"
	"github.com/vk/wavegrid/internal/ctxlog"
	"github.com/vk/wavegrid/internal/fsutil"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	env map[string]string
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a loader that exposes the process environment as `env`.
func NewLoader() *Loader {
	return &Loader{}
}

// WithEnv replaces the variables visible as `env.<NAME>`.
func (l *Loader) WithEnv(env map[string]string) *Loader {
	return &Loader{env: env}
}

// Load parses every .hcl file found under paths, in lexical order per
// directory, and merges them into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	env := l.env
	if env == nil {
		env = processEnv()
	}
	evalCtx := newEvalContext(env)
	parser := hclparse.NewParser()

	model := &config.Model{Files: files}
	var settingsFrom *hcl.Range
	seen := make(map[string]string)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, p := range root.Pipeline {
			if settingsFrom != nil {
				return nil, fmt.Errorf("%s: duplicate pipeline block, first declared at %s", location(p.DeclRange), location(*settingsFrom))
			}
			r := p.DeclRange
			settingsFrom = &r
			settings, err := translateSettings(p)
			if err != nil {
				return nil, err
			}
			model.Settings = settings
		}

		for _, tb := range root.Tasks {
			if first, dup := seen[tb.Name]; dup {
				return nil, fmt.Errorf("%s: task %q already declared at %s", location(tb.DeclRange), tb.Name, first)
			}
			t, err := translateTask(tb, evalCtx)
			if err != nil {
				return nil, err
			}
			seen[t.Name] = t.Source
			model.Tasks = append(model.Tasks, t)
		}
	}

	logger.Debug("HCL loading complete.", "files", len(files), "tasks", len(model.Tasks))
	return model, nil
}

// findAllHCLFiles expands paths into a de-duplicated list of .hcl files.
// Missing paths are an error; a file given explicitly must end in .hcl.
func findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			allFiles = append(allFiles, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
			continue
		}
		if filepath.Ext(path) != ".hcl" {
			return nil, fmt.Errorf("%s: not an .hcl file", path)
		}
		add(path)
	}
	return allFiles, nil
}
