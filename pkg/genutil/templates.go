package genutil

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oaspipe/sdkgen/pkg/config"
	"github.com/oaspipe/sdkgen/pkg/errs"
)

// TemplateResolver finds the bytes for a named template: a per-client override path
// first, then the generator's built-in
// embed.FS, then (for local iteration against a checked-out copy of the generator
// source) a templates/ directory relative to the working directory.
type TemplateResolver struct {
	Client  config.Client
	Builtin fs.FS
}

// Resolve returns the template source for name, trying overrides before the built-in.
func (r TemplateResolver) Resolve(name string) ([]byte, error) {
	if override, ok := r.Client.Templates[name]; ok {
		data, err := os.ReadFile(override)
		if err != nil {
			return nil, &errs.ConfigError{Phase: "template:" + name, Cause: err}
		}
		return data, nil
	}

	if data, err := fs.ReadFile(r.Builtin, "templates/"+name); err == nil {
		return data, nil
	}

	if data, err := os.ReadFile(filepath.Join("templates", name)); err == nil {
		return data, nil
	}

	return nil, &errs.EmitError{File: name, Cause: fs.ErrNotExist}
}
