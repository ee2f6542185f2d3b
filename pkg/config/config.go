// Package config is the resolved configuration value the generation pipeline
// consumes. Flag parsing lives in cmd/sdk-gen; this package decodes the YAML form,
// validates required fields, and normalizes paths once so every downstream consumer
// sees a canonical value.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oaspipe/sdkgen/pkg/errs"
)

// Config is the top-level programmatic configuration for SDK generation.
type Config struct {
	Spec    string   `yaml:"spec"`
	Name    string   `yaml:"name"`
	Clients []Client `yaml:"clients"`
}

// PredefinedType tells the emitter to treat a model name as imported from an external
// package instead of being emitted.
type PredefinedType struct {
	Type    string `yaml:"type"`
	Package string `yaml:"package"`
}

// Client is the configuration record for one generation target.
type Client struct {
	Type        string   `yaml:"type"`
	Name        string   `yaml:"name"`
	PackageName string   `yaml:"packageName"`
	ModuleName  string   `yaml:"moduleName"`
	OutDir      string   `yaml:"outDir"`
	// SrcDir defaults to "src"; a leading "./" is stripped at Load time so every
	// consumer sees the same canonical form.
	SrcDir string `yaml:"srcDir"`

	IncludeTags []string `yaml:"includeTags"`
	ExcludeTags []string `yaml:"excludeTags"`

	PredefinedTypes []PredefinedType  `yaml:"predefinedTypes"`
	Dependencies    map[string]string `yaml:"dependencies"`
	DevDependencies map[string]string `yaml:"devDependencies"`

	// Templates maps a template name (e.g. "service.ts.gotmpl") to an override path.
	Templates map[string]string `yaml:"templates"`

	// FormatCode defaults to true; use FormatCodePtr to distinguish "unset" from
	// explicit false during YAML decoding.
	FormatCodePtr *bool `yaml:"formatCode"`

	// OperationIDParser is an optional executable invoked as
	// <parser> <operationId> <method> <path>; its stdout (camel-cased) becomes the
	// method name when non-empty. The core treats this as a plain external command;
	// loading a function-value parser from a config file is a CLI-boundary concern.
	OperationIDParser string `yaml:"operationIdParser"`

	// Exclude lists file paths (relative to OutDir) the emitter must not write.
	Exclude []string `yaml:"exclude"`

	PreCommand  []string `yaml:"preCommand"`
	PostCommand []string `yaml:"postCommand"`

	// TypeAugmentationOptions are consumed only by the typescript-types generator.
	TypeAugmentationOptions TypeAugmentationOptions `yaml:"typeAugmentation"`
}

// TypeAugmentationOptions configures the typescript-types generator, which emits a
// single .d.ts module-augmentation file instead of a full SDK.
type TypeAugmentationOptions struct {
	// ModuleName is the module whose declarations are augmented (e.g. "@acme/backend").
	ModuleName string `yaml:"moduleName"`
	// Namespace is the namespace inside that module the types land in; defaults to
	// "Schema".
	Namespace string `yaml:"namespace"`
	// TypeNames restricts the emitted models to the listed names; empty means all.
	TypeNames []string `yaml:"typeNames"`
	// OutputFileName defaults to packageName + ".d.ts".
	OutputFileName string `yaml:"outputFileName"`
}

// FormatCode reports whether the external formatter should run for this client,
// defaulting to true when unset.
func (c *Client) FormatCode() bool {
	if c.FormatCodePtr == nil {
		return true
	}
	return *c.FormatCodePtr
}

// EffectiveSrcDir returns SrcDir normalized and defaulted to "src".
func (c *Client) EffectiveSrcDir() string {
	if c.SrcDir == "" {
		return "src"
	}
	return filepath.Clean(c.SrcDir)
}

// ShouldExcludeFile reports whether targetPath (absolute) falls under one of the
// client's Exclude patterns, relative to OutDir.
func (c *Client) ShouldExcludeFile(targetPath string) bool {
	if len(c.Exclude) == 0 {
		return false
	}
	relPath, err := filepath.Rel(c.OutDir, targetPath)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		relPath = ""
	}
	for _, pattern := range c.Exclude {
		normalized := filepath.ToSlash(pattern)
		if relPath == normalized {
			return true
		}
		if normalized != "" && strings.HasPrefix(relPath, normalized+"/") {
			return true
		}
		if ok, _ := filepath.Match(normalized, relPath); ok {
			return true
		}
	}
	return false
}

// Load loads and normalizes configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errs.ConfigError{Phase: "load", Cause: err}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &errs.ConfigError{Phase: "parse", Cause: err}
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and resolves relative paths to absolute ones,
// the same rules Load applies, so programmatic callers that build a Config in memory
// get identical behavior.
func Normalize(cfg *Config) error {
	if cfg.Spec == "" {
		return &errs.ConfigError{Phase: "validate", Cause: fmt.Errorf("config.spec is required")}
	}
	for i := range cfg.Clients {
		c := &cfg.Clients[i]
		if c.Type == "" || c.OutDir == "" || c.PackageName == "" || c.Name == "" {
			return &errs.ConfigError{
				Phase: fmt.Sprintf("clients[%d]", i),
				Cause: fmt.Errorf("missing required fields (type, outDir, packageName, name)"),
			}
		}
		if !filepath.IsAbs(c.OutDir) {
			abs, err := filepath.Abs(c.OutDir)
			if err != nil {
				return &errs.ConfigError{Phase: c.Name, Cause: err}
			}
			c.OutDir = abs
		}
		c.SrcDir = c.EffectiveSrcDir()
	}
	if u, err := url.Parse(cfg.Spec); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return nil
	}
	if !filepath.IsAbs(cfg.Spec) {
		abs, err := filepath.Abs(cfg.Spec)
		if err != nil {
			return &errs.ConfigError{Phase: "spec", Cause: err}
		}
		cfg.Spec = abs
	}
	return nil
}
