package generator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/oaspipe/sdkgen/pkg/config"
	"github.com/oaspipe/sdkgen/pkg/errs"
	"github.com/oaspipe/sdkgen/pkg/ir"
	"github.com/oaspipe/sdkgen/pkg/openapi"
)

// Generator is the per-language emission contract: given a client's
// configuration and its already-filtered IR, write the target SDK to client.OutDir.
type Generator interface {
	Generate(client config.Client, doc ir.IR) error
	GetType() string
}

// Registry maps a client's "type" string to the Generator that handles it.
type Registry struct {
	generators map[string]Generator
}

func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

func (r *Registry) Get(genType string) (Generator, bool) {
	gen, ok := r.generators[genType]
	return gen, ok
}

func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	return types
}

// GenerateOptions drives a single top-level run of the service, either from a config
// file or from the fallback single-client shorthand the CLI exposes for quick use.
type GenerateOptions struct {
	ConfigPath   string
	SingleClient string
	Fallback     FallbackOptions
}

// FallbackOptions lets a caller skip writing a config file entirely for the common
// single-client case.
type FallbackOptions struct {
	Spec        string
	Type        string
	OutDir      string
	PackageName string
	Name        string
	IncludeTags []string
	ExcludeTags []string
}

// Service is the orchestration entry point: load, validate, build IR once, then fan out
// per client (pre-command, filter, generate, post-command).
type Service struct {
	registry *Registry
}

func NewService() *Service {
	return &Service{registry: defaultRegistry()}
}

func NewServiceWithRegistry(registry *Registry) *Service {
	return &Service{registry: registry}
}

func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// Generate resolves a GenerateOptions (config file or fallback) into a Config and runs
// GenerateFromConfig.
func (s *Service) Generate(opts GenerateOptions) error {
	var cfg *config.Config
	var err error

	if opts.ConfigPath == "" {
		f := opts.Fallback
		if f.Spec == "" || f.Type == "" || f.OutDir == "" || f.PackageName == "" || f.Name == "" {
			return &errs.ConfigError{Phase: "fallback", Cause: fmt.Errorf("either configPath or all fallback options must be provided")}
		}
		cfg = &config.Config{
			Spec: f.Spec,
			Clients: []config.Client{{
				Type: f.Type, OutDir: f.OutDir, PackageName: f.PackageName, Name: f.Name,
				IncludeTags: f.IncludeTags, ExcludeTags: f.ExcludeTags,
			}},
		}
		if err := config.Normalize(cfg); err != nil {
			return err
		}
	} else {
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
	}

	return s.GenerateFromConfig(context.Background(), cfg, opts.SingleClient)
}

// GenerateFromConfig loads and validates the spec once, builds the full IR once, then
// generates every selected client against its own filtered view.
func (s *Service) GenerateFromConfig(ctx context.Context, cfg *config.Config, onlyClient string) error {
	doc, err := openapi.Load(ctx, cfg.Spec)
	if err != nil {
		return err
	}
	if err := openapi.Validate(ctx, doc); err != nil {
		return &errs.InputError{Input: cfg.Spec, Cause: err}
	}

	fullIR, err := buildIR(doc)
	if err != nil {
		return err
	}

	for _, client := range cfg.Clients {
		if onlyClient != "" && client.Name != onlyClient {
			continue
		}

		gen, exists := s.registry.Get(client.Type)
		if !exists {
			return &errs.ConfigError{Phase: client.Name, Cause: fmt.Errorf("unsupported client type: %s", client.Type)}
		}

		if err := os.MkdirAll(client.OutDir, 0o755); err != nil {
			return &errs.EmitError{File: client.OutDir, Cause: err}
		}

		if err := runCommand(client.PreCommand, client.OutDir, "pre-command"); err != nil {
			return err
		}

		filtered, err := filterIR(fullIR, client)
		if err != nil {
			return err
		}

		if err := gen.Generate(client, filtered); err != nil {
			return err
		}

		if err := runCommand(client.PostCommand, client.OutDir, "post-command"); err != nil {
			return err
		}
	}

	return nil
}

func runCommand(command []string, workDir, label string) error {
	if len(command) == 0 {
		return nil
	}
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &errs.ConfigError{Phase: label, Cause: fmt.Errorf("%s failed: %w", strings.Join(command, " "), err)}
	}
	return nil
}
