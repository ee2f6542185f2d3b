package generator

import (
	"context"
	"path/filepath"

	"github.com/oaspipe/sdkgen/pkg/config"
	"github.com/oaspipe/sdkgen/pkg/generator/golang"
	"github.com/oaspipe/sdkgen/pkg/generator/python"
	"github.com/oaspipe/sdkgen/pkg/generator/typescript"
	typescripttypes "github.com/oaspipe/sdkgen/pkg/generator/typescript-types"
	"github.com/oaspipe/sdkgen/pkg/openapi"
)

// defaultRegistry wires in the four target-language emitters the core ships with.
func defaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(typescript.NewGenerator())
	r.Register(golang.NewGenerator())
	r.Register(python.NewGenerator())
	r.Register(typescripttypes.NewGenerator())
	return r
}

// GenerateSDK is the top-level convenience entry point for embedding this module as a
// library rather than driving it through the CLI.
func GenerateSDK(opts GenerateSDKOptions) error {
	service := NewService()
	return service.Generate(GenerateOptions{
		ConfigPath:   opts.ConfigPath,
		SingleClient: opts.SingleClient,
		Fallback: FallbackOptions{
			Spec: opts.Spec, Type: opts.Type, OutDir: opts.OutDir,
			PackageName: opts.PackageName, Name: opts.Name,
			IncludeTags: opts.IncludeTags, ExcludeTags: opts.ExcludeTags,
		},
	})
}

// GenerateSDKOptions is the flat option set GenerateSDK accepts.
type GenerateSDKOptions struct {
	ConfigPath   string
	SingleClient string

	Spec        string
	Type        string
	OutDir      string
	PackageName string
	Name        string
	IncludeTags []string
	ExcludeTags []string
}

// GenerateTypeScriptSDK is a convenience shorthand for the single most common case.
func GenerateTypeScriptSDK(spec, outDir, packageName, clientName string) error {
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}
	return GenerateSDK(GenerateSDKOptions{
		Spec: spec, Type: "typescript", OutDir: absOutDir, PackageName: packageName, Name: clientName,
	})
}

// GenerateFromConfig generates every client (or just singleClient, if given) named in
// the config file at configPath.
func GenerateFromConfig(configPath string, singleClient ...string) error {
	service := NewService()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	onlyClient := ""
	if len(singleClient) > 0 {
		onlyClient = singleClient[0]
	}
	return service.GenerateFromConfig(context.Background(), cfg, onlyClient)
}

// ValidateSpec loads and validates an OpenAPI document without generating anything.
func ValidateSpec(specPath string) error {
	ctx := context.Background()
	doc, err := openapi.Load(ctx, specPath)
	if err != nil {
		return err
	}
	return openapi.Validate(ctx, doc)
}
