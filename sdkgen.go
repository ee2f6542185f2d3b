// Package sdkgen generates typed client SDKs from OpenAPI 3.0/3.1 specifications.
//
// This package is the thin public façade over pkg/generator; it offers a simple API
// for the common cases and defers to the generator package for advanced scenarios
// (custom registries, per-client configuration, programmatic IR access).
//
// Quick start:
//
//	import sdkgen "github.com/oaspipe/sdkgen"
//
//	err := sdkgen.GenerateTypeScriptSDK(
//		"https://petstore3.swagger.io/api/v3/openapi.json",
//		"./generated-sdk",
//		"petstore-client",
//		"PetStoreClient",
//	)
package sdkgen

import (
	"github.com/oaspipe/sdkgen/pkg/generator"
)

// GenerateTypeScriptSDK generates a complete TypeScript SDK from an OpenAPI
// specification with minimal configuration.
//
// Parameters:
//   - spec: path to an OpenAPI specification file or an http(s) URL
//   - outDir: output directory for the generated SDK
//   - packageName: npm package name for the generated SDK
//   - clientName: name of the main client class
func GenerateTypeScriptSDK(spec, outDir, packageName, clientName string) error {
	return generator.GenerateTypeScriptSDK(spec, outDir, packageName, clientName)
}

// GenerateSDK generates an SDK with full configuration options.
//
// Example:
//
//	err := sdkgen.GenerateSDK(sdkgen.GenerateSDKOptions{
//		Spec:        "./openapi.yaml",
//		Type:        "typescript",
//		OutDir:      "./my-sdk",
//		PackageName: "my-api-client",
//		Name:        "MyAPIClient",
//		IncludeTags: []string{"users", "orders"},
//		ExcludeTags: []string{"internal"},
//	})
func GenerateSDK(opts GenerateSDKOptions) error {
	return generator.GenerateSDK(generator.GenerateSDKOptions{
		ConfigPath:   opts.ConfigPath,
		SingleClient: opts.SingleClient,
		Spec:         opts.Spec,
		Type:         opts.Type,
		OutDir:       opts.OutDir,
		PackageName:  opts.PackageName,
		Name:         opts.Name,
		IncludeTags:  opts.IncludeTags,
		ExcludeTags:  opts.ExcludeTags,
	})
}

// GenerateFromConfig generates SDKs from a YAML configuration file. Optionally, a
// single client name restricts generation to that client.
func GenerateFromConfig(configPath string, singleClient ...string) error {
	return generator.GenerateFromConfig(configPath, singleClient...)
}

// ValidateSpec validates an OpenAPI specification without generating anything, useful
// as a pre-flight check before wiring a spec into a config file.
func ValidateSpec(specPath string) error {
	return generator.ValidateSpec(specPath)
}

// GenerateSDKOptions contains options for SDK generation.
type GenerateSDKOptions struct {
	// ConfigPath is the path to the configuration file (optional).
	ConfigPath string

	// SingleClient generates only the named client from config (optional).
	SingleClient string

	// Fallback options when no config file is provided.
	Spec        string   // OpenAPI spec file or URL
	Type        string   // Generator type (e.g. "typescript", "go", "python")
	OutDir      string   // Output directory
	PackageName string   // Package name for the generated SDK
	Name        string   // Client class name
	IncludeTags []string // Regex patterns for tags to include
	ExcludeTags []string // Regex patterns for tags to exclude
}
