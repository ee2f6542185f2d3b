// Command sdk-gen is the CLI front-end over pkg/generator: flag parsing and the
// watch loop live here, everything else is delegated to the core pipeline.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/oaspipe/sdkgen/pkg/generator"
)

var errColor = color.New(color.FgRed)

func main() {
	root := &cobra.Command{
		Use:           "sdk-gen",
		Short:         "Generate SDKs from OpenAPI specs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		errColor.Fprintln(color.Error, err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var configPath string
	var singleClient string
	var input string
	var typ string
	var outDir string
	var packageName string
	var name string
	var includeTags []string
	var excludeTags []string

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate client SDKs",
		RunE: func(cmd *cobra.Command, args []string) error {
			service := generator.NewService()
			return service.Generate(generator.GenerateOptions{
				ConfigPath:   configPath,
				SingleClient: singleClient,
				Fallback: generator.FallbackOptions{
					Spec:        input,
					Type:        typ,
					OutDir:      outDir,
					PackageName: packageName,
					Name:        name,
					IncludeTags: includeTags,
					ExcludeTags: excludeTags,
				},
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to sdkgen.yaml config")
	cmd.Flags().StringVar(&singleClient, "client", "", "Generate only the named client from config")
	// Fallback single-client flags
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file (yaml/json) or URL")
	cmd.Flags().StringVar(&typ, "type", "", "Client type (e.g., typescript)")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&packageName, "package-name", "", "Package name")
	cmd.Flags().StringVar(&name, "client-name", "", "Client class name")
	cmd.Flags().StringArrayVar(&includeTags, "include-tags", nil, "Regex patterns for tags to include")
	cmd.Flags().StringArrayVar(&excludeTags, "exclude-tags", nil, "Regex patterns for tags to exclude")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var input string
	var watch bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				return generator.ValidateSpec(input)
			}
			return watchAndValidate(input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file (yaml/json)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-validate whenever the spec file changes")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// watchAndValidate re-runs validation every time the spec file changes. Editors often
// replace files by rename, so the watch is on the parent directory with the events
// filtered down to the spec path.
func watchAndValidate(input string) error {
	report := func() {
		if err := generator.ValidateSpec(input); err != nil {
			errColor.Fprintln(color.Error, err)
			return
		}
		fmt.Printf("%s is valid\n", input)
	}
	report()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			report()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			errColor.Fprintln(color.Error, werr)
		}
	}
}
