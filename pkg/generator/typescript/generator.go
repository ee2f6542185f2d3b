// Package typescript emits a fetch-based TypeScript SDK: a generated client class, one
// service file per tag, a schema.ts holding every named model, zod runtime schemas in
// schema.validation.ts, and the scaffolding (package.json, tsconfig, eslint, prettier)
// a consumer expects to be able to install and build directly.
package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/oaspipe/sdkgen/pkg/config"
	"github.com/oaspipe/sdkgen/pkg/errs"
	"github.com/oaspipe/sdkgen/pkg/genutil"
	"github.com/oaspipe/sdkgen/pkg/ir"
)

//go:embed templates/*
var templatesFS embed.FS

type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

func (g *Generator) GetType() string { return "typescript" }

func (g *Generator) Generate(client config.Client, in ir.IR) error {
	srcDir := filepath.Join(client.OutDir, client.EffectiveSrcDir())
	servicesDir := filepath.Join(srcDir, "services")
	if err := os.MkdirAll(servicesDir, 0o755); err != nil {
		return &errs.EmitError{File: servicesDir, Cause: err}
	}

	predefined := genutil.NewPredefinedSet(client)
	resolver := genutil.TemplateResolver{Client: client, Builtin: templatesFS}
	funcMap := buildFuncMap(client, predefined)

	type target struct {
		template string
		path     string
		data     map[string]any
	}

	schemaData := map[string]any{
		"IR":                in,
		"ModelDefs":         emittedModelDefs(in, predefined),
		"PredefinedImports": schemaPredefinedImports(in, predefined),
	}

	targets := []target{
		{"client.ts.gotmpl", filepath.Join(srcDir, "client.ts"), map[string]any{"Client": &client, "IR": in}},
		{"index.ts.gotmpl", filepath.Join(srcDir, "index.ts"), map[string]any{"Client": &client, "IR": in}},
		{"schema.ts.gotmpl", filepath.Join(srcDir, "schema.ts"), schemaData},
		{"schema.validation.ts.gotmpl", filepath.Join(srcDir, "schema.validation.ts"), schemaData},
		{"utils.ts.gotmpl", filepath.Join(srcDir, "utils.ts"), map[string]any{"Client": &client}},
		{"package.json.gotmpl", filepath.Join(client.OutDir, "package.json"), map[string]any{"Client": &client}},
		{"tsconfig.json.gotmpl", filepath.Join(client.OutDir, "tsconfig.json"), map[string]any{"Client": &client}},
		{"eslint.config.mjs.gotmpl", filepath.Join(client.OutDir, "eslint.config.mjs"), map[string]any{"Client": &client}},
		// Template names drop the leading dot (go:embed skips dotfiles); the emitted
		// files keep it.
		{"prettierrc.json.gotmpl", filepath.Join(client.OutDir, ".prettierrc.json"), map[string]any{"Client": &client}},
		{"prettierignore.gotmpl", filepath.Join(client.OutDir, ".prettierignore"), map[string]any{"Client": &client}},
		{"README.md.gotmpl", filepath.Join(client.OutDir, "README.md"), map[string]any{"Client": &client, "IR": in}},
	}

	for _, s := range in.Services {
		fileName := strings.ToLower(toSnakeCase(s.Tag)) + ".ts"
		targets = append(targets, target{
			"service.ts.gotmpl", filepath.Join(servicesDir, fileName),
			map[string]any{
				"Client":            &client,
				"Service":           s,
				"PredefinedImports": servicePredefinedImports(s, predefined),
			},
		})
	}

	var written []string
	for _, t := range targets {
		if client.ShouldExcludeFile(t.path) {
			continue
		}
		// index.ts is special: a hand-edited barrel file is never clobbered once it
		// exists, so user-owned exports survive regeneration.
		if filepath.Base(t.path) == "index.ts" {
			if _, err := os.Stat(t.path); err == nil {
				continue
			}
		}
		if err := renderFile(resolver, funcMap, t.template, t.path, t.data); err != nil {
			return err
		}
		written = append(written, t.path)
	}

	if client.FormatCode() {
		args := append([]string{"prettier", "--write"}, written...)
		genutil.RunFormatter(client.OutDir, "npx", args...)
	}

	return nil
}

func buildFuncMap(client config.Client, predefined genutil.PredefinedSet) template.FuncMap {
	serviceFile := typeRenderer{predefined: predefined}
	schemaFile := typeRenderer{sameFile: true, predefined: predefined}
	funcMap := template.FuncMap{
		"pascal":      toPascalCase,
		"camel":       toCamelCase,
		"kebab":       toKebabCase,
		"serviceName": func(tag string) string { return toPascalCase(tag) + "Service" },
		"serviceProp": func(tag string) string { return toCamelCase(tag) },
		"fileBase":    func(tag string) string { return strings.ToLower(toSnakeCase(tag)) },
		"methodName":  func(op ir.IROperation) string { return resolveMethodName(client, op) },
		"queryTypeName": func(op ir.IROperation) string {
			return toPascalCase(op.Tag) + toPascalCase(resolveMethodName(client, op)) + "Query"
		},
		"queryInterfaceBody": func(op ir.IROperation) string { return queryInterfaceBody(op, predefined) },
		"pathTemplate":       buildPathTemplate,
		"queryKeyBase":       buildQueryKeyBase,
		"pathParamsInOrder":  orderPathParams,
		"methodSignature": func(op ir.IROperation) []string {
			return buildMethodSignature(predefined, op, resolveMethodName(client, op))
		},
		"methodSignatureNoInit": func(op ir.IROperation) []string {
			parts := buildMethodSignature(predefined, op, resolveMethodName(client, op))
			if len(parts) > 0 {
				return parts[:len(parts)-1]
			}
			return parts
		},
		"queryKeyArgs": queryKeyArgs,
		"responseType": responseTSType,
		"tsType": func(x any) string {
			switch v := x.(type) {
			case ir.IRSchema:
				return serviceFile.render(v)
			case *ir.IRSchema:
				if v != nil {
					return serviceFile.render(*v)
				}
			}
			return "unknown"
		},
		"modelDecl":      schemaFile.modelDecl,
		"validationDecl": func(def ir.IRModelDef) string { return validationDecl(def, predefined) },
		"quotePropName":  quoteTSPropertyName,
		"stripSchemaNs":  func(s string) string { return strings.ReplaceAll(s, "Schema.", "") },
		"reMatch":        func(pattern, s string) bool { return regexp.MustCompile(pattern).MatchString(s) },
	}
	for k, v := range sprig.FuncMap() {
		funcMap[k] = v
	}
	return funcMap
}

func renderFile(resolver genutil.TemplateResolver, funcMap template.FuncMap, templateName, targetPath string, data map[string]any) error {
	src, err := resolver.Resolve(templateName)
	if err != nil {
		return err
	}
	tmpl, err := template.New(templateName).Funcs(funcMap).Parse(string(src))
	if err != nil {
		return &errs.EmitError{File: templateName, Cause: err}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return &errs.EmitError{File: targetPath, Cause: fmt.Errorf("%s: %w", templateName, err)}
	}
	if err := genutil.WriteFileAtomic(targetPath, buf.Bytes()); err != nil {
		return &errs.EmitError{File: targetPath, Cause: err}
	}
	return nil
}
