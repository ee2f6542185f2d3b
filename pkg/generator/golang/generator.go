// Package golang emits a net/http-based Go SDK: a client struct wrapping
// github.com/oaspipe/sdkgen/pkg/runtime, one service file per tag, a models.go holding
// every named model, and a standalone go.mod so the output is directly "go get"-able.
package golang

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

func (g *Generator) GetType() string { return "go" }

func (g *Generator) Generate(client config.Client, in ir.IR) error {
	if err := os.MkdirAll(client.OutDir, 0o755); err != nil {
		return &errs.EmitError{File: client.OutDir, Cause: err}
	}

	predefined := genutil.NewPredefinedSet(client)
	resolver := genutil.TemplateResolver{Client: client, Builtin: templatesFS}
	funcMap := buildFuncMap(client, predefined)

	type target struct {
		template string
		path     string
		data     map[string]any
	}

	modelDefs := make([]ir.IRModelDef, 0, len(in.ModelDefs))
	for _, def := range in.ModelDefs {
		if predefined.Contains(def.Name) {
			continue
		}
		modelDefs = append(modelDefs, def)
	}

	targets := []target{
		{"client.go.gotmpl", filepath.Join(client.OutDir, "client.go"), map[string]any{"Client": client, "IR": in}},
		{"models.go.gotmpl", filepath.Join(client.OutDir, "models.go"), map[string]any{
			"Client":            client,
			"IR":                in,
			"ModelDefs":         modelDefs,
			"PredefinedImports": modelsPredefinedImports(modelDefs, predefined),
		}},
		{"go.mod.gotmpl", filepath.Join(client.OutDir, "go.mod"), map[string]any{"Client": client}},
		{"README.md.gotmpl", filepath.Join(client.OutDir, "README.md"), map[string]any{"Client": client, "IR": in}},
	}

	for _, service := range in.Services {
		if len(service.Operations) == 0 {
			continue
		}
		fileName := toSnakeCase(service.Tag) + ".go"
		targets = append(targets, target{
			"service.go.gotmpl", filepath.Join(client.OutDir, fileName),
			map[string]any{
				"Client":            client,
				"Service":           service,
				"PredefinedImports": servicePredefinedImports(service, predefined),
			},
		})
	}

	var written []string
	for _, t := range targets {
		if client.ShouldExcludeFile(t.path) {
			continue
		}
		if err := renderFile(resolver, funcMap, t.template, t.path, t.data); err != nil {
			return err
		}
		written = append(written, t.path)
	}

	if client.FormatCode() {
		var goFiles []string
		for _, f := range written {
			if strings.HasSuffix(f, ".go") {
				goFiles = append(goFiles, f)
			}
		}
		if len(goFiles) > 0 {
			genutil.RunFormatter(client.OutDir, "gofmt", append([]string{"-w"}, goFiles...)...)
		}
	}

	return nil
}

func buildFuncMap(client config.Client, predefined genutil.PredefinedSet) template.FuncMap {
	r := goTypeRenderer{predefined: predefined}
	funcMap := template.FuncMap{
		"pascal":        toPascalCase,
		"camel":         toCamelCase,
		"snake":         toSnakeCase,
		"kebab":         toKebabCase,
		"serviceName":   func(tag string) string { return toPascalCase(tag) + "Service" },
		"serviceField":  func(tag string) string { return toPascalCase(tag) },
		"methodName":    func(op ir.IROperation) string { return toPascalCase(genutil.ResolveMethodName(client, op)) },
		"queryTypeName": func(op ir.IROperation) string { return toPascalCase(op.Tag) + toPascalCase(genutil.ResolveMethodName(client, op)) + "Query" },
		"queryStructDecl": func(op ir.IROperation) string {
			name := toPascalCase(op.Tag) + toPascalCase(genutil.ResolveMethodName(client, op)) + "Query"
			return r.queryStructDecl(name, op)
		},
		"goType":         r.render,
		"goStructTag":    func(name string) string { return fmt.Sprintf("`json:\"%s\"`", name) },
		"modelDecl":      r.modelDecl,
		"pathTemplate":   buildPathTemplate,
		"pathParams":     orderPathParams,
		"queryParams":    func(op ir.IROperation) []ir.IRParam { return op.QueryParams },
		"hasPathParams":  func(op ir.IROperation) bool { return len(op.PathParams) > 0 },
		"hasQueryParams": func(op ir.IROperation) bool { return len(op.QueryParams) > 0 },
		"hasRequestBody": func(op ir.IROperation) bool { return op.RequestBody != nil },
		"methodSignature": func(op ir.IROperation) string {
			return r.buildMethodSignature(client, op, toPascalCase(genutil.ResolveMethodName(client, op)))
		},
		"reMatch":         func(pattern, s string) bool { return regexp.MustCompile(pattern).MatchString(s) },
		"formatGoComment": formatGoComment,
		"replace":         strings.ReplaceAll,
		"packageName":     func() string { return sanitizePackageName(client.PackageName) },
		"moduleName": func() string {
			if client.ModuleName != "" {
				return client.ModuleName
			}
			return sanitizePackageName(client.PackageName)
		},
		"clientName": func() string { return toPascalCase(client.Name) },
		"hasPrefix":  strings.HasPrefix,
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
