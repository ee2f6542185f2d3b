// Package python emits an httpx-based Python SDK: a client class with one attribute
// per service, pydantic models in models.py, one service module per tag, and a
// pyproject.toml so the output packages directly.
package python

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

func (g *Generator) GetType() string { return "python" }

func (g *Generator) Generate(client config.Client, in ir.IR) error {
	pkgDir := filepath.Join(client.OutDir, pyPackageName(client.PackageName))
	servicesDir := filepath.Join(pkgDir, "services")
	if err := os.MkdirAll(servicesDir, 0o755); err != nil {
		return &errs.EmitError{File: servicesDir, Cause: err}
	}

	resolver := genutil.TemplateResolver{Client: client, Builtin: templatesFS}
	funcMap := buildFuncMap(client)

	type target struct {
		template string
		path     string
		data     map[string]any
	}

	// Template names drop the _ prefixes (go:embed skips underscore-prefixed files);
	// the emitted files keep them.
	targets := []target{
		{"client.py.gotmpl", filepath.Join(pkgDir, "client.py"), map[string]any{"Client": client, "IR": in}},
		{"runtime.py.gotmpl", filepath.Join(pkgDir, "_runtime.py"), map[string]any{"Client": client}},
		{"init.py.gotmpl", filepath.Join(pkgDir, "__init__.py"), map[string]any{"Client": client, "IR": in}},
		{"models.py.gotmpl", filepath.Join(pkgDir, "models.py"), map[string]any{"Client": client, "IR": in}},
		{"services_init.py.gotmpl", filepath.Join(servicesDir, "__init__.py"), map[string]any{"Client": client, "IR": in}},
		{"py.typed.gotmpl", filepath.Join(pkgDir, "py.typed"), map[string]any{}},
		{"pyproject.toml.gotmpl", filepath.Join(client.OutDir, "pyproject.toml"), map[string]any{"Client": client}},
		{"README.md.gotmpl", filepath.Join(client.OutDir, "README.md"), map[string]any{"Client": client, "IR": in}},
	}

	for _, s := range in.Services {
		fileName := strings.ToLower(toSnakeCase(s.Tag)) + ".py"
		targets = append(targets, target{
			"service.py.gotmpl", filepath.Join(servicesDir, fileName),
			map[string]any{"Client": client, "Service": s},
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
		var pyFiles []string
		for _, f := range written {
			if strings.HasSuffix(f, ".py") {
				pyFiles = append(pyFiles, f)
			}
		}
		if len(pyFiles) > 0 {
			genutil.RunFormatter(client.OutDir, "black", append([]string{"--quiet"}, pyFiles...)...)
		}
	}

	return nil
}

func buildFuncMap(client config.Client) template.FuncMap {
	models := pyTypeRenderer{quoteRefs: true}
	service := pyTypeRenderer{}
	funcMap := template.FuncMap{
		"pascal":      toPascalCase,
		"camel":       toCamelCase,
		"snake":       toSnakeCase,
		"kebab":       toKebabCase,
		"serviceName": func(tag string) string { return toPascalCase(tag) + "Service" },
		"serviceVar":  func(tag string) string { return toSnakeCase(tag) },
		"fileBase":    func(tag string) string { return strings.ToLower(toSnakeCase(tag)) },
		"methodName":  func(op ir.IROperation) string { return resolveMethodName(client, op) },
		"pyPackage":   func() string { return pyPackageName(client.PackageName) },
		"pathTemplate":      buildPathTemplate,
		"pathParamsInOrder": orderPathParams,
		"methodSignature":   buildMethodSignature,
		"queryParamPairs":   queryParamPairs,
		"responseType":      responsePyType,
		"pyType": func(x any) string {
			switch v := x.(type) {
			case ir.IRSchema:
				return service.render(v)
			case *ir.IRSchema:
				if v != nil {
					return service.render(*v)
				}
			}
			return "Any"
		},
		"pyModelType": func(x any) string {
			switch v := x.(type) {
			case ir.IRSchema:
				return models.render(v)
			case *ir.IRSchema:
				if v != nil {
					return models.render(*v)
				}
			}
			return "Any"
		},
		"pyFieldType":    fieldAnnotation,
		"modelDecl":      modelDecl,
		"isOptional":     func(field ir.IRField) bool { return !field.Required },
		"isObjectModel":  func(def ir.IRModelDef) bool { return def.Schema.Kind == ir.IRKindObject },
		"hasPathParams":  func(op ir.IROperation) bool { return len(op.PathParams) > 0 },
		"hasQueryParams": func(op ir.IROperation) bool { return len(op.QueryParams) > 0 },
		"hasRequestBody": func(op ir.IROperation) bool { return op.RequestBody != nil },
		"requestBodyRequired": func(op ir.IROperation) bool {
			return op.RequestBody != nil && op.RequestBody.Required
		},
		"docstring": formatDocstring,
		"reMatch":   func(pattern, s string) bool { return regexp.MustCompile(pattern).MatchString(s) },
	}
	for k, v := range sprig.FuncMap() {
		funcMap[k] = v
	}
	return funcMap
}

// pyPackageName reduces a package name to a valid Python module identifier.
func pyPackageName(name string) string {
	parts := strings.Split(name, "/")
	name = parts[len(parts)-1]
	name = strings.ToLower(strings.ReplaceAll(name, "-", "_"))
	name = regexp.MustCompile(`[^a-z0-9_]`).ReplaceAllString(name, "")
	if name == "" {
		name = "client"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "pkg" + name
	}
	return name
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
