// Package typescripttypes emits a single .d.ts module-augmentation file instead of a
// full SDK: every named model is declared inside a namespace of an existing module, so
// a host application can type its own fetch layer against the API without adopting the
// generated client.
package typescripttypes

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/oaspipe/sdkgen/pkg/config"
	"github.com/oaspipe/sdkgen/pkg/errs"
	"github.com/oaspipe/sdkgen/pkg/genutil"
	"github.com/oaspipe/sdkgen/pkg/ir"
	"github.com/oaspipe/sdkgen/pkg/utils"
)

//go:embed templates/*
var templatesFS embed.FS

type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

func (g *Generator) GetType() string { return "typescript-types" }

func (g *Generator) Generate(client config.Client, in ir.IR) error {
	if err := os.MkdirAll(client.OutDir, 0o755); err != nil {
		return &errs.EmitError{File: client.OutDir, Cause: err}
	}

	opts := client.TypeAugmentationOptions
	if opts.ModuleName == "" {
		opts.ModuleName = client.PackageName
	}
	if opts.Namespace == "" {
		opts.Namespace = "Schema"
	}
	if opts.OutputFileName == "" {
		opts.OutputFileName = client.PackageName + ".d.ts"
	}

	defs := in.ModelDefs
	if len(opts.TypeNames) > 0 {
		wanted := make(map[string]bool, len(opts.TypeNames))
		for _, n := range opts.TypeNames {
			wanted[n] = true
		}
		filtered := make([]ir.IRModelDef, 0, len(defs))
		for _, def := range defs {
			if wanted[def.Name] {
				filtered = append(filtered, def)
			}
		}
		defs = filtered
	}

	resolver := genutil.TemplateResolver{Client: client, Builtin: templatesFS}
	funcMap := buildFuncMap()

	outputFile := filepath.Join(client.OutDir, opts.OutputFileName)
	if client.ShouldExcludeFile(outputFile) {
		return nil
	}
	return renderFile(resolver, funcMap, "types.d.ts.gotmpl", outputFile, map[string]any{
		"Client":    client,
		"IR":        in,
		"ModelDefs": defs,
		"Options":   opts,
	})
}

func buildFuncMap() template.FuncMap {
	funcMap := template.FuncMap{
		"pascal":    utils.ToPascalCase,
		"camel":     utils.ToCamelCase,
		"modelDecl": modelDecl,
	}
	for k, v := range sprig.FuncMap() {
		funcMap[k] = v
	}
	return funcMap
}

// modelDecl renders a namespace-scoped declaration: no export keyword, since the
// declarations live inside "declare module"/"namespace" blocks. Refs are bare — the
// augmented namespace is a single flat scope.
func modelDecl(def ir.IRModelDef) string {
	switch def.Schema.Kind {
	case ir.IRKindObject:
		return fmt.Sprintf("interface %s %s", def.Name, objectBody(def.Schema))
	default:
		return fmt.Sprintf("type %s = %s;", def.Name, tsType(def.Schema))
	}
}

func objectBody(s ir.IRSchema) string {
	if len(s.Properties) == 0 && s.AdditionalProperties == nil {
		return "{\n      [key: string]: unknown;\n    }"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, f := range s.Properties {
		ft := "unknown"
		if f.Type != nil {
			ft = tsType(*f.Type)
		}
		name := quotePropertyName(f.Name)
		opt := "?"
		if f.Required {
			opt = ""
		}
		fmt.Fprintf(&b, "      %s%s: %s;\n", name, opt, ft)
	}
	if s.AdditionalProperties != nil {
		fmt.Fprintf(&b, "      [key: string]: %s;\n", tsType(*s.AdditionalProperties))
	}
	b.WriteString("    }")
	return b.String()
}

func tsType(s ir.IRSchema) string {
	var t string
	switch s.Kind {
	case ir.IRKindString:
		if s.Format == "binary" {
			t = "Blob"
		} else {
			t = "string"
		}
	case ir.IRKindNumber, ir.IRKindInteger:
		t = "number"
	case ir.IRKindBoolean:
		t = "boolean"
	case ir.IRKindNull:
		t = "null"
	case ir.IRKindRef:
		if s.Ref != "" {
			t = s.Ref
		} else {
			t = "unknown"
		}
	case ir.IRKindArray:
		if s.Items != nil {
			inner := tsType(*s.Items)
			if strings.Contains(inner, " | ") || strings.Contains(inner, " & ") {
				inner = "(" + inner + ")"
			}
			t = "Array<" + inner + ">"
		} else {
			t = "Array<unknown>"
		}
	case ir.IRKindOneOf:
		t = joinBranches(s.OneOf, " | ")
	case ir.IRKindAnyOf:
		t = joinBranches(s.AnyOf, " | ")
	case ir.IRKindAllOf:
		t = joinBranches(s.AllOf, " & ")
	case ir.IRKindEnum:
		t = enumLiteral(s)
	case ir.IRKindObject:
		if len(s.Properties) == 0 {
			t = "Record<string, unknown>"
		} else {
			parts := make([]string, 0, len(s.Properties))
			for _, f := range s.Properties {
				ft := "unknown"
				if f.Type != nil {
					ft = tsType(*f.Type)
				}
				opt := "?"
				if f.Required {
					opt = ""
				}
				parts = append(parts, quotePropertyName(f.Name)+opt+": "+ft)
			}
			t = "{" + strings.Join(parts, "; ") + "}"
		}
	default:
		t = "unknown"
	}
	if s.Nullable && t != "null" {
		t += " | null"
	}
	return t
}

func joinBranches(branches []*ir.IRSchema, sep string) string {
	if len(branches) == 0 {
		return "unknown"
	}
	parts := make([]string, 0, len(branches))
	for _, b := range branches {
		parts = append(parts, tsType(*b))
	}
	return strings.Join(parts, sep)
}

func enumLiteral(s ir.IRSchema) string {
	if len(s.EnumValues) == 0 {
		return "unknown"
	}
	vals := make([]string, 0, len(s.EnumValues))
	switch s.EnumBase {
	case ir.IRKindNumber, ir.IRKindInteger:
		vals = append(vals, s.EnumValues...)
	default:
		for _, v := range s.EnumValues {
			vals = append(vals, fmt.Sprintf("%q", v))
		}
	}
	return strings.Join(vals, " | ")
}

func quotePropertyName(name string) string {
	needsQuoting := len(name) == 0
	for i, char := range name {
		isAlpha := (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || char == '_' || char == '$'
		isDigit := char >= '0' && char <= '9'
		if (i == 0 && isDigit) || (!isAlpha && !isDigit) {
			needsQuoting = true
			break
		}
	}
	if needsQuoting {
		return `"` + name + `"`
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
