package golang

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/oaspipe/sdkgen/pkg/config"
	"github.com/oaspipe/sdkgen/pkg/genutil"
	"github.com/oaspipe/sdkgen/pkg/ir"
	"github.com/oaspipe/sdkgen/pkg/utils"
)

// goTypeRenderer converts IR schemas to Go type expressions. Every generated file
// shares one package, so refs render bare; predefined types render package-qualified,
// with the import supplied by the file's import block.
type goTypeRenderer struct {
	predefined genutil.PredefinedSet
}

func (r goTypeRenderer) render(x any) string {
	switch v := x.(type) {
	case ir.IRSchema:
		return r.renderSchema(v)
	case *ir.IRSchema:
		if v != nil {
			return r.renderSchema(*v)
		}
		return "interface{}"
	default:
		return "interface{}"
	}
}

func (r goTypeRenderer) renderSchema(s ir.IRSchema) string {
	var t string
	switch s.Kind {
	case ir.IRKindString:
		if s.Format == "binary" {
			t = "[]byte"
		} else {
			t = "string"
		}
	case ir.IRKindNumber:
		t = "float64"
	case ir.IRKindInteger:
		t = "int64"
	case ir.IRKindBoolean:
		t = "bool"
	case ir.IRKindNull:
		t = "interface{}"
	case ir.IRKindRef:
		switch {
		case s.Ref == "":
			t = "interface{}"
		case r.predefined.Contains(s.Ref):
			t = goPackageBase(r.predefined.Package(s.Ref)) + "." + toPascalCase(s.Ref)
		default:
			t = toPascalCase(s.Ref)
		}
	case ir.IRKindArray:
		if s.Items != nil {
			t = "[]" + r.renderSchema(*s.Items)
		} else {
			t = "[]interface{}"
		}
	case ir.IRKindOneOf, ir.IRKindAnyOf, ir.IRKindAllOf:
		// Go has no sum-type construct at the language level; an interface{} is the
		// honest rendering until a discriminated-union codegen pass is added.
		t = "interface{}"
	case ir.IRKindEnum:
		t = "string"
	case ir.IRKindObject:
		t = "map[string]interface{}"
	default:
		t = "interface{}"
	}
	if s.Nullable {
		t = "*" + t
	}
	return t
}

// Alias functions to the centralized casing utilities (the "advanced" variants handle
// accent stripping and XMLHttp-style acronym splitting better than the plain ones).
var toPascalCase = utils.ToPascalCaseAdvanced
var toCamelCase = utils.ToCamelCaseAdvanced
var toSnakeCase = utils.ToSnakeCaseAdvanced
var toKebabCase = utils.ToKebabCaseAdvanced

// formatGoComment formats a string as a // comment block, one line per input line.
func formatGoComment(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			result = append(result, "//")
		} else {
			result = append(result, "// "+line)
		}
	}
	return strings.Join(result, "\n")
}

// defaultParseOperationID is a thin, package-local alias over genutil's shared
// implementation, kept so this package's own tests can call it without a genutil
// import cycle concern (genutil imports config + ir, not any emitter package).
func defaultParseOperationID(opID string) string {
	return genutil.DefaultParseOperationID(opID)
}

// buildPathTemplate renders op.Path as a Go fmt string with path params replaced by
// %v verbs, in path order.
func buildPathTemplate(op ir.IROperation) string {
	path := op.Path
	for _, param := range op.PathParams {
		path = strings.ReplaceAll(path, "{"+param.Name+"}", "%v")
	}
	return fmt.Sprintf("%q", path)
}

// orderPathParams returns op.PathParams in the order their placeholders appear in
// op.Path, since Go's fmt.Sprintf verbs are positional.
func orderPathParams(op ir.IROperation) []ir.IRParam {
	if len(op.PathParams) == 0 {
		return nil
	}
	byName := make(map[string]ir.IRParam, len(op.PathParams))
	for _, p := range op.PathParams {
		byName[p.Name] = p
	}
	re := regexp.MustCompile(`\{([^}]+)\}`)
	var ordered []ir.IRParam
	for _, m := range re.FindAllStringSubmatch(op.Path, -1) {
		if p, ok := byName[m[1]]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// buildMethodSignature renders a Go method signature for op: a leading context.Context,
// path params in path order, an optional query-struct pointer, an optional body, and a
// (responseType, error) return.
func (r goTypeRenderer) buildMethodSignature(client config.Client, op ir.IROperation, methodName string) string {
	params := []string{"ctx context.Context"}

	for _, param := range orderPathParams(op) {
		params = append(params, fmt.Sprintf("%s %s", toCamelCase(param.Name), r.render(param.Schema)))
	}
	if len(op.QueryParams) > 0 {
		queryTypeName := toPascalCase(op.Tag) + toPascalCase(genutil.ResolveMethodName(client, op)) + "Query"
		params = append(params, fmt.Sprintf("query *%s", queryTypeName))
	}
	if op.RequestBody != nil {
		params = append(params, fmt.Sprintf("body %s", r.render(op.RequestBody.Schema)))
	}

	switch {
	case op.Response.IsStreaming:
		return fmt.Sprintf("%s(%s) (*runtime.Stream, error)", methodName, strings.Join(params, ", "))
	case op.Response.IsVoid:
		return fmt.Sprintf("%s(%s) error", methodName, strings.Join(params, ", "))
	default:
		return fmt.Sprintf("%s(%s) (%s, error)", methodName, strings.Join(params, ", "), r.render(op.Response.Schema))
	}
}

// modelDecl renders the top-level Go declaration for one named model: a struct for
// object schemas, a named string/int type plus consts for enums, and a plain type
// alias for everything else (ref/array/composition/primitive).
func (r goTypeRenderer) modelDecl(def ir.IRModelDef) string {
	name := toPascalCase(def.Name)
	switch def.Schema.Kind {
	case ir.IRKindEnum:
		return enumDecl(name, def.Schema)
	case ir.IRKindObject:
		return fmt.Sprintf("type %s struct {\n%s}", name, r.structFields(def.Schema))
	default:
		return fmt.Sprintf("type %s = %s", name, r.renderSchema(def.Schema))
	}
}

func (r goTypeRenderer) structFields(s ir.IRSchema) string {
	if len(s.Properties) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range s.Properties {
		goType := "interface{}"
		if f.Type != nil {
			goType = r.renderSchema(*f.Type)
		}
		if !f.Required && !strings.HasPrefix(goType, "*") && !strings.HasPrefix(goType, "[]") && !strings.HasPrefix(goType, "map[") {
			goType = "*" + goType
		}
		jsonTag := f.Name
		if !f.Required {
			jsonTag += ",omitempty"
		}
		fmt.Fprintf(&b, "\t%s %s `json:\"%s\"`\n", toPascalCase(f.Name), goType, jsonTag)
	}
	return b.String()
}

// queryStructDecl renders the named query-parameter struct type for an operation that
// takes query params, one field per param in op.QueryParams order.
func (r goTypeRenderer) queryStructDecl(name string, op ir.IROperation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s struct {\n", name)
	for _, p := range op.QueryParams {
		goType := r.render(p.Schema)
		if !p.Required && !strings.HasPrefix(goType, "*") && !strings.HasPrefix(goType, "[]") {
			goType = "*" + goType
		}
		jsonTag := p.Name
		if !p.Required {
			jsonTag += ",omitempty"
		}
		fmt.Fprintf(&b, "\t%s %s `json:\"%s\"`\n", toPascalCase(p.Name), goType, jsonTag)
	}
	b.WriteString("}")
	return b.String()
}

func enumDecl(name string, s ir.IRSchema) string {
	base := "string"
	if s.EnumBase == ir.IRKindInteger {
		base = "int64"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "type %s %s\n\nconst (\n", name, base)
	for _, v := range s.EnumValues {
		constName := name + toPascalCase(v)
		if base == "string" {
			fmt.Fprintf(&b, "\t%s %s = %q\n", constName, name, v)
		} else {
			fmt.Fprintf(&b, "\t%s %s = %s\n", constName, name, v)
		}
	}
	b.WriteString(")")
	return b.String()
}

// sanitizePackageName reduces an arbitrary package name (possibly a full module path)
// to a valid Go package identifier.
func sanitizePackageName(name string) string {
	parts := strings.Split(name, "/")
	if len(parts) > 0 {
		name = parts[len(parts)-1]
	}
	name = strings.ToLower(name)
	name = regexp.MustCompile(`[^a-z0-9_]`).ReplaceAllString(name, "")
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		name = "pkg" + name
	}
	if name == "" {
		name = "client"
	}
	return name
}

// goPackageBase is the identifier a predefined type's import path is referenced by.
func goPackageBase(importPath string) string {
	parts := strings.Split(importPath, "/")
	return sanitizePackageName(parts[len(parts)-1])
}

// servicePredefinedImports collects the import paths a service file needs for
// predefined types appearing textually in its method signatures and bodies: path and
// query parameter types, the request body type, and the response type.
func servicePredefinedImports(svc ir.IRService, predefined genutil.PredefinedSet) []string {
	if len(predefined) == 0 {
		return nil
	}
	var schemas []ir.IRSchema
	for _, op := range svc.Operations {
		for _, p := range op.PathParams {
			schemas = append(schemas, p.Schema)
		}
		for _, p := range op.QueryParams {
			schemas = append(schemas, p.Schema)
		}
		if op.RequestBody != nil {
			schemas = append(schemas, op.RequestBody.Schema)
		}
		if !op.Response.IsVoid {
			schemas = append(schemas, op.Response.Schema)
		}
	}
	return predefinedImportPaths(schemas, predefined)
}

// modelsPredefinedImports collects the import paths models.go needs: predefined refs
// in any emitted model definition's property positions.
func modelsPredefinedImports(defs []ir.IRModelDef, predefined genutil.PredefinedSet) []string {
	if len(predefined) == 0 {
		return nil
	}
	schemas := make([]ir.IRSchema, 0, len(defs))
	for _, def := range defs {
		schemas = append(schemas, def.Schema)
	}
	return predefinedImportPaths(schemas, predefined)
}

func predefinedImportPaths(schemas []ir.IRSchema, predefined genutil.PredefinedSet) []string {
	imports := genutil.CollectPredefinedImports(schemas, predefined)
	seen := make(map[string]bool)
	var out []string
	for _, imp := range imports {
		if !seen[imp.Package] {
			seen[imp.Package] = true
			out = append(out, imp.Package)
		}
	}
	sort.Strings(out)
	return out
}
