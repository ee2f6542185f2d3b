package typescript

import (
	"fmt"
	"strings"

	"github.com/oaspipe/sdkgen/pkg/config"
	"github.com/oaspipe/sdkgen/pkg/genutil"
	"github.com/oaspipe/sdkgen/pkg/ir"
	"github.com/oaspipe/sdkgen/pkg/utils"
)

var (
	toPascalCase = utils.ToPascalCase
	toCamelCase  = utils.ToCamelCase
	toSnakeCase  = utils.ToSnakeCase
	toKebabCase  = utils.ToKebabCase
)

func resolveMethodName(client config.Client, op ir.IROperation) string {
	return genutil.ResolveMethodName(client, op)
}

// typeRenderer renders IR schemas as TypeScript type expressions. Two context bits
// control how a ref is spelled: inside schema.ts (sameFile) a ref is the bare name; in
// a service file it is Schema.<Name>; a name registered as predefined for this target
// is always bare, with the import supplied by the file's import block.
type typeRenderer struct {
	sameFile   bool
	predefined genutil.PredefinedSet
}

func (r typeRenderer) refName(name string) string {
	if genutil.RenderRefBare(r.sameFile, r.predefined, name) {
		return name
	}
	return "Schema." + name
}

func (r typeRenderer) render(s ir.IRSchema) string {
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
			t = r.refName(s.Ref)
		} else {
			t = "unknown"
		}
	case ir.IRKindArray:
		if s.Items != nil {
			inner := r.render(*s.Items)
			if strings.Contains(inner, " | ") || strings.Contains(inner, " & ") {
				inner = "(" + inner + ")"
			}
			t = "Array<" + inner + ">"
		} else {
			t = "Array<unknown>"
		}
	case ir.IRKindOneOf:
		t = r.joinBranches(s.OneOf, " | ")
	case ir.IRKindAnyOf:
		t = r.joinBranches(s.AnyOf, " | ")
	case ir.IRKindAllOf:
		t = r.joinBranches(s.AllOf, " & ")
	case ir.IRKindNot:
		t = "unknown"
	case ir.IRKindEnum:
		t = enumUnionLiteral(s)
	case ir.IRKindObject:
		t = r.objectInlineShape(s)
	default:
		t = "unknown"
	}
	if s.Nullable && t != "null" {
		t += " | null"
	}
	return t
}

func (r typeRenderer) joinBranches(branches []*ir.IRSchema, sep string) string {
	parts := make([]string, 0, len(branches))
	for _, b := range branches {
		parts = append(parts, r.render(*b))
	}
	return strings.Join(parts, sep)
}

func enumUnionLiteral(s ir.IRSchema) string {
	if len(s.EnumValues) == 0 {
		return "unknown"
	}
	vals := make([]string, 0, len(s.EnumValues))
	switch s.EnumBase {
	case ir.IRKindNumber, ir.IRKindInteger:
		vals = append(vals, s.EnumValues...)
	case ir.IRKindBoolean:
		for _, v := range s.EnumValues {
			if v == "true" || v == "false" {
				vals = append(vals, v)
			} else {
				vals = append(vals, "\""+v+"\"")
			}
		}
	default:
		for _, v := range s.EnumValues {
			vals = append(vals, "\""+v+"\"")
		}
	}
	return strings.Join(vals, " | ")
}

func (r typeRenderer) objectInlineShape(s ir.IRSchema) string {
	if len(s.Properties) == 0 {
		return "Record<string, unknown>"
	}
	parts := make([]string, 0, len(s.Properties))
	for _, f := range s.Properties {
		ft := "unknown"
		if f.Type != nil {
			ft = r.render(*f.Type)
		}
		name := quoteTSPropertyName(f.Name)
		if f.Required {
			parts = append(parts, name+": "+ft)
		} else {
			parts = append(parts, name+"?: "+ft)
		}
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// modelDecl renders the top-level "export interface"/"export type" declaration for one
// named model inside schema.ts, so refs render bare. Enums get a union type alias;
// objects render as interfaces; everything else is a type alias.
func (r typeRenderer) modelDecl(def ir.IRModelDef) string {
	switch def.Schema.Kind {
	case ir.IRKindEnum:
		return fmt.Sprintf("export type %s = %s;", def.Name, enumUnionLiteral(def.Schema))
	case ir.IRKindObject:
		return fmt.Sprintf("export interface %s %s", def.Name, r.objectInterfaceBody(def.Schema))
	default:
		return fmt.Sprintf("export type %s = %s;", def.Name, r.render(def.Schema))
	}
}

func (r typeRenderer) objectInterfaceBody(s ir.IRSchema) string {
	if len(s.Properties) == 0 && s.AdditionalProperties == nil {
		return "{\n  [key: string]: unknown;\n}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, f := range s.Properties {
		ft := "unknown"
		if f.Type != nil {
			ft = r.render(*f.Type)
		}
		name := quoteTSPropertyName(f.Name)
		if f.Required {
			fmt.Fprintf(&b, "  %s: %s;\n", name, ft)
		} else {
			fmt.Fprintf(&b, "  %s?: %s;\n", name, ft)
		}
	}
	if s.AdditionalProperties != nil {
		fmt.Fprintf(&b, "  [key: string]: %s;\n", r.render(*s.AdditionalProperties))
	}
	b.WriteString("}")
	return b.String()
}

// quoteTSPropertyName quotes property names that aren't valid bare TS identifiers.
func quoteTSPropertyName(name string) string {
	needsQuoting := len(name) == 0
	for i, char := range name {
		isAlpha := (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || char == '_' || char == '$'
		isDigit := char >= '0' && char <= '9'
		if i == 0 && isDigit {
			needsQuoting = true
			break
		}
		if !isAlpha && !isDigit {
			needsQuoting = true
			break
		}
	}
	if needsQuoting {
		return `"` + name + `"`
	}
	return name
}

// buildPathTemplate converts an OpenAPI path into a TS template literal, URI-encoding
// each path parameter reference.
func buildPathTemplate(op ir.IROperation) string {
	path := op.Path
	var b strings.Builder
	b.WriteString("`")
	for i := 0; i < len(path); i++ {
		if path[i] == '{' {
			j := i + 1
			for j < len(path) && path[j] != '}' {
				j++
			}
			if j < len(path) {
				name := path[i+1 : j]
				b.WriteString("${encodeURIComponent(" + name + ")}")
				i = j
				continue
			}
		}
		b.WriteByte(path[i])
	}
	b.WriteString("`")
	return b.String()
}

// buildQueryKeyBase returns a stable string literal base for a cache/query key, path
// parameter placeholders stripped out.
func buildQueryKeyBase(op ir.IROperation) string {
	parts := strings.Split(op.Path, "/")
	baseParts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || (strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}")) {
			continue
		}
		baseParts = append(baseParts, p)
	}
	return "'" + strings.Join(baseParts, "/") + "'"
}

// orderPathParams returns an operation's path parameters in the order they appear in
// the path template, not the sorted-by-name order collectParams uses for determinism.
func orderPathParams(op ir.IROperation) []ir.IRParam {
	var ordered []ir.IRParam
	index := map[string]int{}
	for i, p := range op.PathParams {
		index[p.Name] = i
	}
	path := op.Path
	for i := 0; i < len(path); i++ {
		if path[i] == '{' {
			j := i + 1
			for j < len(path) && path[j] != '}' {
				j++
			}
			if j < len(path) {
				name := path[i+1 : j]
				if idx, ok := index[name]; ok {
					ordered = append(ordered, op.PathParams[idx])
				}
				i = j
				continue
			}
		}
	}
	return ordered
}

// buildMethodSignature builds the client method's TS parameter list: positional path
// params, then an optional query object, then an optional body, then a trailing
// RequestInit override parameter. Path parameter types render through the
// predefined-aware renderer — they are the one service-file position a predefined type
// appears in textually, so they alone drive the service file's import set. Query and
// body types go through the Schema namespace, which re-exports predefined types
// transitively.
func buildMethodSignature(predefined genutil.PredefinedSet, op ir.IROperation, methodName string) []string {
	paramRenderer := typeRenderer{predefined: predefined}
	crossFile := typeRenderer{}
	var parts []string
	for _, p := range orderPathParams(op) {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Name, paramRenderer.render(p.Schema)))
	}
	if len(op.QueryParams) > 0 {
		queryType := toPascalCase(op.Tag) + toPascalCase(methodName) + "Query"
		parts = append(parts, fmt.Sprintf("query?: Schema.%s", queryType))
	}
	if op.RequestBody != nil {
		opt := ""
		if !op.RequestBody.Required {
			opt = "?"
		}
		parts = append(parts, fmt.Sprintf("body%s: %s", opt, crossFile.render(op.RequestBody.Schema)))
	}
	parts = append(parts, "init?: Omit<RequestInit, \"method\" | \"body\">")
	return parts
}

// queryKeyArgs mirrors buildMethodSignature's non-init parameter names, for use in
// cache-key tuples generated alongside each method.
func queryKeyArgs(op ir.IROperation) []string {
	var out []string
	for _, p := range orderPathParams(op) {
		out = append(out, p.Name)
	}
	if len(op.QueryParams) > 0 {
		out = append(out, "query")
	}
	if op.RequestBody != nil {
		out = append(out, "body")
	}
	return out
}

// responseTSType renders the TS return type for an operation's response, wrapping
// streaming responses in the runtime's StreamingResponse<T> generic.
func responseTSType(op ir.IROperation) string {
	if op.Response.IsVoid {
		return "void"
	}
	inner := typeRenderer{}.render(op.Response.Schema)
	if op.Response.IsStreaming {
		return fmt.Sprintf("StreamingResponse<%s>", inner)
	}
	return inner
}

// queryInterfaceBody renders the property list of a <Tag><Method>Query interface in
// schema.ts, one property per query parameter, optional unless the spec requires it.
func queryInterfaceBody(op ir.IROperation, predefined genutil.PredefinedSet) string {
	r := typeRenderer{sameFile: true, predefined: predefined}
	var b strings.Builder
	b.WriteString("{\n")
	for _, p := range op.QueryParams {
		name := quoteTSPropertyName(p.Name)
		opt := "?"
		if p.Required {
			opt = ""
		}
		fmt.Fprintf(&b, "  %s%s: %s;\n", name, opt, r.render(p.Schema))
	}
	b.WriteString("}")
	return b.String()
}
