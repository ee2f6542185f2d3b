package python

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

// resolveMethodName is the Python spelling of the shared method-name derivation:
// same parser/Controller_/REST rules as genutil.ResolveMethodName, but snake_cased,
// since generated Python methods follow PEP 8.
func resolveMethodName(client config.Client, op ir.IROperation) string {
	return toSnakeCase(genutil.ResolveMethodName(client, op))
}

// pyTypeRenderer converts IR schemas to Python type annotations. Model refs in
// models.py class bodies are quoted ("User") so forward references survive
// declaration order; type-alias right-hand sides reference the bare name (aliases
// cannot defer resolution, so they rely on the topological definition order); service
// files reference models through the models module.
type pyTypeRenderer struct {
	quoteRefs bool
	bareRefs  bool
}

func (r pyTypeRenderer) render(s ir.IRSchema) string {
	var t string
	switch s.Kind {
	case ir.IRKindString:
		if s.Format == "binary" {
			t = "bytes"
		} else {
			t = "str"
		}
	case ir.IRKindNumber:
		t = "float"
	case ir.IRKindInteger:
		t = "int"
	case ir.IRKindBoolean:
		t = "bool"
	case ir.IRKindNull:
		t = "None"
	case ir.IRKindRef:
		switch {
		case s.Ref == "":
			t = "Any"
		case r.quoteRefs:
			t = "\"" + s.Ref + "\""
		case r.bareRefs:
			t = s.Ref
		default:
			t = "models." + s.Ref
		}
	case ir.IRKindArray:
		if s.Items != nil {
			t = "List[" + r.render(*s.Items) + "]"
		} else {
			t = "List[Any]"
		}
	case ir.IRKindOneOf:
		t = r.union(s.OneOf)
	case ir.IRKindAnyOf:
		t = r.union(s.AnyOf)
	case ir.IRKindAllOf:
		// Python has no intersection types; the first branch is the closest honest
		// annotation.
		if len(s.AllOf) > 0 {
			t = r.render(*s.AllOf[0])
		} else {
			t = "Any"
		}
	case ir.IRKindEnum:
		t = enumAnnotation(s)
	case ir.IRKindObject:
		t = "Dict[str, Any]"
	default:
		t = "Any"
	}
	if s.Nullable && t != "None" {
		t = "Optional[" + t + "]"
	}
	return t
}

func (r pyTypeRenderer) union(branches []*ir.IRSchema) string {
	if len(branches) == 0 {
		return "Any"
	}
	parts := make([]string, 0, len(branches))
	for _, b := range branches {
		parts = append(parts, r.render(*b))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "Union[" + strings.Join(parts, ", ") + "]"
}

func enumAnnotation(s ir.IRSchema) string {
	if len(s.EnumValues) == 0 {
		return "Any"
	}
	if s.EnumBase == ir.IRKindString || s.EnumBase == ir.IRKindUnknown {
		vals := make([]string, 0, len(s.EnumValues))
		for _, v := range s.EnumValues {
			vals = append(vals, "\""+v+"\"")
		}
		return "Literal[" + strings.Join(vals, ", ") + "]"
	}
	switch s.EnumBase {
	case ir.IRKindNumber:
		return "float"
	case ir.IRKindInteger:
		return "int"
	case ir.IRKindBoolean:
		return "bool"
	}
	return "str"
}

// fieldAnnotation renders a pydantic model field's annotation, wrapping non-required
// fields in Optional.
func fieldAnnotation(field ir.IRField) string {
	r := pyTypeRenderer{quoteRefs: true}
	t := "Any"
	if field.Type != nil {
		t = r.render(*field.Type)
	}
	if !field.Required && !strings.HasPrefix(t, "Optional[") {
		t = "Optional[" + t + "]"
	}
	return t
}

// buildPathTemplate converts an OpenAPI path into a Python f-string; path parameter
// names are snake_cased to match the method signature.
func buildPathTemplate(op ir.IROperation) string {
	path := op.Path
	var b strings.Builder
	b.WriteString("f\"")
	for i := 0; i < len(path); i++ {
		if path[i] == '{' {
			j := i + 1
			for j < len(path) && path[j] != '}' {
				j++
			}
			if j < len(path) {
				b.WriteString("{" + toSnakeCase(path[i+1:j]) + "}")
				i = j
				continue
			}
		}
		b.WriteByte(path[i])
	}
	b.WriteString("\"")
	return b.String()
}

// orderPathParams returns path parameters in path order, matching the positional
// argument order of the generated method.
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
				if idx, ok := index[path[i+1:j]]; ok {
					ordered = append(ordered, op.PathParams[idx])
				}
				i = j
				continue
			}
		}
	}
	return ordered
}

// buildMethodSignature constructs the Python parameter list: positional path params,
// one keyword parameter per query param, then the body. Optional parameters default
// to None so callers can omit them.
func buildMethodSignature(op ir.IROperation) []string {
	r := pyTypeRenderer{}
	var parts []string
	for _, p := range orderPathParams(op) {
		parts = append(parts, fmt.Sprintf("%s: %s", toSnakeCase(p.Name), r.render(p.Schema)))
	}
	for _, p := range op.QueryParams {
		t := r.render(p.Schema)
		if p.Required {
			parts = append(parts, fmt.Sprintf("%s: %s", toSnakeCase(p.Name), t))
			continue
		}
		if !strings.HasPrefix(t, "Optional[") {
			t = "Optional[" + t + "]"
		}
		parts = append(parts, fmt.Sprintf("%s: %s = None", toSnakeCase(p.Name), t))
	}
	if op.RequestBody != nil {
		t := r.render(op.RequestBody.Schema)
		if op.RequestBody.Required {
			parts = append(parts, fmt.Sprintf("body: %s", t))
		} else {
			if !strings.HasPrefix(t, "Optional[") {
				t = "Optional[" + t + "]"
			}
			parts = append(parts, fmt.Sprintf("body: %s = None", t))
		}
	}
	return parts
}

// queryParamPairs renders the dict entries the generated method passes as query
// params: OpenAPI wire name to snake_cased local variable.
func queryParamPairs(op ir.IROperation) []string {
	var pairs []string
	for _, p := range op.QueryParams {
		pairs = append(pairs, fmt.Sprintf("%q: %s", p.Name, toSnakeCase(p.Name)))
	}
	return pairs
}

// responsePyType renders the return annotation for an operation's response.
func responsePyType(op ir.IROperation) string {
	if op.Response.IsVoid {
		return "None"
	}
	if op.Response.IsStreaming {
		return "Iterator[Any]"
	}
	return pyTypeRenderer{}.render(op.Response.Schema)
}

// formatDocstring indents a description for inclusion inside a method docstring.
func formatDocstring(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		result = append(result, "        "+strings.TrimSpace(line))
	}
	return strings.Join(result, "\n")
}

// modelDecl renders one named model in models.py: a pydantic class for objects, a
// Literal alias for enums, a plain type alias for everything else.
func modelDecl(def ir.IRModelDef) string {
	name := def.Name
	switch def.Schema.Kind {
	case ir.IRKindObject:
		return classDecl(name, def)
	case ir.IRKindEnum:
		return fmt.Sprintf("%s = %s", name, enumAnnotation(def.Schema))
	default:
		return fmt.Sprintf("%s = %s", name, pyTypeRenderer{bareRefs: true}.render(def.Schema))
	}
}

func classDecl(name string, def ir.IRModelDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s(BaseModel):\n", name)
	if def.Annotations.Description != "" {
		doc := strings.ReplaceAll(def.Annotations.Description, `"""`, `\"\"\"`)
		fmt.Fprintf(&b, "    \"\"\"%s\"\"\"\n", doc)
	}
	if len(def.Schema.Properties) == 0 {
		b.WriteString("    model_config = ConfigDict(extra=\"allow\")\n")
		return b.String()
	}
	aliased := false
	for _, f := range def.Schema.Properties {
		if toSnakeCase(f.Name) != f.Name {
			aliased = true
			break
		}
	}
	if aliased {
		b.WriteString("    model_config = ConfigDict(populate_by_name=True)\n\n")
	}
	for _, f := range def.Schema.Properties {
		pyName := toSnakeCase(f.Name)
		ann := fieldAnnotation(f)
		switch {
		case pyName != f.Name && f.Required:
			fmt.Fprintf(&b, "    %s: %s = Field(alias=%q)\n", pyName, ann, f.Name)
		case pyName != f.Name:
			fmt.Fprintf(&b, "    %s: %s = Field(default=None, alias=%q)\n", pyName, ann, f.Name)
		case f.Required:
			fmt.Fprintf(&b, "    %s: %s\n", pyName, ann)
		default:
			fmt.Fprintf(&b, "    %s: %s = None\n", pyName, ann)
		}
	}
	return b.String()
}
