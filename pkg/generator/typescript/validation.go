package typescript

import (
	"fmt"
	"strings"

	"github.com/oaspipe/sdkgen/pkg/genutil"
	"github.com/oaspipe/sdkgen/pkg/ir"
)

// zodExpr renders an IR schema as a zod runtime-validation expression for
// schema.validation.ts. Refs render as z.lazy thunks over the referenced const, so
// mutually recursive models stay valid even when the topological order had to fall
// back to name order on a cycle.
func zodExpr(s ir.IRSchema, predefined genutil.PredefinedSet) string {
	var t string
	switch s.Kind {
	case ir.IRKindString:
		if s.Format == "binary" {
			t = "z.instanceof(Blob)"
		} else {
			t = "z.string()"
		}
	case ir.IRKindNumber, ir.IRKindInteger:
		t = "z.number()"
	case ir.IRKindBoolean:
		t = "z.boolean()"
	case ir.IRKindNull:
		t = "z.null()"
	case ir.IRKindRef:
		switch {
		case s.Ref == "":
			t = "z.unknown()"
		case predefined.Contains(s.Ref):
			// External package types carry no runtime schema of ours.
			t = "z.unknown()"
		default:
			t = fmt.Sprintf("z.lazy(() => %sSchema)", s.Ref)
		}
	case ir.IRKindArray:
		if s.Items != nil {
			t = "z.array(" + zodExpr(*s.Items, predefined) + ")"
		} else {
			t = "z.array(z.unknown())"
		}
	case ir.IRKindObject:
		t = zodObject(s, predefined)
	case ir.IRKindEnum:
		t = zodEnum(s)
	case ir.IRKindOneOf:
		t = zodUnion(s.OneOf, predefined)
	case ir.IRKindAnyOf:
		t = zodUnion(s.AnyOf, predefined)
	case ir.IRKindAllOf:
		t = zodIntersection(s.AllOf, predefined)
	case ir.IRKindNot:
		t = "z.unknown()"
	default:
		t = "z.unknown()"
	}
	if s.Nullable && s.Kind != ir.IRKindNull {
		t += ".nullable()"
	}
	return t
}

func zodObject(s ir.IRSchema, predefined genutil.PredefinedSet) string {
	if len(s.Properties) == 0 && s.AdditionalProperties == nil {
		return "z.record(z.string(), z.unknown())"
	}
	var b strings.Builder
	b.WriteString("z.object({\n")
	for _, f := range s.Properties {
		expr := "z.unknown()"
		if f.Type != nil {
			expr = zodExpr(*f.Type, predefined)
		}
		if !f.Required {
			expr += ".optional()"
		}
		fmt.Fprintf(&b, "  %s: %s,\n", quoteTSPropertyName(f.Name), expr)
	}
	b.WriteString("})")
	if s.AdditionalProperties != nil {
		fmt.Fprintf(&b, ".catchall(%s)", zodExpr(*s.AdditionalProperties, predefined))
	}
	return b.String()
}

func zodEnum(s ir.IRSchema) string {
	if len(s.EnumValues) == 0 {
		return "z.unknown()"
	}
	if s.EnumBase == ir.IRKindString || s.EnumBase == ir.IRKindUnknown {
		quoted := make([]string, 0, len(s.EnumValues))
		for _, v := range s.EnumValues {
			quoted = append(quoted, fmt.Sprintf("%q", v))
		}
		return "z.enum([" + strings.Join(quoted, ", ") + "])"
	}
	literals := make([]string, 0, len(s.EnumValues))
	for _, v := range s.EnumValues {
		literals = append(literals, "z.literal("+v+")")
	}
	if len(literals) == 1 {
		return literals[0]
	}
	return "z.union([" + strings.Join(literals, ", ") + "])"
}

func zodUnion(branches []*ir.IRSchema, predefined genutil.PredefinedSet) string {
	if len(branches) == 0 {
		return "z.unknown()"
	}
	if len(branches) == 1 {
		return zodExpr(*branches[0], predefined)
	}
	parts := make([]string, 0, len(branches))
	for _, b := range branches {
		parts = append(parts, zodExpr(*b, predefined))
	}
	return "z.union([" + strings.Join(parts, ", ") + "])"
}

func zodIntersection(branches []*ir.IRSchema, predefined genutil.PredefinedSet) string {
	if len(branches) == 0 {
		return "z.unknown()"
	}
	expr := zodExpr(*branches[0], predefined)
	for _, b := range branches[1:] {
		expr = expr + ".and(" + zodExpr(*b, predefined) + ")"
	}
	return expr
}

// validationDecl renders one model's exported zod const.
func validationDecl(def ir.IRModelDef, predefined genutil.PredefinedSet) string {
	return fmt.Sprintf("export const %sSchema = %s;", def.Name, zodExpr(def.Schema, predefined))
}
