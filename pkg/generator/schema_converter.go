package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaspipe/sdkgen/pkg/ir"
)

// schemaToIR converts one OpenAPI schema node to one IR schema node. It is pure: no
// I/O, no naming side effects. Rules are tried in a fixed order; the first match
// wins: ref, compositions, enum, then the normalized primitive type.
func schemaToIR(sr *openapi3.SchemaRef) ir.IRSchema {
	if sr == nil {
		return ir.IRSchema{Kind: ir.IRKindUnknown}
	}
	if sr.Ref != "" {
		return ir.IRSchema{Kind: ir.IRKindRef, Ref: refName(sr.Ref)}
	}
	if sr.Value == nil {
		return ir.IRSchema{Kind: ir.IRKindUnknown}
	}
	s := sr.Value

	nullable := isNullable(s)

	var disc *ir.IRDiscriminator
	if s.Discriminator != nil {
		disc = &ir.IRDiscriminator{PropertyName: s.Discriminator.PropertyName, Mapping: s.Discriminator.Mapping}
	}

	if len(s.OneOf) > 0 {
		return ir.IRSchema{Kind: ir.IRKindOneOf, OneOf: convertAll(s.OneOf), Nullable: nullable, Discriminator: disc}
	}
	if len(s.AnyOf) > 0 {
		return ir.IRSchema{Kind: ir.IRKindAnyOf, AnyOf: convertAll(s.AnyOf), Nullable: nullable, Discriminator: disc}
	}
	if len(s.AllOf) > 0 {
		return ir.IRSchema{Kind: ir.IRKindAllOf, AllOf: convertAll(s.AllOf), Nullable: nullable, Discriminator: disc}
	}
	if s.Not != nil {
		not := schemaToIR(s.Not)
		return ir.IRSchema{Kind: ir.IRKindNot, Not: &not, Nullable: nullable, Discriminator: disc}
	}

	if len(s.Enum) > 0 {
		vals := make([]string, 0, len(s.Enum))
		for _, v := range s.Enum {
			vals = append(vals, fmt.Sprint(v))
		}
		return ir.IRSchema{
			Kind: ir.IRKindEnum, EnumValues: vals, EnumRaw: s.Enum,
			EnumBase: inferEnumBaseKind(s), Nullable: nullable, Discriminator: disc,
		}
	}

	switch primaryType(s) {
	case openapi3.TypeString:
		return ir.IRSchema{Kind: ir.IRKindString, Nullable: nullable, Format: s.Format, Discriminator: disc}
	case openapi3.TypeInteger:
		return ir.IRSchema{Kind: ir.IRKindInteger, Nullable: nullable, Discriminator: disc}
	case openapi3.TypeNumber:
		return ir.IRSchema{Kind: ir.IRKindNumber, Nullable: nullable, Discriminator: disc}
	case openapi3.TypeBoolean:
		return ir.IRSchema{Kind: ir.IRKindBoolean, Nullable: nullable, Discriminator: disc}
	case openapi3.TypeArray:
		var items ir.IRSchema
		if s.Items != nil {
			items = schemaToIR(s.Items)
		} else {
			items = ir.IRSchema{Kind: ir.IRKindUnknown}
		}
		return ir.IRSchema{Kind: ir.IRKindArray, Items: &items, Nullable: nullable, Discriminator: disc}
	case openapi3.TypeObject:
		return ir.IRSchema{
			Kind: ir.IRKindObject, Properties: convertProperties(s), AdditionalProperties: convertAdditional(s),
			Nullable: nullable, Discriminator: disc,
		}
	}
	return ir.IRSchema{Kind: ir.IRKindUnknown, Nullable: nullable, Discriminator: disc}
}

func convertAll(refs []*openapi3.SchemaRef) []*ir.IRSchema {
	out := make([]*ir.IRSchema, 0, len(refs))
	for _, sub := range refs {
		sc := schemaToIR(sub)
		out = append(out, &sc)
	}
	return out
}

func convertProperties(s *openapi3.Schema) []ir.IRField {
	names := make([]string, 0, len(s.Properties))
	for n := range s.Properties {
		names = append(names, n)
	}
	sort.Strings(names)
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}
	fields := make([]ir.IRField, 0, len(names))
	for _, n := range names {
		pr := s.Properties[n]
		t := schemaToIR(pr)
		fields = append(fields, ir.IRField{Name: n, Type: &t, Required: required[n], Annotations: extractAnnotations(pr)})
	}
	return fields
}

func convertAdditional(s *openapi3.Schema) *ir.IRSchema {
	if s.AdditionalProperties.Schema == nil {
		// additionalProperties: true is preserved as an open map; false is dropped.
		if s.AdditionalProperties.Has != nil && *s.AdditionalProperties.Has {
			return &ir.IRSchema{Kind: ir.IRKindUnknown}
		}
		return nil
	}
	ap := schemaToIR(s.AdditionalProperties.Schema)
	return &ap
}

// refName reduces any $ref form to its bare last path segment. The one form that matters
// for identity (#/components/schemas/X) is the common case; anything else (external
// bundled refs the loader already inlined, or a raw filename ref) degrades to its last
// segment rather than failing, since by the time we see it the Loader has already
// decided whether it was safe to bundle.
func refName(ref string) string {
	if strings.HasPrefix(ref, "#/components/schemas/") {
		return strings.TrimPrefix(ref, "#/components/schemas/")
	}
	parts := strings.Split(ref, "/")
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return parts[len(parts)-1]
	}
	return ref
}

// isNullable is the single nullability predicate for both OpenAPI dialects: nullable
// iff the 3.0 `nullable: true` flag is set, or the 3.1 `type` array contains "null".
func isNullable(s *openapi3.Schema) bool {
	if s.Nullable {
		return true
	}
	if s.Type == nil {
		return false
	}
	for _, t := range *s.Type {
		if t == "null" {
			return true
		}
	}
	return false
}

// primaryType normalizes the 3.0/3.1 `type` field: if it is a multi-element array, the
// "null" member is filtered (nullability is already captured by isNullable) and the
// remaining single element is returned. An object with no usable type returns "".
func primaryType(s *openapi3.Schema) string {
	if s.Type == nil {
		return ""
	}
	for _, t := range *s.Type {
		if t != "null" {
			return t
		}
	}
	return ""
}

func extractAnnotations(sr *openapi3.SchemaRef) ir.IRAnnotations {
	var a ir.IRAnnotations
	if sr == nil || sr.Value == nil {
		return a
	}
	s := sr.Value
	a.Title = s.Title
	a.Description = s.Description
	a.Deprecated = s.Deprecated
	a.ReadOnly = s.ReadOnly
	a.WriteOnly = s.WriteOnly
	a.Default = s.Default
	if s.Example != nil {
		a.Examples = []any{s.Example}
	}
	return a
}

func inferEnumBaseKind(s *openapi3.Schema) ir.IRSchemaKind {
	switch primaryType(s) {
	case openapi3.TypeString:
		return ir.IRKindString
	case openapi3.TypeInteger:
		return ir.IRKindInteger
	case openapi3.TypeNumber:
		return ir.IRKindNumber
	case openapi3.TypeBoolean:
		return ir.IRKindBoolean
	}
	if len(s.Enum) > 0 {
		switch s.Enum[0].(type) {
		case string:
			return ir.IRKindString
		case int, int32, int64:
			return ir.IRKindInteger
		case float32, float64:
			return ir.IRKindNumber
		case bool:
			return ir.IRKindBoolean
		}
	}
	return ir.IRKindUnknown
}
