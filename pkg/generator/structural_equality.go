package generator

import "github.com/oaspipe/sdkgen/pkg/ir"

// schemasStructurallyEqual decides whether two IR schemas describe the same shape,
// used to detect "this inline schema is really component X" during extraction. The
// predicate is full recursive equality for every kind, order-sensitive for the
// composition kinds: two oneOf schemas with the same branches in a different order are
// NOT considered equal, since languages that render a discriminated union preserve
// branch order in the emitted type.
func schemasStructurallyEqual(a, b ir.IRSchema) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Nullable != b.Nullable {
		return false
	}
	switch a.Kind {
	case ir.IRKindObject:
		return objectFieldsEqual(a, b)
	case ir.IRKindArray:
		return schemaPtrEqual(a.Items, b.Items)
	case ir.IRKindRef:
		return a.Ref == b.Ref
	case ir.IRKindEnum:
		return enumEqual(a, b)
	case ir.IRKindOneOf:
		return schemaSliceEqual(a.OneOf, b.OneOf)
	case ir.IRKindAnyOf:
		return schemaSliceEqual(a.AnyOf, b.AnyOf)
	case ir.IRKindAllOf:
		return schemaSliceEqual(a.AllOf, b.AllOf)
	case ir.IRKindNot:
		return schemaPtrEqual(a.Not, b.Not)
	case ir.IRKindString:
		return a.Format == b.Format
	default:
		// Primitives (number, integer, boolean, null, unknown) are equal whenever
		// kind and nullability match; a deliberately conservative approximation.
		return true
	}
}

func objectFieldsEqual(a, b ir.IRSchema) bool {
	if len(a.Properties) != len(b.Properties) {
		return false
	}
	bByName := make(map[string]ir.IRField, len(b.Properties))
	for _, f := range b.Properties {
		bByName[f.Name] = f
	}
	for _, fa := range a.Properties {
		fb, ok := bByName[fa.Name]
		if !ok {
			return false
		}
		if fa.Required != fb.Required {
			return false
		}
		if !schemaPtrEqual(fa.Type, fb.Type) {
			return false
		}
	}
	return additionalPropertiesEqual(a.AdditionalProperties, b.AdditionalProperties)
}

func additionalPropertiesEqual(a, b *ir.IRSchema) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return schemasStructurallyEqual(*a, *b)
}

func enumEqual(a, b ir.IRSchema) bool {
	if a.EnumBase != b.EnumBase {
		return false
	}
	if len(a.EnumValues) != len(b.EnumValues) {
		return false
	}
	for i, v := range a.EnumValues {
		if b.EnumValues[i] != v {
			return false
		}
	}
	return true
}

func schemaPtrEqual(a, b *ir.IRSchema) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return schemasStructurallyEqual(*a, *b)
}

func schemaSliceEqual(a, b []*ir.IRSchema) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !schemaPtrEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
