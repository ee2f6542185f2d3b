package generator

import (
	"fmt"

	"github.com/oaspipe/sdkgen/pkg/ir"
	"github.com/oaspipe/sdkgen/pkg/utils"
)

// modelRegistry accumulates named model definitions discovered while building the IR,
// indexed by name for collision checks and structural-identity lookups.
type modelRegistry struct {
	defs  []ir.IRModelDef
	byName map[string]int
}

func newModelRegistry() *modelRegistry {
	return &modelRegistry{byName: make(map[string]int)}
}

func (r *modelRegistry) add(def ir.IRModelDef) {
	r.defs = append(r.defs, def)
	r.byName[def.Name] = len(r.defs) - 1
}

func (r *modelRegistry) get(name string) (ir.IRModelDef, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return ir.IRModelDef{}, false
	}
	return r.defs[idx], true
}

// findStructuralMatch returns the name of an existing model definition structurally
// identical to schema, if any. It only compares shapes, and the extraction sites call
// it on every document, whether or not the loader recorded a bundle fallback.
func (r *modelRegistry) findStructuralMatch(schema ir.IRSchema) (string, bool) {
	for _, def := range r.defs {
		if schemasStructurallyEqual(def.Schema, schema) {
			return def.Name, true
		}
	}
	return "", false
}

// extractionContext carries the naming inputs each extraction site needs: the
// top-level rule (tag + method name + slot) applies only at the operation
// body/response position; everything nested below an already-named model uses the
// parentName_propName[_Item] convention instead.
type extractionContext struct {
	registry *modelRegistry
}

// extractTopLevel extracts (or reuses, on structural match) a name for an operation's
// request body or response schema. slot is "RequestBody" or "Response". A collision
// with a distinct shape already registered under the synthetic name skips extraction
// entirely: the schema stays inline rather than being renamed.
func (c *extractionContext) extractTopLevel(tag, methodName, slot string, schema ir.IRSchema) ir.IRSchema {
	if schema.Kind != ir.IRKindObject && schema.Kind != ir.IRKindEnum &&
		schema.Kind != ir.IRKindOneOf && schema.Kind != ir.IRKindAnyOf && schema.Kind != ir.IRKindAllOf {
		return schema
	}
	if existing, ok := c.registry.findStructuralMatch(schema); ok {
		return ir.IRSchema{Kind: ir.IRKindRef, Ref: existing, Nullable: schema.Nullable}
	}
	name := utils.ToPascalCase(tag) + utils.ToPascalCase(methodName) + slot
	if _, taken := c.registry.get(name); taken {
		return schema
	}
	c.registry.add(ir.IRModelDef{Name: name, Schema: schema})
	return ir.IRSchema{Kind: ir.IRKindRef, Ref: name, Nullable: schema.Nullable}
}

// extractNested extracts a name for an inline object/enum found while expanding an
// already-named model, using the parentName_propName[_Item] convention.
func (c *extractionContext) extractNested(parentName, propName string, isArrayItem bool, schema ir.IRSchema) ir.IRSchema {
	if schema.Kind != ir.IRKindObject && schema.Kind != ir.IRKindEnum {
		return schema
	}
	if existing, ok := c.registry.findStructuralMatch(schema); ok {
		return ir.IRSchema{Kind: ir.IRKindRef, Ref: existing, Nullable: schema.Nullable}
	}
	name := parentName + "_" + propName
	if isArrayItem {
		name += "_Item"
	}
	name = c.reserveName(name, schema)
	return ir.IRSchema{Kind: ir.IRKindRef, Ref: name, Nullable: schema.Nullable}
}

// reserveName registers schema under name for NESTED extraction sites, resolving a
// collision with a distinct shape by appending a numeric suffix (nested inline shapes
// have no good "stay inline" fallback in every emitter, unlike top-level bodies). A
// collision with an identical shape is the structural-match case and is handled by the
// callers before reserveName is ever invoked.
func (c *extractionContext) reserveName(name string, schema ir.IRSchema) string {
	if _, exists := c.registry.get(name); !exists {
		c.registry.add(ir.IRModelDef{Name: name, Schema: schema})
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s%d", name, i)
		if _, exists := c.registry.get(candidate); !exists {
			c.registry.add(ir.IRModelDef{Name: candidate, Schema: schema})
			return candidate
		}
	}
}

// expandInline walks schema recursively, extracting nested inline object/enum
// properties and array items into named models rooted at parentName. Refs, enums and
// primitives pass through unchanged; oneOf/anyOf/allOf branches are walked so inline
// objects inside them get extracted, but a composition itself is never named here
// (extraction only ever happens at a property or array-item site, never
// on the root schema itself — the root is named by the caller via extractTopLevel or by
// being a pre-existing component schema).
func (c *extractionContext) expandInline(parentName string, schema ir.IRSchema) ir.IRSchema {
	switch schema.Kind {
	case ir.IRKindObject:
		fields := make([]ir.IRField, len(schema.Properties))
		for i, f := range schema.Properties {
			fields[i] = f
			if f.Type == nil {
				continue
			}
			expanded := c.expandInline(parentName+"_"+f.Name, *f.Type)
			named := c.extractNested(parentName, f.Name, false, expanded)
			fields[i].Type = &named
		}
		schema.Properties = fields
		if schema.AdditionalProperties != nil {
			expanded := c.expandInline(parentName+"_additional", *schema.AdditionalProperties)
			named := c.extractNested(parentName, "additional", false, expanded)
			schema.AdditionalProperties = &named
		}
		return schema
	case ir.IRKindArray:
		if schema.Items == nil {
			return schema
		}
		expanded := c.expandInline(parentName+"_Item", *schema.Items)
		named := c.extractNested(parentName, "Item", true, expanded)
		schema.Items = &named
		return schema
	case ir.IRKindOneOf, ir.IRKindAnyOf, ir.IRKindAllOf:
		return c.expandComposition(parentName, schema)
	default:
		return schema
	}
}

func (c *extractionContext) expandComposition(parentName string, schema ir.IRSchema) ir.IRSchema {
	branches := compositionBranches(schema)
	out := make([]*ir.IRSchema, len(branches))
	for i, b := range branches {
		expanded := c.expandInline(fmt.Sprintf("%s_%d", parentName, i), *b)
		out[i] = &expanded
	}
	setCompositionBranches(&schema, out)
	return schema
}

func compositionBranches(schema ir.IRSchema) []*ir.IRSchema {
	switch schema.Kind {
	case ir.IRKindOneOf:
		return schema.OneOf
	case ir.IRKindAnyOf:
		return schema.AnyOf
	case ir.IRKindAllOf:
		return schema.AllOf
	default:
		return nil
	}
}

func setCompositionBranches(schema *ir.IRSchema, branches []*ir.IRSchema) {
	switch schema.Kind {
	case ir.IRKindOneOf:
		schema.OneOf = branches
	case ir.IRKindAnyOf:
		schema.AnyOf = branches
	case ir.IRKindAllOf:
		schema.AllOf = branches
	}
}
