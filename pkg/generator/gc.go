package generator

import (
	"sort"

	"github.com/oaspipe/sdkgen/pkg/genutil"
	"github.com/oaspipe/sdkgen/pkg/ir"
)

// gcModelDefs drops every model definition not transitively reachable from the retained
// operations' path/query params, request body, and response. Reachability is a
// mark-and-sweep over ref names; visited names are tracked so cyclic refs terminate.
func gcModelDefs(services []ir.IRService, defs []ir.IRModelDef) []ir.IRModelDef {
	byName := make(map[string]ir.IRModelDef, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
	}

	reachable := make(map[string]bool)
	var markSchema func(s ir.IRSchema)
	markSchema = func(s ir.IRSchema) {
		switch s.Kind {
		case ir.IRKindRef:
			if s.Ref == "" || reachable[s.Ref] {
				return
			}
			reachable[s.Ref] = true
			if def, ok := byName[s.Ref]; ok {
				markSchema(def.Schema)
			}
		case ir.IRKindArray:
			if s.Items != nil {
				markSchema(*s.Items)
			}
		case ir.IRKindObject:
			for _, f := range s.Properties {
				if f.Type != nil {
					markSchema(*f.Type)
				}
			}
			if s.AdditionalProperties != nil {
				markSchema(*s.AdditionalProperties)
			}
		case ir.IRKindOneOf:
			markAll(s.OneOf, markSchema)
		case ir.IRKindAnyOf:
			markAll(s.AnyOf, markSchema)
		case ir.IRKindAllOf:
			markAll(s.AllOf, markSchema)
		case ir.IRKindNot:
			if s.Not != nil {
				markSchema(*s.Not)
			}
		}
	}

	for _, svc := range services {
		for _, op := range svc.Operations {
			for _, p := range op.PathParams {
				markSchema(p.Schema)
			}
			for _, p := range op.QueryParams {
				markSchema(p.Schema)
			}
			if op.RequestBody != nil {
				markSchema(op.RequestBody.Schema)
			}
			markSchema(op.Response.Schema)
		}
	}

	out := make([]ir.IRModelDef, 0, len(defs))
	for _, d := range defs {
		if reachable[d.Name] {
			out = append(out, d)
		}
	}
	return out
}

func markAll(branches []*ir.IRSchema, mark func(ir.IRSchema)) {
	for _, b := range branches {
		if b != nil {
			mark(*b)
		}
	}
}

// findUnresolvedRef walks every schema reachable from the retained operations and
// returns the first ref name that does not resolve inside defs. Unresolvable refs mean
// either a malformed document or a generator bug, and surface as an IRError upstream.
func findUnresolvedRef(services []ir.IRService, defs []ir.IRModelDef) (string, bool) {
	byName := make(map[string]bool, len(defs))
	for _, d := range defs {
		byName[d.Name] = true
	}
	refs := make(map[string]bool)
	collect := func(s ir.IRSchema) {
		genutil.RefsIn(s, refs)
	}
	for _, d := range defs {
		collect(d.Schema)
	}
	for _, svc := range services {
		for _, op := range svc.Operations {
			for _, p := range op.PathParams {
				collect(p.Schema)
			}
			for _, p := range op.QueryParams {
				collect(p.Schema)
			}
			if op.RequestBody != nil {
				collect(op.RequestBody.Schema)
			}
			collect(op.Response.Schema)
		}
	}
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !byName[name] {
			return name, true
		}
	}
	return "", false
}
