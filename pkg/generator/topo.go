package generator

import (
	"sort"

	"github.com/oaspipe/sdkgen/pkg/ir"
)

// topoSortModelDefs orders model definitions so that any definition referencing
// another by name is emitted after it, using Kahn's algorithm. Languages whose type
// declarations can forward-reference freely don't strictly need this, but emission
// forms whose initializer references another definition (zod consts, Python type
// aliases) do.
//
// Cycles (mutually recursive models, which are legal in the algebra) fall back to a
// stable alphabetical ordering for the cyclic subset; warnings are the caller's concern.
func topoSortModelDefs(defs []ir.IRModelDef) ([]ir.IRModelDef, bool) {
	byName := make(map[string]ir.IRModelDef, len(defs))
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
		names = append(names, d.Name)
	}
	sort.Strings(names)

	deps := make(map[string]map[string]bool, len(defs))
	for _, n := range names {
		depSet := make(map[string]bool)
		collectRefDeps(byName[n].Schema, byName, depSet)
		delete(depSet, n)
		deps[n] = depSet
	}

	indegree := make(map[string]int, len(names))
	dependents := make(map[string][]string, len(names))
	for _, n := range names {
		indegree[n] = 0
	}
	for n, ds := range deps {
		for d := range ds {
			indegree[n]++
			dependents[d] = append(dependents[d], n)
		}
	}
	for _, deps := range dependents {
		sort.Strings(deps)
	}

	var queue []string
	for _, n := range names {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	sort.Strings(queue)

	var ordered []string
	visited := make(map[string]bool)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		visited[n] = true
		ordered = append(ordered, n)

		var next []string
		for _, dep := range dependents[n] {
			indegree[dep]--
			if indegree[dep] == 0 {
				next = append(next, dep)
			}
		}
		sort.Strings(next)
		queue = append(queue, next...)
		sort.Strings(queue)
	}

	hadCycle := len(ordered) != len(names)
	if hadCycle {
		// Append whatever remains (the cyclic subset) in alphabetical order.
		for _, n := range names {
			if !visited[n] {
				ordered = append(ordered, n)
			}
		}
	}

	out := make([]ir.IRModelDef, 0, len(ordered))
	for _, n := range ordered {
		out = append(out, byName[n])
	}
	return out, hadCycle
}

func collectRefDeps(s ir.IRSchema, byName map[string]ir.IRModelDef, out map[string]bool) {
	switch s.Kind {
	case ir.IRKindRef:
		if _, ok := byName[s.Ref]; ok {
			out[s.Ref] = true
		}
	case ir.IRKindArray:
		if s.Items != nil {
			collectRefDeps(*s.Items, byName, out)
		}
	case ir.IRKindObject:
		for _, f := range s.Properties {
			if f.Type != nil {
				collectRefDeps(*f.Type, byName, out)
			}
		}
		if s.AdditionalProperties != nil {
			collectRefDeps(*s.AdditionalProperties, byName, out)
		}
	case ir.IRKindOneOf:
		collectRefDepsAll(s.OneOf, byName, out)
	case ir.IRKindAnyOf:
		collectRefDepsAll(s.AnyOf, byName, out)
	case ir.IRKindAllOf:
		collectRefDepsAll(s.AllOf, byName, out)
	case ir.IRKindNot:
		if s.Not != nil {
			collectRefDeps(*s.Not, byName, out)
		}
	}
}

func collectRefDepsAll(branches []*ir.IRSchema, byName map[string]ir.IRModelDef, out map[string]bool) {
	for _, b := range branches {
		if b != nil {
			collectRefDeps(*b, byName, out)
		}
	}
}
