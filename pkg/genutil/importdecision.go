package genutil

import (
	"sort"

	"github.com/oaspipe/sdkgen/pkg/config"
	"github.com/oaspipe/sdkgen/pkg/ir"
)

// PredefinedSet maps a model name the target config declared as predefined to the
// external package it is imported from. Names in this set are never emitted;
// references to them import instead.
type PredefinedSet map[string]string

// NewPredefinedSet builds the lookup table from a client's predefinedTypes config.
func NewPredefinedSet(client config.Client) PredefinedSet {
	if len(client.PredefinedTypes) == 0 {
		return nil
	}
	set := make(PredefinedSet, len(client.PredefinedTypes))
	for _, pt := range client.PredefinedTypes {
		set[pt.Type] = pt.Package
	}
	return set
}

func (s PredefinedSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

func (s PredefinedSet) Package(name string) string {
	return s[name]
}

// RenderRefBare is the single decision rule behind same-file vs. cross-file vs.
// predefined ref rendering: a ref renders as the bare name when the
// definition lives in the file being emitted, or when the name is predefined for this
// target (the import statement supplies it); otherwise the emitter qualifies it with
// its schema namespace.
func RenderRefBare(sameFile bool, predefined PredefinedSet, name string) bool {
	return sameFile || predefined.Contains(name)
}

// RefsIn collects every ref name textually contained in a schema's rendered type
// expression: the walk descends through arrays, object properties, additional
// properties, composition branches, and not, but never resolves through the model
// table — a ref to X contains X, not X's own dependencies. This is the containment
// notion the per-file import set is defined over: a type is used only where it
// appears in a position the file will textually contain.
func RefsIn(s ir.IRSchema, out map[string]bool) {
	switch s.Kind {
	case ir.IRKindRef:
		if s.Ref != "" {
			out[s.Ref] = true
		}
	case ir.IRKindArray:
		if s.Items != nil {
			RefsIn(*s.Items, out)
		}
	case ir.IRKindObject:
		for _, f := range s.Properties {
			if f.Type != nil {
				RefsIn(*f.Type, out)
			}
		}
		if s.AdditionalProperties != nil {
			RefsIn(*s.AdditionalProperties, out)
		}
	case ir.IRKindOneOf:
		refsInAll(s.OneOf, out)
	case ir.IRKindAnyOf:
		refsInAll(s.AnyOf, out)
	case ir.IRKindAllOf:
		refsInAll(s.AllOf, out)
	case ir.IRKindNot:
		if s.Not != nil {
			RefsIn(*s.Not, out)
		}
	}
}

func refsInAll(branches []*ir.IRSchema, out map[string]bool) {
	for _, b := range branches {
		if b != nil {
			RefsIn(*b, out)
		}
	}
}

// PredefinedImport is one external-package import a generated file needs.
type PredefinedImport struct {
	Type    string
	Package string
}

// CollectPredefinedImports filters the refs contained in schemas down to the
// predefined ones, sorted by type name for deterministic import blocks.
func CollectPredefinedImports(schemas []ir.IRSchema, predefined PredefinedSet) []PredefinedImport {
	if len(predefined) == 0 {
		return nil
	}
	refs := make(map[string]bool)
	for _, s := range schemas {
		RefsIn(s, refs)
	}
	var out []PredefinedImport
	for name := range refs {
		if pkg, ok := predefined[name]; ok {
			out = append(out, PredefinedImport{Type: name, Package: pkg})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// GroupImportsByPackage merges imports into one entry per package, types sorted within
// each, packages sorted overall. TS emits one import line per package.
func GroupImportsByPackage(imports []PredefinedImport) []PackageImport {
	byPkg := make(map[string][]string)
	for _, imp := range imports {
		byPkg[imp.Package] = append(byPkg[imp.Package], imp.Type)
	}
	pkgs := make([]string, 0, len(byPkg))
	for pkg := range byPkg {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	out := make([]PackageImport, 0, len(pkgs))
	for _, pkg := range pkgs {
		types := byPkg[pkg]
		sort.Strings(types)
		out = append(out, PackageImport{Package: pkg, Types: types})
	}
	return out
}

// PackageImport is one import statement's worth of predefined types.
type PackageImport struct {
	Package string
	Types   []string
}
