package typescript

import (
	"github.com/oaspipe/sdkgen/pkg/genutil"
	"github.com/oaspipe/sdkgen/pkg/ir"
)

// servicePredefinedImports computes the predefined-type imports one service file
// needs. Only path-parameter signatures render predefined names textually in a service
// file; query, body and response types route through the Schema namespace and so never
// force an import here. This is what keeps generated service files free of unused
// imports.
func servicePredefinedImports(svc ir.IRService, predefined genutil.PredefinedSet) []genutil.PackageImport {
	if len(predefined) == 0 {
		return nil
	}
	var schemas []ir.IRSchema
	for _, op := range svc.Operations {
		for _, p := range op.PathParams {
			schemas = append(schemas, p.Schema)
		}
	}
	return genutil.GroupImportsByPackage(genutil.CollectPredefinedImports(schemas, predefined))
}

// schemaPredefinedImports computes the predefined types schema.ts must re-export:
// every predefined name referenced from a model definition's property positions, a
// query interface's property types, or an operation's request body or response type.
// schema.ts re-exports them so service files can keep addressing everything through the
// Schema namespace.
func schemaPredefinedImports(in ir.IR, predefined genutil.PredefinedSet) []genutil.PackageImport {
	if len(predefined) == 0 {
		return nil
	}
	var schemas []ir.IRSchema
	for _, def := range in.ModelDefs {
		schemas = append(schemas, def.Schema)
	}
	for _, svc := range in.Services {
		for _, op := range svc.Operations {
			for _, p := range op.QueryParams {
				schemas = append(schemas, p.Schema)
			}
			if op.RequestBody != nil {
				schemas = append(schemas, op.RequestBody.Schema)
			}
			schemas = append(schemas, op.Response.Schema)
		}
	}
	return genutil.GroupImportsByPackage(genutil.CollectPredefinedImports(schemas, predefined))
}

// emittedModelDefs drops model definitions whose name is predefined for this target:
// the external package owns the type, schema.ts only re-exports it.
func emittedModelDefs(in ir.IR, predefined genutil.PredefinedSet) []ir.IRModelDef {
	if len(predefined) == 0 {
		return in.ModelDefs
	}
	out := make([]ir.IRModelDef, 0, len(in.ModelDefs))
	for _, def := range in.ModelDefs {
		if predefined.Contains(def.Name) {
			continue
		}
		out = append(out, def)
	}
	return out
}
