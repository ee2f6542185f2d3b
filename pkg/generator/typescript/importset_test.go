package typescript

import (
	"testing"

	"github.com/oaspipe/sdkgen/pkg/genutil"
	"github.com/oaspipe/sdkgen/pkg/ir"
)

func predefinedForTest() genutil.PredefinedSet {
	return genutil.PredefinedSet{"ResourceType": "@acme/types"}
}

// A predefined type appearing only in a path-parameter position forces exactly one
// import in the service file, from the declared package.
func TestServiceImportsPredefinedPathParamOnly(t *testing.T) {
	svc := ir.IRService{
		Tag: "resources",
		Operations: []ir.IROperation{{
			Method: "GET",
			Path:   "/resources/{type}",
			PathParams: []ir.IRParam{
				{Name: "type", Schema: ir.IRSchema{Kind: ir.IRKindRef, Ref: "ResourceType"}},
			},
		}},
	}
	got := servicePredefinedImports(svc, predefinedForTest())
	if len(got) != 1 || got[0].Package != "@acme/types" {
		t.Fatalf("imports = %+v, expected one import from @acme/types", got)
	}
	if len(got[0].Types) != 1 || got[0].Types[0] != "ResourceType" {
		t.Errorf("types = %v, expected [ResourceType]", got[0].Types)
	}
}

// A predefined type referenced only through a schema-file interface (query, body,
// response) does not appear as an import in the consuming service file: those
// positions route through the Schema namespace, which re-exports it.
func TestServiceImportsIgnoreQueryBodyResponsePositions(t *testing.T) {
	pre := predefinedForTest()
	svc := ir.IRService{
		Tag: "resources",
		Operations: []ir.IROperation{{
			Method: "POST",
			Path:   "/resources",
			QueryParams: []ir.IRParam{
				{Name: "kind", Schema: ir.IRSchema{Kind: ir.IRKindRef, Ref: "ResourceType"}},
			},
			RequestBody: &ir.IRRequestBody{
				ContentType: "application/json",
				Schema:      ir.IRSchema{Kind: ir.IRKindRef, Ref: "ResourceType"},
			},
			Response: ir.IRResponse{Schema: ir.IRSchema{Kind: ir.IRKindRef, Ref: "ResourceType"}},
		}},
	}
	if got := servicePredefinedImports(svc, pre); len(got) != 0 {
		t.Errorf("no imports expected for query/body/response positions, got %+v", got)
	}
}

// schema.ts re-exports every predefined type referenced from model properties or
// query interfaces.
func TestSchemaReexportsPredefinedTypes(t *testing.T) {
	pre := predefinedForTest()
	refPre := ir.IRSchema{Kind: ir.IRKindRef, Ref: "ResourceType"}
	in := ir.IR{
		ModelDefs: []ir.IRModelDef{{
			Name: "Resource",
			Schema: ir.IRSchema{
				Kind:       ir.IRKindObject,
				Properties: []ir.IRField{{Name: "type", Type: &refPre, Required: true}},
			},
		}},
	}
	got := schemaPredefinedImports(in, pre)
	if len(got) != 1 || got[0].Package != "@acme/types" || got[0].Types[0] != "ResourceType" {
		t.Fatalf("schema re-exports = %+v", got)
	}
}

// A component that shares a predefined type's name is not emitted; the external
// package owns it.
func TestEmittedModelDefsSkipsPredefinedNames(t *testing.T) {
	in := ir.IR{ModelDefs: []ir.IRModelDef{
		{Name: "ResourceType", Schema: ir.IRSchema{Kind: ir.IRKindString}},
		{Name: "Resource", Schema: ir.IRSchema{Kind: ir.IRKindObject}},
	}}
	got := emittedModelDefs(in, predefinedForTest())
	if len(got) != 1 || got[0].Name != "Resource" {
		t.Errorf("emitted defs = %+v, expected only Resource", got)
	}
}
