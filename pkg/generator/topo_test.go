package generator

import (
	"testing"

	"github.com/oaspipe/sdkgen/pkg/ir"
)

func indexOf(defs []ir.IRModelDef, name string) int {
	for i, d := range defs {
		if d.Name == name {
			return i
		}
	}
	return -1
}

func TestTopoSortDependencyBeforeDependent(t *testing.T) {
	leaf := ir.IRSchema{Kind: ir.IRKindString}
	refB := ir.IRSchema{Kind: ir.IRKindRef, Ref: "Base"}
	defs := []ir.IRModelDef{
		{Name: "Aggregate", Schema: ir.IRSchema{Kind: ir.IRKindObject, Properties: []ir.IRField{{Name: "b", Type: &refB, Required: true}}}},
		{Name: "Base", Schema: leaf},
	}
	sorted, hadCycle := topoSortModelDefs(defs)
	if hadCycle {
		t.Fatal("no cycle expected")
	}
	if indexOf(sorted, "Base") > indexOf(sorted, "Aggregate") {
		t.Errorf("Base must precede Aggregate: %v", namesOf(sorted))
	}
}

func TestTopoSortStableOnIndependentDefs(t *testing.T) {
	defs := []ir.IRModelDef{
		{Name: "Zebra", Schema: ir.IRSchema{Kind: ir.IRKindString}},
		{Name: "Apple", Schema: ir.IRSchema{Kind: ir.IRKindString}},
		{Name: "Mango", Schema: ir.IRSchema{Kind: ir.IRKindString}},
	}
	sorted, _ := topoSortModelDefs(defs)
	got := namesOf(sorted)
	want := []string{"Apple", "Mango", "Zebra"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("independent defs must come out in name order: %v", got)
		}
	}
}

func TestTopoSortCycleFallsBackToNameOrder(t *testing.T) {
	refA := ir.IRSchema{Kind: ir.IRKindRef, Ref: "A"}
	refB := ir.IRSchema{Kind: ir.IRKindRef, Ref: "B"}
	defs := []ir.IRModelDef{
		{Name: "B", Schema: ir.IRSchema{Kind: ir.IRKindObject, Properties: []ir.IRField{{Name: "a", Type: &refA}}}},
		{Name: "A", Schema: ir.IRSchema{Kind: ir.IRKindObject, Properties: []ir.IRField{{Name: "b", Type: &refB}}}},
	}
	sorted, hadCycle := topoSortModelDefs(defs)
	if !hadCycle {
		t.Fatal("cycle must be reported")
	}
	if len(sorted) != 2 {
		t.Fatalf("all defs must survive a cycle: %v", namesOf(sorted))
	}
	if sorted[0].Name != "A" || sorted[1].Name != "B" {
		t.Errorf("cyclic subset must stabilize on name order: %v", namesOf(sorted))
	}
}

func TestTopoSortChainThroughArrayItems(t *testing.T) {
	refInner := ir.IRSchema{Kind: ir.IRKindRef, Ref: "Inner"}
	defs := []ir.IRModelDef{
		{Name: "Outer", Schema: ir.IRSchema{Kind: ir.IRKindArray, Items: &refInner}},
		{Name: "Inner", Schema: ir.IRSchema{Kind: ir.IRKindInteger}},
	}
	sorted, hadCycle := topoSortModelDefs(defs)
	if hadCycle {
		t.Fatal("no cycle expected")
	}
	if indexOf(sorted, "Inner") > indexOf(sorted, "Outer") {
		t.Errorf("Inner must precede Outer: %v", namesOf(sorted))
	}
}

func namesOf(defs []ir.IRModelDef) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Name)
	}
	return out
}
