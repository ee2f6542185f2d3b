package typescript

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/oaspipe/sdkgen/pkg/config"
	"github.com/oaspipe/sdkgen/pkg/ir"
)

func testIR() ir.IR {
	str := ir.IRSchema{Kind: ir.IRKindString}
	userRef := ir.IRSchema{Kind: ir.IRKindRef, Ref: "User"}
	return ir.IR{
		Services: []ir.IRService{{
			Tag: "users",
			Operations: []ir.IROperation{{
				OperationID: "listUsers",
				Method:      "GET",
				Path:        "/users",
				Tag:         "users",
				Response: ir.IRResponse{
					Schema:      ir.IRSchema{Kind: ir.IRKindArray, Items: &userRef},
					ContentType: "application/json",
				},
			}},
		}},
		ModelDefs: []ir.IRModelDef{{
			Name: "User",
			Schema: ir.IRSchema{
				Kind:       ir.IRKindObject,
				Properties: []ir.IRField{{Name: "id", Type: &str, Required: true}},
			},
		}},
		OpenAPIDocument: &ir.Document{Title: "Test API", Version: "3.0.3"},
	}
}

func testClient(t *testing.T) config.Client {
	noFormat := false
	return config.Client{
		Type:          "typescript",
		Name:          "TestClient",
		PackageName:   "test-client",
		OutDir:        t.TempDir(),
		FormatCodePtr: &noFormat,
	}
}

func TestGenerateWritesExpectedTree(t *testing.T) {
	client := testClient(t)
	g := NewGenerator()
	if err := g.Generate(client, testIR()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, rel := range []string{
		"src/client.ts", "src/index.ts", "src/schema.ts", "src/schema.validation.ts",
		"src/utils.ts", "src/services/users.ts",
		"package.json", "tsconfig.json", "README.md",
	} {
		if _, err := os.Stat(filepath.Join(client.OutDir, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
}

// Re-running generate overwrites everything except index.ts, which is preserved
// byte-identically once a user has had a chance to edit it.
func TestGeneratePreservesExistingIndex(t *testing.T) {
	client := testClient(t)
	g := NewGenerator()
	if err := g.Generate(client, testIR()); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	indexPath := filepath.Join(client.OutDir, "src", "index.ts")
	custom := []byte("// hand edited\nexport {};\n")
	if err := os.WriteFile(indexPath, custom, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := g.Generate(client, testIR()); err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	got, err := os.ReadFile(indexPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, custom) {
		t.Errorf("index.ts was overwritten:\n%s", got)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	client := testClient(t)
	g := NewGenerator()
	if err := g.Generate(client, testIR()); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	schemaPath := filepath.Join(client.OutDir, "src", "schema.ts")
	first, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Generate(client, testIR()); err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	second, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two runs over identical input must produce byte-identical output")
	}
}

func TestGenerateHonorsExcludeList(t *testing.T) {
	client := testClient(t)
	client.Exclude = []string{"package.json"}
	g := NewGenerator()
	if err := g.Generate(client, testIR()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(client.OutDir, "package.json")); !os.IsNotExist(err) {
		t.Error("excluded package.json must not be written")
	}
}
