package typescript

import (
	"strings"
	"testing"

	"github.com/oaspipe/sdkgen/pkg/genutil"
	"github.com/oaspipe/sdkgen/pkg/ir"
)

func TestZodExprShapes(t *testing.T) {
	str := ir.IRSchema{Kind: ir.IRKindString}
	num := ir.IRSchema{Kind: ir.IRKindNumber}

	tests := []struct {
		name     string
		schema   ir.IRSchema
		expected string
	}{
		{"string", str, "z.string()"},
		{"binary", ir.IRSchema{Kind: ir.IRKindString, Format: "binary"}, "z.instanceof(Blob)"},
		{"nullable number", ir.IRSchema{Kind: ir.IRKindNumber, Nullable: true}, "z.number().nullable()"},
		{"array", ir.IRSchema{Kind: ir.IRKindArray, Items: &str}, "z.array(z.string())"},
		{"ref is lazy", ir.IRSchema{Kind: ir.IRKindRef, Ref: "User"}, "z.lazy(() => UserSchema)"},
		{"string enum", ir.IRSchema{Kind: ir.IRKindEnum, EnumBase: ir.IRKindString, EnumValues: []string{"a", "b"}}, `z.enum(["a", "b"])`},
		{"oneOf union", ir.IRSchema{Kind: ir.IRKindOneOf, OneOf: []*ir.IRSchema{&str, &num}}, "z.union([z.string(), z.number()])"},
		{"allOf intersection", ir.IRSchema{Kind: ir.IRKindAllOf, AllOf: []*ir.IRSchema{&str, &num}}, "z.string().and(z.number())"},
		{"single-branch union collapses", ir.IRSchema{Kind: ir.IRKindAnyOf, AnyOf: []*ir.IRSchema{&str}}, "z.string()"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := zodExpr(test.schema, nil); got != test.expected {
				t.Errorf("zodExpr = %q, expected %q", got, test.expected)
			}
		})
	}
}

func TestZodObjectOptionalAndCatchall(t *testing.T) {
	str := ir.IRSchema{Kind: ir.IRKindString}
	s := ir.IRSchema{
		Kind: ir.IRKindObject,
		Properties: []ir.IRField{
			{Name: "id", Type: &str, Required: true},
			{Name: "nick", Type: &str, Required: false},
		},
		AdditionalProperties: &str,
	}
	got := zodExpr(s, nil)
	if !strings.Contains(got, "id: z.string(),") {
		t.Errorf("required field wrong: %q", got)
	}
	if !strings.Contains(got, "nick: z.string().optional(),") {
		t.Errorf("optional field wrong: %q", got)
	}
	if !strings.HasSuffix(got, ".catchall(z.string())") {
		t.Errorf("additionalProperties must become catchall: %q", got)
	}
}

// Predefined types belong to an external package; no runtime schema exists for them.
func TestZodExprPredefinedRefIsUnknown(t *testing.T) {
	pre := genutil.PredefinedSet{"ResourceType": "@acme/types"}
	got := zodExpr(ir.IRSchema{Kind: ir.IRKindRef, Ref: "ResourceType"}, pre)
	if got != "z.unknown()" {
		t.Errorf("zodExpr = %q, expected z.unknown()", got)
	}
}

func TestValidationDecl(t *testing.T) {
	def := ir.IRModelDef{Name: "Status", Schema: ir.IRSchema{
		Kind: ir.IRKindEnum, EnumBase: ir.IRKindString, EnumValues: []string{"on"},
	}}
	got := validationDecl(def, nil)
	if got != `export const StatusSchema = z.enum(["on"]);` {
		t.Errorf("validationDecl = %q", got)
	}
}
