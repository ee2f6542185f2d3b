// Package ir defines the language-agnostic intermediate representation that sits between
// the OpenAPI front-half (loader, schema converter, IR builder) and the template-driven
// emitters. Nothing in this package knows about any target language.
package ir

// StreamingFormat names the wire framing of a streaming response.
type StreamingFormat string

const (
	StreamingNone    StreamingFormat = ""
	StreamingSSE     StreamingFormat = "sse"
	StreamingNDJSON  StreamingFormat = "ndjson"
	StreamingChunked StreamingFormat = "chunked"
)

// IROperation represents a single API operation (endpoint + method).
type IROperation struct {
	OperationID string
	Method      string
	Path        string
	// Tag is the single service this operation is placed under.
	Tag string
	// OriginalTags preserves the full tag set declared on the operation, used for
	// tag-filter evaluation even after Tag has been pinned to one bucket.
	OriginalTags []string
	Summary      string
	Description  string
	Deprecated   bool
	PathParams   []IRParam
	QueryParams  []IRParam
	RequestBody  *IRRequestBody
	Response     IRResponse
}

// IRService represents a group of operations, grouped by tag.
type IRService struct {
	Tag        string
	Operations []IROperation
}

// IR represents the complete intermediate representation of an OpenAPI spec.
type IR struct {
	Services        []IRService
	SecuritySchemes []IRSecurityScheme
	ModelDefs       []IRModelDef
	// OpenAPIDocument is retained only for server URL extraction by emitters; the IR
	// builder and filter stages never read it.
	OpenAPIDocument *Document
}

// Document is the minimal retained view of an OpenAPI document.
type Document struct {
	Version        string
	Title          string
	DocDescription string
	Servers        []string
	// BundleFallback records whether the loader had to fall back to a full
	// dereference pass because bundling (which preserves internal
	// #/components/schemas refs) failed. No pipeline stage reads it: the
	// structural-identity check during inline schema extraction runs either way.
	BundleFallback bool
}

// IRParam represents a parameter (path or query).
type IRParam struct {
	Name        string
	Required    bool
	Schema      IRSchema
	Description string
}

// IRRequestBody represents the single request body chosen for an operation.
type IRRequestBody struct {
	ContentType string
	Required    bool
	Schema      IRSchema
}

// IRResponse represents the single response chosen for an operation.
type IRResponse struct {
	Schema          IRSchema
	ContentType     string
	Description     string
	IsVoid          bool
	IsStreaming     bool
	StreamingFormat StreamingFormat
}

// IRModelDef represents a named model rendered in the output: either a component schema
// or an emitter-extracted inline schema. Names are unique within an IR.
type IRModelDef struct {
	Name        string
	Schema      IRSchema
	Annotations IRAnnotations
}

// IRAnnotations captures non-structural metadata some generators render as doc comments.
type IRAnnotations struct {
	Title       string
	Description string
	Deprecated  bool
	ReadOnly    bool
	WriteOnly   bool
	Default     any
	Examples    []any
}

// IRSchemaKind is the tagged-union discriminant for IRSchema.
type IRSchemaKind string

const (
	IRKindUnknown IRSchemaKind = "unknown"
	IRKindString  IRSchemaKind = "string"
	IRKindNumber  IRSchemaKind = "number"
	IRKindInteger IRSchemaKind = "integer"
	IRKindBoolean IRSchemaKind = "boolean"
	IRKindNull    IRSchemaKind = "null"
	IRKindArray   IRSchemaKind = "array"
	IRKindObject  IRSchemaKind = "object"
	IRKindEnum    IRSchemaKind = "enum"
	IRKindRef     IRSchemaKind = "ref"
	IRKindOneOf   IRSchemaKind = "oneOf"
	IRKindAnyOf   IRSchemaKind = "anyOf"
	IRKindAllOf   IRSchemaKind = "allOf"
	IRKindNot     IRSchemaKind = "not"
)

// IRSchema models one node of the version-folded schema algebra. Exactly one group of
// kind-specific fields is populated, selected by Kind; callers should never read a
// kind-specific field without checking Kind first.
type IRSchema struct {
	Kind     IRSchemaKind
	Nullable bool
	Format   string

	// Object
	Properties           []IRField
	AdditionalProperties *IRSchema

	// Array
	Items *IRSchema

	// Enum
	EnumValues []string
	EnumRaw    []any
	EnumBase   IRSchemaKind

	// Ref: a bare model name, resolved inside IR.ModelDefs.
	Ref string

	// Compositions
	OneOf []*IRSchema
	AnyOf []*IRSchema
	AllOf []*IRSchema
	Not   *IRSchema

	Discriminator *IRDiscriminator
}

// IRField is a single property of an object schema.
type IRField struct {
	Name        string
	Type        *IRSchema
	Required    bool
	Annotations IRAnnotations
}

// IRDiscriminator represents oneOf/anyOf polymorphism discriminator information.
type IRDiscriminator struct {
	PropertyName string
	Mapping      map[string]string
}

// IRSecurityScheme captures a simplified view of an OpenAPI security scheme.
type IRSecurityScheme struct {
	Key          string
	Type         string
	Scheme       string
	In           string
	Name         string
	BearerFormat string
}
