package generator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaspipe/sdkgen/pkg/config"
	"github.com/oaspipe/sdkgen/pkg/errs"
	"github.com/oaspipe/sdkgen/pkg/genutil"
	"github.com/oaspipe/sdkgen/pkg/ir"
	"github.com/oaspipe/sdkgen/pkg/openapi"
)

var httpMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD", "TRACE"}

// classifyStreaming maps a response content type to its wire framing. Matched in
// order; the generic "stream" / "chunked" substring check is the fallback for
// vendor-specific content types.
func classifyStreaming(contentType string) ir.StreamingFormat {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "text/event-stream"):
		return ir.StreamingSSE
	case strings.Contains(ct, "application/x-ndjson"),
		strings.Contains(ct, "application/jsonl"),
		strings.Contains(ct, "application/x-jsonlines"):
		return ir.StreamingNDJSON
	case strings.Contains(ct, "stream"), strings.Contains(ct, "chunked"):
		return ir.StreamingChunked
	default:
		return ir.StreamingNone
	}
}

// buildIR converts a loaded OpenAPI document into the full, unfiltered IR: every
// operation, every component schema, with inline schemas extracted and named, and
// unreachable models already swept out against the full (unfiltered) operation set.
// Per-client tag filtering happens afterward in filterIR, re-running GC against the
// narrower operation set.
func buildIR(doc *openapi.Document) (ir.IR, error) {
	reg := newModelRegistry()
	ctx := &extractionContext{registry: reg}

	buildComponentModels(doc.T, ctx)

	services := buildServices(doc.T, ctx)

	result := ir.IR{
		Services:        services,
		SecuritySchemes: collectSecuritySchemes(doc.T),
		ModelDefs:       reg.defs,
		OpenAPIDocument: openapi.ToIRDocument(doc),
	}
	result.ModelDefs = gcModelDefs(result.Services, result.ModelDefs)
	if name, bad := findUnresolvedRef(result.Services, result.ModelDefs); bad {
		return ir.IR{}, &errs.IRError{Subject: name, Cause: fmt.Errorf("schema reference does not resolve to any model")}
	}
	sorted, _ := topoSortModelDefs(result.ModelDefs)
	result.ModelDefs = sorted
	return result, nil
}

// filterIR narrows a built IR down to one client's tag scope, then
// re-runs garbage collection since excluded operations may have been the sole
// reachability root for some models. Retained operations are re-bucketed under the
// first of their original tags that passes the filters — the build-time bucket used
// the first declared tag, which the client's include patterns may reject.
func filterIR(full ir.IR, client config.Client) (ir.IR, error) {
	include, exclude, err := compileTagFilters(client.IncludeTags, client.ExcludeTags)
	if err != nil {
		return ir.IR{}, err
	}

	byTag := map[string]*ir.IRService{}
	for _, svc := range full.Services {
		for _, op := range svc.Operations {
			if !shouldIncludeOperation(op.OriginalTags, include, exclude) {
				continue
			}
			tag := retainedTag(op.OriginalTags, include, exclude)
			op.Tag = tag
			if _, ok := byTag[tag]; !ok {
				byTag[tag] = &ir.IRService{Tag: tag}
			}
			byTag[tag].Operations = append(byTag[tag].Operations, op)
		}
	}

	filtered := make([]ir.IRService, 0, len(byTag))
	for _, svc := range byTag {
		sort.Slice(svc.Operations, func(i, j int) bool {
			if svc.Operations[i].Path == svc.Operations[j].Path {
				return svc.Operations[i].Method < svc.Operations[j].Method
			}
			return svc.Operations[i].Path < svc.Operations[j].Path
		})
		filtered = append(filtered, *svc)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Tag < filtered[j].Tag })

	out := ir.IR{
		Services:        filtered,
		SecuritySchemes: full.SecuritySchemes,
		ModelDefs:       gcModelDefs(filtered, full.ModelDefs),
		OpenAPIDocument: full.OpenAPIDocument,
	}
	sorted, _ := topoSortModelDefs(out.ModelDefs)
	out.ModelDefs = sorted
	return out, nil
}

// retainedTag picks the service bucket for a retained operation: the first original
// tag that matches the include patterns (or any tag, when no includes are given) and
// is not excluded; misc when the operation has no surviving tag at all.
func retainedTag(originalTags []string, include, exclude []*regexp.Regexp) string {
	for _, tag := range originalTags {
		if tagMatchesAny(tag, exclude) {
			continue
		}
		if len(include) == 0 || tagMatchesAny(tag, include) {
			return tag
		}
	}
	return "misc"
}

// buildComponentModels converts every components.schemas entry into a registered model
// definition, expanding inline nested objects/enums along the way.
func buildComponentModels(doc *openapi3.T, ctx *extractionContext) {
	if doc.Components == nil || doc.Components.Schemas == nil {
		return
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sr := doc.Components.Schemas[name]
		schema := schemaToIR(sr)
		schema = ctx.expandInline(name, schema)
		ctx.registry.add(ir.IRModelDef{
			Name:        name,
			Schema:      schema,
			Annotations: extractAnnotations(sr),
		})
	}
}

func buildServices(doc *openapi3.T, ctx *extractionContext) []ir.IRService {
	servicesMap := map[string]*ir.IRService{}
	servicesMap["misc"] = &ir.IRService{Tag: "misc"}

	if doc.Paths != nil {
		paths := make([]string, 0)
		pathItems := map[string]*openapi3.PathItem{}
		for path, item := range doc.Paths.Map() {
			paths = append(paths, path)
			pathItems[path] = item
		}
		sort.Strings(paths)

		for _, path := range paths {
			item := pathItems[path]
			ops := []*openapi3.Operation{
				item.Get, item.Post, item.Put, item.Patch,
				item.Delete, item.Options, item.Head, item.Trace,
			}
			for i, op := range ops {
				if op == nil {
					continue
				}
				tag := firstTagOrMisc(op.Tags)
				if _, ok := servicesMap[tag]; !ok {
					servicesMap[tag] = &ir.IRService{Tag: tag}
				}
				irOp := buildOperation(doc, op, httpMethods[i], path, tag, ctx)
				servicesMap[tag].Operations = append(servicesMap[tag].Operations, irOp)
			}
		}
	}

	services := make([]ir.IRService, 0, len(servicesMap))
	for _, s := range servicesMap {
		sort.Slice(s.Operations, func(i, j int) bool {
			if s.Operations[i].Path == s.Operations[j].Path {
				return s.Operations[i].Method < s.Operations[j].Method
			}
			return s.Operations[i].Path < s.Operations[j].Path
		})
		services = append(services, *s)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Tag < services[j].Tag })
	return services
}

// firstTagOrMisc assigns an operation to its first declared tag, or "misc" when it
// has none; every operation lands in exactly one service bucket.
func firstTagOrMisc(tags []string) string {
	if len(tags) == 0 {
		return "misc"
	}
	return tags[0]
}

func buildOperation(doc *openapi3.T, op *openapi3.Operation, method, path, tag string, ctx *extractionContext) ir.IROperation {
	pathParams, queryParams := collectParams(op)

	irOp := ir.IROperation{
		OperationID:  op.OperationID,
		Method:       method,
		Path:         path,
		Tag:          tag,
		OriginalTags: op.Tags,
		Summary:      op.Summary,
		Description:  op.Description,
		Deprecated:   op.Deprecated,
		PathParams:   pathParams,
		QueryParams:  queryParams,
	}

	methodName := resolveMethodNameForBuild(op, method, path)

	if rb := extractRequestBody(op); rb != nil {
		rb.Schema = ctx.extractTopLevel(tag, methodName, "RequestBody", rb.Schema)
		irOp.RequestBody = rb
	}
	irOp.Response = extractResponse(op)
	irOp.Response.Schema = ctx.extractTopLevel(tag, methodName, "Response", irOp.Response.Schema)

	return irOp
}

// resolveMethodNameForBuild derives the method name used purely for synthetic inline
// model naming; genutil.ResolveMethodName (pkg/genutil/methodname.go) is also invoked again by each
// language emitter with the client-specific operationIdParser, since the IR builder has
// no client context yet and must pick a name before client fan-out.
func resolveMethodNameForBuild(op *openapi3.Operation, method, path string) string {
	return genutil.ResolveMethodName(config.Client{}, ir.IROperation{OperationID: op.OperationID, Method: method, Path: path})
}

func collectParams(op *openapi3.Operation) (pathParams, queryParams []ir.IRParam) {
	for _, pr := range op.Parameters {
		if pr == nil || pr.Value == nil {
			continue
		}
		p := pr.Value
		param := ir.IRParam{
			Name:        p.Name,
			Required:    p.Required,
			Schema:      schemaToIR(p.Schema),
			Description: p.Description,
		}
		switch p.In {
		case openapi3.ParameterInPath:
			pathParams = append(pathParams, param)
		case openapi3.ParameterInQuery:
			queryParams = append(queryParams, param)
		}
	}
	sort.Slice(pathParams, func(i, j int) bool { return pathParams[i].Name < pathParams[j].Name })
	sort.Slice(queryParams, func(i, j int) bool { return queryParams[i].Name < queryParams[j].Name })
	return
}

// extractRequestBody picks the one request body content type an operation will use,
// in fixed priority order: application/json, then application/x-www-form-urlencoded,
// then an opaque multipart/form-data placeholder, then the alphabetically first of the
// declared media types. Declaration order is not used: the parsed content map does not
// keep it.
func extractRequestBody(op *openapi3.Operation) *ir.IRRequestBody {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	rb := op.RequestBody.Value

	if media, ok := rb.Content["application/json"]; ok {
		return &ir.IRRequestBody{ContentType: "application/json", Required: rb.Required, Schema: schemaToIR(media.Schema)}
	}
	if media, ok := rb.Content["application/x-www-form-urlencoded"]; ok {
		return &ir.IRRequestBody{ContentType: "application/x-www-form-urlencoded", Required: rb.Required, Schema: schemaToIR(media.Schema)}
	}
	if _, ok := rb.Content["multipart/form-data"]; ok {
		return &ir.IRRequestBody{ContentType: "multipart/form-data", Required: rb.Required, Schema: ir.IRSchema{Kind: ir.IRKindUnknown}}
	}

	contentTypes := make([]string, 0, len(rb.Content))
	for ct := range rb.Content {
		contentTypes = append(contentTypes, ct)
	}
	sort.Strings(contentTypes)
	if len(contentTypes) == 0 {
		return nil
	}
	ct := contentTypes[0]
	return &ir.IRRequestBody{ContentType: ct, Required: rb.Required, Schema: schemaToIR(rb.Content[ct].Schema)}
}

// extractResponse picks the one response an operation will use: 200, then 201, then
// the first other 2xx in ascending order; 204 is always void regardless of position in
// that search. Streaming responses are detected from the chosen response's content
// type.
func extractResponse(op *openapi3.Operation) ir.IRResponse {
	if op.Responses == nil {
		return ir.IRResponse{IsVoid: true}
	}
	responses := op.Responses.Map()

	code, rr, ok := pickResponseCode(responses)
	if !ok {
		return ir.IRResponse{IsVoid: true}
	}
	return responseFromRef(code, rr)
}

func pickResponseCode(responses map[string]*openapi3.ResponseRef) (string, *openapi3.ResponseRef, bool) {
	for _, preferred := range []string{"200", "201"} {
		if rr, ok := responses[preferred]; ok && rr != nil && rr.Value != nil {
			return preferred, rr, true
		}
	}
	var codes []string
	for code, rr := range responses {
		if rr == nil || rr.Value == nil {
			continue
		}
		if len(code) == 3 && code[0] == '2' {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	if len(codes) > 0 {
		return codes[0], responses[codes[0]], true
	}
	return "", nil, false
}

func responseFromRef(code string, rr *openapi3.ResponseRef) ir.IRResponse {
	desc := ""
	if rr.Value.Description != nil {
		desc = *rr.Value.Description
	}
	if code == "204" || len(rr.Value.Content) == 0 {
		return ir.IRResponse{IsVoid: true, Description: desc}
	}

	contentType, media := pickResponseMedia(rr.Value.Content)
	format := classifyStreaming(contentType)
	return ir.IRResponse{
		Schema:          schemaToIR(media.Schema),
		ContentType:     contentType,
		Description:     desc,
		IsStreaming:     format != ir.StreamingNone,
		StreamingFormat: format,
	}
}

func pickResponseMedia(content openapi3.Content) (string, *openapi3.MediaType) {
	if media, ok := content["application/json"]; ok {
		return "application/json", media
	}
	cts := make([]string, 0, len(content))
	for ct := range content {
		cts = append(cts, ct)
	}
	sort.Strings(cts)
	return cts[0], content[cts[0]]
}

func collectSecuritySchemes(doc *openapi3.T) []ir.IRSecurityScheme {
	if doc.Components == nil || doc.Components.SecuritySchemes == nil {
		return nil
	}
	names := make([]string, 0, len(doc.Components.SecuritySchemes))
	for name := range doc.Components.SecuritySchemes {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]ir.IRSecurityScheme, 0, len(names))
	for _, name := range names {
		sr := doc.Components.SecuritySchemes[name]
		if sr == nil || sr.Value == nil {
			continue
		}
		s := sr.Value
		sc := ir.IRSecurityScheme{Key: name, Type: s.Type}
		switch s.Type {
		case "http":
			sc.Scheme = s.Scheme
			sc.BearerFormat = s.BearerFormat
		case "apiKey":
			sc.In = string(s.In)
			sc.Name = s.Name
		}
		out = append(out, sc)
	}
	return out
}
