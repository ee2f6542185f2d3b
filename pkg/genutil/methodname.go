// Package genutil holds helpers shared between the core IR-building package and the
// per-language emitter packages, which cannot import the core package directly (it
// imports them, to build its generator Registry).
package genutil

import (
	"os/exec"
	"strings"

	"github.com/oaspipe/sdkgen/pkg/config"
	"github.com/oaspipe/sdkgen/pkg/ir"
	"github.com/oaspipe/sdkgen/pkg/utils"
)

// ResolveMethodName derives the generated method name for an operation: an optional
// external operationIdParser first, then the "Controller_" strip rule, then a REST
// heuristic. This single implementation is shared by every language generator.
func ResolveMethodName(client config.Client, op ir.IROperation) string {
	if client.OperationIDParser != "" {
		if out, err := exec.Command(client.OperationIDParser, op.OperationID, op.Method, op.Path).Output(); err == nil {
			if name := strings.TrimSpace(string(out)); name != "" {
				return utils.ToCamelCase(name)
			}
		}
	}
	if parsed := DefaultParseOperationID(op.OperationID); parsed != "" {
		return utils.ToCamelCase(parsed)
	}
	return DeriveMethodNameFromREST(op)
}

// DefaultParseOperationID strips any prefix up to and including "Controller_"; absent
// that marker, the operationId is returned as-is (possibly empty).
func DefaultParseOperationID(opID string) string {
	if opID == "" {
		return ""
	}
	if idx := strings.Index(opID, "Controller_"); idx >= 0 {
		return opID[idx+len("Controller_"):]
	}
	return opID
}

// DeriveMethodNameFromREST is the fallback when there is no operationId at all: a verb
// derived from the HTTP method and whether the path has a templated segment.
func DeriveMethodNameFromREST(op ir.IROperation) string {
	hasPathParam := strings.Contains(op.Path, "{") && strings.Contains(op.Path, "}")
	switch op.Method {
	case "GET":
		if hasPathParam {
			return "get"
		}
		return "list"
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return strings.ToLower(op.Method)
	}
}
