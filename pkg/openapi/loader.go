// Package openapi loads and normalizes an OpenAPI 3.0/3.1 document: fetch or read it,
// bundle external references while preserving internal component refs, and reject
// unsupported versions.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaspipe/sdkgen/pkg/errs"
	"github.com/oaspipe/sdkgen/pkg/ir"
)

// fetchTimeout bounds the URL fetch in Load.
const fetchTimeout = 30 * time.Second

var supportedVersion = regexp.MustCompile(`^3\.0\.\d+$|^3\.1\.0$`)

// Document pairs the parsed kin-openapi document with the bundling metadata the rest of
// the pipeline needs (see ir.Document.BundleFallback).
type Document struct {
	*openapi3.T
	BundleFallback bool
}

// Load acquires an OpenAPI document from a filesystem path or an http(s) URL, bundles
// external references while preserving internal ones, and validates the declared
// version. It never round-trips back to the original bytes.
func Load(ctx context.Context, input string) (*Document, error) {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true, Context: ctx}

	doc, fellBack, err := loadWithLoader(ctx, loader, input)
	if err != nil {
		return nil, err
	}

	if err := requireSupportedVersion(doc.OpenAPI); err != nil {
		return nil, &errs.InputError{Input: input, Cause: err}
	}

	return &Document{T: doc, BundleFallback: fellBack}, nil
}

func loadWithLoader(ctx context.Context, loader *openapi3.Loader, input string) (*openapi3.T, bool, error) {
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		data, err := fetch(ctx, u.String())
		if err != nil {
			return nil, false, &errs.InputError{Input: input, Cause: err}
		}
		doc, err := loader.LoadFromData(data)
		if err != nil {
			return fallbackDereference(loader, data, input)
		}
		return doc, false, nil
	}

	if _, err := os.Stat(input); err != nil {
		return nil, false, &errs.InputError{Input: input, Cause: fmt.Errorf("not found: %w", err)}
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, false, &errs.InputError{Input: input, Cause: err}
	}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fallbackDereference(loader, data, input)
	}
	return doc, false, nil
}

// fallbackDereference retries with a fresh loader after bundling failed. A full
// dereference still produces a usable document; the caller only needs a record that
// this path was taken (Document.BundleFallback).
func fallbackDereference(_ *openapi3.Loader, data []byte, input string) (*openapi3.T, bool, error) {
	fresh := &openapi3.Loader{IsExternalRefsAllowed: true}
	doc, err := fresh.LoadFromData(data)
	if err != nil {
		return nil, false, &errs.InputError{Input: input, Cause: fmt.Errorf("invalid document: %w", err)}
	}
	return doc, true, nil
}

func fetch(ctx context.Context, uri string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", uri, resp.StatusCode)
	}

	buf := make([]byte, 0, 64*1024)
	tmp := make([]byte, 32*1024)
	for {
		n, rerr := resp.Body.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if rerr != nil {
			if errors.Is(rerr, context.DeadlineExceeded) {
				return nil, rerr
			}
			break
		}
	}
	return buf, nil
}

func requireSupportedVersion(version string) error {
	if !supportedVersion.MatchString(version) {
		return fmt.Errorf("unsupported OpenAPI version %q: only 3.0.x and 3.1.0 are supported", version)
	}
	return nil
}

// Validate validates an already-loaded document against the OpenAPI 3 schema.
func Validate(ctx context.Context, doc *Document) error {
	return doc.T.Validate(ctx)
}

// ToIRDocument extracts the minimal retained view of the document: only fields
// consumed downstream are kept.
func ToIRDocument(doc *Document) *ir.Document {
	out := &ir.Document{
		Version:        doc.OpenAPI,
		BundleFallback: doc.BundleFallback,
	}
	if doc.Info != nil {
		out.Title = doc.Info.Title
		out.DocDescription = doc.Info.Description
	}
	for _, s := range doc.Servers {
		if s != nil {
			out.Servers = append(out.Servers, s.URL)
		}
	}
	return out
}
