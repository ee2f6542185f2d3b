package openapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/oaspipe/sdkgen/pkg/errs"
)

const validSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Test API", "version": "1.0.0"},
  "servers": [{"url": "https://api.example.com"}],
  "paths": {}
}`

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	doc, err := Load(context.Background(), writeSpec(t, validSpec))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.OpenAPI != "3.0.3" {
		t.Errorf("version = %q", doc.OpenAPI)
	}
	if doc.BundleFallback {
		t.Error("a clean load must not record a bundle fallback")
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	var inputErr *errs.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
}

func TestLoadRejectsUnsupportedVersions(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"3.0.0", true},
		{"3.0.3", true},
		{"3.1.0", true},
		{"3.1.1", false},
		{"2.0", false},
		{"4.0.0", false},
	}
	for _, test := range tests {
		if err := requireSupportedVersion(test.version); (err == nil) != test.ok {
			t.Errorf("requireSupportedVersion(%q): ok = %v, expected %v", test.version, err == nil, test.ok)
		}
	}
}

func TestLoadUnsupportedVersionFromFile(t *testing.T) {
	spec := `{"openapi": "2.0", "info": {"title": "t", "version": "1"}, "paths": {}}`
	_, err := Load(context.Background(), writeSpec(t, spec))
	var inputErr *errs.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError for unsupported version, got %v", err)
	}
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(validSpec))
	}))
	defer srv.Close()

	doc, err := Load(context.Background(), srv.URL+"/openapi.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Info == nil || doc.Info.Title != "Test API" {
		t.Errorf("info = %+v", doc.Info)
	}
}

func TestLoadFromURLNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL+"/openapi.json")
	var inputErr *errs.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError for a 500, got %v", err)
	}
}

func TestToIRDocument(t *testing.T) {
	doc, err := Load(context.Background(), writeSpec(t, validSpec))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out := ToIRDocument(doc)
	if out.Version != "3.0.3" || out.Title != "Test API" {
		t.Errorf("retained view = %+v", out)
	}
	if len(out.Servers) != 1 || out.Servers[0] != "https://api.example.com" {
		t.Errorf("servers = %v", out.Servers)
	}
}
