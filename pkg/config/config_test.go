package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oaspipe/sdkgen/pkg/errs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sdkgen.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadNormalizesPathsAndSrcDir(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
spec: ./openapi.json
clients:
  - type: typescript
    name: web
    packageName: "@acme/web"
    outDir: ./sdk
    srcDir: ./src
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c := cfg.Clients[0]
	if !filepath.IsAbs(c.OutDir) {
		t.Errorf("outDir must be absolute: %q", c.OutDir)
	}
	if c.SrcDir != "src" {
		t.Errorf("leading ./ must be normalized away: %q", c.SrcDir)
	}
	if !filepath.IsAbs(cfg.Spec) {
		t.Errorf("file spec must be absolute: %q", cfg.Spec)
	}
}

func TestLoadKeepsURLSpec(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
spec: https://example.com/openapi.json
clients:
  - type: go
    name: gosdk
    packageName: gosdk
    outDir: ./sdk
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Spec != "https://example.com/openapi.json" {
		t.Errorf("URL specs must pass through untouched: %q", cfg.Spec)
	}
}

func TestLoadMissingRequiredFields(t *testing.T) {
	_, err := Load(writeConfig(t, `
spec: ./openapi.json
clients:
  - type: typescript
    outDir: ./sdk
`))
	var cfgErr *errs.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestLoadMissingSpec(t *testing.T) {
	_, err := Load(writeConfig(t, `
clients: []
`))
	var cfgErr *errs.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for a missing spec, got %v", err)
	}
}

func TestFormatCodeDefaultsTrue(t *testing.T) {
	c := Client{}
	if !c.FormatCode() {
		t.Error("formatCode must default to true")
	}
	off := false
	c.FormatCodePtr = &off
	if c.FormatCode() {
		t.Error("explicit false must win")
	}
}

func TestShouldExcludeFile(t *testing.T) {
	c := Client{
		OutDir:  "/out",
		Exclude: []string{"package.json", "src/services"},
	}
	tests := []struct {
		path     string
		expected bool
	}{
		{"/out/package.json", true},
		{"/out/src/services/users.ts", true},
		{"/out/src/client.ts", false},
		{"/out/tsconfig.json", false},
	}
	for _, test := range tests {
		if got := c.ShouldExcludeFile(test.path); got != test.expected {
			t.Errorf("ShouldExcludeFile(%q) = %v, expected %v", test.path, got, test.expected)
		}
	}
}

func TestEffectiveSrcDirDefault(t *testing.T) {
	c := Client{}
	if c.EffectiveSrcDir() != "src" {
		t.Errorf("default srcDir = %q, expected src", c.EffectiveSrcDir())
	}
}
