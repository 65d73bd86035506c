// Tests for configuration and the credential store.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCredentialRoundTrip(t *testing.T) {
	cfg := Config{EnvFile: filepath.Join(t.TempDir(), "config.env")}

	if err := cfg.SaveCredential("sk-test-123"); err != nil {
		t.Fatalf("SaveCredential: %v", err)
	}
	got, err := cfg.LoadCredential()
	if err != nil {
		t.Fatalf("LoadCredential: %v", err)
	}
	if got != "sk-test-123" {
		t.Fatalf("unexpected credential: %q", got)
	}
}

func TestSaveCredentialCreatesParentDir(t *testing.T) {
	cfg := Config{EnvFile: filepath.Join(t.TempDir(), "nested", "config.env")}
	if err := cfg.SaveCredential("sk-abc"); err != nil {
		t.Fatalf("SaveCredential: %v", err)
	}
	if _, err := os.Stat(cfg.EnvFile); err != nil {
		t.Fatalf("env file missing: %v", err)
	}
}

func TestSaveCredentialPreservesOtherKeys(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{EnvFile: filepath.Join(dir, "config.env")}
	if err := os.WriteFile(cfg.EnvFile, []byte("OTHER_KEY=keepme\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := cfg.SaveCredential("sk-new"); err != nil {
		t.Fatalf("SaveCredential: %v", err)
	}

	data, err := os.ReadFile(cfg.EnvFile)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"OTHER_KEY", "keepme", "OPENAI_API_KEY", "sk-new"} {
		if !strings.Contains(content, want) {
			t.Fatalf("env file missing %q:\n%s", want, content)
		}
	}
}

func TestApplyFileOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := "model: gpt-custom\nbase_url: https://proxy.internal/v1\nmax_tool_rounds: 8\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Config{ConfigDir: dir, Model: DefaultModel}
	if err := cfg.applyFileOverrides(); err != nil {
		t.Fatalf("applyFileOverrides: %v", err)
	}
	if cfg.Model != "gpt-custom" {
		t.Fatalf("model not overridden: %q", cfg.Model)
	}
	if cfg.BaseURL != "https://proxy.internal/v1" {
		t.Fatalf("base_url not overridden: %q", cfg.BaseURL)
	}
	if cfg.MaxToolRounds != 8 {
		t.Fatalf("max_tool_rounds not overridden: %d", cfg.MaxToolRounds)
	}
}

func TestApplyFileOverridesMissingFile(t *testing.T) {
	cfg := Config{ConfigDir: t.TempDir(), Model: DefaultModel}
	if err := cfg.applyFileOverrides(); err != nil {
		t.Fatalf("missing config.yaml should not be an error: %v", err)
	}
	if cfg.Model != DefaultModel {
		t.Fatalf("model changed without overrides: %q", cfg.Model)
	}
}

func TestApplyFileOverridesMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("model: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Config{ConfigDir: dir}
	if err := cfg.applyFileOverrides(); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
