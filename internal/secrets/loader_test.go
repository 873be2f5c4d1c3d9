package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  secret-value\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(Source{Name: "token", File: path})
	if err != nil {
		t.Fatal(err)
	}
	if got != "secret-value" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(Source{Name: "token", File: path}); err == nil {
		t.Fatal("expected an error for an empty file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(Source{Name: "token", File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SECRETS_TEST_TOKEN", "env-value")

	got, err := Load(Source{Name: "token", Env: "SECRETS_TEST_TOKEN"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "env-value" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadFilePrecedesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("file-value"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SECRETS_TEST_TOKEN", "env-value")

	got, err := Load(Source{Name: "token", File: path, Env: "SECRETS_TEST_TOKEN"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "file-value" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadInlineValue(t *testing.T) {
	got, err := Load(Source{Name: "token", Value: " inline "})
	if err != nil {
		t.Fatal(err)
	}
	if got != "inline" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadNothingConfigured(t *testing.T) {
	if _, err := Load(Source{Name: "token"}); err == nil {
		t.Fatal("expected an error when nothing is configured")
	}
}
