package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("writing empty file: %v", err)
	}
	t.Setenv("STAFFMATCH_TEST_KEY", " from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		wantErr bool
	}{
		{name: "file wins", src: Source{File: keyFile, Env: "STAFFMATCH_TEST_KEY", Value: "inline"}, expect: "from-file"},
		{name: "env before value", src: Source{Env: "STAFFMATCH_TEST_KEY", Value: "inline"}, expect: "from-env"},
		{name: "inline value", src: Source{Env: "STAFFMATCH_UNSET_KEY", Value: " inline "}, expect: "inline"},
		{name: "empty file", src: Source{Name: "api key", File: emptyFile, Value: "inline"}, wantErr: true},
		{name: "missing file", src: Source{File: filepath.Join(dir, "nope")}, wantErr: true},
		{name: "nothing configured", src: Source{Name: "api key"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestLoadOptional(t *testing.T) {
	got, err := LoadOptional(Source{Name: "redis password"})
	if err != nil || got != "" {
		t.Fatalf("expected empty secret without error, got %q, %v", got, err)
	}

	_, err = Load(Source{Name: "redis password"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	if _, err := LoadOptional(Source{File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatalf("expected read errors to surface")
	}
}
