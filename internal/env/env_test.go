package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetters(t *testing.T) {
	t.Setenv("CT_TEST_STRING", "value")
	t.Setenv("CT_TEST_INT", "42")
	t.Setenv("CT_TEST_BAD_INT", "forty-two")
	t.Setenv("CT_TEST_BOOL", "true")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string present", GetString("CT_TEST_STRING", "fallback"), "value"},
		{"string missing", GetString("CT_TEST_MISSING", "fallback"), "fallback"},
		{"int present", GetInt("CT_TEST_INT", 1), 42},
		{"int malformed", GetInt("CT_TEST_BAD_INT", 1), 1},
		{"bool present", GetBool("CT_TEST_BOOL", false), true},
		{"bool missing", GetBool("CT_TEST_MISSING", true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CT_TEST_FROM_FILE=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("CT_TEST_FROM_FILE") })

	LoadEnv(path, filepath.Join(dir, "missing.env"))

	if got := GetString("CT_TEST_FROM_FILE", ""); got != "loaded" {
		t.Errorf("expected value from .env file, got %q", got)
	}
}
