package util

import (
	"strings"
	"testing"
)

func TestGenerateNChar(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"Generate 5 characters", 5, false},
		{"Generate 12 characters", 12, false},
		{"Generate negative characters", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateNChar(tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateNChar() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(got) != tt.n {
				t.Errorf("GenerateNChar() got = %v, want length %v", got, tt.n)
			}
		})
	}
}

func TestAddUniquePrefixToFileName(t *testing.T) {
	a, err := AddUniquePrefixToFileName("testfile.txt")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := AddUniquePrefixToFileName("testfile.txt")

	if !strings.HasSuffix(a, "_testfile.txt") {
		t.Errorf("Expected filename to have unique prefix, got %s", a)
	}
	if len(a) != uniquePrefixLength+len("_testfile.txt") {
		t.Errorf("unexpected prefix length in %s", a)
	}
	if a == b {
		t.Errorf("two calls produced the same name %s", a)
	}
}

func TestToObjectKey(t *testing.T) {
	tests := []struct {
		name       string
		dir        string
		fileName   string
		wantPrefix string
		wantSuffix string
	}{
		{"plain", "tasks/42", "report.pdf", "tasks/42/", "_report.pdf"},
		{"traversal", "tasks/42", "../../etc/passwd.txt", "tasks/42/", "_passwd.txt"},
		{"windows path", "tasks/42", `C:\docs\lab.docx`, "tasks/42/", "_lab.docx"},
		{"no dir", "", "a.zip", "", "_a.zip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToObjectKey(tt.dir, tt.fileName)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(got, tt.wantPrefix) || !strings.HasSuffix(got, tt.wantSuffix) {
				t.Errorf("ToObjectKey(%q, %q) = %q", tt.dir, tt.fileName, got)
			}
			if strings.Contains(got, "..") {
				t.Errorf("key escapes dir: %q", got)
			}
		})
	}
}
