package util

import (
	"fmt"
	"path"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const uniquePrefixLength = 12

func GenerateNChar(n int) (string, error) {
	return gonanoid.New(n)
}

// Example output for "ex.txt": "V1StGXR8_Z5j_ex.txt"
func AddUniquePrefixToFileName(fileName string) (string, error) {
	prefix, err := GenerateNChar(uniquePrefixLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, fileName), nil
}

// ToObjectKey places a uniquely prefixed copy of the base name under dir.
// e.g. ToObjectKey("tasks/42", "../a b.pdf") -> "tasks/42/<prefix>_a b.pdf"
func ToObjectKey(dir string, fileName string) (string, error) {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" {
		base = "file"
	}

	name, err := AddUniquePrefixToFileName(base)
	if err != nil {
		return "", err
	}

	if dir == "" {
		return name, nil
	}
	return path.Join(dir, name), nil
}
