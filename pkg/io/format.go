package io

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/barchart/pkg/errors"
)

// Format is a chart definition encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var formatsByExt = map[string]Format{
	".toml": FormatTOML,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
}

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatsByExt[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown chart file extension %q (want .toml, .yaml, .yml or .json)", ext)
}

// Extensions returns the recognised chart file extensions without the dot,
// sorted.
func Extensions() []string {
	exts := make([]string, 0, len(formatsByExt))
	for ext := range formatsByExt {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	slices.Sort(exts)
	return exts
}

// ParseFormat parses a format name such as "toml" or "yml".
func ParseFormat(name string) (Format, error) {
	return FormatFromPath("." + name)
}
