package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML bench. Unknown fields are rejected.
func ParseYAML(filename string, src []byte) (*Bench, error) {
	var b Bench
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Code: ErrCodeSchema, Message: "empty bench file", File: filename}
		}
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, &ParseError{Code: ErrCodeSchema, Message: strings.Join(typeErr.Errors, "; "), File: filename}
		}
		return nil, &ParseError{Code: ErrCodeSyntax, Message: err.Error(), File: filename}
	}
	return &b, nil
}

// ParseJSON parses a JSON bench. Unknown fields are rejected.
func ParseJSON(filename string, src []byte) (*Bench, error) {
	var b Bench
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ParseError{Code: ErrCodeSyntax, Message: err.Error(), File: filename}
		}
		return nil, &ParseError{Code: ErrCodeSchema, Message: err.Error(), File: filename}
	}
	return &b, nil
}

// Parser parses bench source read from filename.
type Parser func(filename string, src []byte) (*Bench, error)

var parsers = map[string]Parser{
	".cue":  ParseCUE,
	".hcl":  ParseHCL,
	".yaml": ParseYAML,
	".yml":  ParseYAML,
	".json": ParseJSON,
}

// Extensions returns the supported bench file extensions.
func Extensions() []string {
	return []string{".cue", ".hcl", ".json", ".yaml", ".yml"}
}

// Parse dispatches on the extension of filename.
func Parse(filename string, src []byte) (*Bench, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	parse, ok := parsers[ext]
	if !ok {
		return nil, &ParseError{
			Code:    ErrCodeUnsupportedFormat,
			Message: fmt.Sprintf("unsupported bench format %q (want one of %s)", ext, strings.Join(Extensions(), ", ")),
			File:    filename,
		}
	}
	b, err := parse(filename, src)
	if err != nil {
		return nil, err
	}
	b.Source = filename
	return b, nil
}

// LoadFile reads and parses the bench at path.
func LoadFile(path string) (*Bench, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Code: ErrCodeNotFound, Message: err.Error(), File: path}
	}
	b, err := Parse(path, src)
	if err != nil {
		return nil, err
	}
	slog.Debug("bench loaded", "file", path, "bench", b.Name, "components", len(b.Components))
	return b, nil
}
