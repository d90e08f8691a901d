package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	errs "igprofile/pkg/errors"
	"igprofile/pkg/models"
)

// Supported document formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// EncodeProfile renders p with two-space indentation in the given format.
func EncodeProfile(p *models.Profile, format string) ([]byte, error) {
	var buf bytes.Buffer

	switch strings.ToLower(format) {
	case "", FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("failed to encode profile as JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("failed to encode profile as YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode profile as YAML: %w", err)
		}
	default:
		return nil, errs.New(errs.ErrorTypeConfig, fmt.Sprintf("unsupported output format %q", format), nil)
	}

	return buf.Bytes(), nil
}

// WriteProfile encodes p and replaces the file at path, creating parent
// directories as needed.
func WriteProfile(path string, p *models.Profile, format string) error {
	data, err := EncodeProfile(p, format)
	if err != nil {
		return err
	}
	if err := writeAtomic(path, bytes.NewReader(data)); err != nil {
		return errs.New(errs.ErrorTypeStorage, fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
