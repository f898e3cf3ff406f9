package io

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	symerr "github.com/matzehuels/symtower/pkg/errors"
)

// Format is a serialization format.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	}
	return "unknown"
}

// ParseFormat parses a format name as used by the --format flags.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return 0, symerr.New(symerr.ErrCodeInvalidFormat, "unknown format %q (want toml, yaml or json)", s)
}

// FormatFromPath selects the format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, symerr.New(symerr.ErrCodeInvalidFormat, "cannot detect format of %q", path)
	}
	return ParseFormat(ext)
}

func decode(r io.Reader, f Format, v any) error {
	switch f {
	case FormatTOML:
		_, err := toml.NewDecoder(r).Decode(v)
		return err
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		return dec.Decode(v)
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	}
	return symerr.New(symerr.ErrCodeInvalidFormat, "unknown format %d", int(f))
}

func encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return symerr.New(symerr.ErrCodeInvalidFormat, "unknown format %d", int(f))
}
