package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvOptionsFile names the environment variable that points at an options
// file.
const EnvOptionsFile = "STYLEFMT_OPTIONS"

// DefaultFileName is looked up in the home directory when EnvOptionsFile is
// not set.
const DefaultFileName = ".stylefmt.yaml"

// DefaultFilePath returns the options file to load, or "" when there is
// none.
func DefaultFilePath() string {
	if p := os.Getenv(EnvOptionsFile); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, DefaultFileName)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// LoadFile reads a YAML options file on top of base. Keys missing from the
// file keep their base value. Unknown keys are an error.
func LoadFile(path string, base Options) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading options file: %w", err)
	}
	opts, err := Parse(data, base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Parse decodes YAML options on top of base.
func Parse(data []byte, base Options) (Options, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	opts := base
	if err := dec.Decode(&opts); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return base, fmt.Errorf("decoding options: %w", err)
	}
	return opts, nil
}

// Marshal renders options as YAML, suitable for an options file.
func Marshal(o Options) ([]byte, error) {
	return yaml.Marshal(o)
}
