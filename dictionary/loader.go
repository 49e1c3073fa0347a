package dictionary

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-version"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// SupportedFormat is the range of dictionary file versions this loader reads.
const SupportedFormat = ">= 1.0, < 2.0"

// ErrUnsupportedFormat is returned for dictionary files outside SupportedFormat.
var ErrUnsupportedFormat = errors.New("unsupported dictionary format")

// File is the on-disk layout of a dictionary file.
type File struct {
	Version string  `yaml:"version"`
	Tables  []Table `yaml:"tables"`
}

// Load decodes a YAML dictionary document.
func Load(r io.Reader) ([]Table, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dictionary is empty")
		}
		return nil, fmt.Errorf("failed to decode dictionary: %w", err)
	}

	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	return f.Tables, nil
}

// LoadFile reads a YAML dictionary file from fs.
func LoadFile(fs afero.Fs, path string) ([]Table, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", path, err)
	}
	tables, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tables, nil
}

// LoadFile replaces the registry content with the tables of a dictionary file.
func (r *Registry) LoadFile(fs afero.Fs, path string) error {
	tables, err := LoadFile(fs, path)
	if err != nil {
		return err
	}
	return r.Replace(tables)
}

func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("%w: missing version", ErrUnsupportedFormat)
	}
	got, err := version.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	constraint, err := version.NewConstraint(SupportedFormat)
	if err != nil {
		return err
	}
	if !constraint.Check(got) {
		return fmt.Errorf("%w: %s (want %s)", ErrUnsupportedFormat, v, SupportedFormat)
	}
	return nil
}
