package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrConfigFormatUnknown is returned for config files that are neither TOML
// nor YAML.
var ErrConfigFormatUnknown = errors.New("recipes config: unsupported config file extension")

// Duration is a time.Duration written as "1s" or "250ms" in config files.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("recipes config: invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// LoadFile overlays the file at path on DefaultConfig and validates the
// result. The format follows the extension: .toml, .yaml or .yml.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(&cfg, filepath.Ext(path), data); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses data in the format named by ext into cfg. Keys missing from
// data keep their current values.
func Decode(cfg *Config, ext string, data []byte) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	case "yaml", "yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrConfigFormatUnknown, ext)
	}
	return nil
}

// EncodeTOML renders cfg as a TOML document.
func EncodeTOML(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
