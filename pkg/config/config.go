// Package config loads the configuration file of cmdl.
//
// The file may be written in TOML or YAML; the format is chosen by the file
// extension. Example in TOML:
//
//	color = "always"
//	log = "/tmp/cmdl.log"
//	arity = "lenient"
//	show_ast = true
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"src.cmdl.sh/pkg/diag"
	"src.cmdl.sh/pkg/parse"
)

// Config is the content of a configuration file. Empty strings select the
// defaults.
type Config struct {
	// Color is one of "auto", "always" and "never".
	Color string `toml:"color" yaml:"color"`
	// Log is the path of the debug log.
	Log string `toml:"log" yaml:"log"`
	// Arity is "strict" or "lenient".
	Arity string `toml:"arity" yaml:"arity"`
	// ShowAST causes the parsed tree to be printed before running.
	ShowAST bool `toml:"show_ast" yaml:"show_ast"`
}

// Format is the format of a configuration file.
type Format int

// Possible values of Format.
const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	}
	return "unknown"
}

// FormatOf returns the format of a file with the given name: YAML for the
// .yaml and .yml extensions, TOML otherwise.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML
	}
	return TOML
}

// Load reads and parses a configuration file.
func Load(name string) (*Config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data, FormatOf(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Parse parses and validates configuration in the given format. Unknown keys
// are errors.
func Parse(data []byte, f Format) (*Config, error) {
	var cfg Config
	switch f {
	case TOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %v", f)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values of the configuration.
func (c *Config) Validate() error {
	if _, err := diag.ParseColorMode(c.Color); err != nil {
		return err
	}
	if _, err := parse.ParseArity(c.Arity); err != nil {
		return err
	}
	return nil
}

// ColorMode returns the color mode selected by the configuration.
func (c *Config) ColorMode() diag.ColorMode {
	mode, _ := diag.ParseColorMode(c.Color)
	return mode
}

// ArityPolicy returns the arity policy selected by the configuration.
func (c *Config) ArityPolicy() parse.Arity {
	arity, _ := parse.ParseArity(c.Arity)
	return arity
}
