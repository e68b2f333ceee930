package config

import (
	"errors"
	"io/fs"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// ConfigurationName is the file the root command looks for in the config
// directory.
const ConfigurationName = "config.yaml"

const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

// Config holds suite-wide defaults. Every field is optional; a missing config
// file yields Default().
type Config struct {
	// Color sets the default --color mode for applets that colorize output.
	Color string `json:"color" validate:"oneof=always auto never"`

	// FortunePaths are searched when fortune is invoked without sources.
	FortunePaths []string `json:"fortune_paths"`

	// GrepOptions are prepended to every grep invocation, shell-style
	// word split. GREP_OPTIONS in the environment takes precedence.
	GrepOptions string `json:"grep_options"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Color: ColorAuto,
	}
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Load reads and validates the configuration at path on fsys. A missing file
// is not an error; the defaults are returned instead.
func Load(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	switch {
	case err == nil:
		// fall through to parsing
	case errors.Is(err, fs.ErrNotExist):
		return Default(), nil
	default:
		return nil, err
	}

	out := Default()
	if err := yaml.UnmarshalStrict(data, out); err != nil {
		return nil, err
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}
