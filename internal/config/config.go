// Package config loads and validates package documentation configs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/example/mdxgen/internal/errors"
)

// Layouts accepted in configuration.
const (
	LayoutPages     = "pages"
	LayoutAggregate = "aggregate"
)

// FileNames are the config file names searched for, in order.
var FileNames = []string{".mdxgen.yml", ".mdxgen.yaml", ".mdxgen.toml"}

// Config is the root of a configuration file.
type Config struct {
	// BaseDir is the directory source paths are resolved against. Relative
	// values are resolved against the config file's directory.
	BaseDir string `yaml:"baseDir" toml:"baseDir"`
	// Navigation is the path of the navigation manifest to patch.
	Navigation string    `yaml:"navigation" toml:"navigation"`
	Layout     string    `yaml:"layout" toml:"layout" validate:"omitempty,oneof=pages aggregate"`
	// Mode is the extraction mode, parsed by the extractor; empty means auto.
	Mode       string    `yaml:"mode" toml:"mode" validate:"omitempty,oneof=auto ast scan"`
	Packages   []Package `yaml:"packages" toml:"packages" validate:"required,min=1,dive"`

	// Path is the file the config was loaded from.
	Path string `yaml:"-" toml:"-"`
}

// Package describes one documented source package.
type Package struct {
	Name         string     `yaml:"name" toml:"name" validate:"required"`
	DisplayName  string     `yaml:"displayName" toml:"displayName"`
	SourcePaths  []string   `yaml:"sourcePaths" toml:"sourcePaths" validate:"required,min=1,dive,required"`
	FilePatterns []string   `yaml:"filePatterns" toml:"filePatterns"`
	OutputPath   string     `yaml:"outputPath" toml:"outputPath" validate:"required"`
	Layout       string     `yaml:"layout" toml:"layout" validate:"omitempty,oneof=pages aggregate"`
	Navigation   Navigation `yaml:"navigation" toml:"navigation"`
}

// Navigation controls how the package is linked from the manifest.
type Navigation struct {
	Icon string `yaml:"icon" toml:"icon"`
	// Section is the top-level manifest group; defaults to DisplayName.
	Section string `yaml:"section" toml:"section"`
	// Groups adds a nested group of generated page paths per category.
	Groups bool `yaml:"groups" toml:"groups"`
}

var validate = validator.New()

// Load reads a config file. An empty path searches for one of FileNames
// from the working directory upwards.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfigFile(".")
		if err != nil {
			return nil, err
		}
		path = found
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "read config")
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	cfg.BaseDir = normalizePath(cfg.BaseDir, filepath.Dir(path))
	if cfg.Navigation != "" {
		cfg.Navigation = normalizePath(cfg.Navigation, filepath.Dir(path))
	}
	return cfg, nil
}

// Parse decodes config data. ext selects the format: ".toml" for TOML,
// anything else for YAML.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.KindConfig, "parse config")
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.KindConfig, "parse config")
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Layout == "" {
		c.Layout = LayoutPages
	}
	for i := range c.Packages {
		p := &c.Packages[i]
		if p.DisplayName == "" {
			p.DisplayName = p.Name
		}
		if p.Layout == "" {
			p.Layout = c.Layout
		}
		if p.Navigation.Section == "" {
			p.Navigation.Section = p.DisplayName
		}
	}
}

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return errors.New(errors.KindConfig, "invalid config: "+strings.Join(msgs, "; "))
		}
		return errors.Wrap(err, errors.KindConfig, "invalid config")
	}

	seen := map[string]bool{}
	for _, p := range c.Packages {
		if seen[p.Name] {
			return errors.Errorf(errors.KindConfig, "invalid config: duplicate package %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}

// Package returns the package named name. Unknown names produce a config
// error listing the valid alternatives.
func (c *Config) Package(name string) (*Package, error) {
	if name == "" {
		return nil, errors.Errorf(errors.KindConfig, "--package is required (valid: %s)", strings.Join(c.PackageNames(), ", "))
	}
	for i := range c.Packages {
		if c.Packages[i].Name == name {
			return &c.Packages[i], nil
		}
	}
	return nil, errors.Errorf(errors.KindConfig, "unknown package %q (valid: %s)", name, strings.Join(c.PackageNames(), ", "))
}

// PackageNames returns the configured package names, sorted.
func (c *Config) PackageNames() []string {
	names := make([]string, 0, len(c.Packages))
	for _, p := range c.Packages {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

func findConfigFile(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", errors.Wrap(err, errors.KindConfig, "resolve working directory")
	}

	current := absPath
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(current, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return "", errors.Errorf(errors.KindConfig, "no config file found (looked for %s)", strings.Join(FileNames, ", "))
}

// normalizePath resolves path against base unless it is absolute.
func normalizePath(path, base string) string {
	if path == "" {
		return base
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
