// Package config loads the JHOVE-go run configuration: which modules are
// registered, per-module parameter strings, and the default handler and
// output settings a run falls back to when the CLI doesn't override them.
//
// The teacher pulls in gopkg.in/yaml.v3 only indirectly (via cobra's own
// dependency graph); nothing in ostafen/digler reads a YAML config file of
// its own — flags are the only configuration surface. This package
// promotes that dependency to direct use, the way a JHOVE-shaped tool
// actually needs it: format modules, their init parameters, and handler
// defaults are exactly the kind of structured, human-edited config a
// config file (rather than a growing pile of flags) is meant for.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModuleConfig is one entry under modules: in the config file.
type ModuleConfig struct {
	Name       string `yaml:"name"`
	Parameters string `yaml:"parameters,omitempty"`
}

// Config is the top-level jhove-go configuration document.
type Config struct {
	// DefaultHandler names the Handler used when the CLI does not pass
	// -handler.
	DefaultHandler string `yaml:"defaultHandler"`
	// TempDirectory is where a module may stage temporary files (e.g. an
	// EPUB module invoking an external validator against an extracted
	// copy).
	TempDirectory string `yaml:"tempDirectory,omitempty"`
	// Modules lists the modules to register, in registration-priority
	// order (earlier entries are tried first when signatures tie).
	Modules []ModuleConfig `yaml:"modules"`
	// ExtensionHints maps a filename extension the CLI receives to a module name,
	// for cases external-signature matching alone can't resolve.
	ExtensionHints map[string]string `yaml:"extensionHints,omitempty"`
}

// Default returns the built-in configuration used when no config file is
// given: all three reference modules (TIFF, JPEG, EPUB) registered, text
// output.
func Default() *Config {
	return &Config{
		DefaultHandler: "text",
		Modules: []ModuleConfig{
			{Name: "TIFF-hul"},
			{Name: "JPEG-hul"},
			{Name: "EPUB-ptc"},
		},
	}
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.DefaultHandler == "" {
		cfg.DefaultHandler = "text"
	}
	return &cfg, nil
}
