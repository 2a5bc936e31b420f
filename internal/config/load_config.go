package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(builtinCatalog, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal built-in catalog: %w", err)
	}
	return &c, nil
}

// Load returns the built-in catalog with the file at path overlaid on top.
// Top-level keys present in the file replace the built-in values; absent keys keep them.
// An empty path yields the built-in catalog unchanged.
func Load(path string) (*Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := Overlay(c, raw); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// Overlay decodes raw YAML onto c, replacing only the top-level fields it names.
func Overlay(c *Catalog, raw []byte) error {
	var present map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &present); err != nil {
		return err
	}
	var file Catalog
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return err
	}
	for key := range present {
		switch key {
		case "platform":
			c.Platform = file.Platform
		case "homebrew":
			c.Homebrew = file.Homebrew
		case "tools":
			c.Tools = file.Tools
		case "languages":
			c.Languages = file.Languages
		case "apps":
			c.Apps = file.Apps
		case "releases":
			c.Releases = file.Releases
		case "shell":
			c.Shell = file.Shell
		case "git":
			c.Git = file.Git
		case "python":
			c.Python = file.Python
		case "node":
			c.Node = file.Node
		case "ssh":
			c.SSH = file.SSH
		case "macos":
			c.MacOS = file.MacOS
		default:
			return fmt.Errorf("unknown top-level key %q", key)
		}
	}
	return nil
}

// Marshal renders the catalog back to YAML for the catalog command.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(c)
}
