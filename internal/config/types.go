package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Catalog is the declarative table of everything mac-bootstrap ensures on the machine.
// The built-in catalog is embedded; an overlay file may replace any top-level field.
type Catalog struct {
	Platform  string    `yaml:"platform"`  // expected `uname -s` output, e.g. Darwin
	Homebrew  Homebrew  `yaml:"homebrew"`  // package manager bootstrap
	Tools     []Package `yaml:"tools"`     // brew formulae: command-line tools
	Languages []Package `yaml:"languages"` // brew formulae: language toolchains
	Apps      []Package `yaml:"apps"`      // brew casks: GUI applications
	Releases  []Release `yaml:"releases"`  // tools fetched from GitHub release archives
	Shell     Shell     `yaml:"shell"`
	Git       Git       `yaml:"git"`
	Python    Ecosystem `yaml:"python"`
	Node      Ecosystem `yaml:"node"`
	SSH       SSH       `yaml:"ssh"`
	MacOS     MacOS     `yaml:"macos"`
}

// Package is a tool descriptor: a package-manager name plus an optional note.
// In YAML it is either a bare string or a {name, comment} mapping.
type Package struct {
	Name    string `yaml:"name"`
	Comment string `yaml:"comment,omitempty"`
}

// UnmarshalYAML accepts both `- jq` and `- {name: jq, comment: JSON processor}`.
func (p *Package) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		p.Name = value.Value
		p.Comment = ""
		return nil
	}
	type plain Package
	var raw plain
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = Package(raw)
	return nil
}

// Release describes a binary distributed as a GitHub release archive.
// - Repo: owner/name on GitHub.
// - Tag: release tag, e.g. v0.44.1.
// - Binary: executable to install; defaults to Name.
type Release struct {
	Name   string `yaml:"name"`
	Repo   string `yaml:"repo"`
	Tag    string `yaml:"tag"`
	Binary string `yaml:"binary,omitempty"`
}

// Homebrew holds the package manager bootstrap parameters.
type Homebrew struct {
	InstallURL string   `yaml:"install_url"`
	Prefixes   []string `yaml:"prefixes"` // bin directories probed when brew is not on PATH
}

// Shell configures the zsh framework, its plugins and rc-file lines.
type Shell struct {
	FrameworkURL string   `yaml:"framework_url"` // Oh My Zsh unattended installer
	FrameworkDir string   `yaml:"framework_dir"` // relative to $HOME
	Plugins      []Plugin `yaml:"plugins"`
	RawConfigs   []string `yaml:"raw_configs"` // lines ensured verbatim in ~/.zshrc
	Aliases      []Alias  `yaml:"aliases"`
}

// Plugin is a zsh plugin cloned into the framework's custom plugin directory.
type Plugin struct {
	Name string `yaml:"name"`
	Repo string `yaml:"repo"`
}

// Alias defines a single shell alias (e.g., ll = ls -lah).
type Alias struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Git lists the defaults applied on every run with `git config --global`.
type Git struct {
	Defaults []GitSetting `yaml:"defaults"`
}

// GitSetting is one ordered key/value pair.
type GitSetting struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Ecosystem is a language package installer and the packages it should hold.
type Ecosystem struct {
	Installer string    `yaml:"installer"` // pip3, npm
	Packages  []Package `yaml:"packages"`
}

// SSH controls the optional key-pair generation.
type SSH struct {
	KeyPath string `yaml:"key_path"` // relative to $HOME
}

// MacOS lists the optional `defaults` preferences and the UI processes restarted afterwards.
type MacOS struct {
	Settings []Setting `yaml:"settings"`
	Restart  []string  `yaml:"restart"`
}

// Setting represents a macOS `defaults` system setting.
// - Domain: macOS domain (e.g., com.apple.finder).
// - Key: Specific setting key.
// - Value: Desired setting value as a string.
// - Type: Value type ("bool", "int", "string", "float").
type Setting struct {
	Domain string `yaml:"domain"`
	Key    string `yaml:"key"`
	Value  string `yaml:"value"`
	Type   string `yaml:"type"`
}

// Validate rejects catalogs that would make a step ambiguous.
func (c *Catalog) Validate() error {
	if c.Platform == "" {
		return fmt.Errorf("platform must be set")
	}
	groups := map[string][]Package{
		"tools":     c.Tools,
		"languages": c.Languages,
		"apps":      c.Apps,
		"python":    c.Python.Packages,
		"node":      c.Node.Packages,
	}
	for group, pkgs := range groups {
		for i, p := range pkgs {
			if p.Name == "" {
				return fmt.Errorf("%s[%d]: empty package name", group, i)
			}
		}
	}
	for i, r := range c.Releases {
		if r.Name == "" || r.Repo == "" || r.Tag == "" {
			return fmt.Errorf("releases[%d]: name, repo and tag are required", i)
		}
	}
	for i, p := range c.Shell.Plugins {
		if p.Name == "" || p.Repo == "" {
			return fmt.Errorf("shell.plugins[%d]: name and repo are required", i)
		}
	}
	for i, s := range c.MacOS.Settings {
		switch s.Type {
		case "bool", "int", "float", "string", "":
		default:
			return fmt.Errorf("macos.settings[%d]: unknown type %q", i, s.Type)
		}
	}
	return nil
}
