// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package plugin reads extension bundles: it parses and validates the
// extension.yaml manifest and loads a bundle into a host.Plugin through the
// runtime registered for its type.
package plugin

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest file name inside a bundle directory.
const ManifestFile = "extension.yaml"

// Type identifies the extension runtime.
type Type string

// Extension types supported by the host.
const (
	TypeLua    Type = "lua"
	TypeBinary Type = "binary"
)

// Manifest represents an extension.yaml file.
type Manifest struct {
	Name         string        `yaml:"name" json:"name" jsonschema:"pattern=^[a-z]([a-z0-9-]*[a-z0-9])?$,maxLength=64"`
	DisplayName  string        `yaml:"displayName,omitempty" json:"displayName,omitempty"`
	Publisher    string        `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Version      string        `yaml:"version" json:"version"`
	Type         Type          `yaml:"type" json:"type" jsonschema:"enum=lua,enum=binary"`
	Engine       string        `yaml:"engine,omitempty" json:"engine,omitempty" jsonschema:"description=Semver constraint on the host API version"`
	Capabilities []string      `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
	Lua          *LuaConfig    `yaml:"lua,omitempty" json:"lua,omitempty"`
	Binary       *BinaryConfig `yaml:"binary,omitempty" json:"binary,omitempty"`
	Contributes  *Contributes  `yaml:"contributes,omitempty" json:"contributes,omitempty"`
}

// LuaConfig holds Lua-specific configuration.
type LuaConfig struct {
	Entry string `yaml:"entry" json:"entry"`
}

// BinaryConfig holds binary extension configuration.
type BinaryConfig struct {
	Executable string `yaml:"executable" json:"executable"`
}

// Contributes lists what the extension adds to the host.
type Contributes struct {
	Commands      []CommandContribution `yaml:"commands,omitempty" json:"commands,omitempty"`
	Configuration map[string]any        `yaml:"configuration,omitempty" json:"configuration,omitempty"`
}

// CommandContribution declares a command the extension registers on activation.
type CommandContribution struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
}

const maxNameLength = 64

var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// ParseManifest parses and validates an extension.yaml file.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, oops.In("manifest").Code("MANIFEST_EMPTY").New("manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, oops.In("manifest").Code("MANIFEST_INVALID_YAML").Wrapf(err, "invalid YAML")
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks manifest constraints.
func (m *Manifest) Validate() error {
	errb := oops.In("manifest").Code("MANIFEST_INVALID").With("name", m.Name)

	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return errb.Errorf("name %q must start with a-z, contain only a-z, 0-9, hyphens, and not end with a hyphen", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return errb.Errorf("name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	if m.Version == "" {
		return errb.New("version is required")
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return errb.With("version", m.Version).Wrapf(err, "version must be semver")
	}
	if m.Engine != "" {
		if _, err := semver.NewConstraint(m.Engine); err != nil {
			return errb.With("engine", m.Engine).Wrapf(err, "engine must be a semver constraint")
		}
	}

	switch m.Type {
	case TypeLua:
		if m.Lua == nil || m.Lua.Entry == "" {
			return errb.New("lua.entry is required when type is lua")
		}
	case TypeBinary:
		if m.Binary == nil || m.Binary.Executable == "" {
			return errb.New("binary.executable is required when type is binary")
		}
	default:
		return errb.Errorf("type must be 'lua' or 'binary', got %q", m.Type)
	}

	if m.Contributes != nil {
		seen := make(map[string]bool, len(m.Contributes.Commands))
		for _, c := range m.Contributes.Commands {
			if c.ID == "" {
				return errb.New("contributed command id is required")
			}
			if seen[c.ID] {
				return errb.With("command", c.ID).New("contributed command declared twice")
			}
			seen[c.ID] = true
		}
	}
	return nil
}

// CheckEngine reports whether hostVersion satisfies the manifest's engine
// constraint. A manifest without a constraint accepts every host.
func (m *Manifest) CheckEngine(hostVersion string) error {
	if m.Engine == "" {
		return nil
	}
	errb := oops.In("manifest").Code("ENGINE_MISMATCH").With("name", m.Name).With("engine", m.Engine).With("host_version", hostVersion)

	c, err := semver.NewConstraint(m.Engine)
	if err != nil {
		return errb.Wrapf(err, "parse engine constraint")
	}
	v, err := semver.NewVersion(hostVersion)
	if err != nil {
		return errb.Wrapf(err, "parse host version")
	}
	if !c.Check(v) {
		return errb.Errorf("extension requires host %s, running %s", m.Engine, hostVersion)
	}
	return nil
}

// ID returns "publisher.name", or the name when no publisher is set.
func (m *Manifest) ID() string {
	if m.Publisher == "" {
		return m.Name
	}
	return m.Publisher + "." + m.Name
}
