package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/contentgate/internal/permission"
	"github.com/ppiankov/contentgate/internal/security"
)

// RoleUsers is one role/user list in the security section.
type RoleUsers struct {
	Roles []string `yaml:"roles"`
	Users []string `yaml:"users"`
}

// RemapRule declares one per-type permission substitution.
type RemapRule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Config holds the security configuration. Editors supply the primary
// role/user lists; Administrators fall back to built-in defaults when
// unconfigured, and Writers always inherit the Editors lists at a lower
// ceiling.
type Config struct {
	Administrators RoleUsers              `yaml:"administrators"`
	Editors        RoleUsers              `yaml:"editors"`
	Remaps         map[string][]RemapRule `yaml:"remaps"`
}

// Default returns the built-in configuration: admins are the
// "Administrators" role plus the "admin" user, editors are the "Editors"
// role, no remaps.
func Default() *Config {
	return &Config{
		Administrators: RoleUsers{Roles: []string{"Administrators"}, Users: []string{"admin"}},
		Editors:        RoleUsers{Roles: []string{"Editors"}},
	}
}

// Load loads security configuration from a YAML file. Empty path falls
// back to ~/.contentgate/security.yaml. Missing file returns defaults.
// Invalid YAML returns an error.
func Load(path string) (*Config, error) {
	cfg, _, err := LoadWithHash(path)
	return cfg, err
}

// LoadWithHash loads configuration and returns the SHA-256 hash of the
// raw YAML bytes on disk. When no file exists (defaults used), the hash
// is the SHA-256 of empty input.
func LoadWithHash(path string) (*Config, string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Default(), emptyHash(), nil
		}
		path = filepath.Join(home, ".contentgate", "security.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), emptyHash(), nil
		}
		return nil, "", fmt.Errorf("failed to read security config: %w", err)
	}

	// Start with defaults, YAML overwrites only specified fields
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse security config: %w", err)
	}

	h := sha256.Sum256(data)
	return cfg, "sha256:" + hex.EncodeToString(h[:]), nil
}

func emptyHash() string {
	h := sha256.Sum256(nil)
	return "sha256:" + hex.EncodeToString(h[:])
}

// BuildMaps constructs the three role maps. Administrators use their own
// section, defaulting to role "Administrators" and user "admin" when both
// lists are empty. Writers inherit the Editors lists with a ReadWrite
// ceiling.
func (c *Config) BuildMaps() security.Maps {
	admins := c.Administrators
	if len(admins.Roles) == 0 && len(admins.Users) == 0 {
		admins = RoleUsers{Roles: []string{"Administrators"}, Users: []string{"admin"}}
	}
	return security.Maps{
		Administrators: permission.NewMap(permission.Full, admins.Roles, admins.Users),
		Editors:        permission.NewMap(permission.ReadWritePublish, c.Editors.Roles, c.Editors.Users),
		Writers:        permission.NewMap(permission.ReadWrite, c.Editors.Roles, c.Editors.Users),
	}
}

// BuildRemaps constructs the per-type remap registry. Unknown permission
// names are rejected so a typo cannot silently weaken a check.
func (c *Config) BuildRemaps() (*permission.RemapRegistry, error) {
	reg := permission.NewRemapRegistry()
	for itemType, rules := range c.Remaps {
		for _, rule := range rules {
			from, err := permission.Parse(rule.From)
			if err != nil {
				return nil, fmt.Errorf("remap for type %q: %w", itemType, err)
			}
			to, err := permission.Parse(rule.To)
			if err != nil {
				return nil, fmt.Errorf("remap for type %q: %w", itemType, err)
			}
			reg.Declare(itemType, permission.Remap{From: from, To: to})
		}
	}
	return reg, nil
}

// BuildManager assembles a Manager from this configuration.
func (c *Config) BuildManager() (*security.Manager, error) {
	remaps, err := c.BuildRemaps()
	if err != nil {
		return nil, err
	}
	return security.NewManager(c.BuildMaps(), remaps), nil
}

// DefaultYAML returns a commented YAML string for init-config.
func DefaultYAML() string {
	return `# contentgate security configuration
# Generated by: contentgate init-config
#
# Three role maps decide write-level access, each with a fixed ceiling:
#   administrators -> full
#   editors        -> readwritepublish
#   writers        -> readwrite (inherits the editors lists below)
#
# The role "Everyone" is a sentinel matching any principal.

# Administrators. When both lists are empty the built-in defaults apply:
# role "Administrators" and user "admin".
administrators:
  roles:
    - Administrators
  users:
    - admin

# Editors. Writers reuse these lists at the readwrite ceiling.
editors:
  roles:
    - Editors
  users: []

# Per-type permission remaps, applied in order during write-path checks.
# Each rule substitutes "to" whenever the current requested level equals
# "from"; the output of one rule feeds the next.
# Permissions: none | read | readwrite | readwritepublish | full
remaps: {}
#  news-article:
#    - from: readwrite
#      to: readwritepublish
`
}
