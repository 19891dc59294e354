// internal/config/config.go
//
// Workspace configuration for ismsforge. Every project gets an
// .ismsforge/config.yaml created on first launch; the file controls the
// organization identity, the loopback data-updated bridge, and the
// chat-completions endpoint used for narrative drafting.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/kingrea/ismsforge/internal/workspace"
	"gopkg.in/yaml.v3"
)

const defaultConfigYAML = `# ismsforge workspace configuration
version: 1

# Organization the ISMS documentation is produced for. The scope module's
# record takes precedence once it is filled in; this value seeds new records
# and export filenames until then.
organization: ""

# Loopback bridge that broadcasts data-updated events to other ismsforge
# processes sharing this workspace.
bridge:
  enabled: true
  host: 127.0.0.1
  port: 8971

# Chat-completions endpoint used to draft the scope narrative. The API key is
# read from the environment variable named by api_key_env.
llm:
  base_url: https://api.openai.com/v1
  model: gpt-4o-mini
  api_key_env: ISMSFORGE_LLM_API_KEY
`

// BridgeConfig controls the loopback event bridge.
type BridgeConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Host    string `yaml:"host,omitempty"`
	Port    int    `yaml:"port,omitempty"`
}

// LLMConfig points narrative drafting at an OpenAI-compatible endpoint.
type LLMConfig struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
}

// ProjectConfig models .ismsforge/config.yaml.
type ProjectConfig struct {
	Version      int          `yaml:"version"`
	Organization string       `yaml:"organization"`
	Bridge       BridgeConfig `yaml:"bridge"`
	LLM          LLMConfig    `yaml:"llm"`
}

// Config holds the runtime configuration for ismsforge.
type Config struct {
	// ProjectDir is the directory the user ran ismsforge from.
	ProjectDir string

	Project ProjectConfig
}

// New loads configuration for a project directory, falling back to defaults
// when no config file exists yet.
func New(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		Project:    defaultProjectConfig(),
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EnsureDefaultFile writes the commented default config if none exists.
func EnsureDefaultFile(ws *workspace.Workspace) error {
	path := ws.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// Organization returns the configured organization name, or a placeholder.
func (c *Config) Organization() string {
	if name := strings.TrimSpace(c.Project.Organization); name != "" {
		return name
	}
	return "Your Organization"
}

// SetOrganization updates the organization name and persists the config.
func (c *Config) SetOrganization(name string) error {
	c.Project.Organization = strings.TrimSpace(name)
	return c.save()
}

func (c *Config) load() error {
	path := workspace.New(c.ProjectDir).ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Project = parsed
	return nil
}

func (c *Config) save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	ws := workspace.New(c.ProjectDir)
	if err := os.MkdirAll(ws.Dir(), 0o755); err != nil {
		return fmt.Errorf("config: ensure workspace dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(ws.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		LLM: LLMConfig{
			BaseURL:   "https://api.openai.com/v1",
			Model:     "gpt-4o-mini",
			APIKeyEnv: "ISMSFORGE_LLM_API_KEY",
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.LLM.BaseURL) == "" {
		pc.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if strings.TrimSpace(pc.LLM.Model) == "" {
		pc.LLM.Model = "gpt-4o-mini"
	}
	if strings.TrimSpace(pc.LLM.APIKeyEnv) == "" {
		pc.LLM.APIKeyEnv = "ISMSFORGE_LLM_API_KEY"
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Organization = strings.TrimSpace(pc.Organization)
	pc.Bridge.Host = strings.TrimSpace(pc.Bridge.Host)
	pc.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(pc.LLM.BaseURL), "/")
	pc.LLM.Model = strings.TrimSpace(pc.LLM.Model)
	pc.LLM.APIKeyEnv = strings.TrimSpace(pc.LLM.APIKeyEnv)
}

func (pc ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Bridge.Port < 0 || pc.Bridge.Port > 65535 {
		return fmt.Errorf("bridge.port must be a valid TCP port")
	}
	if pc.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	return nil
}
