package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultModel is used when neither the environment nor config.yaml names one.
const DefaultModel = "gpt-5.2"

// apiKeyVar is the credential key inside the env file.
const apiKeyVar = "OPENAI_API_KEY"

// Config holds all runtime configuration for one session. It is resolved
// once at startup and handed to the session, skill store, and tool registry;
// nothing downstream reads the process environment.
type Config struct {
	ConfigDir string
	SkillsDir string
	EnvFile   string

	APIKey  string
	BaseURL string
	Model   string

	// MaxToolRounds caps model/tool round trips within a single turn.
	// Zero means unbounded, which is the default: the model alone decides
	// when a turn ends.
	MaxToolRounds int

	Verbose bool
}

// fileOverrides mirrors the optional config.yaml next to the env file.
type fileOverrides struct {
	Model         string `yaml:"model"`
	BaseURL       string `yaml:"base_url"`
	MaxToolRounds int    `yaml:"max_tool_rounds"`
}

// Resolve computes the ~/.gpt-cli paths, creates them, and layers
// configuration: defaults, then config.yaml, then environment variables,
// then the credential file.
func Resolve() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ConfigDir: filepath.Join(home, ".gpt-cli"),
		Model:     DefaultModel,
	}
	cfg.SkillsDir = filepath.Join(cfg.ConfigDir, "skills")
	cfg.EnvFile = filepath.Join(cfg.ConfigDir, "config.env")

	if err := os.MkdirAll(cfg.SkillsDir, 0o755); err != nil {
		return Config{}, err
	}

	if err := cfg.applyFileOverrides(); err != nil {
		return Config{}, err
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	cfg.APIKey = strings.TrimSpace(os.Getenv(apiKeyVar))
	if cfg.APIKey == "" {
		cfg.APIKey, _ = cfg.LoadCredential()
	}

	return cfg, nil
}

// applyFileOverrides reads config.yaml when present. A missing file is not
// an error; a malformed one is.
func (c *Config) applyFileOverrides() error {
	path := filepath.Join(c.ConfigDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var ov fileOverrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return err
	}
	if v := strings.TrimSpace(ov.Model); v != "" {
		c.Model = v
	}
	if v := strings.TrimSpace(ov.BaseURL); v != "" {
		c.BaseURL = v
	}
	if ov.MaxToolRounds > 0 {
		c.MaxToolRounds = ov.MaxToolRounds
	}
	return nil
}

// LoadCredential reads the API key from the env file.
func (c *Config) LoadCredential() (string, error) {
	values, err := godotenv.Read(c.EnvFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(values[apiKeyVar]), nil
}

// SaveCredential persists the API key to the env file, preserving any other
// keys already stored there.
func (c *Config) SaveCredential(key string) error {
	values, err := godotenv.Read(c.EnvFile)
	if err != nil {
		values = map[string]string{}
	}
	values[apiKeyVar] = key
	if err := os.MkdirAll(filepath.Dir(c.EnvFile), 0o755); err != nil {
		return err
	}
	return godotenv.Write(values, c.EnvFile)
}
