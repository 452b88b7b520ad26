package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/metcalfc/booksum/internal/book"
	"github.com/metcalfc/booksum/internal/provider"
)

//go:embed sample_config.toml
var sampleConfig string

// Summary controls how books are summarized.
type Summary struct {
	Mode           string   `toml:"mode" env:"BOOKSUM_MODE"`
	Provider       string   `toml:"provider" env:"BOOKSUM_PROVIDER"`
	Model          string   `toml:"model" env:"BOOKSUM_MODEL"`
	MaxTokens      int      `toml:"max_tokens" env:"BOOKSUM_MAX_TOKENS"`
	Temperature    *float64 `toml:"temperature"`
	TimeoutSeconds int      `toml:"timeout_seconds" env:"BOOKSUM_TIMEOUT_SECONDS"`
	SkipExisting   bool     `toml:"skip_existing" env:"BOOKSUM_SKIP_EXISTING"`
}

// Splitter selects the EPUB splitter. An empty binary uses the built-in one.
type Splitter struct {
	Binary string `toml:"binary" env:"BOOKSUM_SPLITTER"`
}

// Claude configures the claude-cli provider.
type Claude struct {
	Binary string `toml:"binary" env:"BOOKSUM_CLAUDE_BIN"`
}

// Prompts points at a directory of template overrides laid out as
// <mode>/chapter.md and <mode>/book.md.
type Prompts struct {
	Dir string `toml:"dir" env:"BOOKSUM_PROMPTS_DIR"`
}

// Output controls where summaries go and which extra files are written.
type Output struct {
	Dir      string `toml:"dir" env:"BOOKSUM_OUTPUT_DIR"`
	Combined bool   `toml:"combined" env:"BOOKSUM_COMBINED"`
	HTML     bool   `toml:"html" env:"BOOKSUM_HTML"`
}

// Anthropic contains Messages API credentials.
type Anthropic struct {
	APIKey  string `toml:"api_key" env:"ANTHROPIC_API_KEY"`
	BaseURL string `toml:"base_url" env:"ANTHROPIC_BASE_URL"`
}

// OpenAI contains credentials for any OpenAI-compatible endpoint.
type OpenAI struct {
	APIKey  string `toml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL string `toml:"base_url" env:"OPENAI_BASE_URL"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level" env:"BOOKSUM_LOG_LEVEL"`
	Format string `toml:"format" env:"BOOKSUM_LOG_FORMAT"`
}

// State locates the run history. Empty means $XDG_STATE_HOME/booksum.
type State struct {
	Dir string `toml:"dir" env:"BOOKSUM_STATE_DIR"`
}

// Config encapsulates all configuration values for booksum.
type Config struct {
	Summary   Summary   `toml:"summary"`
	Splitter  Splitter  `toml:"splitter"`
	Claude    Claude    `toml:"claude"`
	Prompts   Prompts   `toml:"prompts"`
	Output    Output    `toml:"output"`
	Anthropic Anthropic `toml:"anthropic"`
	OpenAI    OpenAI    `toml:"openai"`
	Logging   Logging   `toml:"logging"`
	State     State     `toml:"state"`
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/booksum/config.toml")
}

// Load locates, parses, and validates the configuration. It returns the
// config, the path that was (or would have been) read and whether that
// file exists.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnv loads ./.env without overriding variables that are already
// set, then lets the environment override file values.
func (c *Config) applyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	// env.Parse descends into every non-nil pointer field, so the
	// temperature is held aside and overridden from its own variable.
	temperature := c.Summary.Temperature
	c.Summary.Temperature = nil
	err := env.Parse(c)
	c.Summary.Temperature = temperature
	if err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if raw := strings.TrimSpace(overrides.Temperature); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: BOOKSUM_TEMPERATURE %q is not a number", book.ErrInvalidInput, raw)
		}
		c.Summary.Temperature = &value
	}
	return nil
}

// envOverrides holds variables that cannot be parsed into Config directly.
type envOverrides struct {
	Temperature string `env:"BOOKSUM_TEMPERATURE"`
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("booksum.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// ProviderConfig returns the settings for provider.New.
func (c *Config) ProviderConfig() provider.Config {
	return provider.Config{
		Kind:             provider.Kind(c.Summary.Provider),
		ClaudeBinary:     c.Claude.Binary,
		AnthropicAPIKey:  c.Anthropic.APIKey,
		AnthropicBaseURL: c.Anthropic.BaseURL,
		OpenAIAPIKey:     c.OpenAI.APIKey,
		OpenAIBaseURL:    c.OpenAI.BaseURL,
		Timeout:          time.Duration(c.Summary.TimeoutSeconds) * time.Second,
	}
}

// GenerateOptions returns the per-call options, with the model resolved
// to the provider default when unset.
func (c *Config) GenerateOptions() provider.Options {
	model := c.Summary.Model
	if model == "" {
		kind, err := provider.ParseKind(c.Summary.Provider)
		if err != nil {
			kind = provider.Kind(c.Summary.Provider)
		}
		model = provider.DefaultModel(kind)
	}
	return provider.Options{
		Model:       model,
		MaxTokens:   c.Summary.MaxTokens,
		Temperature: c.Summary.Temperature,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath applies the config path rules (~ expansion, absolute).
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
