package config

import (
	"fmt"

	"github.com/metcalfc/booksum/internal/book"
	"github.com/metcalfc/booksum/internal/provider"
)

// Validate ensures the configuration is usable. Missing API keys are
// reported later, when the provider is built, so commands that never
// summarize keep working.
func (c *Config) Validate() error {
	if _, err := book.ParseMode(c.Summary.Mode); err != nil {
		return fmt.Errorf("summary.mode: %w", err)
	}
	if _, err := provider.ParseKind(c.Summary.Provider); err != nil {
		return fmt.Errorf("summary.provider: %w", err)
	}
	if c.Summary.MaxTokens < 0 {
		return fmt.Errorf("%w: summary.max_tokens must not be negative", book.ErrInvalidInput)
	}
	if t := c.Summary.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("%w: summary.temperature must be between 0 and 2", book.ErrInvalidInput)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", book.ErrInvalidInput, c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: logging.level %q is not a known level", book.ErrInvalidInput, c.Logging.Level)
	}
	return nil
}
