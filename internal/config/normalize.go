package config

import "strings"

func (c *Config) normalize() error {
	c.Summary.Mode = strings.ToLower(strings.TrimSpace(c.Summary.Mode))
	if c.Summary.Mode == "" {
		c.Summary.Mode = defaultMode
	}
	c.Summary.Provider = strings.ToLower(strings.TrimSpace(c.Summary.Provider))
	if c.Summary.Provider == "" {
		c.Summary.Provider = defaultProvider
	}
	c.Summary.Model = strings.TrimSpace(c.Summary.Model)
	if c.Summary.TimeoutSeconds <= 0 {
		c.Summary.TimeoutSeconds = defaultTimeoutSeconds
	}

	c.Claude.Binary = strings.TrimSpace(c.Claude.Binary)
	if c.Claude.Binary == "" {
		c.Claude.Binary = defaultClaudeBinary
	}
	c.Anthropic.APIKey = strings.TrimSpace(c.Anthropic.APIKey)
	c.Anthropic.BaseURL = strings.TrimSpace(c.Anthropic.BaseURL)
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)

	for _, p := range []*string{&c.Prompts.Dir, &c.Output.Dir, &c.State.Dir} {
		expanded, err := expandPath(strings.TrimSpace(*p))
		if err != nil {
			return err
		}
		*p = expanded
	}
	// A bare command name is looked up on PATH; only paths get expanded.
	if bin := strings.TrimSpace(c.Splitter.Binary); strings.ContainsAny(bin, `/\`) || strings.HasPrefix(bin, "~") {
		expanded, err := expandPath(bin)
		if err != nil {
			return err
		}
		c.Splitter.Binary = expanded
	} else {
		c.Splitter.Binary = bin
	}

	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
