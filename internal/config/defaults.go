package config

const (
	defaultMode           = "concise"
	defaultProvider       = "claude-cli"
	defaultClaudeBinary   = "claude"
	defaultMaxTokens      = 4096
	defaultTimeoutSeconds = 120
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a configuration populated with default values. The
// model is left empty so each provider can pick its own default.
func Default() Config {
	return Config{
		Summary: Summary{
			Mode:           defaultMode,
			Provider:       defaultProvider,
			MaxTokens:      defaultMaxTokens,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Claude: Claude{
			Binary: defaultClaudeBinary,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
