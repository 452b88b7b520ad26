// Package config loads booksum configuration.
//
// Values come from, in increasing precedence: built-in defaults, a TOML
// file (--config, ~/.config/booksum/config.toml or ./booksum.toml), a
// .env file in the working directory, and the process environment.
// Command line flags are applied on top by the CLI.
package config
