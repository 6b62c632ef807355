// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file, environment variables and command-line
// flags. It provides type-safe access to the settings of the tracker, the
// remote task client and the control API.
package config
