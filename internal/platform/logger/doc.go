// Package logger configures the application's structured logging. All
// components log through log/slog; this package builds the JSON handler
// and installs it as the process default.
package logger
