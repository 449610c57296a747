// Package config provides server configuration for nearhand.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (paths, limits, log levels)
//
// Configuration is loaded via internal/infra/confloader and supports
// files and environment variables.
package config
