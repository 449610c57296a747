// Package confloader provides configuration loading for nearhand.
//
// It wraps koanf to load typed configuration from multiple sources.
// Priority (highest to lowest):
//
//  1. Environment variables (NEARHAND_ prefixed)
//  2. Configuration file (YAML)
//  3. Default values in the target struct
//
// A file watcher built on fsnotify supports reloading the file while
// the server runs; the main loop uses it to adjust the log level
// without a restart.
package confloader
