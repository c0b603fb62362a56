// Package config provides the configuration for spiderling: defaults, the
// optional YAML configuration file, and validation.
package config
