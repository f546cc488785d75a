package config

import "errors"

var (
	// ErrConfigNotFound indicates a required configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigInvalid indicates a configuration file could not be parsed.
	ErrConfigInvalid = errors.New("configuration file invalid")
)
