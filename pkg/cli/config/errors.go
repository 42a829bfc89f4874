package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrDuplicateTypeID = goerr.New("duplicate case type ID")
	ErrMissingName     = goerr.New("name is required")
)
