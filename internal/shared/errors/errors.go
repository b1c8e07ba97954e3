package errors

import "errors"

// Domain errors
var (
	// Dialect resolution errors
	ErrUndetectableDialect = errors.New("unable to detect server type (no nginx or apache markers found)")
	ErrUnsupportedDialect  = errors.New("unsupported server type")

	// Configuration loading errors
	ErrEmptyConfig = errors.New("configuration file is empty")

	// Run persistence errors
	ErrRunNotFound   = errors.New("saved run not found")
	ErrInvalidRun    = errors.New("saved run is not a valid report")
	ErrEmptyHistory  = errors.New("no validation history recorded")
	ErrInvalidFormat = errors.New("unsupported report format")

	// API errors
	ErrEmptyRequestConfig = errors.New("config text is required")
)
