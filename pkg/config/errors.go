package config

import "errors"

var (
	ErrInvalidTarget    = errors.New("config: target must be a non-nil struct pointer")
	ErrLoadFailed       = errors.New("config: failed to read environment")
	ErrUnmarshalFailed  = errors.New("config: failed to unmarshal configuration")
	ErrValidationFailed = errors.New("config: validation failed")
)
