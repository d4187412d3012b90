package tui

import "errors"

// ErrMissingMemoService is returned when the memo service is not provided.
var ErrMissingMemoService = errors.New("tui: memo service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
