package search

import "errors"

// ErrNoMemoService indicates that no memo service was provided.
var ErrNoMemoService = errors.New("memo service is required")
