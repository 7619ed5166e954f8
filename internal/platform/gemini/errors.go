package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyText is returned when there is no text to extract pairs from.
	ErrEmptyText = errors.New("source text cannot be empty")
)
