package generation

import "errors"

// Extraction failures reported by Extractor implementations.
var (
	ErrGenerationFailed = errors.New("could not extract question/answer pairs")
	ErrInvalidResponse  = errors.New("extractor returned an unusable response")
	ErrContentBlocked   = errors.New("extractor refused the source text")
	ErrTransientFailure = errors.New("extractor temporarily unavailable")
	ErrInvalidConfig    = errors.New("extractor misconfigured")
)
