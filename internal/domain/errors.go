package domain

import "errors"

var (
	// ErrInvalidInput marks caller-supplied data that fails validation, such
	// as a question that is empty after trimming. Specific errors wrap it.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidBox is returned for a Leitner box outside 1..5.
	ErrInvalidBox = errors.New("invalid leitner box")

	// ErrInvalidReviewSource is returned for a review source other than
	// session or quiz.
	ErrInvalidReviewSource = errors.New("invalid review source")
)
