package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/card_review"
	"github.com/phrazzld/scry-study/internal/service/preview"
	"github.com/phrazzld/scry-study/internal/store"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// errorRule pairs a sentinel with the status and client message it maps to.
// Rules are checked in order, so specific errors precede the ones they wrap.
type errorRule struct {
	target  error
	status  int
	message string
}

var errorRules = []errorRule{
	{store.ErrCardNotFound, http.StatusNotFound, "Card not found"},
	{store.ErrNoteNotFound, http.StatusNotFound, "Note not found"},
	{store.ErrDocumentNotFound, http.StatusNotFound, "Document not found"},
	{store.ErrNotFound, http.StatusNotFound, "Not found"},

	{store.ErrDuplicate, http.StatusConflict, "An identical card already exists"},

	{preview.ErrExpiredOrUnknownToken, http.StatusGone, "Preview expired or unknown, generate it again"},

	{domain.ErrCardQuestionEmpty, http.StatusBadRequest, "Question cannot be empty"},
	{domain.ErrCardAnswerEmpty, http.StatusBadRequest, "Answer cannot be empty"},
	{preview.ErrNoSource, http.StatusBadRequest, "Select notes, documents or both"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{store.ErrInvalidEntity, http.StatusBadRequest, "Invalid input"},

	// Answered with an empty 204, the message is never sent.
	{card_review.ErrNoCardsDue, http.StatusNoContent, ""},
	{card_review.ErrNoCards, http.StatusNoContent, ""},

	{service.ErrNoTextExtractor, http.StatusNotImplemented, "Document import is not available"},

	{generation.ErrContentBlocked, http.StatusBadGateway, "Content was rejected by the extractor"},
	{generation.ErrTransientFailure, http.StatusBadGateway, "Card extraction is temporarily unavailable"},
	{generation.ErrInvalidResponse, http.StatusBadGateway, "Card extraction is temporarily unavailable"},
}

func matchRule(err error) (errorRule, bool) {
	if err != nil {
		for _, rule := range errorRules {
			if errors.Is(err, rule.target) {
				return rule, true
			}
		}
	}
	return errorRule{}, false
}

// MapErrorToStatusCode returns the HTTP status for err. Anything without a
// rule, nil included, is a 500.
func MapErrorToStatusCode(err error) int {
	if rule, ok := matchRule(err); ok {
		return rule.status
	}
	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes the error text itself.
func GetSafeErrorMessage(err error) string {
	if rule, ok := matchRule(err); ok {
		return rule.message
	}

	var reviewErr *card_review.ServiceError
	if errors.As(err, &reviewErr) {
		switch reviewErr.Operation {
		case "review_card":
			return "Failed to record review"
		case "quiz":
			return "Failed to build quiz question"
		default:
			return "Failed to get next card"
		}
	}
	return unexpectedErrorMessage
}

// SanitizeValidationError describes the first failed field of a validator
// error without echoing the submitted value.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}

	fe := fieldErrs[0]
	return "Invalid " + fe.Field() + ": " + validationTagMessage(fe.Tag())
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt", "gte":
		return "too small"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
