package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// Common errors
var (
	ErrNilState = errors.New("srs state cannot be nil")
)

// Service defines the interface for Leitner scheduling operations
type Service interface {
	// CalculateNextReview computes the state that follows a review verdict.
	// The passed state is not modified.
	CalculateNextReview(
		state *domain.SRSState,
		correct bool,
		now time.Time,
	) (*domain.SRSState, error)

	// Params returns the parameters the service schedules with.
	Params() *Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface for calculating updated state
func (s *defaultService) CalculateNextReview(
	state *domain.SRSState,
	correct bool,
	now time.Time,
) (*domain.SRSState, error) {
	// Validate inputs
	if state == nil {
		return nil, ErrNilState
	}

	if state.Box < domain.MinBox || state.Box > domain.MaxBox {
		return nil, domain.ErrInvalidBox
	}

	return calculateNextState(state, correct, now, s.params), nil
}

// Params implements the Service interface
func (s *defaultService) Params() *Params {
	return s.params
}
