package service

import "fmt"

// ServiceError wraps an unexpected failure with the operation it interrupted.
// Expected conditions (invalid input, not found) are returned as sentinels
// and stay reachable through Unwrap.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return e.Operation + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError builds a ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
