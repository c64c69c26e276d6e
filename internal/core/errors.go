package core

import "fmt"

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError represents a lookup miss on an internal ID.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// AnalysisError represents a failed analysis run.
type AnalysisError struct {
	Operation string
	Message   string
	Err       error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis %s: %s", e.Operation, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
