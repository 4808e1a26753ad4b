package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrForbidden    ErrorCode = "FORBIDDEN"

	// Quiz specific errors
	ErrQuizNotFound ErrorCode = "QUIZ_NOT_FOUND"

	// Quiz creation pipeline errors
	ErrAcquisitionFailed   ErrorCode = "ACQUISITION_FAILED"
	ErrTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	ErrTranscriptionEmpty  ErrorCode = "TRANSCRIPTION_EMPTY"
	ErrGenerationFailed    ErrorCode = "GENERATION_FAILED"
	ErrValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrPersistenceFailed   ErrorCode = "PERSISTENCE_FAILED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first DomainError in err's chain, or
// ErrInternal when there is none.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrInternal
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewUnauthorizedError(message string, err error) *DomainError {
	return NewError(ErrUnauthorized, message, err)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(ErrForbidden, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(ErrQuizNotFound, "Quiz not found.", fmt.Errorf("quiz id %q", quizID))
}

func NewAcquisitionError(err error) *DomainError {
	return NewError(ErrAcquisitionFailed, "Failed to download audio.", err)
}

func NewAudioExtractionError(err error) *DomainError {
	return NewError(ErrAcquisitionFailed, "Audio extraction failed.", err)
}

func NewTranscriptionError(err error) *DomainError {
	return NewError(ErrTranscriptionFailed, "Transcription failed.", err)
}

func NewTranscriptionEmptyError() *DomainError {
	return NewError(ErrTranscriptionEmpty, "Transcription failed.", nil)
}

func NewGenerationError(message string, err error) *DomainError {
	return NewError(ErrGenerationFailed, message, err)
}

func NewValidationFailedError(reason string) *DomainError {
	return NewError(ErrValidationFailed, "Generated quiz is invalid: "+reason, nil)
}

func NewPersistenceError(err error) *DomainError {
	return NewError(ErrPersistenceFailed, "Failed to save quiz.", err)
}
