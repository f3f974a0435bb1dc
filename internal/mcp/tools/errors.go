package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/layj/pkg/snapshot"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeTypeChanged  = "TYPE_CHANGED"
	ErrCodeQueryFailed  = "QUERY_FAILED"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

// WrapEngineError converts an inference or snapshot failure to a coded error.
func WrapEngineError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	var changed *snapshot.TypeChangedError
	if errors.As(err, &changed) {
		coded = &CodedError{
			Code:    ErrCodeTypeChanged,
			Message: changed.Error(),
			Cause:   err,
		}
	} else {
		coded = &CodedError{
			Code:    ErrCodeInvalidInput,
			Message: err.Error(),
			Cause:   err,
		}
	}

	slog.Warn("tool call rejected",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)
	return coded
}
