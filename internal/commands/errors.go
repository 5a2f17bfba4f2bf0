package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	CodeValidationFailed = "COMMAND_VALIDATION_FAILED"
	CodeContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	CodeContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	CodeExecutionFailed  = "COMMAND_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(CodeValidationFailed)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(CodeContextTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
		WithTextCode(CodeContextCanceled)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(CodeExecutionFailed)
}

// IsValidationError reports whether err was rejected before execution.
func IsValidationError(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}
