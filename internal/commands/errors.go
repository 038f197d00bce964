package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to wrapped command errors so hosts can key toasts
// and telemetry off the failure class of a content operation.
const (
	codeMessageInvalid  = "CONTENT_COMMAND_INVALID"
	codeCommandCanceled = "CONTENT_COMMAND_CANCELED"
	codeCommandTimeout  = "CONTENT_COMMAND_TIMEOUT"
	codeCommandContext  = "CONTENT_COMMAND_CONTEXT"
	codeCommandFailed   = "CONTENT_COMMAND_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "content command rejected").
		WithTextCode(codeMessageInvalid)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "content command canceled").
			WithTextCode(codeCommandCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "content command timed out").
			WithTextCode(codeCommandTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "content command context error").
			WithTextCode(codeCommandContext)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "content command failed").
		WithTextCode(codeCommandFailed)
}
