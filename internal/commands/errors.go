package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "SITEGEN_COMMAND_INVALID"
	commandContextCanceled  = "SITEGEN_COMMAND_CANCELED"
	commandContextTimeout   = "SITEGEN_COMMAND_TIMEOUT"
	commandContextErrorCode = "SITEGEN_COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "SITEGEN_COMMAND_FAILED"

	// ConfigInvalidCode tags configuration errors surfaced at the CLI boundary.
	ConfigInvalidCode = "SITEGEN_CONFIG_INVALID"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
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
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

func wrapExecuteError(err error, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if code == "" {
		code = commandExecuteFailed
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(code)
}

// WrapConfigError tags a configuration failure with the validation category.
func WrapConfigError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration").
		WithTextCode(ConfigInvalidCode)
}
