package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/sewershed/internal/aggregate"
	"github.com/roach88/sewershed/internal/config"
	"github.com/roach88/sewershed/internal/gis"
	"github.com/roach88/sewershed/internal/sewershed"
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeConfig       = "E002" // Config file could not be loaded
	ErrCodeInvalidInput = "E003" // Missing or malformed options
	ErrCodeAggregate    = "E010" // Malformed aggregate specification
	ErrCodeExternalTool = "E020" // External command failed
	ErrCodeCancelled    = "E021" // Run cancelled by signal
)

// classify maps an error to its output code and process exit code.
func classify(err error) (code string, exit int) {
	var cfgErr *config.Error
	switch {
	case errors.Is(err, context.Canceled):
		return ErrCodeCancelled, ExitFailure
	case errors.As(err, &cfgErr):
		return ErrCodeConfig, ExitCommandError
	case errors.Is(err, sewershed.ErrInvalidOptions):
		return ErrCodeInvalidInput, ExitCommandError
	case aggregate.IsValidationError(err):
		return ErrCodeAggregate, ExitCommandError
	case gis.IsExternalToolError(err):
		return ErrCodeExternalTool, ExitFailure
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// errorDetails returns structured details for known error types.
func errorDetails(err error) interface{} {
	var stepErr *sewershed.StepError
	var toolErr *gis.ExternalToolError
	details := map[string]interface{}{}
	if errors.As(err, &stepErr) {
		details["step"] = stepErr.Step
	}
	if errors.As(err, &toolErr) {
		details["tool"] = toolErr.Tool
		details["args"] = toolErr.Args
		if toolErr.ExitCode >= 0 {
			details["exit_code"] = toolErr.ExitCode
		}
		if toolErr.Stderr != "" {
			details["stderr"] = toolErr.Stderr
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// outputError writes err through the formatter and returns the matching
// ExitError.
func outputError(formatter *OutputFormatter, message string, err error) error {
	code, exit := classify(err)
	_ = formatter.Error(code, err.Error(), errorDetails(err))
	return WrapExitError(exit, message, err)
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", sewershed.ErrInvalidOptions, msg)
}
