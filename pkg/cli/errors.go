package cli

import (
	"errors"
	"fmt"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitError  = 1
	ExitConfig = 2
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config error: " + e.Message
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ConfigErrors lists the field errors of a failed configuration load. Any
// other error becomes a single ConfigError without a field.
func ConfigErrors(err error) []*ConfigError {
	if err == nil {
		return nil
	}

	var validationErr config.ValidationError
	if errors.As(err, &validationErr) && len(validationErr.Errors) > 0 {
		out := make([]*ConfigError, len(validationErr.Errors))
		for i, fe := range validationErr.Errors {
			out[i] = NewConfigError(fe.Field, fe.Message)
		}
		return out
	}
	return []*ConfigError{NewConfigError("", err.Error())}
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var configErr *ConfigError
	var validationErr config.ValidationError
	if errors.As(err, &configErr) || errors.As(err, &validationErr) {
		return ExitConfig
	}
	return ExitError
}
