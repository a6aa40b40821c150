package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "server.listen_address",
		Message: "missing required field",
	}

	expected := "config error in server.listen_address: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("field", "message")
	if err.Field != "field" {
		t.Errorf("Field = %q, want %q", err.Field, "field")
	}
	if err.Message != "message" {
		t.Errorf("Message = %q, want %q", err.Message, "message")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "run",
		Err:     underlyingErr,
	}

	expected := "command run failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "run",
		Err:     underlyingErr,
	}

	unwrapped := err.Unwrap()
	if unwrapped != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlyingErr)
	}

	// Test with errors.Is
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestNewCommandError(t *testing.T) {
	underlyingErr := errors.New("test")
	err := NewCommandError("command", underlyingErr)

	if err.Command != "command" {
		t.Errorf("Command = %q, want %q", err.Command, "command")
	}
	if err.Err != underlyingErr {
		t.Errorf("Err = %v, want %v", err.Err, underlyingErr)
	}
}

func TestConfigErrors(t *testing.T) {
	if got := ConfigErrors(nil); got != nil {
		t.Errorf("ConfigErrors(nil) = %v, want nil", got)
	}

	err := fmt.Errorf("load: %w", config.ValidationError{Errors: []config.FieldError{
		{Field: "backends.inventory_url", Message: "is required"},
		{Field: "server.listen_address", Message: "invalid address"},
	}})
	got := ConfigErrors(err)
	if len(got) != 2 {
		t.Fatalf("ConfigErrors() returned %d errors, want 2", len(got))
	}
	if got[0].Field != "backends.inventory_url" || got[1].Message != "invalid address" {
		t.Errorf("unexpected errors: %v, %v", got[0], got[1])
	}

	plain := ConfigErrors(errors.New("unreadable file"))
	if len(plain) != 1 || plain[0].Error() != "config error: unreadable file" {
		t.Errorf("ConfigErrors(plain) = %v", plain)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"config error", NewConfigError("f", "m"), ExitConfig},
		{"wrapped validation", fmt.Errorf("x: %w", config.ValidationError{}), ExitConfig},
		{"command error", NewCommandError("run", errors.New("boom")), ExitError},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("%s: ExitCode() = %d, want %d", tt.name, got, tt.want)
		}
	}
}
