package cmd

import (
	"errors"
	"testing"
)

func TestInvocationError(t *testing.T) {
	base := errors.New("missing file")
	err := invocationError(base)

	var exitErr *exitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatal("invocationError should produce an exitCodeError")
	}
	if exitErr.code != ExitInvocation {
		t.Errorf("code = %d, want %d", exitErr.code, ExitInvocation)
	}
	if exitErr.quiet {
		t.Error("invocation errors must print a message")
	}
	if !errors.Is(err, base) {
		t.Error("exitCodeError should unwrap to the underlying error")
	}
	if err.Error() != "missing file" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidationFailed(t *testing.T) {
	err := validationFailed()

	var exitErr *exitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatal("validationFailed should produce an exitCodeError")
	}
	if exitErr.code != ExitValidationFailed {
		t.Errorf("code = %d, want %d", exitErr.code, ExitValidationFailed)
	}
	if !exitErr.quiet {
		t.Error("validation failure already printed a report; no extra stderr line")
	}
}
