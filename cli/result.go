package cli

import "fmt"

// Exit statuses of the doyt commands.
const (
	// ExitLexError means the source did not tokenize, or could not be read.
	ExitLexError = 1
	// ExitUnstable means stats saw two runs produce different streams.
	ExitUnstable = 2
)

// CommandError carries an exit status out of lex, stats and watch after the
// rendered diagnostics are already on stderr. cmd/doyt hands the code to
// os.Exit without printing anything else.
type CommandError struct {
	exitCode int
	cause    error
}

// NewCommandError returns a CommandError with no underlying cause.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("exit status %d: %v", e.exitCode, e.cause)
	}
	return fmt.Sprintf("exit status %d", e.exitCode)
}

// Unwrap exposes the failure behind the exit status, usually a *lexer.Error.
func (e *CommandError) Unwrap() error { return e.cause }

// ExitCode returns the process exit status.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// CommandResult is the outcome of a single tokenization pass. watch keeps
// going after a failed pass and exits with the status of the last one.
type CommandResult struct {
	ExitCode int
	Err      error
}

// Success returns the result of a pass that tokenized the whole file.
func Success() CommandResult {
	return CommandResult{}
}

// Failure returns the result of a pass that stopped at err.
func Failure(err error) CommandResult {
	return CommandResult{ExitCode: ExitLexError, Err: err}
}

// AsError turns r into what a command's Run method returns: nil for a
// successful pass and a *CommandError wrapping r.Err otherwise.
func (r CommandResult) AsError() error {
	if r.ExitCode == 0 {
		return nil
	}
	return &CommandError{exitCode: r.ExitCode, cause: r.Err}
}
