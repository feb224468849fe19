// Package exit describes how the CLI terminates.
package exit

import (
	"fmt"
	"io"
)

// Stream selects where a Result message is written.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

// Result holds the message to print and the process exit code.
type Result struct {
	Stream   Stream
	ExitCode int
	Message  string
}

// Print writes the message to stdout or stderr depending on Stream.
func (r *Result) Print(stdout, stderr io.Writer) {
	w := stdout
	if r.Stream == Stderr {
		w = stderr
	}
	fmt.Fprint(w, r.Message)
}

// Success is printed to stdout with exit code 0.
func Success(message string) *Result {
	return &Result{Stream: Stdout, ExitCode: 0, Message: message}
}

// Error is printed to stderr with exit code 1.
func Error(message string) *Result {
	return &Result{Stream: Stderr, ExitCode: 1, Message: message}
}

func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}
