package core

import "strings"

// ErrorPrefix marks a Result whose interpreter call failed.
const ErrorPrefix = "Error: "

// Command is a single automation script plus an optional continuation.
type Command struct {
	ID       string
	Name     string
	Script   string
	OnResult func(Result)
}

// Result is the outcome of a dispatched Command.
//
// Text is the trimmed standard output regardless of exit status. When the
// interpreter could not be run Err is set and Text carries ErrorPrefix
// followed by the error details.
type Result struct {
	CommandID string
	Text      string
	Err       error
}

// OK reports whether the interpreter ran.
func (r Result) OK() bool {
	return r.Err == nil
}

// String returns the textual payload.
func (r Result) String() string {
	return r.Text
}

// NewResult builds a Result from raw interpreter output.
func NewResult(id, stdout string) Result {
	return Result{CommandID: id, Text: strings.TrimSpace(stdout)}
}

// ErrorResult builds a Result for a failed interpreter call.
func ErrorResult(id string, err error) Result {
	return Result{CommandID: id, Text: ErrorPrefix + err.Error(), Err: err}
}
