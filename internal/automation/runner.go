// Package automation runs scripts through the platform automation
// interpreter (osascript on macOS).
package automation

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"

	autumnerrors "github.com/tessro/autumn/internal/errors"
)

// DefaultInterpreter is the macOS automation interpreter.
const DefaultInterpreter = "osascript"

const waitDelay = time.Second

// Output is what the interpreter produced.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes a script and captures its output.
//
// A script that runs but exits non-zero is not an error: its Output carries
// the exit code. An error means the interpreter could not be run at all.
type Runner interface {
	Execute(ctx context.Context, script string) (Output, error)
}

// ExecRunner runs scripts as `<Interpreter> <Args...> <script>`.
type ExecRunner struct {
	Interpreter string
	Args        []string
}

// NewExecRunner creates a runner for the given interpreter. An empty
// interpreter selects osascript with "-e".
func NewExecRunner(interpreter string, args []string) *ExecRunner {
	if interpreter == "" {
		interpreter = DefaultInterpreter
		if args == nil {
			args = []string{"-e"}
		}
	}
	return &ExecRunner{Interpreter: interpreter, Args: args}
}

// Execute implements Runner.
func (r *ExecRunner) Execute(ctx context.Context, script string) (Output, error) {
	argv := make([]string, 0, len(r.Args)+1)
	argv = append(argv, r.Args...)
	argv = append(argv, script)

	cmd := exec.CommandContext(ctx, r.Interpreter, argv...)
	// Children of a killed interpreter may keep the output pipes open.
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, errors.Wrapf(ctxErr, "%s did not finish", r.Interpreter)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && out.ExitCode >= 0 {
		return out, nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return out, errors.Mark(errors.Wrapf(err, "run %s", r.Interpreter), autumnerrors.ErrInterpreterNotFound)
	}
	return out, errors.Wrapf(err, "run %s", r.Interpreter)
}

// Available reports whether the interpreter can be found on PATH.
func (r *ExecRunner) Available() bool {
	_, err := exec.LookPath(r.Interpreter)
	return err == nil
}
