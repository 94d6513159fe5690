// Package wizard holds the interactive prompts used by the CLI.
package wizard

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if both stdin and stdout are terminals, so a
// form can be shown and answered.
func CanInteract() bool {
	return IsTerminal() && term.IsTerminal(int(os.Stdin.Fd()))
}
