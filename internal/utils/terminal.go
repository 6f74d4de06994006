package utils

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/term"
)

// ReadPin prompts for a PIN without echoing input. It reads from stdin when
// stdin is a terminal, and falls back to /dev/tty (CON on Windows) otherwise.
func ReadPin(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		return readHidden(fd, prompt)
	}

	tty, err := os.Open(ttyPath())
	if err != nil {
		return nil, fmt.Errorf("cannot read PIN: stdin is not a terminal and %s is unavailable: %w", ttyPath(), err)
	}
	defer tty.Close()

	fd = int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read PIN: %s is not a terminal", ttyPath())
	}
	return readHidden(fd, prompt)
}

func readHidden(fd int, prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	pin, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, fmt.Errorf("failed to read PIN: %w", err)
	}
	return pin, nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func ttyPath() string {
	if runtime.GOOS == "windows" {
		return "CON"
	}
	return "/dev/tty"
}
