package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ReadPinFromStdin reads a single line from piped stdin and returns it with
// the line ending removed. Returns an error if stdin is a terminal.
func ReadPinFromStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}

	// ModeCharDevice means stdin is a terminal, not a pipe.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no data provided on stdin (hint: pipe your PIN to this command)")
	}

	return readLine(os.Stdin)
}

func readLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	n := len(line)
	for n > 0 && (line[n-1] == '\n' || line[n-1] == '\r') {
		n--
	}
	if n == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}

	out := make([]byte, n)
	copy(out, line)
	for i := range line {
		line[i] = 0
	}
	return out, nil
}
