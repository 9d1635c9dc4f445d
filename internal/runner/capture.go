package runner

import (
	"fmt"
	"os"
	"strings"

	"github.com/acarl005/stripansi"
)

// ReadCapture reads a captured stdout or stderr file with ANSI escape
// sequences removed. A missing file reads as empty.
func ReadCapture(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read captured output %s: %w", path, err)
	}
	return stripansi.Strip(string(data)), nil
}

// Tail returns the last n lines of s, without a trailing newline.
func Tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if n <= 0 || s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
