package hosts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadFile returns the hostnames listed in path, one per line.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hosts file: %w", err)
	}
	defer f.Close()

	names, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read hosts file %s: %w", path, err)
	}
	return names, nil
}

// Read returns the non-blank lines of r with surrounding whitespace and
// line endings (LF or CRLF) removed. Order and duplicates are kept.
func Read(r io.Reader) ([]string, error) {
	names := []string{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return names, nil
}
