package util

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ReadLines reads a text file and returns its lines with a Windows '\r'
// removed. Other whitespace is kept. Blank lines are dropped.
//
// Arguments:
// - path: Path of the text file.
//
// Returns:
// - []string: The non-empty lines in file order.
// - error: Error if the file cannot be read.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return lines, nil
}

// FindValue scans lines of the form "key = value" and returns the value of the
// first line whose value contains the given marker (for example "test.txt" or
// ".names"). Keys are ignored, which matches darknet .data files where the
// key names vary between tools.
//
// Arguments:
// - lines: Lines of a darknet style key/value file.
// - marker: Substring the value must contain.
//
// Returns:
// - string: The trimmed value, or "" when no line matches.
func FindValue(lines []string, marker string) string {
	for _, line := range lines {
		_, value, ok := strings.Cut(line, "= ")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if strings.Contains(value, marker) {
			return value
		}
	}
	return ""
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// BaseName returns the part of a slash separated path after the last '/'.
func BaseName(path string) string {
	return filepath.Base(filepath.ToSlash(path))
}
