// Package system
package system

import (
	"bufio"
	"fmt"
	"os"

	"memavail/internal/logger"
)

type SystemReader struct {
	log logger.Logger
}

func NewReader(log logger.Logger) *SystemReader {
	return &SystemReader{log: log}
}

// ReadLines takes one full snapshot of a kernel pseudo-file: open, read
// every line, close. A failure at any step aborts the whole read; there
// are no partial results and no retries.
func (r *SystemReader) ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		f.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", path, err)
	}

	r.log.Debug("snapshot read", "path", path, "lines", len(lines))
	return lines, nil
}

// PageSize reports the host's memory page size in bytes.
func (r *SystemReader) PageSize() int {
	return os.Getpagesize()
}
