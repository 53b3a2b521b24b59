// Package meminfo parses the kernel's global memory counters.
package meminfo

import (
	"fmt"
	"strconv"
	"strings"
)

// Map holds one /proc/meminfo snapshot, keyed by the exact counter name
// the kernel prints (e.g. "MemFree", "Active(file)"). Values are kB.
type Map map[string]uint64

// Get returns the counter value for key, failing when the snapshot did
// not carry it.
func (m Map) Get(key string) (uint64, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("meminfo: required key %q is missing", key)
	}
	return v, nil
}

// Parse turns raw meminfo lines into a Map. HugePages_* counters are
// skipped; every other line must look like "<Key>: <digits> kB", else
// the parse fails. Duplicate keys keep the last occurrence.
func Parse(lines []string) (Map, error) {
	m := make(Map, len(lines))

	for _, line := range lines {
		if strings.HasPrefix(line, "HugePages_") {
			continue
		}

		key, rest, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("meminfo: malformed line %q", line)
		}

		digits, ok := strings.CutSuffix(strings.TrimSpace(rest), " kB")
		if !ok {
			return nil, fmt.Errorf("meminfo: malformed line %q", line)
		}

		value, err := strconv.ParseUint(strings.TrimSpace(digits), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("meminfo: malformed line %q", line)
		}

		m[strings.TrimSpace(key)] = value
	}

	return m, nil
}
