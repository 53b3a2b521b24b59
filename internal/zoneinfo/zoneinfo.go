// Package zoneinfo parses the kernel's per-zone memory statistics.
//
// A /proc/zoneinfo snapshot is a sequence of blocks, each introduced by
// a "Node <N>, zone <name>" header. Only the fields the availability
// estimate needs are recognized; everything else is ignored so newer
// kernels with extra fields still parse.
package zoneinfo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Zone is one memory zone inside one NUMA node.
type Zone struct {
	NodeID             int
	Header             string
	HighWatermarkPages uint64
	ManagedPages       uint64
	// LowmemReserve is the zone's protection array: pages reserved
	// against allocations falling back from each higher zone index.
	LowmemReserve []uint64
}

// AllZones groups zones by NUMA node id, in snapshot order.
type AllZones map[int][]Zone

var (
	headerRE     = regexp.MustCompile(`^Node\s+(\d+),\s+zone\s+(\S+)`)
	highRE       = regexp.MustCompile(`^\s*high\s+(\d+)\s*$`)
	managedRE    = regexp.MustCompile(`^\s*managed\s+(\d+)\s*$`)
	protectionRE = regexp.MustCompile(`^\s*protection:\s*\((.*)\)\s*$`)
	lowRE        = regexp.MustCompile(`^\s*low\s+(\d+)\s*$`)
)

// accumulator collects the fields of the zone block currently being
// scanned. Nil pointers mark fields not seen yet; a zone is sealed
// exactly once, at the next header or at end of input.
type accumulator struct {
	header  string
	nodeID  int
	high    *uint64
	managed *uint64
	reserve []uint64
}

func (a *accumulator) seal(zones AllZones) error {
	if a.high == nil {
		return fmt.Errorf("zoneinfo: zone %q is missing its high watermark", a.header)
	}
	if a.managed == nil {
		return fmt.Errorf("zoneinfo: zone %q is missing its managed count", a.header)
	}
	if a.reserve == nil {
		return fmt.Errorf("zoneinfo: zone %q is missing its protection array", a.header)
	}

	zones[a.nodeID] = append(zones[a.nodeID], Zone{
		NodeID:             a.nodeID,
		Header:             a.header,
		HighWatermarkPages: *a.high,
		ManagedPages:       *a.managed,
		LowmemReserve:      a.reserve,
	})
	return nil
}

// Parse turns raw zoneinfo lines into an AllZones structure.
func Parse(lines []string) (AllZones, error) {
	zones := make(AllZones)
	var cur *accumulator

	for _, line := range lines {
		if m := headerRE.FindStringSubmatch(line); m != nil {
			if cur != nil {
				if err := cur.seal(zones); err != nil {
					return nil, err
				}
			}
			nodeID, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("zoneinfo: bad node id in header %q: %w", line, err)
			}
			cur = &accumulator{header: strings.TrimSpace(line), nodeID: nodeID}
			continue
		}

		if m := highRE.FindStringSubmatch(line); m != nil {
			if cur == nil {
				return nil, fmt.Errorf("zoneinfo: got high before zone start")
			}
			if cur.high != nil {
				return nil, fmt.Errorf("zoneinfo: got high twice for zone %q", cur.header)
			}
			v, err := strconv.ParseUint(m[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("zoneinfo: bad high value in %q: %w", line, err)
			}
			cur.high = &v
			continue
		}

		if m := managedRE.FindStringSubmatch(line); m != nil {
			if cur == nil {
				return nil, fmt.Errorf("zoneinfo: got managed before zone start")
			}
			if cur.managed != nil {
				return nil, fmt.Errorf("zoneinfo: got managed twice for zone %q", cur.header)
			}
			v, err := strconv.ParseUint(m[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("zoneinfo: bad managed value in %q: %w", line, err)
			}
			cur.managed = &v
			continue
		}

		if m := protectionRE.FindStringSubmatch(line); m != nil {
			if cur == nil {
				return nil, fmt.Errorf("zoneinfo: got protection before zone start")
			}
			if cur.reserve != nil {
				return nil, fmt.Errorf("zoneinfo: got protection twice for zone %q", cur.header)
			}
			reserve, err := parseProtection(m[1])
			if err != nil {
				return nil, fmt.Errorf("zoneinfo: bad protection line %q: %w", line, err)
			}
			cur.reserve = reserve
			continue
		}

		// Unrecognized field, skip.
	}

	if cur != nil {
		if err := cur.seal(zones); err != nil {
			return nil, err
		}
	}

	return zones, nil
}

func parseProtection(list string) ([]uint64, error) {
	parts := strings.Split(list, ",")
	reserve := make([]uint64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		reserve = append(reserve, v)
	}
	return reserve, nil
}
