package zoneinfo

import (
	"fmt"
	"strconv"
)

// LowWatermarkPages sums the "low" watermark across every zone in the
// snapshot. The low watermark is not needed anywhere else, so this is
// a flat scan of the raw lines rather than a pass over parsed zones.
func LowWatermarkPages(lines []string) (uint64, error) {
	var total uint64
	inZone := false
	sawLow := false

	for _, line := range lines {
		if headerRE.MatchString(line) {
			inZone = true
			sawLow = false
			continue
		}

		m := lowRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if !inZone {
			return 0, fmt.Errorf("zoneinfo: got low before zone start")
		}
		if sawLow {
			return 0, fmt.Errorf("zoneinfo: got low twice for one zone")
		}

		v, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("zoneinfo: bad low value in %q: %w", line, err)
		}
		total += v
		sawLow = true
	}

	return total, nil
}
