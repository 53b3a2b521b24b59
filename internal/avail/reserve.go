package avail

import (
	"fmt"

	"memavail/internal/zoneinfo"
)

// TotalReservePages reproduces the kernel's totalreserve_pages
// accounting: for every zone, its high watermark plus the largest
// protection reserve claimed against it by any higher zone index,
// capped at the zone's managed pages.
//
// Every zone must report a protection array of the same length
// (MAX_NR_ZONES); the check runs before any total is accumulated.
func TotalReservePages(zones zoneinfo.AllZones) (uint64, error) {
	maxNrZones := -1
	for _, nodeZones := range zones {
		for _, z := range nodeZones {
			if maxNrZones == -1 {
				maxNrZones = len(z.LowmemReserve)
				continue
			}
			if len(z.LowmemReserve) != maxNrZones {
				return 0, fmt.Errorf("zoneinfo: protection array length mismatch: zone %q has %d entries, want %d",
					z.Header, len(z.LowmemReserve), maxNrZones)
			}
		}
	}

	var total uint64
	for _, nodeZones := range zones {
		// Zones are contiguous from index 0, so walking the recorded
		// sequence stops at the first absent index. This matches the
		// kernel's own loop over populated zones.
		for i, z := range nodeZones {
			var reserve uint64
			for j := i; j < maxNrZones; j++ {
				reserve = max(reserve, z.LowmemReserve[j])
			}
			reserve += z.HighWatermarkPages
			reserve = min(reserve, z.ManagedPages)
			total += reserve
		}
	}

	return total, nil
}
