// Package avail estimates the memory available to a new workload, the
// way the kernel's MemAvailable heuristic does, for kernels that do not
// expose the counter themselves.
package avail

import (
	"math"

	"memavail/internal/config"
	"memavail/internal/logger"
	"memavail/internal/meminfo"
	"memavail/internal/system"
	"memavail/internal/zoneinfo"
)

// Result is one point-in-time availability estimate together with the
// meminfo snapshot it was derived from.
type Result struct {
	EstimateKB uint64
	Meminfo    meminfo.Map
}

type Calculator struct {
	cfg    *config.Config
	log    logger.Logger
	reader *system.SystemReader

	pageSizeBytes uint64
}

func NewCalculator(cfg *config.Config, log logger.Logger) *Calculator {
	reader := system.NewReader(log)
	return &Calculator{
		cfg:           cfg,
		log:           log,
		reader:        reader,
		pageSizeBytes: uint64(reader.PageSize()),
	}
}

// Calculate produces the availability estimate in kB. Callers may
// supply pre-read snapshot lines for determinism; a nil slice means the
// corresponding pseudo-file is read live. Every structure built here is
// discarded on return; nothing is cached across calls.
func (c *Calculator) Calculate(meminfoLines, zoneinfoLines []string) (Result, error) {
	var err error
	if zoneinfoLines == nil {
		if zoneinfoLines, err = c.reader.ReadLines(c.cfg.ZoneinfoPath); err != nil {
			return Result{}, err
		}
	}
	if meminfoLines == nil {
		if meminfoLines, err = c.reader.ReadLines(c.cfg.MeminfoPath); err != nil {
			return Result{}, err
		}
	}

	zones, err := zoneinfo.Parse(zoneinfoLines)
	if err != nil {
		return Result{}, err
	}
	reservePages, err := TotalReservePages(zones)
	if err != nil {
		return Result{}, err
	}
	reserveKB := c.pagesToKB(reservePages)

	wmarkPages, err := zoneinfo.LowWatermarkPages(zoneinfoLines)
	if err != nil {
		return Result{}, err
	}
	wmarkKB := c.pagesToKB(wmarkPages)

	counters, err := meminfo.Parse(meminfoLines)
	if err != nil {
		return Result{}, err
	}

	memFree, err := counters.Get("MemFree")
	if err != nil {
		return Result{}, err
	}

	estimate := float64(memFree)
	if c.cfg.LegacyWatermark {
		estimate -= float64(wmarkKB)
	} else {
		estimate -= float64(reserveKB)
	}

	// Page cache is only partially available: reclaiming it all would
	// thrash, so half of it, bounded by the low watermark, stays off
	// the table.
	activeFile, err := counters.Get("Active(file)")
	if err != nil {
		return Result{}, err
	}
	inactiveFile, err := counters.Get("Inactive(file)")
	if err != nil {
		return Result{}, err
	}
	pagecache := float64(activeFile + inactiveFile)
	estimate += math.Round(pagecache - min(pagecache/2, float64(wmarkKB)))

	// Reclaimable slab is discounted the same way.
	sreclaimable, err := counters.Get("SReclaimable")
	if err != nil {
		return Result{}, err
	}
	slab := float64(sreclaimable)
	estimate += slab - min(slab/2, float64(wmarkKB))

	estimate = math.Round(max(estimate, 0))

	if c.cfg.VerboseTrace {
		c.log.Debug("availability computed",
			"mem_free_kb", memFree,
			"totalreserve_kb", reserveKB,
			"wmark_low_kb", wmarkKB,
			"pagecache_kb", uint64(pagecache),
			"sreclaimable_kb", sreclaimable,
			"legacy_watermark", c.cfg.LegacyWatermark,
			"estimate_kb", uint64(estimate),
		)
	}

	return Result{EstimateKB: uint64(estimate), Meminfo: counters}, nil
}

// pagesToKB converts a page count to kB, rounding half-up.
func (c *Calculator) pagesToKB(pages uint64) uint64 {
	return (pages*c.pageSizeBytes + 512) / 1024
}
