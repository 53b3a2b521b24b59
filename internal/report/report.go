// Package report renders the availability estimate and the meminfo
// snapshot as a human-readable table.
package report

import (
	"fmt"
	"strings"

	"memavail/internal/meminfo"
)

// The keys below are the kernel's own counter names and double as row
// labels. Keys absent from the snapshot render as "-": the report is
// display glue, strictness lives in the calculator.
type section struct {
	title string
	keys  []string
}

var layout = []section{
	{"Memory", []string{
		"MemTotal",
		"MemFree",
	}},
	{"Anonymous", []string{
		"Active(anon)",
		"Inactive(anon)",
		"AnonPages",
		"Shmem",
		"Mapped",
	}},
	{"File cache", []string{
		"Active(file)",
		"Inactive(file)",
		"Buffers",
		"Cached",
		"Dirty",
		"Writeback",
		"WritebackTmp",
		"NFS_Unstable",
		"Bounce",
	}},
	{"Kernel", []string{
		"SReclaimable",
		"SUnreclaim",
		"PageTables",
		"KernelStack",
	}},
	{"Locked", []string{
		"Unevictable",
		"Mlocked",
	}},
	{"Swap", []string{
		"SwapTotal",
		"SwapFree",
		"SwapCached",
	}},
}

// Render builds the full report. Percentages are relative to MemTotal.
func Render(estimateKB uint64, counters meminfo.Map) string {
	var b strings.Builder

	total := counters["MemTotal"]
	fmt.Fprintf(&b, "MemAvailable (estimated): %s%s\n",
		scaleKB(estimateKB), percentSuffix(estimateKB, total))

	for _, s := range layout {
		fmt.Fprintf(&b, "\n%s\n", s.title)
		for _, key := range s.keys {
			v, ok := counters[key]
			if !ok {
				fmt.Fprintf(&b, "  %-15s %11s %8s\n", key, "-", "-")
				continue
			}
			fmt.Fprintf(&b, "  %-15s %11s %8s\n", key, scaleKB(v), percent(v, total))
		}
	}

	return b.String()
}

func scaleKB(kb uint64) string {
	v := float64(kb)
	switch {
	case kb >= 1<<20:
		return fmt.Sprintf("%.2f GiB", v/(1<<20))
	case kb >= 1<<10:
		return fmt.Sprintf("%.1f MiB", v/(1<<10))
	default:
		return fmt.Sprintf("%d KiB", kb)
	}
}

func percent(kb, totalKB uint64) string {
	if totalKB == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(kb)/float64(totalKB)*100)
}

func percentSuffix(kb, totalKB uint64) string {
	if totalKB == 0 {
		return ""
	}
	return fmt.Sprintf("  (%s of MemTotal)", percent(kb, totalKB))
}
