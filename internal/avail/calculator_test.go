package avail

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"memavail/internal/config"
	"memavail/internal/logger"
)

// Snapshot pair behind the regression numbers: with a 4 KiB page,
// totalreserve_pages=750 -> 3000 kB and wmark_low=250 pages -> 1000 kB.
var (
	testZoneinfoLines = []string{
		"Node 0, zone   Normal",
		"  pages free     12345",
		"        min      200",
		"        low      250",
		"        high     750",
		"        managed  100000",
		"        protection: (0)",
	}
	testMeminfoLines = []string{
		"MemTotal:       16000 kB",
		"MemFree:         9000 kB",
		"Active(file):    1000 kB",
		"Inactive(file):   500 kB",
		"SReclaimable:    2000 kB",
	}
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:     "error",
		LogFormat:    "text",
		MeminfoPath:  "/proc/meminfo",
		ZoneinfoPath: "/proc/zoneinfo",
	}
}

func testCalculator(t *testing.T, cfg *config.Config) *Calculator {
	t.Helper()

	c := NewCalculator(cfg, logger.New(cfg))
	c.pageSizeBytes = 4096
	return c
}

func TestCalculate(t *testing.T) {
	c := testCalculator(t, testConfig())

	result, err := c.Calculate(testMeminfoLines, testZoneinfoLines)
	require.NoError(t, err)

	// base 9000-3000=6000, pagecache 1500-min(750,1000)=750,
	// slab 2000-min(1000,1000)=1000 -> 7750.
	require.Equal(t, uint64(7750), result.EstimateKB)
	require.Equal(t, uint64(16000), result.Meminfo["MemTotal"])
}

func TestCalculateLegacyWatermark(t *testing.T) {
	cfg := testConfig()
	cfg.LegacyWatermark = true
	c := testCalculator(t, cfg)

	result, err := c.Calculate(testMeminfoLines, testZoneinfoLines)
	require.NoError(t, err)

	// base 9000-1000=8000 instead; the discounts are unchanged.
	require.Equal(t, uint64(9750), result.EstimateKB)
}

func TestCalculateClampsAtZero(t *testing.T) {
	c := testCalculator(t, testConfig())

	result, err := c.Calculate([]string{
		"MemFree:          100 kB",
		"Active(file):       0 kB",
		"Inactive(file):     0 kB",
		"SReclaimable:       0 kB",
	}, testZoneinfoLines)
	require.NoError(t, err)
	require.Equal(t, uint64(0), result.EstimateKB)
}

func TestCalculateMissingKeyFails(t *testing.T) {
	c := testCalculator(t, testConfig())

	for _, key := range []string{"MemFree", "Active(file)", "Inactive(file)", "SReclaimable"} {
		var lines []string
		for _, l := range testMeminfoLines {
			if !strings.HasPrefix(l, key) {
				lines = append(lines, l)
			}
		}

		_, err := c.Calculate(lines, testZoneinfoLines)
		require.Error(t, err)
		require.Contains(t, err.Error(), key)
	}
}

func TestCalculateReadsSnapshotFiles(t *testing.T) {
	dir := t.TempDir()
	meminfoPath := filepath.Join(dir, "meminfo")
	zoneinfoPath := filepath.Join(dir, "zoneinfo")
	require.NoError(t, os.WriteFile(meminfoPath, []byte(joinLines(testMeminfoLines)), 0o644))
	require.NoError(t, os.WriteFile(zoneinfoPath, []byte(joinLines(testZoneinfoLines)), 0o644))

	cfg := testConfig()
	cfg.MeminfoPath = meminfoPath
	cfg.ZoneinfoPath = zoneinfoPath
	c := testCalculator(t, cfg)

	result, err := c.Calculate(nil, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(7750), result.EstimateKB)
}

func TestCalculateMissingSnapshotFileFails(t *testing.T) {
	cfg := testConfig()
	cfg.ZoneinfoPath = filepath.Join(t.TempDir(), "nope")
	c := testCalculator(t, cfg)

	_, err := c.Calculate(testMeminfoLines, nil)
	require.Error(t, err)
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}
