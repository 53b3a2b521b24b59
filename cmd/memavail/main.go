package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"memavail/internal/avail"
	"memavail/internal/config"
	"memavail/internal/logger"
	"memavail/internal/report"
	"memavail/internal/system"
)

func main() {
	legacy := flag.Bool("legacy", false, "subtract the summed low watermark instead of totalreserve_pages")
	verbose := flag.Bool("verbose", false, "log every intermediate quantity")
	meminfoPath := flag.String("meminfo", "", "read the meminfo snapshot from this file instead of /proc/meminfo")
	zoneinfoPath := flag.String("zoneinfo", "", "read the zoneinfo snapshot from this file instead of /proc/zoneinfo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Flags win over the environment.
	if *legacy {
		cfg.LegacyWatermark = true
	}
	if *verbose {
		cfg.VerboseTrace = true
		cfg.LogLevel = "debug"
	}
	if *meminfoPath != "" {
		cfg.MeminfoPath = *meminfoPath
	}
	if *zoneinfoPath != "" {
		cfg.ZoneinfoPath = *zoneinfoPath
	}

	appLog := logger.New(cfg)
	reader := system.NewReader(appLog)

	var meminfoLines, zoneinfoLines []string
	var g errgroup.Group
	g.Go(func() error {
		var err error
		meminfoLines, err = reader.ReadLines(cfg.MeminfoPath)
		return err
	})
	g.Go(func() error {
		var err error
		zoneinfoLines, err = reader.ReadLines(cfg.ZoneinfoPath)
		return err
	})
	if err := g.Wait(); err != nil {
		appLog.Error("failed to read memory snapshot", "error", err)
		os.Exit(1)
	}

	calc := avail.NewCalculator(cfg, appLog)
	result, err := calc.Calculate(meminfoLines, zoneinfoLines)
	if err != nil {
		appLog.Error("failed to compute availability", "error", err)
		os.Exit(1)
	}

	fmt.Print(report.Render(result.EstimateKB, result.Meminfo))
}
