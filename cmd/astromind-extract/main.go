// Command astromind-extract batch-extracts wiki HTML pages into typed
// JSON records without touching the vector store.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"astromind/internal/config"
	"astromind/internal/extract"
	"astromind/internal/logger"
)

func main() {
	var (
		cfgPath string
		outDir  string
		debug   bool
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.StringVar(&outDir, "out", "extracted", "Directory for extracted JSON records")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	logger.Init(debug)

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	extractors := []struct {
		kind string
		fn   extract.Func
	}{
		{"ship", extract.Ship},
		{"weapon", extract.Weapon},
		{"equipment", extract.Equipment},
		{"engineering", extract.Engineering},
	}

	total := 0
	for _, e := range extractors {
		dir := cfg.Dataset.Dir(e.kind)
		if _, err := os.Stat(dir); err != nil {
			logger.Warn("Skipping %s: %v", dir, err)
			continue
		}
		records, err := extract.Dir(dir, e.fn)
		if err != nil {
			log.Fatalf("extraction of %s failed: %v", e.kind, err)
		}
		for _, rec := range records {
			path, err := extract.WriteRecord(outDir, rec)
			if err != nil {
				log.Fatalf("failed to write record: %v", err)
			}
			logger.Debug("Wrote %s", path)
		}
		logger.Info("Extracted %d %s records from %s", len(records), e.kind, dir)
		total += len(records)
	}
	fmt.Printf("Extracted %d records into %s\n", total, outDir)
}
