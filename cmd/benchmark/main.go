// Command benchmark runs the rvsim timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv        Output results in CSV format (default: human-readable)
//	-json       Output results in JSON format
//	-core       Run only the core benchmark subset
//	-no-icache  Disable fetch profiling
//	-config     Path to a memory map JSON file
//
// Example:
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rvsim/benchmarks"
	"github.com/sarchlab/rvsim/emu"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	coreOnly := flag.Bool("core", false, "Run only the core benchmark subset")
	noICache := flag.Bool("no-icache", false, "Disable fetch profiling")
	configPath := flag.String("config", "", "Path to memory map JSON file")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	config := benchmarks.DefaultConfig()
	config.EnableICache = !*noICache
	config.Output = os.Stdout

	if *configPath != "" {
		memMap, err := emu.LoadMemoryMap(*configPath)
		if err != nil {
			logger.WithError(err).Fatal("loading memory map")
		}
		config.MemoryMap = memMap
	}

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			logger.WithError(err).Fatal("writing JSON report")
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		fmt.Println("rvsim Timing Benchmark Harness")
		fmt.Println("==============================")
		fmt.Printf("I-Cache profiling: %v\n", config.EnableICache)
		fmt.Println("")
		harness.PrintResults(results)

		summary := benchmarks.Summarize(results)
		fmt.Println("=== Summary ===")
		fmt.Printf("Passed: %d/%d, average CPI %.3f\n",
			summary.Passed, summary.TotalBenchmarks, summary.AverageCPI)
	}

	for _, r := range results {
		if !r.Passed {
			os.Exit(1)
		}
	}
}
