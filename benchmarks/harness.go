// Package benchmarks provides a timing benchmark harness for rvsim.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/timing/cache"
	"github.com/sarchlab/rvsim/timing/core"
)

// Version is reported in JSON output.
const Version = "0.1.0"

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count from the timing simulator
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// RegWrites is the number of register file writes
	RegWrites uint64 `json:"reg_writes"`

	// ICacheHits/Misses (if the fetch profiler is enabled)
	ICacheHits   uint64 `json:"icache_hits,omitempty"`
	ICacheMisses uint64 `json:"icache_misses,omitempty"`

	// Passed is true when every expected register matched
	Passed bool `json:"passed"`

	// Mismatches lists registers that did not hold the expected value
	Mismatches []string `json:"mismatches,omitempty"`

	// Error is set if the run stopped on a fault
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup initializes registers before the run
	Setup func(regFile *emu.RegFile)

	// Program is the RV32 machine code, one word per instruction
	Program []uint32

	// Expected maps register numbers to their final values
	Expected map[uint8]uint32
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// EnableICache attaches a fetch profiler to the bus
	EnableICache bool

	// ICache is the profiler geometry (zero value: DefaultL1IConfig)
	ICache cache.Config

	// MemoryMap is the ROM/RAM layout; nil means the default
	MemoryMap *emu.MemoryMap

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Logger receives pipeline traces (default: a logger writing nowhere)
	Logger logrus.FieldLogger
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableICache: true,
		ICache:       cache.DefaultL1IConfig(),
		Output:       os.Stdout,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.ICache == (cache.Config{}) {
		config.ICache = cache.DefaultL1IConfig()
	}
	if config.Logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		config.Logger = quiet
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

// runBenchmark executes a single benchmark on a fresh core.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	opts := []core.CoreOption{core.WithLogger(h.config.Logger)}
	if h.config.MemoryMap != nil {
		opts = append(opts, core.WithMemoryMap(h.config.MemoryMap))
	}

	var profiler *cache.Profiler
	if h.config.EnableICache {
		var err error
		profiler, err = cache.NewReadOnly(h.config.ICache)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		opts = append(opts, core.WithAccessObserver(profiler))
	}

	c, err := core.NewCore(opts...)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if err := c.LoadProgram(bench.Program); err != nil {
		result.Error = err.Error()
		return result
	}

	if bench.Setup != nil {
		bench.Setup(c.RegFile())
	}

	start := time.Now()
	err = c.RunInstructions(uint64(len(bench.Program)))
	result.WallTime = time.Since(start)

	stats := c.Stats()
	result.SimulatedCycles = stats.Cycles
	result.InstructionsRetired = stats.Instructions
	result.CPI = c.Pipeline.Stats().CPI()
	result.RegWrites = stats.RegWrites

	if profiler != nil {
		icStats := profiler.Stats()
		result.ICacheHits = icStats.Hits
		result.ICacheMisses = icStats.Misses
	}

	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Mismatches = checkRegisters(c, bench.Expected)
	result.Passed = len(result.Mismatches) == 0

	return result
}

// checkRegisters compares final register values in register order.
func checkRegisters(c *core.Core, expected map[uint8]uint32) []string {
	regs := make([]int, 0, len(expected))
	for r := range expected {
		regs = append(regs, int(r))
	}
	sort.Ints(regs)

	var mismatches []string
	for _, r := range regs {
		want := expected[uint8(r)]
		if got := c.ReadReg(uint8(r)); got != want {
			mismatches = append(mismatches,
				fmt.Sprintf("x%d: got 0x%08x, want 0x%08x", r, got, want))
		}
	}
	return mismatches
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	out := h.config.Output
	_, _ = fmt.Fprintln(out, "=== rvsim Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(out, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(out, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(out, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintln(out, "  --- Timing ---")
		_, _ = fmt.Fprintf(out, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(out, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(out, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(out, "  Register Writes:      %d\n", r.RegWrites)

		if r.ICacheHits > 0 || r.ICacheMisses > 0 {
			_, _ = fmt.Fprintln(out, "  --- I-Cache ---")
			_, _ = fmt.Fprintf(out, "  Hits:   %d\n", r.ICacheHits)
			_, _ = fmt.Fprintf(out, "  Misses: %d\n", r.ICacheMisses)
		}

		switch {
		case r.Error != "":
			_, _ = fmt.Fprintf(out, "  Result: FAULT (%s)\n", r.Error)
		case r.Passed:
			_, _ = fmt.Fprintln(out, "  Result: PASS")
		default:
			_, _ = fmt.Fprintln(out, "  Result: FAIL")
			for _, m := range r.Mismatches {
				_, _ = fmt.Fprintf(out, "    %s\n", m)
			}
		}

		_, _ = fmt.Fprintf(out, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(out, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,cpi,reg_writes,icache_hits,icache_misses,passed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%d,%d,%d,%t\n",
			r.Name,
			r.SimulatedCycles,
			r.InstructionsRetired,
			r.CPI,
			r.RegWrites,
			r.ICacheHits,
			r.ICacheMisses,
			r.Passed,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Version of the simulator
	Version string `json:"version"`

	// ICacheEnabled records whether fetches were profiled
	ICacheEnabled bool `json:"icache_enabled"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	TotalBenchmarks   int           `json:"total_benchmarks"`
	Passed            int           `json:"passed"`
	TotalCycles       uint64        `json:"total_cycles"`
	TotalInstructions uint64        `json:"total_instructions"`
	AverageCPI        float64       `json:"average_cpi"`
	TotalWallTime     time.Duration `json:"total_wall_time_ns"`
}

// Summarize aggregates results.
func Summarize(results []BenchmarkResult) ReportSummary {
	s := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		s.TotalCycles += r.SimulatedCycles
		s.TotalInstructions += r.InstructionsRetired
		s.TotalWallTime += r.WallTime
		if r.Passed {
			s.Passed++
		}
	}

	if s.TotalInstructions > 0 {
		s.AverageCPI = float64(s.TotalCycles) / float64(s.TotalInstructions)
	}

	return s
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			Version:       Version,
			ICacheEnabled: h.config.EnableICache,
		},
		Results: results,
		Summary: Summarize(results),
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
