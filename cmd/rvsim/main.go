// Package main provides the command-line driver for rvsim.
// It loads a ROM image, runs the core for a number of cycles and reports
// the register file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
	"github.com/sarchlab/rvsim/loader"
	"github.com/sarchlab/rvsim/timing/cache"
	"github.com/sarchlab/rvsim/timing/core"
)

var (
	configPath = flag.String("config", "", "Path to memory map JSON file")
	cycles     = flag.Uint64("cycles", 0, "Cycles to run (default: 5 per program word)")
	profile    = flag.Bool("profile", false, "Profile instruction fetch with an L1I model")
	dumpPath   = flag.String("dump", "", "Write a graphviz dump of the final state to this path")
	showRegs   = flag.Bool("regs", true, "Print the register file after the run")
	demo       = flag.Bool("demo", false, "Run the built-in ADDI/ADD/SUB program")
	verbose    = flag.Bool("v", false, "Verbose output (per-cycle trace)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 && !*demo {
		fmt.Fprintf(os.Stderr, "Usage: rvsim [options] <program>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	os.Exit(run(logger, os.Stdout))
}

func run(logger *logrus.Logger, out io.Writer) int {
	memMap := emu.DefaultMemoryMap()
	if *configPath != "" {
		var err error
		memMap, err = emu.LoadMemoryMap(*configPath)
		if err != nil {
			logger.WithError(err).Error("loading memory map")
			return 1
		}
	}

	opts := []core.CoreOption{
		core.WithMemoryMap(memMap),
		core.WithLogger(logger),
	}

	var profiler *cache.Profiler
	if *profile {
		var err error
		profiler, err = cache.NewReadOnly(cache.DefaultL1IConfig())
		if err != nil {
			logger.WithError(err).Error("creating fetch profiler")
			return 1
		}
		opts = append(opts, core.WithAccessObserver(profiler))
	}

	c, err := core.NewCore(opts...)
	if err != nil {
		logger.WithError(err).Error("creating core")
		return 1
	}

	prog, err := loadProgram(memMap)
	if err != nil {
		logger.WithError(err).Error("loading program")
		return 1
	}

	if prog.EntryPoint != memMap.ROMBase {
		logger.WithFields(logrus.Fields{
			"entry":    fmt.Sprintf("0x%08x", prog.EntryPoint),
			"rom_base": fmt.Sprintf("0x%08x", memMap.ROMBase),
		}).Warn("entry point ignored; fetch starts at the ROM base")
	}

	if *demo {
		c.RegFile().WriteReg(1, 0x01020304)
		c.RegFile().WriteReg(2, 0x02030405)
	}

	if err := c.LoadProgram(prog.Words); err != nil {
		logger.WithError(err).Error("loading ROM")
		return 1
	}

	n := *cycles
	if n == 0 {
		n = uint64(len(prog.Words)) * core.CyclesPerInstruction
	}

	exitCode := 0
	if err := c.RunCycles(n); err != nil {
		fmt.Fprintf(out, "halted: %v\n", err)
		exitCode = 1
	}

	report(out, c, profiler)

	if *dumpPath != "" {
		if err := dump(*dumpPath, c); err != nil {
			logger.WithError(err).Error("writing state dump")
			return 1
		}
	}

	return exitCode
}

func loadProgram(memMap *emu.MemoryMap) (*loader.Program, error) {
	if *demo {
		return &loader.Program{
			EntryPoint: memMap.ROMBase,
			Words: []uint32{
				insts.ADDI(3, 1, -1),
				insts.ADD(4, 1, 2),
				insts.SUB(5, 1, 2),
			},
		}, nil
	}
	return loader.Load(flag.Arg(0), memMap.ROMBase, memMap.ROMSize)
}

func report(out io.Writer, c *core.Core, profiler *cache.Profiler) {
	stats := c.Stats()

	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "Cycles:       %d\n", stats.Cycles)
	fmt.Fprintf(out, "Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(out, "Reg writes:   %d\n", stats.RegWrites)
	fmt.Fprintf(out, "PC:           0x%08x\n", c.Pipeline.PC())

	if *showRegs {
		fmt.Fprintf(out, "\nRegisters:\n")
		regs := c.RegFile().Snapshot()
		for i := 0; i < emu.NumRegs; i += 4 {
			fmt.Fprintf(out, "  x%-2d 0x%08x  x%-2d 0x%08x  x%-2d 0x%08x  x%-2d 0x%08x\n",
				i, regs[i], i+1, regs[i+1], i+2, regs[i+2], i+3, regs[i+3])
		}
	}

	if profiler != nil {
		ps := profiler.Stats()
		fmt.Fprintf(out, "\nL1I profile:\n")
		fmt.Fprintf(out, "  Reads:     %d\n", ps.Reads)
		fmt.Fprintf(out, "  Hits:      %d\n", ps.Hits)
		fmt.Fprintf(out, "  Misses:    %d\n", ps.Misses)
		fmt.Fprintf(out, "  Evictions: %d\n", ps.Evictions)
		fmt.Fprintf(out, "  Hit rate:  %.1f%%\n", 100*ps.HitRate())
		fmt.Fprintf(out, "  Latency:   %d cycles\n", ps.Latency)
	}
}

func dump(path string, c *core.Core) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}
	defer func() { _ = f.Close() }()

	snap := c.Snapshot()
	memviz.Map(f, &snap)

	return nil
}
