// Command tomasim runs a cycle-accurate Tomasulo/ROB simulation of a
// MIPS-like program text file and reports its performance metrics.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/tomasim/asm"
	"github.com/sarchlab/tomasim/fuconfig"
	"github.com/sarchlab/tomasim/memsub"
	"github.com/sarchlab/tomasim/sim"
)

var (
	configPath = flag.String("config", "", "Path to an FU configuration JSON file")
	maxCycles  = flag.Int("max-cycles", 0, "Stop after this many cycles even if unfinished (0 = unbounded)")
	cache      = flag.Bool("cache", false, "Track L1 data-cache hit/miss statistics for memory accesses")
	verbose    = flag.Bool("v", false, "Print a per-cycle trace")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: tomasim [options] <program.txt>\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	exitCode := run(flag.Arg(0))
	os.Exit(exitCode)
}

func run(programPath string) int {
	f, err := os.Open(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening program: %v\n", err)
		return 1
	}
	defer func() { _ = f.Close() }()

	parsed, err := asm.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing program: %v\n", err)
		return 1
	}
	for _, w := range parsed.Warnings {
		fmt.Fprintf(os.Stderr, "warning: line %d: %s: %s\n", w.Line, w.Text, w.Message)
	}

	cfg := fuconfig.Default()
	if *configPath != "" {
		cfg, err = fuconfig.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading FU config: %v\n", err)
			return 1
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid FU config: %v\n", err)
		return 1
	}

	opts := []sim.Option{sim.WithFUConfig(cfg)}
	if *cache {
		opts = append(opts, sim.WithMemoryCache(memsub.DefaultConfig()))
	}

	s := sim.NewSimulator(opts...)
	s.Registers().Seed("R0", 0)
	s.LoadProgram(parsed.Program)

	for !s.IsFinished() {
		if *maxCycles > 0 && s.Metrics().TotalCycles >= int64(*maxCycles) {
			break
		}
		s.Tick()
		if *verbose {
			m := s.Metrics()
			fmt.Printf("cycle %d: pc=%d rob_head=%d rob_tail=%d committed=%d\n",
				m.TotalCycles, m.PC, m.RobHead, m.RobTail, m.Committed)
		}
	}

	printMetrics(s.Metrics())
	printRegisters(s)
	return 0
}

func printMetrics(m sim.Metrics) {
	fmt.Printf("\nTotal Cycles: %d\n", m.TotalCycles)
	fmt.Printf("Committed Instructions: %d\n", m.Committed)
	fmt.Printf("IPC: %.3f\n", m.IPC)
	fmt.Printf("Bubble Cycles: %d\n", m.Bubbles)
	if m.CacheActive {
		fmt.Printf("Cache: reads=%d writes=%d hits=%d misses=%d evictions=%d\n",
			m.CacheStats.Reads, m.CacheStats.Writes, m.CacheStats.Hits,
			m.CacheStats.Misses, m.CacheStats.Evictions)
	}
}

func printRegisters(s *sim.Simulator) {
	fmt.Println("\nRegisters:")
	for _, r := range s.RegisterView() {
		fmt.Printf("  %s = %s\n", r.Name, r.Value.String())
	}
}
