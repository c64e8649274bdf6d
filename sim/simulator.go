package sim

import (
	"github.com/sarchlab/tomasim/fuconfig"
	"github.com/sarchlab/tomasim/memsub"
)

// Simulator orchestrates one clock tick at a time over a renaming register
// file, a typed pool of Reservation Stations, and a circular Reorder
// Buffer. It is the sole mutator of all simulation state; no locking is
// required because the model is single-agent (spec §5).
type Simulator struct {
	regs *RegisterFile
	mem  *Memory
	rs   []*ReservationStation
	rob  *Rob

	cache        *memsub.Cache
	cacheEnabled bool

	program []*Instruction
	pc      int

	cycle     int64
	committed int64
	bubbles   int64
}

// Option configures a Simulator at construction time.
type Option func(*Simulator)

// WithFUConfig sets the Reservation Station pool sizes and ROB capacity.
// Without this option the Simulator uses fuconfig.Default().
func WithFUConfig(cfg *fuconfig.FUConfig) Option {
	return func(s *Simulator) {
		s.rs = buildRSPool(cfg)
		s.rob = NewRob(cfg.RobSize)
	}
}

// WithMemoryCache enables the cache-backed memory access statistics layer
// (memsub.Cache) described in SPEC_FULL.md. It never changes execute-stage
// latency; it only classifies each LW/LB/SW/SB access as a hit or miss.
func WithMemoryCache(cfg memsub.Config) Option {
	return func(s *Simulator) {
		s.cacheEnabled = true
		s.cache = memsub.New(cfg, s.mem)
	}
}

func buildRSPool(cfg *fuconfig.FUConfig) []*ReservationStation {
	var rs []*ReservationStation
	rs = append(rs, newReservationStationPool("MEM", PoolMEM, cfg.MemRS)...)
	rs = append(rs, newReservationStationPool("ADD", PoolADD, cfg.AddRS)...)
	rs = append(rs, newReservationStationPool("LOG", PoolLOGIC, cfg.LogicRS)...)
	rs = append(rs, newReservationStationPool("MUL", PoolMUL, cfg.MulRS)...)
	return rs
}

// NewSimulator creates a Simulator with the default FU configuration
// unless overridden by opts.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		regs: NewRegisterFile(),
		mem:  NewMemory(),
	}
	defaultCfg := fuconfig.Default()
	s.rs = buildRSPool(defaultCfg)
	s.rob = NewRob(defaultCfg.RobSize)

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Registers returns the simulator's register file for host seeding.
func (s *Simulator) Registers() *RegisterFile { return s.regs }

// Memory returns the simulator's memory for host seeding.
func (s *Simulator) Memory() *Memory { return s.mem }

// LoadProgram installs the instruction stream and resets the program
// counter to zero. It does not reset register/memory/ROB/RS state -- call
// Reset first if a prior run's state should be discarded.
func (s *Simulator) LoadProgram(program []*Instruction) {
	s.program = program
	s.pc = 0
}

// PC returns the current program counter.
func (s *Simulator) PC() int { return s.pc }

// Reset restores the Simulator to its freshly constructed state, clearing
// all RS/ROB/register/memory/program state and cycle counters. The FU
// pool sizes and cache configuration chosen at construction are kept.
func (s *Simulator) Reset() {
	s.regs = NewRegisterFile()
	// Cleared in place: the memory cache, when enabled, wraps this Memory.
	*s.mem = *NewMemory()
	for _, r := range s.rs {
		r.clear()
	}
	s.rob = NewRob(s.rob.Size())
	if s.cacheEnabled {
		s.cache.Reset()
	}
	s.program = nil
	s.pc = 0
	s.cycle = 0
	s.committed = 0
	s.bubbles = 0
}

// IsFinished reports whether every instruction has been issued and the
// ROB has fully drained (spec §4.6 Termination).
func (s *Simulator) IsFinished() bool {
	return s.pc >= len(s.program) && s.rob.Count() == 0
}

// Tick advances the simulator by one clock cycle, driving the four
// stages in reverse pipeline order -- Commit, Write-Result, Execute,
// Issue -- so each stage reads the prior tick's outputs (spec §4.6).
func (s *Simulator) Tick() {
	s.cycle++

	committed := s.commitStage()
	s.writeResultStage()
	s.executeStage()
	issued := s.issueStage()

	if !issued && !committed && !s.IsFinished() {
		s.bubbles++
	}
}

// RunUntilFinished ticks until IsFinished reports true.
func (s *Simulator) RunUntilFinished() {
	for !s.IsFinished() {
		s.Tick()
	}
}

// RunCycles ticks at most n times, stopping early if the simulation
// finishes. It reports whether the simulation is still running.
func (s *Simulator) RunCycles(n int) bool {
	for i := 0; i < n && !s.IsFinished(); i++ {
		s.Tick()
	}
	return !s.IsFinished()
}

// Metrics is the snapshot of performance counters exposed after every
// tick (spec §4.7).
type Metrics struct {
	TotalCycles int64
	Committed   int64
	IPC         float64
	Bubbles     int64
	PC          int
	RobHead     int
	RobTail     int
	RobCount    int
	CacheStats  memsub.Stats
	CacheActive bool
}

// Metrics returns the current performance counters.
func (s *Simulator) Metrics() Metrics {
	m := Metrics{
		TotalCycles: s.cycle,
		Committed:   s.committed,
		Bubbles:     s.bubbles,
		PC:          s.pc,
		RobHead:     s.rob.Head(),
		RobTail:     s.rob.Tail(),
		RobCount:    s.rob.Count(),
		CacheActive: s.cacheEnabled,
	}
	if s.cycle > 0 {
		m.IPC = float64(s.committed) / float64(s.cycle)
	}
	if s.cacheEnabled {
		m.CacheStats = s.cache.Stats()
	}
	return m
}

// ROBView returns a read-only copy of every ROB entry for inspection.
func (s *Simulator) ROBView() []RobEntry {
	out := make([]RobEntry, s.rob.Size())
	for i := 0; i < s.rob.Size(); i++ {
		out[i] = *s.rob.At(i)
	}
	return out
}

// RSView returns a read-only copy of every reservation station.
func (s *Simulator) RSView() []ReservationStation {
	out := make([]ReservationStation, len(s.rs))
	for i, r := range s.rs {
		out[i] = *r
	}
	return out
}

// RegisterView returns a read-only, name-sorted snapshot of the register
// file.
func (s *Simulator) RegisterView() []RegisterEntry {
	return s.regs.Snapshot()
}

// MemoryView returns a read-only snapshot of every written memory cell.
func (s *Simulator) MemoryView() map[int64]int64 {
	return s.mem.Snapshot()
}
