package sim

// issueStage attempts to issue at most one instruction per tick, in
// program order. Issue succeeds iff the instruction at PC exists, the ROB
// tail slot is free, and a matching-pool RS is free; otherwise this tick's
// issue slot is silently a bubble (spec §4.2).
func (s *Simulator) issueStage() bool {
	if s.pc >= len(s.program) {
		return false
	}
	inst := s.program[s.pc]

	if !s.rob.TailFree() {
		return false
	}
	rsEntry := s.freeRS(inst.Op.Pool())
	if rsEntry == nil {
		return false
	}

	kind := inst.Op.Kind()
	dest := s.destFor(inst, kind)
	robEntry := s.rob.Allocate(inst, kind, dest)
	robEntry.TargetAddr = inst.Offset

	s.captureOperands(inst, rsEntry, robEntry.ID)

	if kind != KindStore && kind != KindBranch && inst.Rd != "" {
		reg := s.regs.Get(inst.Rd)
		reg.Busy = true
		reg.Tag = robEntry.ID
	}

	inst.IssueCycle = s.cycle
	s.pc++
	return true
}

// freeRS finds a free RS belonging to pool, or nil if none is available.
func (s *Simulator) freeRS(pool FUPool) *ReservationStation {
	for _, r := range s.rs {
		if !r.Busy && r.Pool == pool {
			return r
		}
	}
	return nil
}

// destFor computes the ROB entry's destination descriptor: the
// architectural register name for ALU/LOAD, a symbolic memory descriptor
// for STORE, or "" for branches.
func (s *Simulator) destFor(inst *Instruction, kind Kind) string {
	switch kind {
	case KindStore:
		return "Mem[" + inst.Rs1 + "+offset]"
	case KindBranch:
		return ""
	default:
		return inst.Rd
	}
}

// captureOperands fills Vj/Qj and Vk/Qk on rsEntry for inst, per the
// per-opcode operand rules in spec §4.2 step 3.
func (s *Simulator) captureOperands(inst *Instruction, rsEntry *ReservationStation, robID int) {
	rsEntry.Busy = true
	rsEntry.Op = inst.Op
	rsEntry.Inst = inst
	rsEntry.DestROB = robID

	if inst.Rs1 != "" {
		s.captureOperand(inst.Rs1, &rsEntry.Vj, &rsEntry.HasVj, &rsEntry.Qj, &rsEntry.HasQj)
	}

	// Operand 2 (Vk/Qk): an immediate for SLLI/SRLI, the value-to-store
	// register for SW/SB, or a second source register for everything
	// else that has one (ADD/SUB/OR/AND/MUL/DIV/BEQ/BNE). LW/LB never
	// populate Rs2, so they fall through untouched.
	if inst.Op == OpSLLI || inst.Op == OpSRLI {
		rsEntry.Vk = IntValue(inst.Imm)
		rsEntry.HasVk = true
	} else if inst.Rs2 != "" {
		s.captureOperand(inst.Rs2, &rsEntry.Vk, &rsEntry.HasVk, &rsEntry.Qk, &rsEntry.HasQk)
	}
}

// captureOperand captures a single source register's value or wait-tag:
// if the register is busy and its rename tag has already produced a
// concrete value (Write Result), the value is captured directly; if busy
// but not yet produced, the RS waits on the tag; otherwise the register's
// current architectural value is captured.
func (s *Simulator) captureOperand(regName string, v *Value, hasV *bool, q *int, hasQ *bool) {
	reg := s.regs.Get(regName)
	if reg.Busy {
		producer := s.rob.At(reg.Tag)
		if producer.Busy && producer.State == RobWriteResult {
			*v = producer.Value
			*hasV = true
			return
		}
		*q = reg.Tag
		*hasQ = true
		return
	}
	*v = reg.Value
	*hasV = true
}
