package sim

import "sort"

// executeStage advances every busy RS whose operands are ready. Already
// executing instructions lose one cycle off their remaining latency;
// newly ready instructions may start, at most one per FU pool this tick,
// oldest ROB id first (spec §4.3).
func (s *Simulator) executeStage() {
	s.advanceExecuting()
	s.startNewExecutions()
}

func (s *Simulator) advanceExecuting() {
	for _, r := range s.rs {
		if !r.Busy || !r.started {
			continue
		}
		rob := s.rob.At(r.DestROB)
		if !rob.Busy || rob.State != RobExecuting {
			continue
		}
		s.stepExecution(r, rob)
	}
}

func (s *Simulator) startNewExecutions() {
	var candidates []*ReservationStation
	for _, r := range s.rs {
		if r.Busy && !r.started && r.Ready() {
			if rob := s.rob.At(r.DestROB); rob.Busy {
				candidates = append(candidates, r)
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DestROB < candidates[j].DestROB
	})

	started := make(map[FUPool]bool)
	for _, r := range candidates {
		if started[r.Pool] {
			continue
		}
		started[r.Pool] = true

		r.started = true
		r.Inst.ExecuteStartCycle = s.cycle
		rob := s.rob.At(r.DestROB)
		rob.State = RobExecuting
		s.stepExecution(r, rob)
	}
}

// stepExecution decrements the instruction's remaining execute latency by
// one cycle, completing it (computing and storing the result, and
// transitioning the ROB entry to Ready-to-Write) if that reaches zero.
func (s *Simulator) stepExecution(r *ReservationStation, rob *RobEntry) {
	inst := r.Inst
	inst.ExecCyclesRemaining--
	if inst.ExecCyclesRemaining > 0 {
		return
	}

	inst.ReadyToWrite = true
	rob.State = RobReadyToWrite
	rob.Value = s.computeResult(inst, r, rob)
}

// computeResult evaluates the instruction's result given its captured
// operands, per the per-opcode formulae in spec §4.3. SW/SB write memory
// immediately on execute completion, not at commit (see SPEC_FULL.md's
// "Open Question decisions" -- this is the source's behavior, not fixed).
func (s *Simulator) computeResult(inst *Instruction, r *ReservationStation, rob *RobEntry) Value {
	vj, vk := operandOrZero(r.Vj, r.HasVj), operandOrZero(r.Vk, r.HasVk)

	switch inst.Op {
	case OpADD:
		return IntValue(vj + vk)
	case OpSUB:
		return IntValue(vj - vk)
	case OpOR:
		return IntValue(vj | vk)
	case OpAND:
		return IntValue(vj & vk)
	case OpMUL:
		return IntValue(vj * vk)
	case OpDIV:
		if vk == 0 {
			return ErrValue(DivByZeroSentinel)
		}
		return IntValue(vj / vk)
	case OpSLLI:
		return IntValue(vj << uint64(vk))
	case OpSRLI:
		return IntValue(vj >> uint64(vk))
	case OpLW, OpLB:
		addr := vj + inst.Offset
		return IntValue(s.readMemory(addr))
	case OpSW, OpSB:
		addr := vj + inst.Offset
		s.writeMemory(addr, vk)
		return ErrValue("MEM_STORED")
	case OpBEQ, OpBNE:
		taken := vj == vk
		if inst.Op == OpBNE {
			taken = vj != vk
		}
		if taken {
			rob.Actual = Taken
		} else {
			rob.Actual = NotTaken
		}
		rob.HasActual = true
		return ErrValue("BRANCH_EVALUATED")
	default:
		return IntValue(0)
	}
}

func operandOrZero(v Value, has bool) int64 {
	if !has || v.IsErr() {
		return 0
	}
	return v.Num
}

func (s *Simulator) readMemory(addr int64) int64 {
	if s.cacheEnabled {
		return s.cache.Read(addr)
	}
	return s.mem.Read(addr)
}

func (s *Simulator) writeMemory(addr, value int64) {
	if s.cacheEnabled {
		s.cache.Write(addr, value)
		return
	}
	s.mem.Write(addr, value)
}
