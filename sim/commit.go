package sim

// commitStage drives the two-tick commit footprint at the ROB head: a
// visible Commit state phase followed by retirement on the subsequent
// tick (spec §4.5). It returns whether the commit stage made progress
// this tick (entered Commit or retired), used by Tick to decide whether
// the cycle was a bubble.
func (s *Simulator) commitStage() bool {
	head := s.rob.At(s.rob.Head())
	if !head.Busy {
		return false
	}

	switch {
	case head.State == RobWriteResult && head.Inst.CommitCycle == NoCycle:
		head.State = RobCommit
		head.Inst.CommitCycle = s.cycle
		return true

	case head.State == RobCommit && head.Inst.CommitCycle == s.cycle-1:
		s.retire(head)
		return true

	default:
		return false
	}
}

// retire performs the kind-specific retirement effect for the ROB head
// entry, then releases it and advances head.
func (s *Simulator) retire(head *RobEntry) {
	switch head.Kind {
	case KindBranch:
		s.retireBranch(head)
	case KindALU, KindLoad:
		s.retireRegisterWrite(head)
	case KindStore:
		// Memory was already written at execute completion; nothing
		// further to do here.
	}

	s.rob.Retire()
	s.committed++
}

// retireRegisterWrite writes the computed value back to the destination
// register, but only if this ROB entry is still the youngest renamer of
// it -- a younger instruction may have since overwritten the tag, in
// which case the write is skipped, preserving WAW correctness without an
// active kill (spec §9).
func (s *Simulator) retireRegisterWrite(head *RobEntry) {
	if head.Dest == "" {
		return
	}
	reg := s.regs.Get(head.Dest)
	if reg.Tag == head.ID {
		reg.Value = head.Value
		reg.clear()
	}
}

// retireBranch compares predicted vs actual branch direction. A match
// simply retires; a mismatch corrects PC, atomically flushes every
// speculative ROB entry and RS, clears superseded rename tags, and
// records the bubble penalty (spec §4.5, §9).
func (s *Simulator) retireBranch(head *RobEntry) {
	predicted, actual := head.Predicted, head.Actual
	if predicted == actual {
		return
	}

	if actual == Taken {
		s.pc = int(head.TargetAddr)
	} else {
		s.pc = head.ProgramOrder + 1
	}

	flushed := s.rob.flushYoungerThanHead()
	s.regs.clearAll(flushed)
	for _, r := range s.rs {
		r.clear()
	}
	s.bubbles++
}
