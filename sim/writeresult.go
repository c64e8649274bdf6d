package sim

// writeResultStage broadcasts at most one result per tick over the single
// CDB: among ROB entries Ready-to-Write that have not yet written, the
// smallest ROB id wins (spec §4.4). A second entry ready in the same tick
// simply waits for the next.
func (s *Simulator) writeResultStage() {
	var winner *RobEntry
	for i := 0; i < s.rob.Size(); i++ {
		e := s.rob.At(i)
		if !e.Busy || e.State != RobReadyToWrite {
			continue
		}
		if e.Inst.WriteResultCycle != NoCycle {
			continue
		}
		if winner == nil || e.ID < winner.ID {
			winner = e
		}
	}
	if winner == nil {
		return
	}

	winner.Inst.WriteResultCycle = s.cycle
	winner.State = RobWriteResult

	for _, r := range s.rs {
		if !r.Busy {
			continue
		}
		if r.HasQj && r.Qj == winner.ID {
			r.Vj = winner.Value
			r.HasVj = true
			r.HasQj = false
		}
		if r.HasQk && r.Qk == winner.ID {
			r.Vk = winner.Value
			r.HasVk = true
			r.HasQk = false
		}
	}

	for _, r := range s.rs {
		if r.Busy && r.DestROB == winner.ID {
			r.clear()
			break
		}
	}
}
