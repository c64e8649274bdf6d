package sim

// ReservationStation is one slot in a typed pool bound to a functional
// unit. It holds the pending operation, captured operand values (Vj, Vk),
// waited-on ROB tags (Qj, Qk), and the ROB entry the result is destined
// for.
type ReservationStation struct {
	Name string
	Pool FUPool

	Busy bool

	Op   Op
	Inst *Instruction

	Vj, Vk  Value
	HasVj   bool
	HasVk   bool
	Qj, Qk  int
	HasQj   bool
	HasQk   bool
	DestROB int
	started bool
}

// clear releases the RS, matching ReservationStation.clear() in the
// original simulator: every field resets to its zero/unoccupied state.
func (rs *ReservationStation) clear() {
	rs.Busy = false
	rs.Op = OpUnknown
	rs.Inst = nil
	rs.Vj, rs.Vk = Value{}, Value{}
	rs.HasVj, rs.HasVk = false, false
	rs.Qj, rs.Qk = 0, 0
	rs.HasQj, rs.HasQk = false, false
	rs.DestROB = 0
	rs.started = false
}

// Ready reports whether both operands have been captured and execution
// may begin.
func (rs *ReservationStation) Ready() bool {
	return !rs.HasQj && !rs.HasQk
}

// newReservationStationPool builds the default-named RS banks for a given
// pool, e.g. "MEM1".."MEMn".
func newReservationStationPool(prefix string, pool FUPool, n int) []*ReservationStation {
	out := make([]*ReservationStation, n)
	for i := 0; i < n; i++ {
		out[i] = &ReservationStation{Name: nameIndexed(prefix, i+1), Pool: pool}
	}
	return out
}

func nameIndexed(prefix string, i int) string {
	digits := [...]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	if i < 10 {
		return prefix + string(digits[i])
	}
	// Unlikely in practice (default pools are single digits), but handle
	// larger configurations without panicking.
	var buf []byte
	for i > 0 {
		buf = append([]byte{digits[i%10]}, buf...)
		i /= 10
	}
	return prefix + string(buf)
}
