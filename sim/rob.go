package sim

// RobState is the pipeline-state tag of a ROB entry.
type RobState uint8

// ROB entry states.
const (
	RobEmpty RobState = iota
	RobIssued
	RobExecuting
	RobReadyToWrite
	RobWriteResult
	RobCommit
)

// BranchOutcome is TAKEN/NOT_TAKEN, used for both predicted and actual
// branch direction.
type BranchOutcome uint8

// Branch outcomes.
const (
	NotTaken BranchOutcome = iota
	Taken
)

// RobEntry is one slot in the circular Reorder Buffer.
type RobEntry struct {
	ID   int
	Busy bool

	Inst *Instruction
	Kind Kind
	Dest string // register name, a Mem[...] descriptor for stores, or "" for branches

	State RobState
	Value Value

	IsBranch     bool
	Predicted    BranchOutcome
	Actual       BranchOutcome
	HasActual    bool
	TargetAddr   int64
	ProgramOrder int
}

// clear releases the ROB entry, mirroring ReorderBufferPos.clear().
func (e *RobEntry) clear() {
	*e = RobEntry{ID: e.ID}
}

// Rob is a fixed-size circular queue of entries. head indexes the oldest
// busy entry (ready to retire); tail indexes the next free slot (for
// issue). Count is the number of busy entries in the ring window
// [head, tail).
type Rob struct {
	entries []*RobEntry
	head    int
	tail    int
	count   int
}

// NewRob returns an empty ROB with size pre-allocated entries.
func NewRob(size int) *Rob {
	entries := make([]*RobEntry, size)
	for i := range entries {
		entries[i] = &RobEntry{ID: i}
	}
	return &Rob{entries: entries}
}

// Size returns the fixed ROB capacity.
func (r *Rob) Size() int { return len(r.entries) }

// At returns the entry at ring index i.
func (r *Rob) At(i int) *RobEntry { return r.entries[i] }

// Head returns the current head index.
func (r *Rob) Head() int { return r.head }

// Tail returns the current tail index.
func (r *Rob) Tail() int { return r.tail }

// Count returns the number of busy entries.
func (r *Rob) Count() int { return r.count }

// TailFree reports whether the tail slot can accept a new issue.
func (r *Rob) TailFree() bool {
	return !r.entries[r.tail].Busy
}

// Allocate claims the tail slot for inst and advances tail. Caller must
// have checked TailFree first.
func (r *Rob) Allocate(inst *Instruction, kind Kind, dest string) *RobEntry {
	e := r.entries[r.tail]
	e.Busy = true
	e.Inst = inst
	e.Kind = kind
	e.Dest = dest
	e.State = RobIssued
	e.ProgramOrder = inst.ProgramIndex
	e.IsBranch = kind == KindBranch
	if e.IsBranch {
		e.Predicted = NotTaken
	}
	r.tail = (r.tail + 1) % len(r.entries)
	r.count++
	return e
}

// Retire releases the head slot and advances head.
func (r *Rob) Retire() {
	r.entries[r.head].clear()
	r.head = (r.head + 1) % len(r.entries)
	r.count--
}

// youngerThanHead walks indices starting at head+1 up to (but excluding) tail, in
// ring order -- the set of entries strictly younger than head.
func (r *Rob) youngerThanHead() []int {
	n := len(r.entries)
	var out []int
	for i := (r.head + 1) % n; i != r.tail; i = (i + 1) % n {
		out = append(out, i)
	}
	return out
}

// flushYoungerThanHead clears every busy entry strictly younger than head
// and resets tail to head+1, per the misprediction-flush procedure. It
// reports which ROB ids were cleared so callers can invalidate stale
// rename tags and RS wait-tags. Count is decremented per entry actually
// cleared, so it remains an accurate count of busy entries; the caller is
// still responsible for retiring (and thus clearing) the head entry itself.
func (r *Rob) flushYoungerThanHead() map[int]bool {
	flushed := make(map[int]bool)
	for _, idx := range r.youngerThanHead() {
		e := r.entries[idx]
		if e.Busy {
			flushed[e.ID] = true
			e.clear()
			r.count--
		}
	}
	r.tail = (r.head + 1) % len(r.entries)
	return flushed
}
