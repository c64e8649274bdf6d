package sim

import "sort"

// RegisterEntry is one physical register: an architectural value plus an
// optional rename tag pointing at the ROB entry that will produce the next
// value.
type RegisterEntry struct {
	Name string

	Value Value

	// Busy is true iff some ROB entry rename-targets this register. Tag
	// identifies the youngest such entry.
	Busy bool
	Tag  int
}

// clear drops the rename tag, leaving Value untouched.
func (r *RegisterEntry) clear() {
	r.Busy = false
	r.Tag = 0
}

// RegisterFile is a name -> entry mapping, created lazily as names are
// first referenced. R0 is conventionally pinned to the value 0 and kept
// non-busy across flushes.
type RegisterFile struct {
	entries map[string]*RegisterEntry
}

// NewRegisterFile returns an empty register file.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{entries: make(map[string]*RegisterEntry)}
}

// entry returns the entry for name, creating it (zero-valued, not busy) on
// first reference.
func (rf *RegisterFile) entry(name string) *RegisterEntry {
	e, ok := rf.entries[name]
	if !ok {
		e = &RegisterEntry{Name: name}
		rf.entries[name] = e
	}
	return e
}

// Get returns the current entry for name, creating it if it does not yet
// exist.
func (rf *RegisterFile) Get(name string) *RegisterEntry {
	return rf.entry(name)
}

// Seed sets a register's architectural value directly, used by the host
// to seed initial state before the first tick.
func (rf *RegisterFile) Seed(name string, value int64) {
	rf.entry(name).Value = IntValue(value)
}

// Snapshot returns a name-sorted copy of all register entries for
// read-only inspection.
func (rf *RegisterFile) Snapshot() []RegisterEntry {
	out := make([]RegisterEntry, 0, len(rf.entries))
	for _, e := range rf.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// clearAll drops every rename tag that points at a flushed ROB id (or that
// belongs to a non-busy register), used on misprediction flush. Tags of
// surviving entries are kept. R0 is pinned to zero and left non-busy.
func (rf *RegisterFile) clearAll(flushed map[int]bool) {
	for _, e := range rf.entries {
		if e.Name == "R0" {
			e.Value = IntValue(0)
			e.clear()
			continue
		}
		if !e.Busy || flushed[e.Tag] {
			e.clear()
		}
	}
}
