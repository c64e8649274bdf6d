package sim

import "strconv"

// Value is a captured operand or computed result. Most instructions
// produce a plain integer; DIV by zero produces the DivByZeroSentinel
// instead, which is not fatal and flows through the CDB and commit like any
// other value (spec §7, "Execution sentinel").
type Value struct {
	Num int64
	Err string
}

// IntValue wraps a plain integer result.
func IntValue(n int64) Value { return Value{Num: n} }

// ErrValue wraps an in-band sentinel result.
func ErrValue(sentinel string) Value { return Value{Err: sentinel} }

// IsErr reports whether v carries a sentinel instead of an integer.
func (v Value) IsErr() bool { return v.Err != "" }

// String renders the value for display/debugging.
func (v Value) String() string {
	if v.Err != "" {
		return v.Err
	}
	return strconv.FormatInt(v.Num, 10)
}
