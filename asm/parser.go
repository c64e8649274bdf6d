// Package asm parses the line-oriented MIPS-like program text format
// described in spec §6 into a stream of sim.Instruction values. Parsing,
// like register/memory seeding, is an external collaborator to the core
// simulator: it never touches pipeline state.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/tomasim/sim"
)

// opcodes maps a mnemonic token to its Op, grounded on the teacher's
// insts package convention of a flat string/const lookup table.
var opcodes = map[string]sim.Op{
	"ADD":  sim.OpADD,
	"SUB":  sim.OpSUB,
	"OR":   sim.OpOR,
	"AND":  sim.OpAND,
	"MUL":  sim.OpMUL,
	"DIV":  sim.OpDIV,
	"SLLI": sim.OpSLLI,
	"SRLI": sim.OpSRLI,
	"LW":   sim.OpLW,
	"LB":   sim.OpLB,
	"SW":   sim.OpSW,
	"SB":   sim.OpSB,
	"BEQ":  sim.OpBEQ,
	"BNE":  sim.OpBNE,
}

// Warning records a skipped line.
type Warning struct {
	Line    int
	Text    string
	Message string
}

// Result is a parsed program plus any warnings collected along the way.
type Result struct {
	Program  []*sim.Instruction
	Warnings []Warning
}

// Parse reads a program from r, one instruction per line. Blank lines and
// lines starting with '#' are ignored. Tokens are whitespace-separated
// with optional trailing commas. Unknown opcodes are skipped with a
// warning rather than aborting the parse (spec §7, "Parse warning").
func Parse(r io.Reader) (*Result, error) {
	res := &Result{}
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := tokenize(line)
		if len(tokens) == 0 {
			continue
		}

		op, ok := opcodes[strings.ToUpper(tokens[0])]
		if !ok {
			res.Warnings = append(res.Warnings, Warning{
				Line:    lineNo,
				Text:    line,
				Message: fmt.Sprintf("unrecognized opcode %q", tokens[0]),
			})
			continue
		}

		inst, err := buildInstruction(op, tokens[1:], len(res.Program))
		if err != nil {
			res.Warnings = append(res.Warnings, Warning{
				Line:    lineNo,
				Text:    line,
				Message: err.Error(),
			})
			continue
		}

		res.Program = append(res.Program, inst)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return res, nil
}

// tokenize splits a line on whitespace and strips trailing commas from
// each token.
func tokenize(line string) []string {
	fields := strings.Fields(line)
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimRight(f, ",")
	}
	return out
}

// buildInstruction decodes the operand fields for op per the per-form
// table in spec §6.
func buildInstruction(op sim.Op, fields []string, idx int) (*sim.Instruction, error) {
	inst := sim.NewInstruction(op, idx)

	switch op {
	case sim.OpADD, sim.OpSUB, sim.OpOR, sim.OpAND, sim.OpMUL, sim.OpDIV:
		// OP rd, rs1, rs2
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s requires rd, rs1, rs2", op)
		}
		inst.Rd, inst.Rs1, inst.Rs2 = fields[0], fields[1], fields[2]

	case sim.OpSLLI, sim.OpSRLI:
		// OP rd, rs1, imm
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s requires rd, rs1, imm", op)
		}
		imm, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s immediate %q: %w", op, fields[2], err)
		}
		inst.Rd, inst.Rs1, inst.Imm = fields[0], fields[1], imm

	case sim.OpLW, sim.OpLB:
		// OP rd, rs1, offset
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s requires rd, rs1, offset", op)
		}
		offset, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s offset %q: %w", op, fields[2], err)
		}
		inst.Rd, inst.Rs1, inst.Offset = fields[0], fields[1], offset

	case sim.OpSW, sim.OpSB:
		// OP rs2, rs1, offset -- rs2 is the value to store, rs1 is base
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s requires rs2, rs1, offset", op)
		}
		offset, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s offset %q: %w", op, fields[2], err)
		}
		inst.Rs2, inst.Rs1, inst.Offset = fields[0], fields[1], offset

	case sim.OpBEQ, sim.OpBNE:
		// OP rs1, rs2, target
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s requires rs1, rs2, target", op)
		}
		target, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s target %q: %w", op, fields[2], err)
		}
		inst.Rs1, inst.Rs2, inst.Offset = fields[0], fields[1], target
	}

	return inst, nil
}

// RegisterNames returns every distinct register name referenced by
// program, in first-use order -- used by hosts that want to seed every
// touched register up front, the way the original simulator's loader
// populated its register_file while reading instructions.
func RegisterNames(program []*sim.Instruction) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, inst := range program {
		add(inst.Rd)
		add(inst.Rs1)
		add(inst.Rs2)
	}
	return out
}
