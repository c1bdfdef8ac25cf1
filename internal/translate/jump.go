// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"fmt"
	"strings"

	"gjavac.256lights.llc/pkg/internal/jvmir"
)

// branchTests maps conditional jumps to the test that does not skip the jump.
// Tests are written "opcode A" where the jump is skipped
// unless the comparison's result equals A.
var branchTests = map[jvmir.Opcode]string{
	jvmir.OpIfNull:    "eq 1",
	jvmir.OpIfNonNull: "eq 0",
	jvmir.OpIfEQ:      "eq 1",
	jvmir.OpIfNE:      "eq 0",
	jvmir.OpIfLT:      "lt 1",
	jvmir.OpIfLE:      "le 1",
	jvmir.OpIfGT:      "le 0",
	jvmir.OpIfGE:      "lt 0",
	jvmir.OpIfICmpEQ:  "eq 1",
	jvmir.OpIfICmpNE:  "eq 0",
	jvmir.OpIfICmpLT:  "lt 1",
	jvmir.OpIfICmpLE:  "le 1",
	jvmir.OpIfICmpGT:  "le 0",
	jvmir.OpIfICmpGE:  "lt 0",
	jvmir.OpIfACmpEQ:  "eq 1",
	jvmir.OpIfACmpNE:  "eq 0",
}

// branch emits a conditional jump.
func (g *gen) branch() error {
	l := &g.layout
	test, ok := branchTests[g.inst.Op]
	if !ok {
		return errorf(UnsupportedOpcode, g.inst, "%v", g.inst.Op)
	}
	g.pop(l.Tmp1)
	arg1, arg2 := l.Tmp1, l.Tmp2
	switch g.inst.Op {
	case jvmir.OpIfNull, jvmir.OpIfNonNull:
		g.linef("loadnil %s 0", reg(l.Tmp2))
	case jvmir.OpIfICmpEQ, jvmir.OpIfICmpNE,
		jvmir.OpIfICmpLT, jvmir.OpIfICmpLE,
		jvmir.OpIfICmpGT, jvmir.OpIfICmpGE,
		jvmir.OpIfACmpEQ, jvmir.OpIfACmpNE:
		g.pop(l.Tmp2)
		arg1, arg2 = l.Tmp2, l.Tmp1
	default:
		g.loadk(l.Tmp2, zeroValue)
	}
	g.linef("%s %s %s", test, reg(arg1), reg(arg2))
	return g.jump()
}

// jump emits an unconditional jump to the branch target of g.inst.
func (g *gen) jump() error {
	target, err := g.branchTarget()
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s_to_dest_%s_%d", g.proto.Name, strings.ToLower(g.inst.Op.Name()), g.inst.Offset)
	label, err := g.e.label(name, func() (int, error) {
		return g.resolve(target)
	})
	if err != nil {
		return err
	}
	g.linef("jmp 1 $%s", label)
	return nil
}

// branchTarget returns the offset of the instruction g.inst jumps to.
func (g *gen) branchTarget() (int, error) {
	name, ok := g.inst.Operand(0).(jvmir.LabelOperand)
	if !ok {
		return 0, errorf(Internal, g.inst, "%v: missing label", g.inst.Op)
	}
	off, ok := g.method.OffsetOfLabel(string(name))
	if !ok || off < 0 || off >= len(g.method.Code) {
		return 0, errorf(Internal, g.inst, "%v: cannot find position of label %s", g.inst.Op, name)
	}
	return off, nil
}

// resolve returns the logical index of the first instruction
// generated for the JVM instruction at offset target,
// assuming the jump instruction is the next one to be emitted.
//
// Backward targets have already been translated.
// Forward targets are found by counting the instructions
// that the JVM instructions in between will generate.
// A jump to itself targets the first instruction emitted for g.inst.
func (g *gen) resolve(target int) (int, error) {
	if target == g.inst.Offset {
		return g.e.first(), nil
	}
	if target < g.inst.Offset {
		id, ok := g.proto.MappedInstruction(g.method.Code[target])
		if !ok {
			return 0, errorf(Internal, g.inst, "jump target %d not translated", target)
		}
		idx := g.proto.LogicalIndex(id)
		if idx < 1 {
			return 0, errorf(Internal, g.inst, "jump target %d has no location", target)
		}
		return idx, nil
	}

	idx := g.e.position() + 1
	for _, inst := range g.method.Code[g.inst.Offset+1 : target] {
		n, err := g.count(inst)
		if err != nil {
			return 0, err
		}
		idx += n
	}
	return idx, nil
}
