// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"fmt"

	"gjavac.256lights.llc/pkg/internal/uvmcode"
)

func reg(i int) string {
	return uvmcode.Register(i)
}

var (
	zeroValue  = uvmcode.IntegerValue(0)
	oneValue   = uvmcode.IntegerValue(1)
	falseValue = uvmcode.BoolValue(false)
	trueValue  = uvmcode.BoolValue(true)
)

// linef emits an instruction that does not touch the emulated stack.
func (g *gen) linef(format string, args ...any) {
	g.e.line(fmt.Sprintf(format, args...), uvmcode.NoStackRole)
}

// push copies a register onto the top of the emulated operand stack.
func (g *gen) push(slot int) {
	l := &g.layout
	g.e.constant(oneValue)
	size := reg(l.EvalStackSize)
	g.e.line("add "+size+" "+size+" const 1", uvmcode.GrowStack)
	g.e.line("settable "+reg(l.EvalStack)+" "+size+" "+reg(slot), uvmcode.WriteStackTop)
}

// pop moves the top of the emulated operand stack into a register.
func (g *gen) pop(slot int) {
	l := &g.layout
	g.e.constant(oneValue)
	size := reg(l.EvalStackSize)
	g.e.line("gettable "+reg(slot)+" "+reg(l.EvalStack)+" "+size, uvmcode.ReadStackTop)
	g.e.line("sub "+size+" "+size+" const 1", uvmcode.ShrinkStack)
}

// drop discards the top of the emulated operand stack.
func (g *gen) drop() {
	g.e.constant(oneValue)
	size := reg(g.layout.EvalStackSize)
	g.e.line("sub "+size+" "+size+" const 1", uvmcode.ShrinkStack)
}

func (g *gen) loadk(slot int, v uvmcode.Value) {
	g.e.constant(v)
	g.linef("loadk %s const %s", reg(slot), v)
}

// global loads a field of the global environment into a register.
func (g *gen) global(slot int, name string) {
	env := g.e.upvalue(uvmcode.EnvUpvalue)
	g.e.constant(uvmcode.StringValue(name))
	g.linef("gettabup %s @%d const %s", reg(slot), env, uvmcode.Quote(name))
}

// jumpAhead emits an unconditional jump
// to the instruction delta positions after the jump itself.
func (g *gen) jumpAhead(name string, delta int) error {
	pos := g.e.position()
	label, err := g.e.label(name, func() (int, error) {
		return pos + delta, nil
	})
	if err != nil {
		return err
	}
	g.linef("jmp 1 $%s", label)
	return nil
}

func (g *gen) blockLabel(kind string) string {
	return fmt.Sprintf("%s_%s_%d", g.proto.Name, kind, g.inst.Offset)
}

// compareOp is the comparison computed by [*gen.compareBlock].
type compareOp int

const (
	compareEq compareOp = iota
	compareNe
	compareLt
	compareGt
)

// compareBlock pops two values and pushes 1 if the comparison holds or 0 otherwise.
// The first value popped is the right-hand operand.
func (g *gen) compareBlock(op compareOp) error {
	l := &g.layout
	a1, a2 := l.Tmp3+1, l.Tmp3+2
	g.e.empty("")
	g.pop(a1)
	g.pop(a2)
	switch op {
	case compareGt:
		g.linef("lt 0 %s %s", reg(a1), reg(a2))
	case compareLt:
		g.linef("lt 0 %s %s", reg(a2), reg(a1))
	case compareNe:
		g.linef("eq 1 %s %s", reg(a1), reg(a2))
	default:
		g.linef("eq 0 %s %s", reg(a1), reg(a2))
	}
	// Condition holds: the test skips the first jump.
	if err := g.jumpAhead(g.blockLabel("1_cmp"), 2); err != nil {
		return err
	}
	if err := g.jumpAhead(g.blockLabel("2_cmp"), 5); err != nil {
		return err
	}
	g.e.constant(zeroValue)
	g.e.constant(oneValue)
	g.loadk(l.Tmp2, zeroValue)
	g.push(l.Tmp2)
	if err := g.jumpAhead(g.blockLabel("3_cmp"), 4); err != nil {
		return err
	}
	g.loadk(l.Tmp3, oneValue)
	g.push(l.Tmp3)
	g.e.empty("")
	return nil
}

// threeWayCompare pops two numbers and pushes -1, 0 or 1.
// Unordered operands (NaN) produce 1 if nanIsGreater is true and -1 otherwise.
func (g *gen) threeWayCompare(nanIsGreater bool) error {
	l := &g.layout
	t1, t2, t3 := l.Tmp1, l.Tmp2, l.Tmp3
	g.pop(t2)
	g.pop(t1)
	minusOne := uvmcode.IntegerValue(-1)
	g.e.constant(zeroValue)
	g.e.constant(oneValue)
	g.e.constant(minusOne)

	// Equal operands load 0.
	g.linef("eq 1 %s %s", reg(t1), reg(t2))
	if err := g.jumpAhead(g.blockLabel("1_cmp"), 5); err != nil {
		return err
	}
	if err := g.jumpAhead(g.blockLabel("2_cmp"), 1); err != nil {
		return err
	}
	// A true ordered test loads sure. Anything else, including NaN, loads unsure.
	sure, unsure := minusOne, oneValue
	if nanIsGreater {
		g.linef("lt 1 %s %s", reg(t1), reg(t2))
	} else {
		g.linef("lt 1 %s %s", reg(t2), reg(t1))
		sure, unsure = oneValue, minusOne
	}
	if err := g.jumpAhead(g.blockLabel("3_cmp"), 4); err != nil {
		return err
	}
	if err := g.jumpAhead(g.blockLabel("4_cmp"), 5); err != nil {
		return err
	}
	end := g.blockLabel("5_cmp")
	g.loadk(t3, zeroValue)
	if err := g.jumpAhead(end, 4); err != nil {
		return err
	}
	g.loadk(t3, sure)
	if err := g.jumpAhead(end, 2); err != nil {
		return err
	}
	g.loadk(t3, unsure)
	g.push(t3)
	return nil
}

// intToBool converts the JVM boolean (an integer 0 or 1) in slot
// to a native boolean in place, using scratch as a temporary.
func (g *gen) intToBool(slot, scratch int) error {
	g.e.constant(zeroValue)
	return g.convertBool(slot, scratch, falseValue, zeroValue, trueValue)
}

// boolToInt converts the native boolean in slot
// to a JVM boolean (an integer 0 or 1) in place, using scratch as a temporary.
func (g *gen) boolToInt(slot, scratch int) error {
	g.e.constant(falseValue)
	return g.convertBool(slot, scratch, zeroValue, falseValue, oneValue)
}

func (g *gen) convertBool(slot, scratch int, falsy, compareTo, truthy uvmcode.Value) error {
	n := g.conversions
	g.conversions++
	g.loadk(scratch, falsy)
	g.linef("eq 0 %s const %s", reg(slot), compareTo)
	trueLabel := fmt.Sprintf("%s_true_%d_%d", g.proto.Name, g.inst.Offset, n)
	if err := g.jumpAhead(trueLabel, 2); err != nil {
		return err
	}
	falseLabel := fmt.Sprintf("%s_false_%d_%d", g.proto.Name, g.inst.Offset, n)
	if err := g.jumpAhead(falseLabel, 2); err != nil {
		return err
	}
	g.loadk(scratch, truthy)
	g.linef("move %s %s", reg(slot), reg(scratch))
	return nil
}
