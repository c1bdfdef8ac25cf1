// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"gjavac.256lights.llc/pkg/internal/jvmir"
	"gjavac.256lights.llc/pkg/internal/uvmcode"
)

// translate emits the code for g.inst.
func (g *gen) translate() error {
	l := &g.layout
	t1, t2, t3, tm := l.Tmp1, l.Tmp2, l.Tmp3, l.TmpMax
	inst := g.inst

	switch inst.Op.Kind() {
	case jvmir.KindNop:
		g.e.unmapped()
	case jvmir.KindNull:
		g.linef("loadnil %s 0", reg(tm))
		g.push(tm)
	case jvmir.KindConst:
		v, err := g.constant()
		if err != nil {
			return err
		}
		g.loadk(t1, v)
		g.push(t1)
	case jvmir.KindLoad:
		slot, err := g.slot()
		if err != nil {
			return err
		}
		g.push(slot)
	case jvmir.KindStore:
		slot, err := g.slot()
		if err != nil {
			return err
		}
		g.pop(slot)
	case jvmir.KindArrayLoad:
		g.pop(t2)
		g.pop(t1)
		g.linef("gettable %s %s %s", reg(t1), reg(t1), reg(t2))
		g.push(t1)
	case jvmir.KindArrayStore:
		g.pop(t3)
		g.pop(t2)
		g.pop(t1)
		g.linef("settable %s %s %s", reg(t1), reg(t2), reg(t3))
	case jvmir.KindPop:
		g.pop(tm)
		if inst.Op == jvmir.OpPop2 {
			g.pop(tm)
		}
	case jvmir.KindDup:
		g.pop(t2)
		g.push(t2)
		g.push(t2)
	case jvmir.KindBinary:
		g.binary(binaryOpcode(inst.Op))
	case jvmir.KindUnary:
		g.unary("unm")
	case jvmir.KindToInteger:
		g.convertNumber("tointeger")
	case jvmir.KindToNumber:
		g.convertNumber("tonumber")
	case jvmir.KindIInc:
		slot, err := g.slot()
		if err != nil {
			return err
		}
		k, ok := inst.Operand(1).(jvmir.IntOperand)
		if !ok {
			return errorf(Internal, inst, "%v: missing increment", inst.Op)
		}
		v := uvmcode.IntegerValue(int64(k))
		g.e.constant(v)
		g.linef("add %s %s const %v", reg(slot), reg(slot), v)
	case jvmir.KindCompare:
		switch inst.Op {
		case jvmir.OpFCmpL, jvmir.OpDCmpL:
			return g.threeWayCompare(false)
		default:
			return g.threeWayCompare(true)
		}
	case jvmir.KindBranch:
		return g.branch()
	case jvmir.KindGoto:
		return g.jump()
	case jvmir.KindReturn:
		if inst.Op != jvmir.OpReturn {
			g.pop(t1)
			g.linef("return %s 2", reg(t1))
		}
		g.linef("return %s 1", reg(0))
	case jvmir.KindNewArray:
		g.pop(tm)
		g.linef("newtable %s 0 0", reg(t1))
		g.push(t1)
	case jvmir.KindArrayLength:
		g.pop(t1)
		g.linef("len %s %s", reg(t2), reg(t1))
		g.push(t2)
	case jvmir.KindThrow:
		g.loadk(t2, uvmcode.StringValue("exception"))
		g.global(t1, "error")
		g.linef("call %s 2 1", reg(t1))
	case jvmir.KindNew:
		return g.newObject()
	case jvmir.KindGetStatic:
		g.linef("newtable %s 0 0", reg(t1))
		g.push(t1)
	case jvmir.KindGetField:
		f, ok := inst.Operand(0).(*jvmir.FieldRef)
		if !ok {
			return errorf(Internal, inst, "%v: missing field reference", inst.Op)
		}
		return g.getField(f.Name, f.Descriptor == "Z")
	case jvmir.KindPutField:
		f, ok := inst.Operand(0).(*jvmir.FieldRef)
		if !ok {
			return errorf(Internal, inst, "%v: missing field reference", inst.Op)
		}
		return g.putField(f.Name, f.Descriptor == "Z")
	case jvmir.KindInstanceOf:
		g.pop(tm)
		g.loadk(t1, oneValue)
		g.push(t1)
	case jvmir.KindInvoke:
		return g.invoke()
	default:
		return errorf(UnsupportedOpcode, inst, "%v", inst.Op)
	}
	return nil
}

func (g *gen) slot() (int, error) {
	slot, ok := g.inst.Slot()
	if !ok {
		return 0, errorf(Internal, g.inst, "%v: missing local variable index", g.inst.Op)
	}
	return slot, nil
}

// constant returns the value pushed by a constant instruction.
func (g *gen) constant() (uvmcode.Value, error) {
	switch op := g.inst.Op; {
	case op == jvmir.OpIConstM1:
		return uvmcode.IntegerValue(-1), nil
	case jvmir.OpIConst0 <= op && op <= jvmir.OpIConst5:
		return uvmcode.IntegerValue(int64(op - jvmir.OpIConst0)), nil
	case op == jvmir.OpLConst0 || op == jvmir.OpLConst1:
		return uvmcode.IntegerValue(int64(op - jvmir.OpLConst0)), nil
	case jvmir.OpFConst0 <= op && op <= jvmir.OpFConst2:
		return uvmcode.FloatValue(float64(op - jvmir.OpFConst0)), nil
	case op == jvmir.OpDConst0 || op == jvmir.OpDConst1:
		return uvmcode.FloatValue(float64(op - jvmir.OpDConst0)), nil
	}
	switch arg := g.inst.Operand(0).(type) {
	case jvmir.IntOperand:
		return uvmcode.IntegerValue(int64(arg)), nil
	case jvmir.FloatOperand:
		return uvmcode.FloatValue(float64(arg)), nil
	case jvmir.StringOperand:
		return uvmcode.StringValue(string(arg)), nil
	case jvmir.TypeOperand:
		// Class literals have no runtime representation.
		return uvmcode.StringValue(""), nil
	default:
		return uvmcode.Value{}, errorf(Internal, g.inst, "%v: missing constant", g.inst.Op)
	}
}

func binaryOpcode(op jvmir.Opcode) string {
	switch op {
	case jvmir.OpIAdd, jvmir.OpLAdd, jvmir.OpFAdd, jvmir.OpDAdd:
		return "add"
	case jvmir.OpISub, jvmir.OpLSub, jvmir.OpFSub, jvmir.OpDSub:
		return "sub"
	case jvmir.OpIMul, jvmir.OpLMul, jvmir.OpFMul, jvmir.OpDMul:
		return "mul"
	case jvmir.OpIDiv, jvmir.OpLDiv:
		return "idiv"
	case jvmir.OpFDiv, jvmir.OpDDiv:
		return "div"
	case jvmir.OpIRem, jvmir.OpLRem, jvmir.OpFRem, jvmir.OpDRem:
		return "mod"
	case jvmir.OpIShl, jvmir.OpLShl:
		return "shl"
	case jvmir.OpIShr, jvmir.OpLShr, jvmir.OpIUshr, jvmir.OpLUshr:
		return "shr"
	case jvmir.OpIAnd, jvmir.OpLAnd:
		return "band"
	case jvmir.OpIOr, jvmir.OpLOr:
		return "bor"
	case jvmir.OpIXor, jvmir.OpLXor:
		return "bxor"
	default:
		panic("not a binary opcode: " + op.String())
	}
}

// binary pops two operands and pushes the result of a two-operand instruction.
func (g *gen) binary(opcode string) {
	l := &g.layout
	a1, a2 := l.Tmp3+1, l.Tmp3+2
	g.e.empty("")
	g.pop(a2)
	g.pop(a1)
	g.linef("%s %s %s %s", opcode, reg(l.Tmp2), reg(a1), reg(a2))
	g.push(l.Tmp2)
}

// unary pops one operand and pushes the result of a one-operand instruction.
func (g *gen) unary(opcode string) {
	l := &g.layout
	a1 := l.Tmp3 + 1
	g.e.empty("")
	g.pop(a1)
	g.linef("%s %s %s", opcode, reg(l.Tmp2), reg(a1))
	g.push(l.Tmp2)
}

// convertNumber replaces the top of the stack
// with the result of calling the named global function on it.
func (g *gen) convertNumber(fn string) {
	l := &g.layout
	g.pop(l.Tmp3)
	g.global(l.Tmp2, fn)
	g.linef("call %s 2 2", reg(l.Tmp2))
	g.push(l.Tmp2)
}

func (g *gen) newObject() error {
	l := &g.layout
	class, ok := g.inst.Operand(0).(jvmir.TypeOperand)
	if !ok {
		return errorf(Internal, g.inst, "%v: missing class", g.inst.Op)
	}
	switch name := string(class); {
	case isStringClass(name):
		g.loadk(l.Tmp1, uvmcode.StringValue(""))
		g.push(l.Tmp1)
	case g.mod.hasConstructor(name):
		g.linef("closure %s %s", reg(l.Tmp2), TypeConstructorName(name))
		g.linef("call %s 1 2", reg(l.Tmp2))
		g.push(l.Tmp2)
	default:
		g.linef("newtable %s 0 0", reg(l.Tmp2))
		g.push(l.Tmp2)
	}
	return nil
}

func isStringClass(name string) bool {
	return name == stringClass || name == stringBuilderClass || name == stringBufferClass
}

// getField replaces the table on top of the stack with one of its fields.
func (g *gen) getField(name string, isBool bool) error {
	l := &g.layout
	key, table, value := l.Tmp2, l.Tmp2+1, l.Tmp2+2
	g.pop(table)
	g.loadk(key, uvmcode.StringValue(name))
	g.linef("gettable %s %s %s", reg(value), reg(table), reg(key))
	if isBool {
		if err := g.boolToInt(value, l.TmpMax); err != nil {
			return err
		}
	}
	g.push(value)
	return nil
}

// putField pops a value and a table and stores the value in a field of the table.
func (g *gen) putField(name string, isBool bool) error {
	l := &g.layout
	key, table, value := l.Tmp2, l.Tmp2+1, l.Tmp2+2
	g.pop(value)
	if isBool {
		if err := g.intToBool(value, l.TmpMax); err != nil {
			return err
		}
	}
	g.pop(table)
	g.loadk(key, uvmcode.StringValue(name))
	g.linef("settable %s %s %s", reg(table), reg(key), reg(value))
	return nil
}
