// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package jvmir

import (
	"fmt"
	"strconv"
	"strings"
)

// Instruction is a single decoded JVM instruction.
type Instruction struct {
	Op       Opcode
	Operands []Operand
	// Offset is the index of the instruction in its method's code.
	// Label offsets refer to this index.
	Offset int
	// Line is the source line number or 0 if unknown.
	Line int
}

// String returns the instruction in "MNEMONIC operand..." form.
func (inst *Instruction) String() string {
	sb := new(strings.Builder)
	sb.WriteString(inst.Op.Name())
	for _, arg := range inst.Operands {
		sb.WriteString(" ")
		sb.WriteString(arg.String())
	}
	return sb.String()
}

// Operand returns the i'th operand or nil if there is no such operand.
func (inst *Instruction) Operand(i int) Operand {
	if i < 0 || i >= len(inst.Operands) {
		return nil
	}
	return inst.Operands[i]
}

// Slot returns the local variable slot the instruction addresses.
// The short forms (e.g. iload_2) address the slot in their name.
func (inst *Instruction) Slot() (int, bool) {
	if _, n, ok := shortSlotForm(inst.Op); ok {
		return n, true
	}
	if i, ok := inst.Operand(0).(IntOperand); ok {
		return int(i), true
	}
	return 0, false
}

// Long returns the opcode with any short slot form (e.g. iload_2)
// replaced by its general form (iload).
// Other opcodes are returned unchanged.
func (op Opcode) Long() Opcode {
	long, _, _ := shortSlotForm(op)
	return long
}

// shortSlotForm reports whether op is an xload_n or xstore_n short form,
// returning the equivalent long opcode and the slot.
func shortSlotForm(op Opcode) (long Opcode, n int, ok bool) {
	switch {
	case OpILoad0 <= op && op <= OpALoad3:
		return OpILoad + (op-OpILoad0)/4, int(op-OpILoad0) % 4, true
	case OpIStore0 <= op && op <= OpAStore3:
		return OpIStore + (op-OpIStore0)/4, int(op-OpIStore0) % 4, true
	default:
		return op, 0, false
	}
}

// Operand is an instruction argument.
// It is one of [IntOperand], [FloatOperand], [StringOperand], [TypeOperand],
// [LabelOperand], [*FieldRef] or [*MethodRef].
type Operand interface {
	String() string
	isOperand()
}

// IntOperand is an integer constant or local variable slot.
type IntOperand int64

func (i IntOperand) String() string { return strconv.FormatInt(int64(i), 10) }
func (IntOperand) isOperand()       {}

// FloatOperand is a floating-point constant.
type FloatOperand float64

func (f FloatOperand) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

func (FloatOperand) isOperand() {}

// StringOperand is a string constant.
type StringOperand string

func (s StringOperand) String() string { return strconv.Quote(string(s)) }
func (StringOperand) isOperand()       {}

// TypeOperand names a class in slash form,
// as used by new, checkcast, instanceof and class literals.
type TypeOperand string

func (t TypeOperand) String() string { return string(t) }
func (TypeOperand) isOperand()       {}

// LabelOperand refers to a label of the enclosing method.
type LabelOperand string

func (l LabelOperand) String() string { return string(l) }
func (LabelOperand) isOperand()       {}

// FieldRef is a reference to a field.
type FieldRef struct {
	Owner      string `json:"owner"`
	Name       string `json:"name"`
	Descriptor string `json:"desc"`
}

func (f *FieldRef) String() string {
	return f.Owner + "." + f.Name + " " + f.Descriptor
}

func (*FieldRef) isOperand() {}

// Type parses the field's descriptor.
func (f *FieldRef) Type() (Type, error) {
	return ParseType(f.Descriptor)
}

// MethodRef is a reference to a method.
type MethodRef struct {
	Owner      string `json:"owner"`
	Name       string `json:"name"`
	Descriptor string `json:"desc"`
}

func (m *MethodRef) String() string {
	return m.Owner + "." + m.Name + " " + m.Descriptor
}

func (*MethodRef) isOperand() {}

// Signature parses the method's descriptor.
func (m *MethodRef) Signature() (*MethodType, error) {
	mt, err := ParseMethodType(m.Descriptor)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %v", m.Owner, m.Name, err)
	}
	return mt, nil
}
