// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

// Package uvmcode provides the in-memory form of UVM assembly:
// functions ([Proto]), their instructions and constants,
// and the text assembly serializer.
package uvmcode

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"gjavac.256lights.llc/pkg/internal/jvmir"
)

// EnvUpvalue is the name of the global environment upvalue.
const EnvUpvalue = "ENV"

// Proto is a single function of the assembly output.
//
// Code is an arena: once added, an instruction keeps its [InstructionID]
// for the lifetime of the Proto.
// [Proto.Delete] tombstones an instruction instead of removing it,
// so labels, which live on instructions, never need to be remapped.
type Proto struct {
	Name string
	// NumParams is the number of fixed parameters, including any receiver.
	NumParams int
	IsVararg  bool
	// MaxStackSize is the number of registers needed by this function.
	MaxStackSize int

	Constants      []Value
	Upvalues       []UpvalueDescriptor
	Code           []Instruction
	Functions      []*Proto
	LocalVariables []LocalVariable

	// Parent is the enclosing function, used to resolve upvalues.
	Parent *Proto
	// Method is the JVM method the function was translated from, if any.
	Method *jvmir.Method
	Layout Layout

	sourceMap     map[*jvmir.Instruction]InstructionID
	unmapped      []*jvmir.Instruction
	pendingLabels map[int]string
}

// InstructionID is the stable index of an instruction in [Proto.Code].
type InstructionID int

// UpvalueDescriptor describes an upvalue of a [Proto].
type UpvalueDescriptor struct {
	Name string
	// InStack is true if the upvalue refers to a register of the enclosing function.
	// Otherwise it refers to an upvalue of the enclosing function.
	InStack bool
	// Index is the register or upvalue index in the enclosing function.
	Index int
}

// LocalVariable names a register of a [Proto].
type LocalVariable struct {
	Name string
	Slot int
}

// Layout is the fixed register layout of a translated method.
type Layout struct {
	// EvalStack holds the table emulating the JVM operand stack.
	EvalStack int
	// EvalStackSize holds the number of values on the emulated operand stack.
	EvalStackSize int
	Tmp1          int
	Tmp2          int
	Tmp3          int
	// TmpMax is the last scratch register.
	TmpMax         int
	CallStackStart int
}

// NewLayout returns the register layout for a method
// with the given number of local variable slots.
func NewLayout(maxLocals int) Layout {
	l := Layout{EvalStack: maxLocals + 1}
	l.EvalStackSize = l.EvalStack + 1
	l.Tmp1 = l.EvalStack + 2
	l.Tmp2 = l.Tmp1 + 1
	l.Tmp3 = l.Tmp2 + 1
	l.TmpMax = l.Tmp1 + 17
	l.CallStackStart = l.TmpMax + 10
	return l
}

// MaxStackSize returns the register count needed by the layout.
func (l Layout) MaxStackSize() int {
	return l.CallStackStart + 1
}

// NewProto returns an empty function with the given name.
// The new function is not added to parent's Functions.
func NewProto(name string, parent *Proto) *Proto {
	return &Proto{
		Name:   name,
		Parent: parent,
	}
}

// InternConstant returns the index of v in the constant pool,
// adding it if it is not already present.
func (p *Proto) InternConstant(v Value) (int, error) {
	if v.IsNil() {
		return 0, errors.New("internal error: cannot intern nil constant")
	}
	if i := slices.Index(p.Constants, v); i >= 0 {
		return i, nil
	}
	p.Constants = append(p.Constants, v)
	return len(p.Constants) - 1, nil
}

// InternUpvalue returns the index of the named upvalue,
// adding it if it is not already present.
// A new upvalue refers to a local variable of the parent with the same name
// if there is one, and to an upvalue of the parent otherwise.
// A function without a parent allocates the upvalue itself.
func (p *Proto) InternUpvalue(name string) (int, error) {
	if name == "" {
		return 0, errors.New("internal error: empty upvalue name")
	}
	for i, uv := range p.Upvalues {
		if uv.Name == name {
			return i, nil
		}
	}
	uv := UpvalueDescriptor{Name: name}
	switch {
	case p.Parent == nil:
		uv.InStack = true
		uv.Index = len(p.Upvalues)
	default:
		if v, ok := p.Parent.LocalVariable(name); ok {
			uv.InStack = true
			uv.Index = v.Slot
			break
		}
		idx, err := p.Parent.InternUpvalue(name)
		if err != nil {
			return 0, err
		}
		uv.Index = idx
	}
	p.Upvalues = append(p.Upvalues, uv)
	return len(p.Upvalues) - 1, nil
}

// LocalVariable returns the local variable with the given name.
func (p *Proto) LocalVariable(name string) (LocalVariable, bool) {
	for _, v := range p.LocalVariables {
		if v.Name == name {
			return v, true
		}
	}
	return LocalVariable{}, false
}

// Add appends an instruction to the arena and returns its identifier.
// The first live instruction added for a JVM instruction becomes its mapped instruction,
// and any JVM instructions queued with [Proto.AddUnmapped] are mapped to it too.
func (p *Proto) Add(inst Instruction) InstructionID {
	id := InstructionID(len(p.Code))
	p.Code = append(p.Code, inst)
	if inst.Source == nil || inst.Empty {
		return id
	}
	if p.sourceMap == nil {
		p.sourceMap = make(map[*jvmir.Instruction]InstructionID)
	}
	if _, mapped := p.sourceMap[inst.Source]; !mapped {
		p.sourceMap[inst.Source] = id
	}
	for _, src := range p.unmapped {
		p.sourceMap[src] = id
	}
	p.unmapped = p.unmapped[:0]
	return id
}

// AddLine appends a live instruction with the given text.
func (p *Proto) AddLine(text string, src *jvmir.Instruction) InstructionID {
	return p.Add(Instruction{Text: text, Source: src})
}

// AddUnmapped records a JVM instruction that produced no code.
// It is mapped to the next live instruction added with a source.
func (p *Proto) AddUnmapped(src *jvmir.Instruction) {
	p.unmapped = append(p.unmapped, src)
}

// MappedInstruction returns the first live instruction generated for src.
func (p *Proto) MappedInstruction(src *jvmir.Instruction) (InstructionID, bool) {
	id, ok := p.sourceMap[src]
	return id, ok
}

// At returns the instruction with the given identifier.
func (p *Proto) At(id InstructionID) *Instruction {
	return &p.Code[id]
}

// LiveCount returns the number of live instructions.
func (p *Proto) LiveCount() int {
	n := 0
	for i := range p.Code {
		if p.Code[i].Live() {
			n++
		}
	}
	return n
}

// LogicalIndex returns the position of the instruction
// among the live instructions of the function.
// It returns -1 if the instruction is not live.
func (p *Proto) LogicalIndex(id InstructionID) int {
	if id < 0 || int(id) >= len(p.Code) || !p.Code[id].Live() {
		return -1
	}
	n := 0
	for i := range id {
		if p.Code[i].Live() {
			n++
		}
	}
	return n
}

// Live returns an iterator over the live instructions in order.
func (p *Proto) Live() iter.Seq2[InstructionID, *Instruction] {
	return func(yield func(InstructionID, *Instruction) bool) {
		for i := range p.Code {
			if p.Code[i].Live() && !yield(InstructionID(i), &p.Code[i]) {
				return
			}
		}
	}
}

// RequestLabel asks for a label at the given logical index
// and returns the label's name.
// If a label was already requested for the index,
// RequestLabel returns the existing name.
func (p *Proto) RequestLabel(logicalIndex int, name string) string {
	if existing, ok := p.pendingLabels[logicalIndex]; ok {
		return existing
	}
	if p.pendingLabels == nil {
		p.pendingLabels = make(map[int]string)
	}
	p.pendingLabels[logicalIndex] = name
	return name
}

// PendingLabels returns the number of requested labels not yet bound.
func (p *Proto) PendingLabels() int {
	return len(p.pendingLabels)
}

// BindLabels attaches the requested labels
// to the live instructions at their logical indices.
// A label one past the last live instruction
// is attached to a new "return %0 1" instruction.
func (p *Proto) BindLabels() error {
	if len(p.pendingLabels) == 0 {
		return nil
	}
	if _, ok := p.pendingLabels[p.LiveCount()]; ok {
		p.AddLine("return %0 1", nil)
	}
	n := 0
	for _, inst := range p.Live() {
		if name, ok := p.pendingLabels[n]; ok {
			if inst.Label != "" && inst.Label != name {
				return fmt.Errorf("internal error: %s: instruction %d has labels %s and %s", p.Name, n, inst.Label, name)
			}
			inst.Label = name
			delete(p.pendingLabels, n)
		}
		n++
	}
	if len(p.pendingLabels) > 0 {
		idx := slices.Min(slices.Collect(maps.Keys(p.pendingLabels)))
		return fmt.Errorf("internal error: %s: label %s at %d is past the end of the function (%d instructions)",
			p.Name, p.pendingLabels[idx], idx, n)
	}
	return nil
}

// Delete tombstones a live instruction.
// Labelled instructions cannot be deleted.
func (p *Proto) Delete(id InstructionID) error {
	if id < 0 || int(id) >= len(p.Code) {
		return fmt.Errorf("internal error: %s: delete instruction %d: out of range", p.Name, id)
	}
	inst := &p.Code[id]
	switch {
	case !inst.Live():
		return fmt.Errorf("internal error: %s: delete instruction %d: not live", p.Name, id)
	case inst.Label != "":
		return fmt.Errorf("internal error: %s: delete instruction %d: has label %s", p.Name, id, inst.Label)
	}
	inst.deleted = true
	return nil
}

// Labels returns the labels of the function mapped to their logical indices.
func (p *Proto) Labels() map[string]int {
	m := make(map[string]int)
	n := 0
	for _, inst := range p.Live() {
		if inst.Label != "" {
			m[inst.Label] = n
		}
		n++
	}
	return m
}

// FindMethod returns the first function in the tree rooted at p
// translated from a method with the given name.
func (p *Proto) FindMethod(name string) *Proto {
	if p.Method != nil && p.Method.Name == name {
		return p
	}
	for _, f := range p.Functions {
		if found := f.FindMethod(name); found != nil {
			return found
		}
	}
	return nil
}
