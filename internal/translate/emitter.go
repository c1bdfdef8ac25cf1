// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"gjavac.256lights.llc/pkg/internal/jvmir"
	"gjavac.256lights.llc/pkg/internal/uvmcode"
)

// An emitter receives the output of the translation rules
// for a single JVM instruction.
//
// The [*recorder] implementation builds the instructions into a [uvmcode.Proto].
// The [*counter] implementation only counts the live instructions a rule produces,
// which the jump resolver uses to find forward jump targets.
// Rules are written once against this interface,
// so counting and recording cannot disagree.
type emitter interface {
	// line appends a live instruction.
	line(text string, role uvmcode.StackRole)
	// empty appends a comment-only placeholder.
	empty(comment string)
	// unmapped records that the instruction produced no code.
	unmapped()
	// constant interns a constant.
	constant(v uvmcode.Value)
	// upvalue interns an upvalue and returns its index.
	upvalue(name string) int
	// label requests a label with the given name
	// at the logical index returned by target
	// and returns the label's name.
	// target is not called when counting.
	label(name string, target func() (int, error)) (string, error)
	// position returns the logical index of the next live instruction.
	position() int
	// first returns the logical index of the first live instruction
	// emitted for the current JVM instruction.
	first() int
	// err returns the first error encountered while interning.
	err() error
}

// recorder is the [emitter] that writes instructions to a function.
type recorder struct {
	proto    *uvmcode.Proto
	src      *jvmir.Instruction
	comment  string
	start    int
	n        int
	firstErr error
}

func newRecorder(p *uvmcode.Proto, src *jvmir.Instruction, comment string) *recorder {
	return &recorder{
		proto:   p,
		src:     src,
		comment: comment,
		start:   p.LiveCount(),
	}
}

func (r *recorder) line(text string, role uvmcode.StackRole) {
	r.proto.Add(uvmcode.Instruction{
		Text:    text,
		Comment: r.comment,
		Source:  r.src,
		Role:    role,
	})
	r.n++
}

func (r *recorder) empty(comment string) {
	r.proto.Add(uvmcode.EmptyInstruction(comment))
}

func (r *recorder) unmapped() {
	r.proto.AddUnmapped(r.src)
}

func (r *recorder) constant(v uvmcode.Value) {
	if _, err := r.proto.InternConstant(v); err != nil && r.firstErr == nil {
		r.firstErr = err
	}
}

func (r *recorder) upvalue(name string) int {
	i, err := r.proto.InternUpvalue(name)
	if err != nil && r.firstErr == nil {
		r.firstErr = err
	}
	return i
}

func (r *recorder) label(name string, target func() (int, error)) (string, error) {
	idx, err := target()
	if err != nil {
		return "", err
	}
	return r.proto.RequestLabel(idx, name), nil
}

func (r *recorder) position() int {
	return r.start + r.n
}

func (r *recorder) first() int {
	return r.start
}

func (r *recorder) err() error {
	return r.firstErr
}

// counter is the [emitter] that counts live instructions
// without changing any function.
type counter struct {
	n int
}

func (c *counter) line(text string, role uvmcode.StackRole) { c.n++ }
func (c *counter) empty(comment string)                     {}
func (c *counter) unmapped()                                {}
func (c *counter) constant(v uvmcode.Value)                 {}
func (c *counter) upvalue(name string) int                  { return 0 }
func (c *counter) position() int                            { return c.n }
func (c *counter) first() int                               { return 0 }
func (c *counter) err() error                               { return nil }

func (c *counter) label(name string, target func() (int, error)) (string, error) {
	return name, nil
}
