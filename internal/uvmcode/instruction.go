// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

//go:generate stringer -type=StackRole -output=stackrole_string.go

package uvmcode

import (
	"strconv"
	"strings"

	"gjavac.256lights.llc/pkg/internal/jvmir"
)

// StackRole identifies the part an instruction plays
// in emulating the JVM operand stack.
type StackRole uint8

// Stack roles.
const (
	NoStackRole StackRole = iota
	// GrowStack increments the stack size register.
	GrowStack
	// ShrinkStack decrements the stack size register.
	ShrinkStack
	// ReadStackTop copies the top of the stack table into a register.
	ReadStackTop
	// WriteStackTop stores a register into the top of the stack table.
	WriteStackTop
)

// Instruction is a single line of UVM assembly.
type Instruction struct {
	// Text is the opcode and its operands, e.g. "add %3 %4 %5".
	Text string
	// Comment is appended to Text in the assembly listing.
	// It begins with ";" if not empty.
	Comment string
	// Source is the JVM instruction the instruction was generated from, if any.
	Source *jvmir.Instruction
	// Label is the name of the location label attached to the instruction, if any.
	Label string
	Role  StackRole
	// Empty marks a comment-only placeholder.
	// Empty instructions are never emitted and never carry labels.
	Empty bool

	deleted bool
}

// EmptyInstruction returns a placeholder instruction.
func EmptyInstruction(comment string) Instruction {
	return Instruction{Comment: comment, Empty: true}
}

// Live reports whether the instruction is neither empty nor deleted.
func (inst *Instruction) Live() bool {
	return !inst.Empty && !inst.deleted
}

// Deleted reports whether the instruction was removed with [Proto.Delete].
func (inst *Instruction) Deleted() bool {
	return inst.deleted
}

// Opcode returns the first word of the instruction's text.
func (inst *Instruction) Opcode() string {
	op, _, _ := strings.Cut(inst.Text, " ")
	return op
}

// Operands returns the words of the instruction's text after the opcode.
// Quoted string constants are kept as a single word.
func (inst *Instruction) Operands() []string {
	_, rest, _ := strings.Cut(inst.Text, " ")
	return splitOperands(rest)
}

func splitOperands(s string) []string {
	var words []string
	for {
		s = strings.TrimLeft(s, " ")
		if s == "" {
			return words
		}
		if s[0] == '"' {
			if q, err := strconv.QuotedPrefix(s); err == nil {
				words = append(words, q)
				s = s[len(q):]
				continue
			}
		}
		word, rest, _ := strings.Cut(s, " ")
		words = append(words, word)
		s = rest
	}
}

// String returns the instruction's text followed by its comment.
func (inst *Instruction) String() string {
	return inst.Text + inst.Comment
}

// Register formats a register operand.
func Register(i int) string {
	return "%" + strconv.Itoa(i)
}

// ParseRegister parses a register operand such as "%3".
func ParseRegister(s string) (int, bool) {
	rest, ok := strings.CutPrefix(s, "%")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
