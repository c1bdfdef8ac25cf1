// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

//go:generate stringer -type=ErrorKind -linecomment -output=errorkind_string.go

package translate

import (
	"fmt"
	"strings"

	"gjavac.256lights.llc/pkg/internal/jvmir"
)

// ErrorKind is the category of an [*Error].
type ErrorKind int

// Error kinds.
const (
	// UnsupportedOpcode is reported for a JVM opcode that has no translation.
	UnsupportedOpcode ErrorKind = 1 + iota // unsupported opcode
	// UnsupportedCall is reported for a call to a library method that has no translation.
	UnsupportedCall // unsupported call
	// Internal is reported when a structural invariant of the translator does not hold.
	Internal // internal error
	// ModuleContract is reported when the module's classes
	// do not form a valid contract program.
	ModuleContract // invalid module
)

// Error is the error type returned by [Translate].
type Error struct {
	Kind ErrorKind
	// Method is the "class.method" the error occurred in, if any.
	Method string
	Msg    string
	// Source is the instruction being translated, if any.
	Source *jvmir.Instruction
}

func (e *Error) Error() string {
	sb := new(strings.Builder)
	sb.WriteString(e.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	if e.Method != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Method)
	}
	if e.Source != nil && e.Source.Line > 0 {
		fmt.Fprintf(sb, " at L%d", e.Source.Line)
	}
	return sb.String()
}

func errorf(kind ErrorKind, src *jvmir.Instruction, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Msg:    fmt.Sprintf(format, args...),
		Source: src,
	}
}

func moduleErrorf(format string, args ...any) *Error {
	return errorf(ModuleContract, nil, format, args...)
}
