// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package jvmir

import (
	"fmt"
	"strings"
)

// Type is a parsed JVM field type.
type Type struct {
	// Descriptor is the JVM descriptor, e.g. "I" or "Ljava/lang/String;".
	Descriptor string
}

var primitiveNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// ParseType parses a single field type descriptor.
func ParseType(desc string) (Type, error) {
	end, err := scanType(desc, 0)
	if err != nil {
		return Type{}, err
	}
	if end != len(desc) {
		return Type{}, fmt.Errorf("parse type %q: trailing data", desc)
	}
	return Type{Descriptor: desc}, nil
}

// scanType returns the end of the type descriptor starting at desc[pos].
func scanType(desc string, pos int) (int, error) {
	start := pos
	for pos < len(desc) && desc[pos] == '[' {
		pos++
	}
	if pos >= len(desc) {
		return 0, fmt.Errorf("parse type %q: unexpected end of descriptor", desc[start:])
	}
	switch c := desc[pos]; {
	case c == 'L':
		i := strings.IndexByte(desc[pos:], ';')
		if i <= 1 {
			return 0, fmt.Errorf("parse type %q: unterminated class name", desc[start:])
		}
		return pos + i + 1, nil
	case c == 'V' && pos > start:
		return 0, fmt.Errorf("parse type %q: array of void", desc[start:])
	case primitiveNames[c] != "":
		return pos + 1, nil
	default:
		return 0, fmt.Errorf("parse type %q: unknown type %q", desc[start:], c)
	}
}

// IsVoid reports whether t is the void return type.
func (t Type) IsVoid() bool {
	return t.Descriptor == "V"
}

// IsBoolean reports whether t is the primitive boolean type.
func (t Type) IsBoolean() bool {
	return t.Descriptor == "Z"
}

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool {
	return strings.HasPrefix(t.Descriptor, "[")
}

// ClassName returns the slash-separated class name of a class type
// or the empty string for primitive and array types.
func (t Type) ClassName() string {
	if len(t.Descriptor) < 3 || t.Descriptor[0] != 'L' {
		return ""
	}
	return t.Descriptor[1 : len(t.Descriptor)-1]
}

// FullName returns the Java source name of the type,
// such as "int", "java.lang.String" or "int[]".
func (t Type) FullName() string {
	if t.IsArray() {
		return Type{Descriptor: t.Descriptor[1:]}.FullName() + "[]"
	}
	if name := t.ClassName(); name != "" {
		return strings.ReplaceAll(name, "/", ".")
	}
	if len(t.Descriptor) == 1 {
		if name := primitiveNames[t.Descriptor[0]]; name != "" {
			return name
		}
	}
	return t.Descriptor
}

func (t Type) String() string {
	return t.FullName()
}

// MethodType is a parsed method descriptor.
type MethodType struct {
	Params []Type
	Return Type
}

// ParseMethodType parses a method descriptor such as "(ILjava/lang/String;)Z".
func ParseMethodType(desc string) (*MethodType, error) {
	if !strings.HasPrefix(desc, "(") {
		return nil, fmt.Errorf("parse method type %q: missing '('", desc)
	}
	mt := new(MethodType)
	pos := 1
	for {
		if pos >= len(desc) {
			return nil, fmt.Errorf("parse method type %q: missing ')'", desc)
		}
		if desc[pos] == ')' {
			pos++
			break
		}
		end, err := scanType(desc, pos)
		if err != nil {
			return nil, fmt.Errorf("parse method type %q: %v", desc, err)
		}
		if desc[end-1] == 'V' && end-pos == 1 {
			return nil, fmt.Errorf("parse method type %q: void parameter", desc)
		}
		mt.Params = append(mt.Params, Type{Descriptor: desc[pos:end]})
		pos = end
	}
	end, err := scanType(desc, pos)
	if err != nil {
		return nil, fmt.Errorf("parse method type %q: %v", desc, err)
	}
	if end != len(desc) {
		return nil, fmt.Errorf("parse method type %q: trailing data", desc)
	}
	mt.Return = Type{Descriptor: desc[pos:end]}
	return mt, nil
}

// HasResult reports whether the method returns a value.
func (mt *MethodType) HasResult() bool {
	return !mt.Return.IsVoid()
}

func (mt *MethodType) String() string {
	sb := new(strings.Builder)
	sb.WriteString("(")
	for i, p := range mt.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.FullName())
	}
	sb.WriteString(")")
	sb.WriteString(mt.Return.FullName())
	return sb.String()
}
