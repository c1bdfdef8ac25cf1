// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package uvmcode

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
)

type valueType byte

const (
	valueTypeNil     valueType = 0
	valueTypeBoolean valueType = 1
	valueTypeNumber  valueType = 3
	valueTypeString  valueType = 4
)

// Variants.
const (
	valueTypeFalse   = valueTypeBoolean
	valueTypeTrue    = valueTypeBoolean | (1 << 4)
	valueTypeFloat   = valueTypeNumber
	valueTypeInteger = valueTypeNumber | (1 << 4)
)

func (t valueType) noVariant() valueType {
	return t & 0x0f
}

// Value is a constant that can be placed in a [Proto]'s constant pool:
// a boolean, an integer, a float or a string.
// The zero value is nil, which cannot be interned.
// Values can be compared with the == operator.
// Unlike Lua equality, an integer never equals a float.
type Value struct {
	bits uint64
	s    string
	t    valueType
}

// BoolValue converts a boolean to a [Value].
func BoolValue(b bool) Value {
	if b {
		return Value{t: valueTypeTrue}
	}
	return Value{t: valueTypeFalse}
}

// IntegerValue converts an integer to a [Value].
func IntegerValue(i int64) Value {
	return Value{
		t:    valueTypeInteger,
		bits: uint64(i),
	}
}

// FloatValue converts a floating-point number to a [Value].
func FloatValue(f float64) Value {
	return Value{
		t:    valueTypeFloat,
		bits: math.Float64bits(f),
	}
}

// StringValue converts a string to a [Value].
func StringValue(s string) Value {
	return Value{
		t: valueTypeString,
		s: s,
	}
}

// IsNil reports whether v is the zero value.
func (v Value) IsNil() bool {
	return v.t == valueTypeNil
}

// IsNumber reports whether the value is a number.
func (v Value) IsNumber() bool {
	return v.t.noVariant() == valueTypeNumber
}

// IsInteger reports whether the value is an integer.
func (v Value) IsInteger() bool {
	return v.t == valueTypeInteger
}

// IsString reports whether the value is a string.
func (v Value) IsString() bool {
	return v.t.noVariant() == valueTypeString
}

// IsBoolean reports whether the value is a boolean.
func (v Value) IsBoolean() bool {
	return v.t.noVariant() == valueTypeBoolean
}

// Unquoted returns the value as a string
// and reports whether the value is a string.
// Numbers and booleans are formatted,
// but isString will be false.
func (v Value) Unquoted() (s string, isString bool) {
	switch v.t {
	case valueTypeString:
		return v.s, true
	case valueTypeFloat:
		f := math.Float64frombits(v.bits)
		s = strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s, false
	case valueTypeInteger:
		return strconv.FormatInt(int64(v.bits), 10), false
	case valueTypeFalse:
		return "false", false
	case valueTypeTrue:
		return "true", false
	default:
		return "", false
	}
}

// String returns the value as an assembly constant.
// Strings are double-quoted and escaped.
func (v Value) String() string {
	switch v.t {
	case valueTypeNil:
		return "nil"
	case valueTypeString:
		return Quote(v.s)
	default:
		s, _ := v.Unquoted()
		return s
	}
}

// Quote returns s as a double-quoted assembly string literal.
func Quote(s string) string {
	// Invalid UTF-8 is replaced with U+FFFD.
	b, _ := jsontext.AppendQuote(nil, s)
	return string(b)
}
