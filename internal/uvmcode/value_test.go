// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package uvmcode

import (
	"math"
	"testing"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Value{}, "nil"},
		{BoolValue(true), "true"},
		{BoolValue(false), "false"},
		{IntegerValue(0), "0"},
		{IntegerValue(-42), "-42"},
		{FloatValue(1), "1.0"},
		{FloatValue(1.5), "1.5"},
		{FloatValue(1e100), "1e+100"},
		{FloatValue(math.Inf(1)), "+Inf"},
		{StringValue(""), `""`},
		{StringValue("hello"), `"hello"`},
		{StringValue("a\"b\\c\n"), `"a\"b\\c\n"`},
		{StringValue("\t\x01"), `"\t\u0001"`},
	}
	for _, test := range tests {
		if got := test.v.String(); got != test.want {
			t.Errorf("%#v.String() = %s; want %s", test.v, got, test.want)
		}
	}
}

func TestValueEquality(t *testing.T) {
	if IntegerValue(1) == FloatValue(1) {
		t.Error("IntegerValue(1) == FloatValue(1)")
	}
	if StringValue("1") == IntegerValue(1) {
		t.Error(`StringValue("1") == IntegerValue(1)`)
	}
	if BoolValue(true) == BoolValue(false) {
		t.Error("BoolValue(true) == BoolValue(false)")
	}
	if StringValue("x") != StringValue("x") {
		t.Error(`StringValue("x") != StringValue("x")`)
	}
}

func TestValueAccessors(t *testing.T) {
	if !IntegerValue(7).IsInteger() || FloatValue(7).IsInteger() {
		t.Error("IsInteger classification wrong")
	}
	if !BoolValue(false).IsBoolean() || IntegerValue(0).IsBoolean() {
		t.Error("IsBoolean classification wrong")
	}
	if s, ok := FloatValue(7).Unquoted(); ok || s != "7.0" {
		t.Errorf("FloatValue(7).Unquoted() = %q, %t; want \"7.0\", false", s, ok)
	}
	if s, ok := StringValue("abc").Unquoted(); !ok || s != "abc" {
		t.Errorf(`StringValue("abc").Unquoted() = %q, %t; want "abc", true`, s, ok)
	}
	if !IntegerValue(1).IsNumber() || !FloatValue(1).IsNumber() || StringValue("1").IsNumber() {
		t.Error("IsNumber classification wrong")
	}
}
