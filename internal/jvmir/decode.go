// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package jvmir

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/tailscale/hujson"
)

// Decode reads a [Module] from its JSON form.
// Comments and trailing commas are permitted.
// Decode rejects unknown object members.
// After decoding, class names are converted to the internal form,
// instruction offsets are assigned from their position
// and every method is linked to its class.
func Decode(r io.Reader) (*Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode module: %v", err)
	}
	data, err = hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("decode module: %v", err)
	}
	m := new(Module)
	if err := jsonv2.Unmarshal(data, m, jsonv2.RejectUnknownMembers(true)); err != nil {
		return nil, fmt.Errorf("decode module: %v", err)
	}
	if err := m.normalize(); err != nil {
		return nil, fmt.Errorf("decode module: %v", err)
	}
	return m, nil
}

func (m *Module) normalize() error {
	seen := make(map[string]struct{})
	for _, c := range m.Classes {
		if c == nil {
			return fmt.Errorf("null class")
		}
		c.Name = InternalName(c.Name)
		if c.Name == "" {
			return fmt.Errorf("class without name")
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate class %s", c.Name)
		}
		seen[c.Name] = struct{}{}
		c.SuperName = InternalName(c.SuperName)
		for i := range c.Interfaces {
			c.Interfaces[i] = InternalName(c.Interfaces[i])
		}
		for i := range c.Annotations {
			c.Annotations[i] = InternalName(c.Annotations[i])
		}
		for _, meth := range c.Methods {
			if meth == nil {
				return fmt.Errorf("%s: null method", c.Name)
			}
			if err := meth.normalize(c); err != nil {
				return fmt.Errorf("%s.%s: %v", c.Name, meth.Name, err)
			}
		}
	}
	return nil
}

func (meth *Method) normalize(c *Class) error {
	meth.Class = c
	for i := range meth.Annotations {
		meth.Annotations[i] = InternalName(meth.Annotations[i])
	}
	if _, err := meth.Signature(); err != nil {
		return err
	}
	if meth.MaxLocals < 0 {
		return fmt.Errorf("negative maxLocals")
	}
	for i, inst := range meth.Code {
		if inst == nil {
			return fmt.Errorf("null instruction at %d", i)
		}
		inst.Offset = i
		for _, arg := range inst.Operands {
			switch arg := arg.(type) {
			case *FieldRef:
				arg.Owner = InternalName(arg.Owner)
			case *MethodRef:
				arg.Owner = InternalName(arg.Owner)
			case LabelOperand:
				if _, ok := meth.Labels[string(arg)]; !ok {
					return fmt.Errorf("%s at %d: unknown label %s", inst.Op.Name(), i, arg)
				}
			}
		}
		for j, arg := range inst.Operands {
			if t, ok := arg.(TypeOperand); ok {
				inst.Operands[j] = TypeOperand(InternalName(string(t)))
			}
		}
	}
	for name, off := range meth.Labels {
		if off < 0 || off > len(meth.Code) {
			return fmt.Errorf("label %s: offset %d out of range", name, off)
		}
	}
	return nil
}

// UnmarshalJSONFrom decodes an instruction object of the form
//
//	{"op": "iload", "args": [1], "line": 12}
//
// Numbers with a fraction or exponent decode as [FloatOperand],
// other numbers as [IntOperand] and strings as [StringOperand].
// Objects select the other operand types by their single key:
// "label", "type", "float", "field" or "method".
func (inst *Instruction) UnmarshalJSONFrom(in *jsontext.Decoder) error {
	tok, err := in.ReadToken()
	if err != nil {
		return err
	}
	if got := tok.Kind(); got != '{' {
		return fmt.Errorf("instruction must be an object not a %v", got)
	}
	hasOp := false
	for {
		keyToken, err := in.ReadToken()
		if err != nil {
			return err
		}
		switch kind := keyToken.Kind(); kind {
		case '}':
			if !hasOp {
				return fmt.Errorf("instruction missing op")
			}
			return nil
		case '"':
			// Keep going.
		default:
			return fmt.Errorf("unexpected non-string key (%v) in instruction", kind)
		}

		switch k := keyToken.String(); k {
		case "op":
			var name string
			if err := jsonv2.UnmarshalDecode(in, &name); err != nil {
				return fmt.Errorf("unmarshal instruction op: %w", err)
			}
			op, ok := ParseOpcode(name)
			if !ok {
				return fmt.Errorf("unknown opcode %q", name)
			}
			inst.Op = op
			hasOp = true
		case "line":
			if err := jsonv2.UnmarshalDecode(in, &inst.Line); err != nil {
				return fmt.Errorf("unmarshal instruction line: %w", err)
			}
		case "args":
			args, err := decodeOperands(in)
			if err != nil {
				return fmt.Errorf("unmarshal instruction args: %w", err)
			}
			inst.Operands = args
		default:
			if reject, _ := jsonv2.GetOption(in.Options(), jsonv2.RejectUnknownMembers); reject {
				return fmt.Errorf("unknown instruction field %q", k)
			}
			if err := in.SkipValue(); err != nil {
				return err
			}
		}
	}
}

func decodeOperands(in *jsontext.Decoder) ([]Operand, error) {
	tok, err := in.ReadToken()
	if err != nil {
		return nil, err
	}
	if got := tok.Kind(); got != '[' {
		return nil, fmt.Errorf("args must be an array not a %v", got)
	}
	var args []Operand
	for {
		switch kind := in.PeekKind(); kind {
		case ']':
			if _, err := in.ReadToken(); err != nil {
				return nil, err
			}
			return args, nil
		case '0':
			tok, err := in.ReadToken()
			if err != nil {
				return nil, err
			}
			arg, err := parseNumberOperand(tok.String())
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		case '"':
			tok, err := in.ReadToken()
			if err != nil {
				return nil, err
			}
			args = append(args, StringOperand(tok.String()))
		case '{':
			arg, err := decodeOperandObject(in)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		default:
			return nil, fmt.Errorf("unsupported operand %v", kind)
		}
	}
}

func parseNumberOperand(s string) (Operand, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntOperand(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("operand %s: %v", s, err)
	}
	return FloatOperand(f), nil
}

type operandObject struct {
	Label  *string    `json:"label,omitzero"`
	Type   *string    `json:"type,omitzero"`
	Float  *float64   `json:"float,omitzero"`
	Field  *FieldRef  `json:"field,omitzero"`
	Method *MethodRef `json:"method,omitzero"`
}

func decodeOperandObject(in *jsontext.Decoder) (Operand, error) {
	var obj operandObject
	if err := jsonv2.UnmarshalDecode(in, &obj); err != nil {
		return nil, err
	}
	var found []Operand
	if obj.Label != nil {
		found = append(found, LabelOperand(*obj.Label))
	}
	if obj.Type != nil {
		found = append(found, TypeOperand(*obj.Type))
	}
	if obj.Float != nil {
		found = append(found, FloatOperand(*obj.Float))
	}
	if obj.Field != nil {
		found = append(found, obj.Field)
	}
	if obj.Method != nil {
		found = append(found, obj.Method)
	}
	if len(found) != 1 {
		return nil, fmt.Errorf("operand object must have exactly one of label, type, float, field or method")
	}
	return found[0], nil
}
