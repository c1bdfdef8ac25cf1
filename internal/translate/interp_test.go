// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gjavac.256lights.llc/pkg/internal/uvmcode"
)

// This file holds a small interpreter for the subset of UVM assembly
// that method functions use, so tests can check what code does
// instead of how it is spelled.

type table struct {
	m map[any]any
}

func newTable() *table {
	return &table{m: make(map[any]any)}
}

func (t *table) get(k any) any {
	return t.m[normalizeKey(k)]
}

func (t *table) set(k, v any) {
	k = normalizeKey(k)
	if v == nil {
		delete(t.m, k)
		return
	}
	t.m[k] = v
}

func (t *table) border() int64 {
	n := int64(0)
	for t.m[n+1] != nil {
		n++
	}
	return n
}

func normalizeKey(k any) any {
	if f, ok := k.(float64); ok && f == math.Trunc(f) {
		return int64(f)
	}
	return k
}

// function is a host function callable from interpreted code.
type function func(args []any) []any

// execResult is the outcome of running a method function.
type execResult struct {
	values []any
	// stackSize is the emulated operand stack size at return.
	stackSize any
}

// execute runs p with the given initial registers.
// Globals are looked up in globals.
func execute(p *uvmcode.Proto, globals map[string]any, init map[int]any) (*execResult, error) {
	var code []*uvmcode.Instruction
	labels := make(map[string]int)
	for _, inst := range p.Live() {
		if inst.Label != "" {
			labels[inst.Label] = len(code)
		}
		code = append(code, inst)
	}
	regs := make([]any, p.MaxStackSize+1)
	for i, v := range init {
		regs[i] = v
	}
	register := func(s string) (int, error) {
		i, ok := uvmcode.ParseRegister(s)
		if !ok || i >= len(regs) {
			return 0, fmt.Errorf("bad register %q", s)
		}
		return i, nil
	}
	// operand returns the register or constant starting at args[i]
	// and the index of the next operand.
	operand := func(args []string, i int) (any, int, error) {
		if i >= len(args) {
			return nil, i, errors.New("missing operand")
		}
		if args[i] == "const" {
			if i+1 >= len(args) {
				return nil, i, errors.New("missing constant")
			}
			v, err := parseConstant(args[i+1])
			return v, i + 2, err
		}
		r, err := register(args[i])
		if err != nil {
			return nil, i, err
		}
		return regs[r], i + 1, nil
	}

	for pc, steps := 0, 0; pc < len(code); steps++ {
		if steps > 100000 {
			return nil, errors.New("too many steps")
		}
		inst := code[pc]
		pc++
		args := inst.Operands()
		fail := func(err error) error {
			return fmt.Errorf("%d: %s: %v", pc-1, inst.Text, err)
		}
		if len(args) == 0 {
			return nil, fail(errors.New("no operands"))
		}

		switch op := inst.Opcode(); op {
		case "newtable":
			a, err := register(args[0])
			if err != nil {
				return nil, fail(err)
			}
			regs[a] = newTable()
		case "loadk", "move", "gettabup", "unm", "not", "len":
			a, err := register(args[0])
			if err != nil {
				return nil, fail(err)
			}
			start := 1
			if op == "gettabup" {
				start = 2
			}
			x, _, err := operand(args, start)
			if err != nil {
				return nil, fail(err)
			}
			switch op {
			case "gettabup":
				name, _ := x.(string)
				regs[a] = globals[name]
			case "unm":
				regs[a], err = arith("sub", int64(0), x)
			case "not":
				regs[a] = !truthy(x)
			case "len":
				switch x := x.(type) {
				case string:
					regs[a] = int64(len(x))
				case *table:
					regs[a] = x.border()
				default:
					err = fmt.Errorf("length of %T", x)
				}
			default:
				regs[a] = x
			}
			if err != nil {
				return nil, fail(err)
			}
		case "loadnil":
			a, err := register(args[0])
			if err != nil {
				return nil, fail(err)
			}
			b, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fail(err)
			}
			for i := a; i <= a+b; i++ {
				regs[i] = nil
			}
		case "add", "sub", "mul", "div", "idiv", "mod", "band", "bor", "bxor", "shl", "shr":
			a, err := register(args[0])
			if err != nil {
				return nil, fail(err)
			}
			x, next, err := operand(args, 1)
			if err != nil {
				return nil, fail(err)
			}
			y, _, err := operand(args, next)
			if err != nil {
				return nil, fail(err)
			}
			if regs[a], err = arith(op, x, y); err != nil {
				return nil, fail(err)
			}
		case "concat":
			a, err := register(args[0])
			if err != nil {
				return nil, fail(err)
			}
			b, err := register(args[1])
			if err != nil {
				return nil, fail(err)
			}
			c, err := register(args[2])
			if err != nil {
				return nil, fail(err)
			}
			sb := new(strings.Builder)
			for i := b; i <= c; i++ {
				fmt.Fprint(sb, regs[i])
			}
			regs[a] = sb.String()
		case "settable":
			a, err := register(args[0])
			if err != nil {
				return nil, fail(err)
			}
			t, ok := regs[a].(*table)
			if !ok {
				return nil, fail(fmt.Errorf("index %T", regs[a]))
			}
			k, next, err := operand(args, 1)
			if err != nil {
				return nil, fail(err)
			}
			v, _, err := operand(args, next)
			if err != nil {
				return nil, fail(err)
			}
			t.set(k, v)
		case "gettable":
			a, err := register(args[0])
			if err != nil {
				return nil, fail(err)
			}
			b, err := register(args[1])
			if err != nil {
				return nil, fail(err)
			}
			t, ok := regs[b].(*table)
			if !ok {
				return nil, fail(fmt.Errorf("index %T", regs[b]))
			}
			k, _, err := operand(args, 2)
			if err != nil {
				return nil, fail(err)
			}
			regs[a] = t.get(k)
		case "eq", "lt", "le":
			want := args[0] == "1"
			x, next, err := operand(args, 1)
			if err != nil {
				return nil, fail(err)
			}
			y, _, err := operand(args, next)
			if err != nil {
				return nil, fail(err)
			}
			var got bool
			switch op {
			case "eq":
				got = equal(x, y)
			case "lt":
				got, err = less(x, y)
			case "le":
				got, err = lessEqual(x, y)
			}
			if err != nil {
				return nil, fail(err)
			}
			if got != want {
				pc++
			}
		case "jmp":
			if len(args) != 2 || !strings.HasPrefix(args[1], "$") {
				return nil, fail(errors.New("jump must use a label"))
			}
			target, ok := labels[args[1][1:]]
			if !ok {
				return nil, fail(fmt.Errorf("unknown label %s", args[1]))
			}
			pc = target
		case "call":
			a, err := register(args[0])
			if err != nil {
				return nil, fail(err)
			}
			b, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fail(err)
			}
			c, err := strconv.Atoi(args[2])
			if err != nil {
				return nil, fail(err)
			}
			f, ok := regs[a].(function)
			if !ok {
				return nil, fail(fmt.Errorf("call %T", regs[a]))
			}
			results := f(append([]any(nil), regs[a+1:a+b]...))
			for i := range c - 1 {
				if i < len(results) {
					regs[a+i] = results[i]
				} else {
					regs[a+i] = nil
				}
			}
		case "return":
			a, err := register(args[0])
			if err != nil {
				return nil, fail(err)
			}
			b, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fail(err)
			}
			r := &execResult{stackSize: regs[p.Layout.EvalStackSize]}
			for i := range b - 1 {
				r.values = append(r.values, regs[a+i])
			}
			return r, nil
		default:
			return nil, fail(errors.New("unknown opcode"))
		}
	}
	return nil, errors.New("ran past end of function")
}

func parseConstant(s string) (any, error) {
	switch {
	case strings.HasPrefix(s, `"`):
		return strconv.Unquote(s)
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case strings.ContainsAny(s, ".eEnN"):
		return strconv.ParseFloat(s, 64)
	default:
		return strconv.ParseInt(s, 10, 64)
	}
}

func truthy(x any) bool {
	return x != nil && x != false
}

func toFloat(x any) (float64, bool) {
	switch x := x.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func equal(x, y any) bool {
	xf, ok1 := toFloat(x)
	yf, ok2 := toFloat(y)
	if ok1 && ok2 {
		return xf == yf
	}
	return x == y
}

func less(x, y any) (bool, error) {
	xf, ok1 := toFloat(x)
	yf, ok2 := toFloat(y)
	if ok1 && ok2 {
		return xf < yf, nil
	}
	xs, ok1 := x.(string)
	ys, ok2 := y.(string)
	if ok1 && ok2 {
		return xs < ys, nil
	}
	return false, fmt.Errorf("compare %T with %T", x, y)
}

func lessEqual(x, y any) (bool, error) {
	xf, ok1 := toFloat(x)
	yf, ok2 := toFloat(y)
	if ok1 && ok2 {
		return xf <= yf, nil
	}
	xs, ok1 := x.(string)
	ys, ok2 := y.(string)
	if ok1 && ok2 {
		return xs <= ys, nil
	}
	return false, fmt.Errorf("compare %T with %T", x, y)
}

func arith(op string, x, y any) (any, error) {
	xi, xInt := x.(int64)
	yi, yInt := y.(int64)
	if xInt && yInt {
		switch op {
		case "add":
			return xi + yi, nil
		case "sub":
			return xi - yi, nil
		case "mul":
			return xi * yi, nil
		case "idiv":
			if yi == 0 {
				return nil, errors.New("integer divide by zero")
			}
			q := xi / yi
			if (xi%yi != 0) && ((xi < 0) != (yi < 0)) {
				q--
			}
			return q, nil
		case "mod":
			if yi == 0 {
				return nil, errors.New("integer modulo by zero")
			}
			m := xi % yi
			if m != 0 && (m < 0) != (yi < 0) {
				m += yi
			}
			return m, nil
		case "band":
			return xi & yi, nil
		case "bor":
			return xi | yi, nil
		case "bxor":
			return xi ^ yi, nil
		case "shl":
			return xi << uint64(yi), nil
		case "shr":
			return int64(uint64(xi) >> uint64(yi)), nil
		}
	}
	xf, ok1 := toFloat(x)
	yf, ok2 := toFloat(y)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("arithmetic on %T and %T", x, y)
	}
	switch op {
	case "add":
		return xf + yf, nil
	case "sub":
		return xf - yf, nil
	case "mul":
		return xf * yf, nil
	case "div":
		return xf / yf, nil
	case "idiv":
		return math.Floor(xf / yf), nil
	case "mod":
		return xf - math.Floor(xf/yf)*yf, nil
	default:
		return nil, fmt.Errorf("%s on floats", op)
	}
}
