// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package uvmcode

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ListingOptions is the set of optional parameters to [WriteListing].
type ListingOptions struct {
	// Full adds each function's constants, locals and upvalues.
	Full bool
	// Include reports whether a function should be listed.
	// If nil, every function is listed.
	// Nested functions are visited even if their parent is not listed.
	Include func(p *Proto) bool
}

// WriteListing writes a human-readable listing of the functions
// in the tree rooted at root to w.
// Each instruction is shown with its logical index and source line.
func WriteListing(w io.Writer, root *Proto, opts *ListingOptions) error {
	if opts == nil {
		opts = new(ListingOptions)
	}
	bw := bufio.NewWriter(w)
	Walk(root, func(p *Proto) bool {
		if opts.Include == nil || opts.Include(p) {
			writeListing(bw, p, p == root, opts.Full)
		}
		return true
	})
	return bw.Flush()
}

func writeListing(bw *bufio.Writer, p *Proto, isRoot, full bool) {
	ifElse := func(b bool, t, f string) string {
		if b {
			return t
		}
		return f
	}
	plural := func(n int, unit string, unitPlural string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %s", n, unitPlural)
	}

	source := "constructor"
	if m := p.Method; m != nil {
		source = m.Name + m.Descriptor
		if m.Class != nil {
			source = m.Class.Name + "." + source
		}
	}
	fmt.Fprintf(bw, "\n%s <%s> (%s for %s)\n",
		ifElse(isRoot, MainFunctionName, "function"),
		source,
		plural(p.LiveCount(), "instruction", "instructions"),
		p.Name,
	)
	fmt.Fprintf(bw, "%d%s %s, %s, %s, %s, %s, %s\n",
		p.NumParams,
		ifElse(p.IsVararg, "+", ""),
		ifElse(p.NumParams == 1, "param", "params"),
		plural(p.MaxStackSize, "slot", "slots"),
		plural(len(p.Upvalues), "upvalue", "upvalues"),
		plural(len(p.LocalVariables), "local", "locals"),
		plural(len(p.Constants), "constant", "constants"),
		plural(len(p.Functions), "function", "functions"),
	)

	labels := p.Labels()
	pc := 0
	for _, inst := range p.Live() {
		pc++
		fmt.Fprintf(bw, "\t%d\t", pc)
		if inst.Source != nil && inst.Source.Line > 0 {
			fmt.Fprintf(bw, "[%d]\t", inst.Source.Line)
		} else {
			bw.WriteString("[-]\t")
		}
		bw.WriteString(inst.Text)
		var notes []string
		if inst.Label != "" {
			notes = append(notes, inst.Label+":")
		}
		if inst.Opcode() == "jmp" {
			for _, arg := range inst.Operands() {
				if name, ok := strings.CutPrefix(arg, "$"); ok {
					if to, ok := labels[name]; ok {
						notes = append(notes, fmt.Sprintf("to %d", to+1))
					}
				}
			}
		}
		if inst.Source != nil {
			notes = append(notes, inst.Source.String())
		}
		if len(notes) > 0 {
			bw.WriteString("\t; ")
			bw.WriteString(strings.Join(notes, " "))
		}
		bw.WriteString("\n")
	}

	if !full {
		return
	}
	fmt.Fprintf(bw, "constants (%d) for %s\n", len(p.Constants), p.Name)
	for i, k := range p.Constants {
		var kind string
		switch {
		case k.IsNil():
			kind = "N"
		case k.IsBoolean():
			kind = "B"
		case k.IsInteger():
			kind = "I"
		case k.IsNumber():
			kind = "F"
		case k.IsString():
			kind = "S"
		default:
			kind = "?"
		}
		fmt.Fprintf(bw, "\t%d\t%s\t%v\n", i, kind, k)
	}
	fmt.Fprintf(bw, "locals (%d) for %s\n", len(p.LocalVariables), p.Name)
	for i, v := range p.LocalVariables {
		fmt.Fprintf(bw, "\t%d\t%s\t%s\n", i, v.Name, Register(v.Slot))
	}
	fmt.Fprintf(bw, "upvalues (%d) for %s\n", len(p.Upvalues), p.Name)
	for i, uv := range p.Upvalues {
		fmt.Fprintf(bw, "\t%d\t%s\t%s\t%d\n", i, uv.Name, ifElse(uv.InStack, "1", "0"), uv.Index)
	}
}
