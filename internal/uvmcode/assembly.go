// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package uvmcode

import (
	"bufio"
	"io"
	"strconv"
)

// MainFunctionName is the name the top-level function is given in assembly.
const MainFunctionName = "main"

const eol = "\r\n"

// WriteAssembly writes the text assembly of the function tree rooted at root to w.
// The root function is written as [MainFunctionName]
// and is preceded by its upvalue count.
// Empty and deleted instructions are omitted.
func WriteAssembly(w io.Writer, root *Proto) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(".upvalues ")
	bw.WriteString(strconv.Itoa(len(root.Upvalues)))
	bw.WriteString(eol)
	writeFunction(bw, root, MainFunctionName)
	return bw.Flush()
}

func writeFunction(bw *bufio.Writer, p *Proto, name string) {
	bw.WriteString(".func ")
	bw.WriteString(name)
	bw.WriteString(" ")
	bw.WriteString(strconv.Itoa(p.MaxStackSize))
	bw.WriteString(" ")
	bw.WriteString(strconv.Itoa(p.NumParams))
	bw.WriteString(" ")
	bw.WriteString(strconv.Itoa(len(p.LocalVariables)))
	bw.WriteString(eol)

	bw.WriteString(".begin_const" + eol)
	for _, k := range p.Constants {
		bw.WriteString("\t")
		bw.WriteString(k.String())
		bw.WriteString(eol)
	}
	bw.WriteString(".end_const" + eol)

	bw.WriteString(".begin_upvalue" + eol)
	for _, uv := range p.Upvalues {
		if uv.InStack {
			bw.WriteString("\t1 ")
		} else {
			bw.WriteString("\t0 ")
		}
		bw.WriteString(strconv.Itoa(uv.Index))
		bw.WriteString(" ")
		bw.WriteString(Quote(uv.Name))
		bw.WriteString(eol)
	}
	bw.WriteString(".end_upvalue" + eol)

	bw.WriteString(".begin_code" + eol)
	for _, inst := range p.Live() {
		if inst.Label != "" {
			bw.WriteString(inst.Label)
			bw.WriteString(":" + eol)
		}
		bw.WriteString("\t")
		bw.WriteString(inst.String())
		bw.WriteString(eol)
	}
	bw.WriteString(".end_code" + eol)

	for _, f := range p.Functions {
		bw.WriteString(eol)
		writeFunction(bw, f, f.Name)
	}
	bw.WriteString(eol)
}
