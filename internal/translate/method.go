// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gjavac.256lights.llc/pkg/internal/jvmir"
	"gjavac.256lights.llc/pkg/internal/uvmcode"
)

// maxSourceLine is the largest line number trusted in a comment.
// Larger values are placeholders written by some compilers.
const maxSourceLine = 1000000

// methodTranslator translates the code of a single method into its function.
type methodTranslator struct {
	mod    *moduleTranslator
	method *jvmir.Method
	proto  *uvmcode.Proto
	layout uvmcode.Layout

	lastLine int
}

// gen applies the translation rules of one JVM instruction.
// The same rule code runs against a recording or a counting [emitter].
type gen struct {
	*methodTranslator
	e    emitter
	inst *jvmir.Instruction

	// conversions numbers the boolean conversions
	// emitted for inst so that their labels are distinct.
	conversions int
}

func newMethodTranslator(mod *moduleTranslator, method *jvmir.Method, p *uvmcode.Proto) *methodTranslator {
	p.Method = method
	p.Layout = uvmcode.NewLayout(method.MaxLocals)
	return &methodTranslator{
		mod:    mod,
		method: method,
		proto:  p,
		layout: p.Layout,
	}
}

func (mt *methodTranslator) translate(ctx context.Context) error {
	p := mt.proto
	l := mt.layout
	sig, err := mt.method.Signature()
	if err != nil {
		return mt.wrapError(err, nil)
	}
	p.NumParams = len(sig.Params)
	if !mt.method.Static {
		p.NumParams++
	}

	for _, v := range []uvmcode.Value{zeroValue, oneValue} {
		if _, err := p.InternConstant(v); err != nil {
			return mt.wrapError(err, nil)
		}
	}
	p.AddLine(fmt.Sprintf("newtable %s 0 0", reg(l.EvalStack)), nil)
	p.AddLine(fmt.Sprintf("loadk %s const 0", reg(l.EvalStackSize)), nil)

	for _, inst := range mt.method.Code {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := mt.emit(inst); err != nil {
			return err
		}
	}
	if err := p.BindLabels(); err != nil {
		return mt.wrapError(err, nil)
	}
	p.MaxStackSize = l.MaxStackSize()
	return nil
}

// emit appends the instructions for inst to the function.
func (mt *methodTranslator) emit(inst *jvmir.Instruction) error {
	rec := newRecorder(mt.proto, inst, mt.comment(inst))
	g := &gen{methodTranslator: mt, e: rec, inst: inst}
	if err := g.translate(); err != nil {
		return mt.wrapError(err, inst)
	}
	if err := rec.err(); err != nil {
		return mt.wrapError(err, inst)
	}
	return nil
}

// count returns the number of live instructions emit would append for inst.
func (mt *methodTranslator) count(inst *jvmir.Instruction) (int, error) {
	c := new(counter)
	g := &gen{methodTranslator: mt, e: c, inst: inst}
	if err := g.translate(); err != nil {
		return 0, mt.wrapError(err, inst)
	}
	return c.n, nil
}

// comment returns the listing comment for the instructions generated from inst.
// Instructions without a usable line number reuse the previous line.
func (mt *methodTranslator) comment(inst *jvmir.Instruction) string {
	if inst.Line > 0 && inst.Line <= maxSourceLine {
		mt.lastLine = inst.Line
	}
	if !mt.mod.opts.LineComments {
		return ""
	}
	text := strings.NewReplacer("\r\n", " ", "\n", " ").Replace(inst.String())
	return fmt.Sprintf(";L%d;;%s", mt.lastLine, text)
}

func (mt *methodTranslator) name() string {
	if mt.method.Class == nil {
		return mt.method.Name
	}
	return mt.method.Class.Name + "." + mt.method.Name
}

// wrapError converts err to an [*Error] attributed to the method.
func (mt *methodTranslator) wrapError(err error, src *jvmir.Instruction) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	e := new(Error)
	if !errors.As(err, &e) {
		e = &Error{
			Kind:   Internal,
			Msg:    strings.TrimPrefix(err.Error(), "internal error: "),
			Source: src,
		}
	}
	if e.Method == "" {
		e.Method = mt.name()
	}
	if e.Source == nil {
		e.Source = src
	}
	return e
}
