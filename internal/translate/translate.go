// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

// Package translate converts a module of JVM classes to UVM assembly functions.
//
// Each method becomes a function whose registers emulate the JVM operand stack:
// a table holds the stack's values and a second register holds its size.
// Each class becomes a constructor function that builds a table of its methods.
// The main class's constructor is the root of the function tree.
package translate

import (
	"context"
	"fmt"
	"runtime"

	"github.com/davecgh/go-spew/spew"
	"gjavac.256lights.llc/pkg/internal/jvmir"
	"gjavac.256lights.llc/pkg/internal/peephole"
	"gjavac.256lights.llc/pkg/internal/uvmcode"
	"zombiezen.com/go/log"
)

// Options is the set of optional parameters to [Translate].
type Options struct {
	// LineComments adds the source line and JVM instruction
	// as a comment to every generated instruction.
	LineComments bool
	// Reduce runs the peephole reducer over every method.
	Reduce bool
	// Parallelism is the maximum number of methods reduced concurrently.
	// Non-positive values use [runtime.GOMAXPROCS].
	Parallelism int
}

// Result is the output of [Translate].
type Result struct {
	// Root is the constructor of the main class.
	Root     *uvmcode.Proto
	Metadata *Metadata
}

// moduleTranslator holds the state shared by the methods of a module.
type moduleTranslator struct {
	module   *jvmir.Module
	opts     *Options
	contract *jvmir.Class
}

// Translate converts a module to a tree of assembly functions.
// The module must have exactly one main class
// (a class with a non-static main method)
// and exactly one contract class.
//
// Errors in the module are reported as an [*Error].
// Translate never returns a partial result.
func Translate(ctx context.Context, module *jvmir.Module, opts *Options) (*Result, error) {
	if opts == nil {
		opts = new(Options)
	}
	mod := &moduleTranslator{
		module: module,
		opts:   opts,
	}
	mainClass, components, err := mod.classify()
	if err != nil {
		return nil, err
	}
	md, err := mod.metadata()
	if err != nil {
		return nil, err
	}

	root, err := mod.translateClass(ctx, mainClass, nil, true)
	if err != nil {
		return nil, err
	}
	mainMethod := root.FindMethod("main")
	if mainMethod == nil {
		return nil, &Error{Kind: Internal, Msg: "main method function missing", Method: mainClass.Name + ".main"}
	}
	contractProto, err := mod.translateClass(ctx, mod.contract, mainMethod, false)
	if err != nil {
		return nil, err
	}
	mainMethod.Functions = append(mainMethod.Functions, contractProto)
	for _, c := range components {
		p, err := mod.translateClass(ctx, c, contractProto, false)
		if err != nil {
			return nil, err
		}
		contractProto.Functions = append(contractProto.Functions, p)
	}

	if opts.Reduce {
		parallelism := opts.Parallelism
		if parallelism <= 0 {
			parallelism = runtime.GOMAXPROCS(0)
		}
		if err := peephole.ReduceTree(ctx, root, parallelism); err != nil {
			return nil, err
		}
	}
	return &Result{Root: root, Metadata: md}, nil
}

// classify finds the main class, the contract class and the component classes
// and checks the rules the module's classes must follow.
func (mod *moduleTranslator) classify() (mainClass *jvmir.Class, components []*jvmir.Class, err error) {
	var mains, contracts []*jvmir.Class
	for _, c := range mod.module.Classes {
		if c.IsMain() {
			mains = append(mains, c)
		}
		if c.IsContract() {
			contracts = append(contracts, c)
		}
	}
	if len(mains) != 1 {
		return nil, nil, moduleErrorf("found %d classes with a non-static main method (need exactly 1)", len(mains))
	}
	switch {
	case len(contracts) > 1:
		return nil, nil, moduleErrorf("found %d contract classes (at most 1 supported)", len(contracts))
	case len(contracts) == 0:
		return nil, nil, moduleErrorf("no contract class")
	}
	mod.contract = contracts[0]
	if mod.contract.IsMain() {
		return nil, nil, moduleErrorf("contract class %s must not have a main method; declare main in another class", mod.contract.Name)
	}
	if mod.contract.SuperName == jvmir.ContractBaseClass && !mod.contract.HasAnnotation(jvmir.ContractAnnotation) {
		return nil, nil, moduleErrorf("contract class %s must have the %s annotation", mod.contract.Name, jvmir.ContractAnnotation)
	}

	for _, c := range mod.module.Classes {
		if c.IsComponent() && !c.IsMain() && !c.IsContract() {
			components = append(components, c)
		}
	}
	return mains[0], components, nil
}

func (mod *moduleTranslator) metadata() (*Metadata, error) {
	md := new(Metadata)
	var err error
	md.Events, err = collectEvents(mod.module)
	if err != nil {
		return nil, err
	}
	if err := contractAPIs(md, mod.contract); err != nil {
		return nil, err
	}
	md.StorageTypes, err = storageTypes(mod.contract)
	if err != nil {
		return nil, err
	}
	return md, nil
}

// hasConstructor reports whether new on the named class
// calls the class's constructor function.
func (mod *moduleTranslator) hasConstructor(name string) bool {
	if mod.contract != nil && name == mod.contract.Name {
		return true
	}
	c := mod.module.Class(name)
	return c != nil && c.IsComponent()
}

// translateClass builds the constructor function of a class.
// The constructor returns a table mapping method names to functions.
// The main class's constructor instead calls the main method with the table
// and returns main's result.
func (mod *moduleTranslator) translateClass(ctx context.Context, class *jvmir.Class, parent *uvmcode.Proto, isMain bool) (*uvmcode.Proto, error) {
	log.Debugf(ctx, "Translating class %s", class.Name)
	p := uvmcode.NewProto(TypeConstructorName(class.Name), parent)
	p.AddLine("newtable "+reg(0)+" 0 0", nil)

	var methods []*jvmir.Method
	for _, m := range class.Methods {
		if m.Name != "<init>" && m.Name != "<clinit>" {
			methods = append(methods, m)
		}
	}
	// Register every method first so that methods can refer to later methods.
	for i, m := range methods {
		p.LocalVariables = append(p.LocalVariables, uvmcode.LocalVariable{
			Name: ProtoName(class.Name, m.Name),
			Slot: i + 1,
		})
	}

	tmp := len(class.Methods) + 1
	for i, m := range methods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mp := uvmcode.NewProto(ProtoName(class.Name, m.Name), p)
		mt := newMethodTranslator(mod, m, mp)
		if err := mt.translate(ctx); err != nil {
			if e, ok := err.(*Error); ok && e.Source != nil {
				log.Debugf(ctx, "Failed instruction:\n%s", spew.Sdump(e.Source))
			}
			return nil, err
		}
		p.Functions = append(p.Functions, mp)

		slot := i + 1
		for _, s := range []string{mp.Name, m.Name} {
			if _, err := p.InternConstant(uvmcode.StringValue(s)); err != nil {
				return nil, mt.wrapError(err, nil)
			}
		}
		p.AddLine(fmt.Sprintf("closure %s %s", reg(slot), mp.Name), nil)
		p.AddLine(fmt.Sprintf("loadk %s const %s", reg(tmp), uvmcode.Quote(m.Name)), nil)
		p.AddLine(fmt.Sprintf("settable %s %s %s", reg(0), reg(tmp), reg(slot)), nil)
	}

	if !isMain {
		p.MaxStackSize = tmp + 1
		p.AddLine("return "+reg(0)+" 2", nil)
		p.AddLine("return "+reg(0)+" 1", nil)
		return p, nil
	}

	entry := class.Method("main")
	sig, err := entry.Signature()
	if err != nil {
		return nil, moduleErrorf("%s.main: %v", class.Name, err)
	}
	results := 0
	if sig.HasResult() {
		results = 1
	}
	p.MaxStackSize = tmp + 4
	s := len(p.Functions) + 2
	p.AddLine(fmt.Sprintf("closure %s %s", reg(s), ProtoName(class.Name, "main")), nil)
	p.AddLine(fmt.Sprintf("move %s %s", reg(s+1), reg(0)), nil)
	p.AddLine(fmt.Sprintf("call %s 2 %d", reg(s), results+1), nil)
	if results > 0 {
		p.AddLine("return "+reg(s)+" 2", nil)
	}
	p.AddLine("return "+reg(0)+" 1", nil)
	return p, nil
}
