// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

// Package peephole removes redundant operand stack traffic
// from translated functions.
//
// A push immediately consumed by a pop becomes a single register move,
// and the size register updates around it are deleted.
// The reducer never changes the meaning of a function:
// it only looks at straight-line code between labels
// and gives up on a candidate as soon as anything could observe the stack.
package peephole

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"gjavac.256lights.llc/pkg/internal/uvmcode"
	"golang.org/x/sync/errgroup"
	"zombiezen.com/go/log"
)

// Reduce rewrites the function until no more reductions apply
// and returns the number of instructions it deleted.
// Only functions translated from methods are reduced.
func Reduce(p *uvmcode.Proto) (int, error) {
	if p.Method == nil {
		return 0, nil
	}
	total := 0
	for {
		r := &reducer{proto: p}
		if err := r.pass(); err != nil {
			return total, err
		}
		total += r.deleted
		if r.deleted == 0 && r.rewritten == 0 {
			return total, nil
		}
	}
}

// ReduceTree reduces every method function in the tree rooted at root,
// running at most parallelism reductions at once.
func ReduceTree(ctx context.Context, root *uvmcode.Proto, parallelism int) error {
	var protos []*uvmcode.Proto
	uvmcode.Walk(root, func(p *uvmcode.Proto) bool {
		if p.Method != nil {
			protos = append(protos, p)
		}
		return true
	})

	grp, grpCtx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		grp.SetLimit(parallelism)
	}
	for _, p := range protos {
		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}
			before := p.LiveCount()
			n, err := Reduce(p)
			if err != nil {
				return fmt.Errorf("reduce %s: %w", p.Name, err)
			}
			log.Debugf(grpCtx, "Reduced %s from %d to %d instructions", p.Name, before, before-n)
			return nil
		})
	}
	return grp.Wait()
}

// noTarget marks a closed candidate.
const noTarget uvmcode.InstructionID = -1

// reducer is the state of a single pass over a function.
type reducer struct {
	proto *uvmcode.Proto

	// grow is the open stack size increment.
	grow uvmcode.InstructionID
	// growWritten is set while a stack write after grow is still live.
	// The increment cannot be removed while the write depends on it.
	growWritten bool
	// write is the open stack write and value is the operand it stores.
	write uvmcode.InstructionID
	value []string

	deleted   int
	rewritten int
}

func (r *reducer) pass() error {
	r.reset()
	stack := uvmcode.Register(r.proto.Layout.EvalStack)
	size := uvmcode.Register(r.proto.Layout.EvalStackSize)
	for id, inst := range r.proto.Live() {
		if inst.Source == nil || inst.Label != "" {
			r.reset()
		}
		if inst.Source == nil {
			continue
		}
		switch inst.Role {
		case uvmcode.GrowStack:
			r.reset()
			r.grow = id
		case uvmcode.WriteStackTop:
			args := inst.Operands()
			if len(args) < 3 {
				r.reset()
				continue
			}
			if r.write != noTarget {
				// The earlier write stays live and needs its increment.
				r.grow = noTarget
			}
			r.write = id
			r.value = args[2:]
			if r.grow != noTarget {
				r.growWritten = true
			}
		case uvmcode.ReadStackTop:
			if r.write == noTarget {
				r.reset()
				continue
			}
			if err := r.forward(inst); err != nil {
				return err
			}
		case uvmcode.ShrinkStack:
			if err := r.cancel(id); err != nil {
				return err
			}
			r.reset()
		default:
			r.observe(inst, stack, size)
		}
	}
	return nil
}

func (r *reducer) reset() {
	r.grow = noTarget
	r.growWritten = false
	r.closeWrite()
}

func (r *reducer) closeWrite() {
	r.write = noTarget
	r.value = nil
}

// forward replaces a read of the stack top
// with a copy of the value the open write stored there.
func (r *reducer) forward(inst *uvmcode.Instruction) error {
	args := inst.Operands()
	if len(args) == 0 {
		return fmt.Errorf("internal error: %s: malformed stack read %q", r.proto.Name, inst.Text)
	}
	dst := args[0]
	switch {
	case len(r.value) == 1:
		inst.Text = "move " + dst + " " + r.value[0]
	case len(r.value) == 2 && r.value[0] == "const":
		inst.Text = "loadk " + dst + " const " + r.value[1]
	default:
		r.closeWrite()
		return nil
	}
	inst.Role = uvmcode.NoStackRole
	r.rewritten++

	if w := r.proto.At(r.write); w.Label == "" {
		if err := r.proto.Delete(r.write); err != nil {
			return err
		}
		r.deleted++
		r.growWritten = false
	}
	r.closeWrite()
	return nil
}

// cancel deletes the shrink instruction id and the open grow
// if nothing between them left a value on the stack.
func (r *reducer) cancel(id uvmcode.InstructionID) error {
	if r.grow == noTarget || r.growWritten {
		return nil
	}
	if r.proto.At(r.grow).Label != "" || r.proto.At(id).Label != "" {
		return nil
	}
	if err := r.proto.Delete(r.grow); err != nil {
		return err
	}
	if err := r.proto.Delete(id); err != nil {
		return err
	}
	r.deleted += 2
	return nil
}

// observe updates the state for an instruction
// that is not part of a push or pop.
func (r *reducer) observe(inst *uvmcode.Instruction, stack, size string) {
	op := inst.Opcode()
	switch op {
	case "return", "jmp", "eq", "lt", "le", "test", "testset":
		r.reset()
		return
	}
	args := inst.Operands()
	for _, a := range args {
		if a == stack || a == size {
			r.reset()
			return
		}
	}
	if r.write == noTarget || len(r.value) != 1 {
		return
	}
	tracked, ok := uvmcode.ParseRegister(r.value[0])
	if !ok {
		return
	}
	if clobbers(op, args, tracked) {
		r.closeWrite()
	}
}

// clobbers reports whether an instruction with the given opcode and operands
// may change or depend on the register after it was stored to the stack.
func clobbers(op string, args []string, reg int) bool {
	switch op {
	case "call", "tailcall":
		if len(args) < 3 {
			return true
		}
		a, ok1 := uvmcode.ParseRegister(args[0])
		c, err := strconv.Atoi(args[2])
		if !ok1 || err != nil {
			return true
		}
		if c == 0 {
			return reg >= a
		}
		return a <= reg && reg <= a+c-2
	case "loadnil":
		if len(args) < 2 {
			return true
		}
		a, ok1 := uvmcode.ParseRegister(args[0])
		b, err := strconv.Atoi(args[1])
		if !ok1 || err != nil {
			return true
		}
		return a <= reg && reg <= a+b
	}
	return slices.Contains(args, uvmcode.Register(reg))
}
