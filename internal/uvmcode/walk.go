// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package uvmcode

import (
	"fmt"

	"github.com/oleiade/lane"
	"github.com/xlab/treeprint"
)

// Walk calls f for each function in the tree rooted at root in pre-order:
// a function is visited before its nested functions,
// and nested functions are visited in the order they appear in Functions.
// If f returns false, the function's nested functions are skipped.
func Walk(root *Proto, f func(p *Proto) bool) {
	if root == nil {
		return
	}
	stack := lane.NewStack()
	stack.Push(root)
	for !stack.Empty() {
		p := stack.Pop().(*Proto)
		if !f(p) {
			continue
		}
		for i := len(p.Functions) - 1; i >= 0; i-- {
			stack.Push(p.Functions[i])
		}
	}
}

// Tree returns a printable tree of the functions rooted at root.
// Each node shows the function's name, instruction count and register count.
func Tree(root *Proto) treeprint.Tree {
	t := treeprint.New()
	t.SetValue(describe(root))
	addBranches(t, root)
	return t
}

func addBranches(t treeprint.Tree, p *Proto) {
	for _, f := range p.Functions {
		if len(f.Functions) == 0 {
			t.AddNode(describe(f))
			continue
		}
		addBranches(t.AddBranch(describe(f)), f)
	}
}

func describe(p *Proto) string {
	s := fmt.Sprintf("%s (%d instructions, %d registers", p.Name, p.LiveCount(), p.MaxStackSize)
	if p.Method != nil {
		s += ", " + p.Method.Name + p.Method.Descriptor
	}
	return s + ")"
}
