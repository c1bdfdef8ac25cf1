// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package uvmcode

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTree() *Proto {
	root := NewProto("root", nil)
	a := NewProto("a", root)
	a1 := NewProto("a1", a)
	a.Functions = []*Proto{a1}
	b := NewProto("b", root)
	root.Functions = []*Proto{a, b}
	return root
}

func TestWalk(t *testing.T) {
	root := sampleTree()
	var got []string
	Walk(root, func(p *Proto) bool {
		got = append(got, p.Name)
		return true
	})
	if diff := cmp.Diff([]string{"root", "a", "a1", "b"}, got); diff != "" {
		t.Errorf("visit order (-want +got):\n%s", diff)
	}

	got = got[:0]
	Walk(root, func(p *Proto) bool {
		got = append(got, p.Name)
		return p.Name != "a"
	})
	if diff := cmp.Diff([]string{"root", "a", "b"}, got); diff != "" {
		t.Errorf("pruned visit order (-want +got):\n%s", diff)
	}
}

func TestTree(t *testing.T) {
	s := Tree(sampleTree()).String()
	for _, name := range []string{"root (", "a (", "a1 (", "b ("} {
		if !strings.Contains(s, name) {
			t.Errorf("tree does not mention %q:\n%s", name, s)
		}
	}
}
