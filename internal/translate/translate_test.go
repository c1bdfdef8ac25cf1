// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
	"gjavac.256lights.llc/pkg/internal/jvmir"
	"gjavac.256lights.llc/pkg/internal/testcontext"
	"gjavac.256lights.llc/pkg/internal/uvmcode"
)

// mainModule returns a module whose main class declares the given methods
// next to its main method, and a minimal contract class.
func mainModule(methods string) string {
	return `{
	"classes": [
		{
			"name": "demo.Main",
			"methods": [
				{"name": "main", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
				` + methods + `
			],
		},
		{
			"name": "demo.Demo",
			"super": "gjavac.lib.UvmContract",
			"annotations": ["gjavac.lib.Contract"],
			"methods": [
				{"name": "init", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
			],
		},
	],
}`
}

const addMethod = `{
	"name": "add",
	"desc": "(II)I",
	"maxLocals": 3,
	"code": [
		{"op": "iload_1", "line": 7},
		{"op": "iload_2", "line": 7},
		{"op": "iadd", "line": 7},
		{"op": "ireturn", "line": 7},
	],
},`

const sumMethod = `{
	"name": "sum",
	"desc": "(I)I",
	"maxLocals": 3,
	"code": [
		{"op": "iconst_0"},
		{"op": "istore_2"},
		{"op": "iload_1"},
		{"op": "ifle", "args": [{"label": "end"}]},
		{"op": "iload_2"},
		{"op": "iload_1"},
		{"op": "iadd"},
		{"op": "istore_2"},
		{"op": "iinc", "args": [1, -1]},
		{"op": "goto", "args": [{"label": "loop"}]},
		{"op": "iload_2"},
		{"op": "ireturn"},
	],
	"labels": {"loop": 2, "end": 10},
},`

const maxMethod = `{
	"name": "max",
	"desc": "(II)I",
	"static": true,
	"maxLocals": 2,
	"code": [
		{"op": "iload_0"},
		{"op": "iload_1"},
		{"op": "if_icmple", "args": [{"label": "second"}]},
		{"op": "iload_0"},
		{"op": "ireturn"},
		{"op": "iload_1"},
		{"op": "ireturn"},
	],
	"labels": {"second": 5},
},`

const compareMethods = `{
	"name": "cmpg",
	"desc": "(DD)I",
	"static": true,
	"maxLocals": 4,
	"code": [
		{"op": "dload_0"},
		{"op": "dload_2"},
		{"op": "dcmpg"},
		{"op": "ireturn"},
	],
},
{
	"name": "cmpl",
	"desc": "(DD)I",
	"static": true,
	"maxLocals": 4,
	"code": [
		{"op": "dload_0"},
		{"op": "dload_2"},
		{"op": "dcmpl"},
		{"op": "ireturn"},
	],
},`

const flagMethod = `{
	"name": "flag",
	"desc": "(I)I",
	"maxLocals": 2,
	"code": [
		{"op": "aload_0"},
		{"op": "iload_1"},
		{"op": "putfield", "args": [{"field": {"owner": "demo.Main", "name": "ready", "desc": "Z"}}]},
		{"op": "aload_0"},
		{"op": "getfield", "args": [{"field": {"owner": "demo.Main", "name": "ready", "desc": "Z"}}]},
		{"op": "ireturn"},
	],
},`

const strlenMethod = `{
	"name": "strlen",
	"desc": "(Lgjavac/lib/UvmStringModule;Ljava/lang/String;)I",
	"maxLocals": 3,
	"code": [
		{"op": "aload_1"},
		{"op": "aload_2"},
		{"op": "invokevirtual", "args": [{"method": {"owner": "gjavac.lib.UvmStringModule", "name": "len", "desc": "(Ljava/lang/String;)I"}}]},
		{"op": "ireturn"},
	],
},`

const greetMethod = `{
	"name": "greet",
	"desc": "()V",
	"maxLocals": 1,
	"code": [
		{"op": "getstatic", "args": [{"field": {"owner": "java.lang.System", "name": "out", "desc": "Ljava/io/PrintStream;"}}]},
		{"op": "ldc", "args": ["hi"]},
		{"op": "invokevirtual", "args": [{"method": {"owner": "java.io.PrintStream", "name": "println", "desc": "(Ljava/lang/String;)V"}}]},
		{"op": "return"},
	],
},`

const notMethod = `{
	"name": "negate",
	"desc": "(I)I",
	"static": true,
	"maxLocals": 1,
	"code": [
		{"op": "iload_0"},
		{"op": "invokestatic", "args": [{"method": {"owner": "gjavac.lib.UvmCoreLibs", "name": "not", "desc": "(Z)Z"}}]},
		{"op": "ireturn"},
	],
},`

func translateSource(t *testing.T, src string, opts *Options) *Result {
	t.Helper()
	ctx, cancel := testcontext.New(t)
	defer cancel()
	module, err := jvmir.Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	result, err := Translate(ctx, module, opts)
	if err != nil {
		t.Fatal("Translate:", err)
	}
	return result
}

func findProto(t *testing.T, root *uvmcode.Proto, name string) *uvmcode.Proto {
	t.Helper()
	var found *uvmcode.Proto
	uvmcode.Walk(root, func(p *uvmcode.Proto) bool {
		if p.Name == name {
			found = p
		}
		return found == nil
	})
	if found == nil {
		t.Fatalf("no function %s", name)
	}
	return found
}

func liveText(p *uvmcode.Proto) []string {
	var text []string
	for _, inst := range p.Live() {
		text = append(text, inst.Text)
	}
	return text
}

func TestTranslateAdd(t *testing.T) {
	tests := []struct {
		name string
		opts *Options
		want []string
	}{
		{
			name: "Plain",
			want: []string{
				"newtable %4 0 0",
				"loadk %5 const 0",
				"add %5 %5 const 1",
				"settable %4 %5 %1",
				"add %5 %5 const 1",
				"settable %4 %5 %2",
				"gettable %10 %4 %5",
				"sub %5 %5 const 1",
				"gettable %9 %4 %5",
				"sub %5 %5 const 1",
				"add %7 %9 %10",
				"add %5 %5 const 1",
				"settable %4 %5 %7",
				"gettable %6 %4 %5",
				"sub %5 %5 const 1",
				"return %6 2",
				"return %0 1",
			},
		},
		{
			name: "Reduced",
			opts: &Options{Reduce: true, Parallelism: 1},
			want: []string{
				"newtable %4 0 0",
				"loadk %5 const 0",
				"move %10 %2",
				"move %9 %1",
				"add %7 %9 %10",
				"move %6 %7",
				"return %6 2",
				"return %0 1",
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := translateSource(t, mainModule(addMethod), test.opts)
			p := findProto(t, result.Root, "demo_Main__add")
			if diff := cmp.Diff(test.want, liveText(p)); diff != "" {
				t.Errorf("code (-want +got):\n%s", diff)
			}
			if p.NumParams != 3 {
				t.Errorf("NumParams = %d; want 3", p.NumParams)
			}
			if p.MaxStackSize != 34 {
				t.Errorf("MaxStackSize = %d; want 34", p.MaxStackSize)
			}
			var constants []string
			for _, k := range p.Constants {
				constants = append(constants, k.String())
			}
			if diff := cmp.Diff([]string{"0", "1"}, constants); diff != "" {
				t.Errorf("constants (-want +got):\n%s", diff)
			}

			got, err := execute(p, nil, map[int]any{0: newTable(), 1: int64(3), 2: int64(4)})
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]any{int64(7)}, got.values); diff != "" {
				t.Errorf("add(3, 4) (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslateBehavior(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		method string
		regs   map[int]any
		want   any
	}{
		{"demo_Main__sum", map[int]any{1: int64(4)}, int64(10)},
		{"demo_Main__sum", map[int]any{1: int64(0)}, int64(0)},
		{"demo_Main__sum", map[int]any{1: int64(-3)}, int64(0)},
		{"demo_Main__max", map[int]any{0: int64(5), 1: int64(3)}, int64(5)},
		{"demo_Main__max", map[int]any{0: int64(2), 1: int64(9)}, int64(9)},
		{"demo_Main__max", map[int]any{0: int64(4), 1: int64(4)}, int64(4)},
		{"demo_Main__cmpg", map[int]any{0: 1.0, 2: 2.0}, int64(-1)},
		{"demo_Main__cmpg", map[int]any{0: 2.0, 2: 1.0}, int64(1)},
		{"demo_Main__cmpg", map[int]any{0: 2.0, 2: 2.0}, int64(0)},
		{"demo_Main__cmpg", map[int]any{0: nan, 2: 1.0}, int64(1)},
		{"demo_Main__cmpl", map[int]any{0: 1.0, 2: 2.0}, int64(-1)},
		{"demo_Main__cmpl", map[int]any{0: 2.0, 2: 1.0}, int64(1)},
		{"demo_Main__cmpl", map[int]any{0: 2.0, 2: 2.0}, int64(0)},
		{"demo_Main__cmpl", map[int]any{0: nan, 2: 1.0}, int64(-1)},
		{"demo_Main__negate", map[int]any{0: int64(0)}, int64(1)},
		{"demo_Main__negate", map[int]any{0: int64(1)}, int64(0)},
	}
	src := mainModule(sumMethod + maxMethod + compareMethods + notMethod)
	for _, reduce := range []bool{false, true} {
		result := translateSource(t, src, &Options{Reduce: reduce})
		for _, test := range tests {
			p := findProto(t, result.Root, test.method)
			got, err := execute(p, nil, test.regs)
			if err != nil {
				t.Errorf("%s%v (reduce=%t): %v", test.method, test.regs, reduce, err)
				continue
			}
			if len(got.values) != 1 || got.values[0] != test.want {
				t.Errorf("%s%v (reduce=%t) = %v; want %v", test.method, test.regs, reduce, got.values, test.want)
			}
			if got.stackSize != int64(0) {
				t.Errorf("%s%v (reduce=%t) left %v values on the stack", test.method, test.regs, reduce, got.stackSize)
			}
		}
	}
}

func TestBooleanFields(t *testing.T) {
	for _, reduce := range []bool{false, true} {
		result := translateSource(t, mainModule(flagMethod), &Options{Reduce: reduce})
		p := findProto(t, result.Root, "demo_Main__flag")
		for _, test := range []struct {
			arg    int64
			stored bool
		}{{0, false}, {1, true}} {
			this := newTable()
			got, err := execute(p, nil, map[int]any{0: this, 1: test.arg})
			if err != nil {
				t.Fatalf("flag(%d) (reduce=%t): %v", test.arg, reduce, err)
			}
			if stored := this.get("ready"); stored != test.stored {
				t.Errorf("flag(%d) (reduce=%t) stored %#v; want %t", test.arg, reduce, stored, test.stored)
			}
			if len(got.values) != 1 || got.values[0] != test.arg {
				t.Errorf("flag(%d) (reduce=%t) = %v; want [%d]", test.arg, reduce, got.values, test.arg)
			}
		}
	}
}

func TestModuleFacadeCall(t *testing.T) {
	result := translateSource(t, mainModule(strlenMethod), nil)
	p := findProto(t, result.Root, "demo_Main__strlen")
	stringModule := newTable()
	stringModule.set("len", function(func(args []any) []any {
		s, _ := args[0].(string)
		return []any{int64(len(s))}
	}))
	got, err := execute(p, nil, map[int]any{0: newTable(), 1: stringModule, 2: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{int64(5)}, got.values); diff != "" {
		t.Errorf("strlen(\"hello\") (-want +got):\n%s", diff)
	}
}

func TestPrint(t *testing.T) {
	result := translateSource(t, mainModule(greetMethod), nil)
	p := findProto(t, result.Root, "demo_Main__greet")
	var printed []any
	globals := map[string]any{
		"print": function(func(args []any) []any {
			printed = append(printed, args...)
			return nil
		}),
	}
	got, err := execute(p, globals, map[int]any{0: newTable()})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{"hi"}, printed); diff != "" {
		t.Errorf("printed (-want +got):\n%s", diff)
	}
	if got.stackSize != int64(0) {
		t.Errorf("left %v values on the stack", got.stackSize)
	}
	if len(p.Upvalues) != 1 || p.Upvalues[0].Name != uvmcode.EnvUpvalue {
		t.Errorf("upvalues = %+v; want only %s", p.Upvalues, uvmcode.EnvUpvalue)
	}
}

func TestLineComments(t *testing.T) {
	result := translateSource(t, mainModule(addMethod), &Options{LineComments: true})
	p := findProto(t, result.Root, "demo_Main__add")
	var comments []string
	for _, inst := range p.Live() {
		if inst.Source != nil && inst.Source.Offset == 0 {
			comments = append(comments, inst.Comment)
		}
	}
	want := []string{";L7;;ILOAD_1", ";L7;;ILOAD_1"}
	if diff := cmp.Diff(want, comments); diff != "" {
		t.Errorf("comments (-want +got):\n%s", diff)
	}

	plain := translateSource(t, mainModule(addMethod), nil)
	for _, inst := range findProto(t, plain.Root, "demo_Main__add").Live() {
		if inst.Comment != "" {
			t.Errorf("%q has comment %q without LineComments", inst.Text, inst.Comment)
		}
	}
}

// TestCountMatchesEmit checks that the instruction counts used to resolve
// forward jumps agree with what is emitted for every instruction.
func TestCountMatchesEmit(t *testing.T) {
	ctx, cancel := testcontext.New(t)
	defer cancel()
	src := mainModule(addMethod + sumMethod + maxMethod + compareMethods + flagMethod + strlenMethod + greetMethod + notMethod)
	module, err := jvmir.Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	mod := &moduleTranslator{module: module, opts: new(Options)}
	if _, _, err := mod.classify(); err != nil {
		t.Fatal(err)
	}
	for _, m := range module.Class("demo/Main").Methods {
		p := uvmcode.NewProto(ProtoName("demo/Main", m.Name), nil)
		mt := newMethodTranslator(mod, m, p)
		if err := mt.translate(ctx); err != nil {
			t.Errorf("%s: %v", m.Name, err)
			continue
		}
		emitted := make(map[*jvmir.Instruction]int)
		for _, inst := range p.Live() {
			if inst.Source != nil {
				emitted[inst.Source]++
			}
		}
		for _, inst := range m.Code {
			n, err := mt.count(inst)
			if err != nil {
				t.Errorf("%s: count(%v): %v", m.Name, inst, err)
				continue
			}
			if n != emitted[inst] {
				t.Errorf("%s: count(%v) = %d; emitted %d", m.Name, inst, n, emitted[inst])
			}
		}
	}
}

func TestTree(t *testing.T) {
	src := `{
	"classes": [
		{
			"name": "demo.Main",
			"methods": [
				{"name": "main", "desc": "()Ljava/lang/Object;", "maxLocals": 1, "code": [{"op": "aconst_null"}, {"op": "areturn"}]},
				{"name": "helper", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
			],
		},
		{
			"name": "demo.Demo",
			"super": "gjavac.lib.UvmContract",
			"annotations": ["gjavac.lib.Contract"],
			"methods": [
				{"name": "<init>", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
				{"name": "init", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
			],
		},
		{
			"name": "demo.Storage",
			"kind": "component",
			"methods": [
				{"name": "load", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
			],
		},
		{
			"name": "demo.Plain",
			"methods": [
				{"name": "ignored", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
			],
		},
	],
}`
	result := translateSource(t, src, nil)
	root := result.Root

	var names []string
	uvmcode.Walk(root, func(p *uvmcode.Proto) bool {
		names = append(names, p.Name)
		return true
	})
	wantNames := []string{
		"demo_Main",
		"demo_Main__main",
		"demo_Demo",
		"demo_Demo__init",
		"demo_Storage",
		"demo_Storage__load",
		"demo_Main__helper",
	}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Errorf("functions (-want +got):\n%s", diff)
	}

	wantRoot := []string{
		"newtable %0 0 0",
		"closure %1 demo_Main__main",
		`loadk %3 const "main"`,
		"settable %0 %3 %1",
		"closure %2 demo_Main__helper",
		`loadk %3 const "helper"`,
		"settable %0 %3 %2",
		"closure %4 demo_Main__main",
		"move %5 %0",
		"call %4 2 2",
		"return %4 2",
		"return %0 1",
	}
	if diff := cmp.Diff(wantRoot, liveText(root)); diff != "" {
		t.Errorf("root code (-want +got):\n%s", diff)
	}
	if root.MaxStackSize != 7 {
		t.Errorf("root.MaxStackSize = %d; want 7", root.MaxStackSize)
	}
	wantLocals := []uvmcode.LocalVariable{
		{Name: "demo_Main__main", Slot: 1},
		{Name: "demo_Main__helper", Slot: 2},
	}
	if diff := cmp.Diff(wantLocals, root.LocalVariables); diff != "" {
		t.Errorf("root locals (-want +got):\n%s", diff)
	}

	contract := findProto(t, root, "demo_Demo")
	if contract.Parent == nil || contract.Parent.Name != "demo_Main__main" {
		t.Errorf("contract parent = %v; want demo_Main__main", contract.Parent)
	}
	wantContract := []string{
		"newtable %0 0 0",
		"closure %1 demo_Demo__init",
		`loadk %3 const "init"`,
		"settable %0 %3 %1",
		"return %0 2",
		"return %0 1",
	}
	if diff := cmp.Diff(wantContract, liveText(contract)); diff != "" {
		t.Errorf("contract code (-want +got):\n%s", diff)
	}
	if component := findProto(t, root, "demo_Storage"); component.Parent != contract {
		t.Errorf("component parent = %v; want contract", component.Parent)
	}

	buf := new(bytes.Buffer)
	if err := uvmcode.WriteAssembly(buf, root); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{".func main 7 0 2\r\n", ".func demo_Demo__init 32 1 0\r\n"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("assembly does not contain %q:\n%s", want, buf)
		}
	}
}

func TestTranslateErrors(t *testing.T) {
	const contract = `{
		"name": "demo.Demo",
		"super": "gjavac.lib.UvmContract",
		"annotations": ["gjavac.lib.Contract"],
		"methods": [{"name": "init", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]}],
	},`
	const mainClass = `{
		"name": "demo.Main",
		"methods": [{"name": "main", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]}],
	},`
	tests := []struct {
		name    string
		classes string
		kind    ErrorKind
		method  string
		line    int
	}{
		{
			name:    "NoMain",
			classes: contract,
			kind:    ModuleContract,
		},
		{
			name:    "TwoMains",
			classes: contract + mainClass + strings.Replace(mainClass, "demo.Main", "demo.Other", 1),
			kind:    ModuleContract,
		},
		{
			name:    "NoContract",
			classes: mainClass,
			kind:    ModuleContract,
		},
		{
			name: "TwoContracts",
			classes: contract + mainClass +
				strings.Replace(contract, "demo.Demo", "demo.Other", 1),
			kind: ModuleContract,
		},
		{
			name: "MainInContract",
			classes: `{
				"name": "demo.Demo",
				"super": "gjavac.lib.UvmContract",
				"annotations": ["gjavac.lib.Contract"],
				"methods": [{"name": "main", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]}],
			},`,
			kind: ModuleContract,
		},
		{
			name:    "MissingAnnotation",
			classes: strings.Replace(contract, `"annotations": ["gjavac.lib.Contract"],`, "", 1) + mainClass,
			kind:    ModuleContract,
		},
		{
			name: "InstanceEvent",
			classes: contract + mainClass + `{
				"name": "demo.Events",
				"interfaces": ["gjavac.lib.IUvmEventEmitter"],
				"methods": [{"name": "emitTransfer", "desc": "(Ljava/lang/String;)V", "maxLocals": 2, "code": []}],
			},`,
			kind: ModuleContract,
		},
		{
			name: "UnsupportedOpcode",
			classes: contract + `{
				"name": "demo.Main",
				"methods": [
					{"name": "main", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
					{"name": "bad", "desc": "()V", "maxLocals": 1, "code": [
						{"op": "aload_0", "line": 11},
						{"op": "monitorenter", "line": 12},
						{"op": "return", "line": 13},
					]},
				],
			},`,
			kind:   UnsupportedOpcode,
			method: "demo/Main.bad",
			line:   12,
		},
		{
			name: "UnsupportedCall",
			classes: contract + `{
				"name": "demo.Main",
				"methods": [
					{"name": "main", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
					{"name": "find", "desc": "(Ljava/lang/String;)I", "maxLocals": 2, "code": [
						{"op": "aload_1", "line": 20},
						{"op": "ldc", "args": ["x"], "line": 20},
						{"op": "invokevirtual", "args": [{"method": {"owner": "java.lang.String", "name": "indexOf", "desc": "(Ljava/lang/String;)I"}}], "line": 20},
						{"op": "ireturn", "line": 20},
					]},
				],
			},`,
			kind:   UnsupportedCall,
			method: "demo/Main.find",
			line:   20,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx, cancel := testcontext.New(t)
			defer cancel()
			module, err := jvmir.Decode(strings.NewReader(`{"classes": [` + test.classes + `]}`))
			if err != nil {
				t.Fatal(err)
			}
			result, err := Translate(ctx, module, nil)
			if err == nil {
				t.Fatalf("Translate(...) = %v, <nil>; want error", result)
			}
			t.Log(err)
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("Translate(...) error is %T; want *Error", err)
			}
			if e.Kind != test.kind {
				t.Errorf("Kind = %v; want %v", e.Kind, test.kind)
			}
			if e.Method != test.method {
				t.Errorf("Method = %q; want %q", e.Method, test.method)
			}
			if test.line != 0 && (e.Source == nil || e.Source.Line != test.line) {
				t.Errorf("Source = %v; want an instruction on line %d", e.Source, test.line)
			}
		})
	}
}

func TestMetadata(t *testing.T) {
	src := `{
	"classes": [
		{
			"name": "demo.Main",
			"methods": [{"name": "main", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]}],
		},
		{
			"name": "demo.Events",
			"interfaces": ["gjavac.lib.IUvmEventEmitter"],
			"methods": [
				{"name": "emitTransfer", "desc": "(Ljava/lang/String;)V", "static": true, "maxLocals": 1, "code": []},
				{"name": "emitMint", "desc": "(Ljava/lang/String;)V", "static": true, "maxLocals": 1, "code": []},
				{"name": "emitTransfer", "desc": "(Ljava/lang/String;)V", "static": true, "maxLocals": 1, "code": []},
				{"name": "helper", "desc": "()V", "static": true, "maxLocals": 0, "code": []},
			],
		},
		{
			"name": "demo.Demo",
			"super": "gjavac.lib.UvmContract",
			"annotations": ["gjavac.lib.Contract"],
			"storage": [
				{"name": "count", "type": "I"},
				{"name": "name", "type": "Ljava/lang/String;"},
				{"name": "ok", "type": "Z"},
				{"name": "rate", "type": "D"},
			],
			"methods": [
				{"name": "<init>", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
				{"name": "init", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
				{
					"name": "add",
					"desc": "(II)I",
					"annotations": ["gjavac.lib.Offline"],
					"maxLocals": 3,
					"code": [{"op": "iload_1"}, {"op": "iload_2"}, {"op": "iadd"}, {"op": "ireturn"}],
				},
				{"name": "setName", "desc": "(Ljava/lang/String;Z)V", "maxLocals": 3, "code": [{"op": "return"}]},
			],
		},
	],
}`
	result := translateSource(t, src, nil)
	got, err := jsonv2.Marshal(result.Metadata)
	if err != nil {
		t.Fatal(err)
	}
	const want = `{
		"event": ["Transfer", "Mint"],
		"api": ["init", "add", "setName"],
		"offline_api": ["add"],
		"storage_properties_types": [["count", 1], ["name", 4], ["ok", 3], ["rate", 2]],
		"api_args_types": [["init", []], ["add", [3, 3]], ["setName", [2, 5]]]
	}`
	delta, err := gojsondiff.New().Compare([]byte(want), got)
	if err != nil {
		t.Fatal(err)
	}
	if delta.Modified() {
		var left any
		if err := jsonv2.Unmarshal([]byte(want), &left); err != nil {
			t.Fatal(err)
		}
		diff, err := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{}).Format(delta)
		if err != nil {
			t.Fatal(err)
		}
		t.Errorf("metadata = %s; diff:\n%s", got, diff)
	}
}

func TestMetadataEmpty(t *testing.T) {
	got, err := jsonv2.Marshal(new(Metadata))
	if err != nil {
		t.Fatal(err)
	}
	const want = `{"event":[],"api":[],"offline_api":[],"storage_properties_types":[],"api_args_types":[]}`
	if string(got) != want {
		t.Errorf("jsonv2.Marshal(new(Metadata)) = %s; want %s", got, want)
	}
}

func TestContractStorageAccessors(t *testing.T) {
	src := `{
	"classes": [
		{
			"name": "demo.Main",
			"methods": [
				{"name": "main", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
				{"name": "attach", "desc": "(Ldemo/Demo;Ljava/lang/Object;)V", "maxLocals": 3, "code": [
					{"op": "aload_1"},
					{"op": "aload_2"},
					{"op": "invokevirtual", "args": [{"method": {"owner": "demo.Demo", "name": "setStorage", "desc": "(Ljava/lang/Object;)V"}}]},
					{"op": "return"},
				]},
				{"name": "count", "desc": "(Ldemo/Storage;)I", "maxLocals": 2, "code": [
					{"op": "aload_1"},
					{"op": "invokevirtual", "args": [{"method": {"owner": "demo.Storage", "name": "getCount", "desc": "()I"}}]},
					{"op": "ireturn"},
				]},
			],
		},
		{
			"name": "demo.Demo",
			"super": "gjavac.lib.UvmContract",
			"annotations": ["gjavac.lib.Contract"],
			"methods": [
				{"name": "init", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
				{"name": "state", "desc": "()Ljava/lang/Object;", "maxLocals": 1, "code": [
					{"op": "aload_0"},
					{"op": "invokevirtual", "args": [{"method": {"owner": "demo.Demo", "name": "getStorage", "desc": "()Ljava/lang/Object;"}}]},
					{"op": "areturn"},
				]},
			],
		},
		{
			"name": "demo.Storage",
			"kind": "component",
			"methods": [
				{"name": "getCount", "desc": "()I", "maxLocals": 1, "code": [{"op": "iconst_3"}, {"op": "ireturn"}]},
			],
		},
	],
}`
	for _, reduce := range []bool{false, true} {
		result := translateSource(t, src, &Options{Reduce: reduce})

		storage := newTable()
		contract := newTable()
		attach := findProto(t, result.Root, "demo_Main__attach")
		if _, err := execute(attach, nil, map[int]any{0: newTable(), 1: contract, 2: storage}); err != nil {
			t.Fatalf("attach (reduce=%t): %v", reduce, err)
		}
		if got := contract.get("storage"); got != storage {
			t.Errorf("after attach (reduce=%t), contract.storage = %v; want storage table", reduce, got)
		}

		state := findProto(t, result.Root, "demo_Demo__state")
		for _, uv := range state.Upvalues {
			if uv.Name != uvmcode.EnvUpvalue {
				t.Errorf("state (reduce=%t) has upvalue %s", reduce, uv.Name)
			}
		}
		got, err := execute(state, nil, map[int]any{0: contract})
		if err != nil {
			t.Fatalf("state (reduce=%t): %v", reduce, err)
		}
		if len(got.values) != 1 || got.values[0] != storage {
			t.Errorf("state (reduce=%t) = %v; want storage table", reduce, got.values)
		}

		// Component methods are called even when named like accessors.
		component := newTable()
		component.set("getCount", function(func(args []any) []any {
			return []any{int64(3)}
		}))
		count := findProto(t, result.Root, "demo_Main__count")
		got, err = execute(count, nil, map[int]any{0: newTable(), 1: component})
		if err != nil {
			t.Fatalf("count (reduce=%t): %v", reduce, err)
		}
		if diff := cmp.Diff([]any{int64(3)}, got.values); diff != "" {
			t.Errorf("count (reduce=%t) (-want +got):\n%s", reduce, diff)
		}
	}
}

const relayMethod = `{
	"name": "relay",
	"desc": "()V",
	"static": true,
	"maxLocals": 0,
	"code": [
		{"op": "invokestatic", "args": [{"method": {"owner": "gjavac.lib.UvmCoreLibs", "name": "isReady", "desc": "()Z"}}]},
		{"op": "invokestatic", "args": [{"method": {"owner": "gjavac.lib.UvmCoreLibs", "name": "accept", "desc": "(Z)V"}}]},
		{"op": "return"},
	],
},`

// TestNativeBooleanRoundTrip passes the native boolean result
// of a global function to another global function.
func TestNativeBooleanRoundTrip(t *testing.T) {
	for _, reduce := range []bool{false, true} {
		result := translateSource(t, mainModule(relayMethod), &Options{Reduce: reduce})
		p := findProto(t, result.Root, "demo_Main__relay")
		for _, ready := range []bool{false, true} {
			var accepted []any
			globals := map[string]any{
				"isReady": function(func(args []any) []any {
					return []any{ready}
				}),
				"accept": function(func(args []any) []any {
					accepted = append(accepted, args...)
					return nil
				}),
			}
			got, err := execute(p, globals, nil)
			if err != nil {
				t.Fatalf("relay (ready=%t, reduce=%t): %v", ready, reduce, err)
			}
			if diff := cmp.Diff([]any{ready}, accepted); diff != "" {
				t.Errorf("relay (ready=%t, reduce=%t) accepted (-want +got):\n%s", ready, reduce, diff)
			}
			if got.stackSize != int64(0) {
				t.Errorf("relay (ready=%t, reduce=%t) left %v values on the stack", ready, reduce, got.stackSize)
			}
		}
	}
}

const lessMethod = `{
	"name": "less",
	"desc": "(II)I",
	"static": true,
	"maxLocals": 2,
	"code": [
		{"op": "iload_0"},
		{"op": "iload_1"},
		{"op": "if_icmpge", "args": [{"label": "else"}]},
		{"op": "iconst_1"},
		{"op": "ireturn"},
		{"op": "iconst_0"},
		{"op": "ireturn"},
	],
	"labels": {"else": 5},
},`

func TestBranchLabels(t *testing.T) {
	for _, reduce := range []bool{false, true} {
		result := translateSource(t, mainModule(lessMethod), &Options{Reduce: reduce})
		p := findProto(t, result.Root, "demo_Main__less")

		seen := make(map[string]bool)
		ops := make(map[string]int)
		for _, inst := range p.Live() {
			if inst.Label != "" {
				if seen[inst.Label] {
					t.Errorf("label %s used twice (reduce=%t)", inst.Label, reduce)
				}
				seen[inst.Label] = true
			}
			ops[inst.Opcode()]++
		}
		if len(seen) != 1 {
			t.Errorf("labels = %v (reduce=%t); want 1 label", seen, reduce)
		}
		if ops["lt"] != 1 || ops["jmp"] != 1 {
			t.Errorf("%d lt and %d jmp instructions (reduce=%t); want 1 of each", ops["lt"], ops["jmp"], reduce)
		}

		for _, test := range []struct {
			a, b int64
			want int64
		}{{1, 2, 1}, {2, 1, 0}, {2, 2, 0}} {
			got, err := execute(p, nil, map[int]any{0: test.a, 1: test.b})
			if err != nil {
				t.Fatalf("less(%d, %d) (reduce=%t): %v", test.a, test.b, reduce, err)
			}
			if len(got.values) != 1 || got.values[0] != test.want {
				t.Errorf("less(%d, %d) (reduce=%t) = %v; want %d", test.a, test.b, reduce, got.values, test.want)
			}
		}
	}
}

func TestSelfJump(t *testing.T) {
	const spinMethod = `{
	"name": "spin",
	"desc": "()V",
	"maxLocals": 1,
	"code": [{"op": "goto", "args": [{"label": "self"}]}],
	"labels": {"self": 0},
}`
	result := translateSource(t, mainModule(spinMethod), nil)
	p := findProto(t, result.Root, "demo_Main__spin")
	var jumps int
	for _, inst := range p.Live() {
		if inst.Opcode() != "jmp" {
			continue
		}
		jumps++
		if want := "jmp 1 $" + inst.Label; inst.Label == "" || inst.Text != want {
			t.Errorf("jump %q (label %q) does not target itself", inst.Text, inst.Label)
		}
	}
	if jumps != 1 {
		t.Errorf("found %d jmp instructions; want 1", jumps)
	}
}

func TestCallArgumentLimit(t *testing.T) {
	method := func(n int) string {
		code := strings.Repeat(`{"op": "iconst_0"},`, n)
		desc := "(" + strings.Repeat("I", n) + ")V"
		return `{
	"name": "many",
	"desc": "()V",
	"static": true,
	"maxLocals": 0,
	"code": [` + code + `
		{"op": "invokestatic", "args": [{"method": {"owner": "gjavac.lib.UvmCoreLibs", "name": "consume", "desc": "` + desc + `"}}]},
		{"op": "return"},
	],
},`
	}

	result := translateSource(t, mainModule(method(15)), nil)
	p := findProto(t, result.Root, "demo_Main__many")
	var consumed int
	globals := map[string]any{
		"consume": function(func(args []any) []any {
			consumed = len(args)
			return nil
		}),
	}
	if _, err := execute(p, globals, nil); err != nil {
		t.Fatal(err)
	}
	if consumed != 15 {
		t.Errorf("consume called with %d arguments; want 15", consumed)
	}

	ctx, cancel := testcontext.New(t)
	defer cancel()
	module, err := jvmir.Decode(strings.NewReader(mainModule(method(16))))
	if err != nil {
		t.Fatal(err)
	}
	_, err = Translate(ctx, module, nil)
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("Translate(...) error = %v; want *Error", err)
	}
	if !strings.Contains(e.Msg, "(16 > 15)") {
		t.Errorf("error = %v; want it to mention 16 > 15", e)
	}
}
