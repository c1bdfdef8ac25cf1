// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"strings"

	"gjavac.256lights.llc/pkg/internal/jvmir"
	"gjavac.256lights.llc/pkg/internal/uvmcode"
)

// Library classes with dedicated call rules.
const (
	intrinsicsClass    = "kotlin/jvm/internal/Intrinsics"
	printStreamClass   = "java/io/PrintStream"
	stringClass        = "java/lang/String"
	stringBuilderClass = "java/lang/StringBuilder"
	stringBufferClass  = "java/lang/StringBuffer"
	coreLibsClass      = "gjavac/lib/UvmCoreLibs"
	arrayClass         = "gjavac/lib/UvmArray"
	mapClass           = "gjavac/lib/UvmMap"
	arrayIteratorClass = "gjavac/lib/ArrayIterator"
	mapIteratorClass   = "gjavac/lib/MapIterator"
)

var boxClasses = map[string]bool{
	"java/lang/Integer": true,
	"java/lang/Long":    true,
	"java/lang/Float":   true,
	"java/lang/Double":  true,
	"java/lang/Boolean": true,
	stringClass:         true,
}

var boxingMethods = map[string]bool{
	"valueOf":      true,
	"intValue":     true,
	"longValue":    true,
	"floatValue":   true,
	"doubleValue":  true,
	"toInt":        true,
	"toLong":       true,
	"toFloat":      true,
	"toDouble":     true,
	"booleanValue": true,
}

var nullCheckIntrinsics = map[string]bool{
	"checkParameterIsNotNull":       true,
	"checkExpressionValueIsNotNull": true,
	"checkNotNullParameter":         true,
	"checkNotNullExpressionValue":   true,
}

// moduleFacades maps the classes standing in for UVM library modules
// to the functions whose UVM names differ from the method names.
var moduleFacades = map[string]map[string]string{
	"gjavac/lib/UvmStringModule": {
		"firstByte":  "byte",
		"charOfCode": "char",
	},
	"gjavac/lib/UvmMathModule":     nil,
	"gjavac/lib/UvmTableModule":    nil,
	"gjavac/lib/UvmJsonModule":     nil,
	"gjavac/lib/UvmTimeModule":     nil,
	"gjavac/lib/UvmSafeMathModule": nil,
}

var importFunctions = map[string]string{
	"importModule":              "require",
	"importContract":            "import_contract",
	"importContractFromAddress": "import_contract_from_address",
}

// A call is a method invocation translated with the generic call sequence:
// pop the arguments into Tmp3 onward, load the function into Tmp2,
// call it and push its result.
type call struct {
	ref     *jvmir.MethodRef
	sig     *jvmir.MethodType
	hasThis bool
	// params is the number of arguments popped, not counting a receiver.
	params  int
	results int

	// external is set for functions outside the module.
	// They take and return native booleans.
	external bool
	// popReceiver pops a receiver that is not passed to the function
	// after the call.
	popReceiver bool

	// load emits the code that puts the function in Tmp2.
	load func()
	// op, if not nil, replaces loading and calling a function.
	// It leaves any result in Tmp2.
	op func() error
}

func (g *gen) invoke() error {
	ref, ok := g.inst.Operand(0).(*jvmir.MethodRef)
	if !ok {
		return errorf(Internal, g.inst, "%v: missing method reference", g.inst.Op)
	}
	sig, err := ref.Signature()
	if err != nil {
		return errorf(Internal, g.inst, "%v", err)
	}
	c := &call{
		ref:     ref,
		sig:     sig,
		hasThis: g.inst.Op != jvmir.OpInvokeStatic,
		params:  len(sig.Params),
	}
	if sig.HasResult() {
		c.results = 1
	}

	g.e.empty(g.inst.String())
	done, err := g.classifyCall(c)
	if done || err != nil {
		return err
	}
	return g.emitCall(c)
}

// classifyCall fills in how c is called.
// It reports done if it emitted the complete translation itself.
func (g *gen) classifyCall(c *call) (done bool, err error) {
	l := &g.layout
	owner, name := c.ref.Owner, c.ref.Name
	switch {
	case name == "<init>":
		// Objects are built by new.
		for range c.params + 1 {
			g.pop(l.TmpMax)
		}
		return true, nil
	case owner == intrinsicsClass:
		return true, g.intrinsic(c)
	case owner == printStreamClass:
		if name != "print" && name != "println" {
			return false, g.unsupportedCall(c)
		}
		c.hasThis = false
		c.popReceiver = true
		c.external = true
		c.load = func() { g.global(l.Tmp2, "print") }
		return false, nil
	case boxClasses[owner] && boxingMethods[name]:
		g.e.unmapped()
		return true, nil
	case name == "toString":
		c.results = 1
		c.external = true
		c.load = func() { g.global(l.Tmp2, "tostring") }
		return false, nil
	case owner == stringBuilderClass || owner == stringBufferClass:
		if name != "append" {
			return false, g.unsupportedCall(c)
		}
		c.hasThis = false
		c.params = 2
		c.op = func() error {
			g.linef("concat %s %s %s", reg(l.Tmp2), reg(l.Tmp3), reg(l.Tmp3+1))
			return nil
		}
		return false, nil
	case owner == stringClass:
		return g.stringMethod(c)
	case owner == g.className():
		if done, err := g.accessorCall(c); done || err != nil {
			return done, err
		}
		protoName := ProtoName(owner, name)
		c.load = func() {
			idx := g.e.upvalue(protoName)
			g.e.constant(uvmcode.StringValue(protoName))
			g.linef("getupval %s @%d", reg(l.Tmp2), idx)
		}
		return false, nil
	case owner == coreLibsClass:
		return g.coreLibCall(c)
	case owner == arrayClass || owner == mapClass:
		return false, g.collectionCall(c, owner == arrayClass)
	case owner == arrayIteratorClass || owner == mapIteratorClass:
		if name != "invoke" {
			return false, g.unsupportedCall(c)
		}
		c.op = func() error {
			g.iteratorCall()
			return nil
		}
		return false, nil
	}
	if renames, ok := moduleFacades[owner]; ok {
		fn := name
		if renamed, ok := renames[name]; ok {
			fn = renamed
		}
		c.hasThis = false
		c.external = true
		c.load = func() {
			g.loadk(l.Tmp2, uvmcode.StringValue(fn))
			g.pop(l.Tmp1)
			g.linef("gettable %s %s %s", reg(l.Tmp2), reg(l.Tmp1), reg(l.Tmp2))
		}
		return false, nil
	}
	if done, err := g.accessorCall(c); done || err != nil {
		return done, err
	}
	c.external = g.mod.module.Class(owner) == nil
	c.load = func() {
		g.loadk(l.Tmp2, uvmcode.StringValue(name))
		g.linef("gettable %s %s %s", reg(l.Tmp2), reg(l.Tmp3), reg(l.Tmp2))
	}
	return false, nil
}

func (g *gen) className() string {
	if g.method.Class == nil {
		return ""
	}
	return g.method.Class.Name
}

func (g *gen) unsupportedCall(c *call) error {
	return errorf(UnsupportedCall, g.inst, "%s.%s%s", c.ref.Owner, c.ref.Name, c.ref.Descriptor)
}

func (g *gen) intrinsic(c *call) error {
	switch name := c.ref.Name; {
	case nullCheckIntrinsics[name]:
		g.drop()
		g.drop()
		return nil
	case name == "areEqual":
		return g.compareBlock(compareEq)
	case name == "throwNpe":
		g.callWithStack("error")
		g.e.empty("")
		return nil
	default:
		return g.unsupportedCall(c)
	}
}

// callWithStack calls the named global function with the emulated stack table.
func (g *gen) callWithStack(fn string) {
	l := &g.layout
	f := l.EvalStack + 20
	g.global(f, fn)
	g.linef("move %s %s", reg(f+1), reg(l.EvalStack))
	g.linef("call %s 2 1", reg(f))
}

func (g *gen) stringMethod(c *call) (done bool, err error) {
	l := &g.layout
	switch c.ref.Name {
	case "concat":
		operands := c.params
		if c.hasThis {
			operands++
		}
		if operands == 1 {
			c.results = 1
			c.external = true
			c.load = func() { g.global(l.Tmp2, "tostring") }
			return false, nil
		}
		c.op = func() error {
			g.linef("concat %s %s %s", reg(l.Tmp2), reg(l.Tmp3), reg(l.Tmp3+1))
			return nil
		}
		return false, nil
	case "length":
		c.hasThis = true
		c.op = func() error {
			g.linef("len %s %s", reg(l.Tmp2), reg(l.Tmp3))
			return nil
		}
		return false, nil
	case "equals", "op_Equality":
		return true, g.compareBlock(compareEq)
	case "op_Inequality":
		return true, g.compareBlock(compareNe)
	default:
		return false, g.unsupportedCall(c)
	}
}

func (g *gen) coreLibCall(c *call) (done bool, err error) {
	l := &g.layout
	name := c.ref.Name
	switch {
	case name == "caller" || name == "caller_address":
		g.global(l.Tmp1, name)
		g.push(l.Tmp1)
		return true, nil
	case name == "debug":
		for range c.params {
			g.drop()
		}
		g.callWithStack("pprint")
		return true, nil
	case name == "set_mock_contract_balance_amount" || strings.HasSuffix(name, "_for_mock"):
		if c.params == 0 {
			g.e.unmapped()
		}
		for range c.params {
			g.drop()
		}
		return true, nil
	case name == "neg":
		g.unary("unm")
		return true, nil
	case name == "and":
		g.binary("band")
		return true, nil
	case name == "or":
		g.binary("bor")
		return true, nil
	case name == "div" || name == "idiv" || name == "concat":
		g.binary(name)
		return true, nil
	case name == "not":
		a1 := l.Tmp3 + 1
		g.e.empty("")
		g.pop(a1)
		if err := g.intToBool(a1, l.TmpMax); err != nil {
			return true, err
		}
		g.linef("not %s %s", reg(l.Tmp2), reg(a1))
		if err := g.boolToInt(l.Tmp2, l.TmpMax); err != nil {
			return true, err
		}
		g.push(l.Tmp2)
		return true, nil
	}

	fn := name
	if renamed, ok := importFunctions[name]; ok {
		// Drop the class argument.
		fn = renamed
		g.pop(l.Tmp1)
		g.pop(l.TmpMax)
		g.push(l.Tmp1)
		c.params--
	}
	c.external = true
	c.load = func() { g.global(l.Tmp2, fn) }
	return false, nil
}

// collectionCall translates the UvmArray and UvmMap methods to table instructions.
func (g *gen) collectionCall(c *call, isArray bool) error {
	l := &g.layout
	t1, t2, t3 := reg(l.Tmp1), reg(l.Tmp2), reg(l.Tmp3)
	arg1, arg2 := reg(l.Tmp3+1), reg(l.Tmp3+2)
	iterate := func(fn string) func() error {
		return func() error {
			g.global(l.Tmp1, fn)
			g.linef("move %s %s", t2, t3)
			g.linef("call %s 2 2", t1)
			g.linef("move %s %s", t2, t1)
			return nil
		}
	}
	switch name := c.ref.Name; {
	case name == "create":
		c.op = func() error {
			g.linef("newtable %s 0 0", t2)
			return nil
		}
	case name == "add" && isArray:
		c.op = func() error {
			g.e.constant(oneValue)
			g.linef("len %s %s", t1, t3)
			g.linef("add %s %s const 1", t1, t1)
			g.linef("settable %s %s %s", t3, t1, arg1)
			return nil
		}
	case name == "add" || name == "set":
		c.op = func() error {
			g.linef("settable %s %s %s", t3, arg1, arg2)
			return nil
		}
	case name == "get":
		c.op = func() error {
			g.linef("gettable %s %s %s", t2, t3, arg1)
			return nil
		}
	case name == "size":
		c.op = func() error {
			g.linef("len %s %s", t2, t3)
			return nil
		}
	case name == "pop" && isArray:
		c.op = func() error {
			g.linef("len %s %s", t1, t3)
			g.linef("loadnil %s 0", t2)
			g.linef("settable %s %s %s", t3, t1, t2)
			return nil
		}
	case name == "pairs" && !isArray:
		c.op = iterate("pairs")
	case name == "ipairs" && isArray:
		c.op = iterate("ipairs")
	default:
		return g.unsupportedCall(c)
	}
	return nil
}

// iteratorCall calls the iterator function in Tmp3
// with the table and key in the following registers
// and builds a {first=key, second=value} table in Tmp2.
func (g *gen) iteratorCall() {
	l := &g.layout
	g.linef("call %s 3 3", reg(l.Tmp3))
	g.linef("newtable %s 0 0", reg(l.Tmp1))
	g.loadk(l.Tmp2, uvmcode.StringValue("first"))
	g.linef("settable %s %s %s", reg(l.Tmp1), reg(l.Tmp2), reg(l.Tmp3))
	g.loadk(l.Tmp2, uvmcode.StringValue("second"))
	g.linef("settable %s %s %s", reg(l.Tmp1), reg(l.Tmp2), reg(l.Tmp3+1))
	g.linef("move %s %s", reg(l.Tmp2), reg(l.Tmp1))
}

// accessorCall translates getX, isX and setX instance methods
// to field reads and writes.
// Methods of component classes are always called.
func (g *gen) accessorCall(c *call) (done bool, err error) {
	if !c.hasThis {
		return false, nil
	}
	if cls := g.mod.module.Class(c.ref.Owner); cls != nil && cls.IsComponent() {
		return false, nil
	}
	prefix, field, ok := accessorField(c.ref.Name)
	switch {
	case !ok:
		return false, nil
	case prefix == "set" && len(c.sig.Params) == 1:
		return true, g.putField(field, c.sig.Params[0].IsBoolean())
	case prefix != "set" && len(c.sig.Params) == 0 && c.results == 1:
		return true, g.getField(field, c.sig.Return.IsBoolean())
	default:
		return false, nil
	}
}

// emitCall emits the generic call sequence for c.
func (g *gen) emitCall(c *call) error {
	l := &g.layout
	n := c.params
	if c.hasThis {
		n++
	}
	// Arguments occupy Tmp3 up to but not including TmpMax.
	if limit := l.TmpMax - l.Tmp3; n > limit {
		return errorf(Internal, g.inst, "too many arguments to %s.%s (%d > %d)", c.ref.Owner, c.ref.Name, n, limit)
	}
	for i := range n {
		slot := l.Tmp3 + n - i - 1
		g.pop(slot)
		param := n - i - 1
		if c.hasThis {
			param--
		}
		if c.external && 0 <= param && param < len(c.sig.Params) && c.sig.Params[param].IsBoolean() {
			if err := g.intToBool(slot, l.TmpMax); err != nil {
				return err
			}
		}
	}

	if c.op != nil {
		if err := c.op(); err != nil {
			return err
		}
		if c.results > 0 {
			g.linef("move %s %s", reg(l.Tmp3), reg(l.Tmp2))
		}
	} else {
		c.load()
		g.linef("call %s %d %d", reg(l.Tmp2), n+1, c.results+1)
		g.linef("move %s %s", reg(l.Tmp3), reg(l.Tmp2))
	}

	if c.results > 0 {
		if c.external && c.sig.Return.IsBoolean() {
			if err := g.boolToInt(l.Tmp3, l.TmpMax); err != nil {
				return err
			}
		}
		g.push(l.Tmp3)
	}
	if c.popReceiver {
		g.pop(l.Tmp1)
	}
	return nil
}
