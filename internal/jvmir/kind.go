// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package jvmir

// Kind groups opcodes that translate with the same rule.
type Kind uint8

// Opcode kinds.
// Opcodes with [KindUnsupported] have no translation.
const (
	KindUnsupported Kind = iota
	// KindNop produces no code.
	KindNop
	KindNull
	KindConst
	KindLoad
	KindStore
	KindArrayLoad
	KindArrayStore
	KindPop
	KindDup
	// KindBinary is a two-operand arithmetic or bitwise operation.
	KindBinary
	// KindUnary is arithmetic negation.
	KindUnary
	KindToInteger
	KindToNumber
	KindIInc
	// KindCompare is lcmp, fcmpl, fcmpg, dcmpl and dcmpg.
	KindCompare
	// KindBranch is a conditional jump.
	KindBranch
	KindGoto
	KindReturn
	KindNewArray
	KindArrayLength
	KindThrow
	KindNew
	KindGetStatic
	KindGetField
	KindPutField
	KindInstanceOf
	KindInvoke
)

var opcodeKinds = [...]Kind{
	OpNop:        KindNop,
	OpAConstNull: KindNull,

	OpIConstM1: KindConst,
	OpIConst0:  KindConst,
	OpIConst1:  KindConst,
	OpIConst2:  KindConst,
	OpIConst3:  KindConst,
	OpIConst4:  KindConst,
	OpIConst5:  KindConst,
	OpLConst0:  KindConst,
	OpLConst1:  KindConst,
	OpFConst0:  KindConst,
	OpFConst1:  KindConst,
	OpFConst2:  KindConst,
	OpDConst0:  KindConst,
	OpDConst1:  KindConst,
	OpBIPush:   KindConst,
	OpSIPush:   KindConst,
	OpLDC:      KindConst,
	OpLDCW:     KindConst,
	OpLDC2W:    KindConst,

	OpILoad: KindLoad, OpLLoad: KindLoad, OpFLoad: KindLoad, OpDLoad: KindLoad, OpALoad: KindLoad,
	OpILoad0: KindLoad, OpILoad1: KindLoad, OpILoad2: KindLoad, OpILoad3: KindLoad,
	OpLLoad0: KindLoad, OpLLoad1: KindLoad, OpLLoad2: KindLoad, OpLLoad3: KindLoad,
	OpFLoad0: KindLoad, OpFLoad1: KindLoad, OpFLoad2: KindLoad, OpFLoad3: KindLoad,
	OpDLoad0: KindLoad, OpDLoad1: KindLoad, OpDLoad2: KindLoad, OpDLoad3: KindLoad,
	OpALoad0: KindLoad, OpALoad1: KindLoad, OpALoad2: KindLoad, OpALoad3: KindLoad,

	OpIStore: KindStore, OpLStore: KindStore, OpFStore: KindStore, OpDStore: KindStore, OpAStore: KindStore,
	OpIStore0: KindStore, OpIStore1: KindStore, OpIStore2: KindStore, OpIStore3: KindStore,
	OpLStore0: KindStore, OpLStore1: KindStore, OpLStore2: KindStore, OpLStore3: KindStore,
	OpFStore0: KindStore, OpFStore1: KindStore, OpFStore2: KindStore, OpFStore3: KindStore,
	OpDStore0: KindStore, OpDStore1: KindStore, OpDStore2: KindStore, OpDStore3: KindStore,
	OpAStore0: KindStore, OpAStore1: KindStore, OpAStore2: KindStore, OpAStore3: KindStore,

	OpIALoad: KindArrayLoad, OpLALoad: KindArrayLoad, OpFALoad: KindArrayLoad, OpDALoad: KindArrayLoad,
	OpAALoad: KindArrayLoad, OpBALoad: KindArrayLoad, OpCALoad: KindArrayLoad, OpSALoad: KindArrayLoad,
	OpIAStore: KindArrayStore, OpLAStore: KindArrayStore, OpFAStore: KindArrayStore, OpDAStore: KindArrayStore,
	OpAAStore: KindArrayStore, OpBAStore: KindArrayStore, OpCAStore: KindArrayStore, OpSAStore: KindArrayStore,

	OpPop:  KindPop,
	OpPop2: KindPop,
	OpDup:  KindDup,

	OpIAdd: KindBinary, OpLAdd: KindBinary, OpFAdd: KindBinary, OpDAdd: KindBinary,
	OpISub: KindBinary, OpLSub: KindBinary, OpFSub: KindBinary, OpDSub: KindBinary,
	OpIMul: KindBinary, OpLMul: KindBinary, OpFMul: KindBinary, OpDMul: KindBinary,
	OpIDiv: KindBinary, OpLDiv: KindBinary, OpFDiv: KindBinary, OpDDiv: KindBinary,
	OpIRem: KindBinary, OpLRem: KindBinary, OpFRem: KindBinary, OpDRem: KindBinary,
	OpIShl: KindBinary, OpLShl: KindBinary,
	OpIShr: KindBinary, OpLShr: KindBinary,
	OpIUshr: KindBinary, OpLUshr: KindBinary,
	OpIAnd: KindBinary, OpLAnd: KindBinary,
	OpIOr: KindBinary, OpLOr: KindBinary,
	OpIXor: KindBinary, OpLXor: KindBinary,
	OpINeg: KindUnary, OpLNeg: KindUnary, OpFNeg: KindUnary, OpDNeg: KindUnary,

	OpIInc: KindIInc,

	OpI2L: KindNop, OpL2I: KindNop, OpD2F: KindNop, OpF2D: KindNop,
	OpI2B: KindNop, OpI2C: KindNop, OpI2S: KindNop, OpCheckCast: KindNop,
	OpD2I: KindToInteger, OpF2I: KindToInteger, OpD2L: KindToInteger, OpF2L: KindToInteger,
	OpI2D: KindToNumber, OpI2F: KindToNumber, OpL2D: KindToNumber, OpL2F: KindToNumber,

	OpLCmp: KindCompare, OpFCmpL: KindCompare, OpFCmpG: KindCompare, OpDCmpL: KindCompare, OpDCmpG: KindCompare,

	OpIfEQ: KindBranch, OpIfNE: KindBranch, OpIfLT: KindBranch,
	OpIfGE: KindBranch, OpIfGT: KindBranch, OpIfLE: KindBranch,
	OpIfICmpEQ: KindBranch, OpIfICmpNE: KindBranch, OpIfICmpLT: KindBranch,
	OpIfICmpGE: KindBranch, OpIfICmpGT: KindBranch, OpIfICmpLE: KindBranch,
	OpIfACmpEQ: KindBranch, OpIfACmpNE: KindBranch,
	OpIfNull: KindBranch, OpIfNonNull: KindBranch,
	OpGoto: KindGoto,

	OpIReturn: KindReturn, OpLReturn: KindReturn, OpFReturn: KindReturn,
	OpDReturn: KindReturn, OpAReturn: KindReturn, OpReturn: KindReturn,

	OpGetStatic: KindGetStatic,
	OpGetField:  KindGetField,
	OpPutField:  KindPutField,

	OpInvokeVirtual:   KindInvoke,
	OpInvokeSpecial:   KindInvoke,
	OpInvokeStatic:    KindInvoke,
	OpInvokeInterface: KindInvoke,

	OpNew:         KindNew,
	OpNewArray:    KindNewArray,
	OpANewArray:   KindNewArray,
	OpArrayLength: KindArrayLength,
	OpAThrow:      KindThrow,
	OpInstanceOf:  KindInstanceOf,

	OpJSRW: KindUnsupported,
}

// Kind returns the translation kind of the opcode.
func (op Opcode) Kind() Kind {
	if int(op) >= len(opcodeKinds) {
		return KindUnsupported
	}
	return opcodeKinds[op]
}

// Supported reports whether op has a translation.
func (op Opcode) Supported() bool {
	return op.Kind() != KindUnsupported
}
