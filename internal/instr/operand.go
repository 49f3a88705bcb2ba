package instr

import "classlift/internal/symbols"

// OperandKind tags the variant of a decoded immediate operand.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandByte             // signed byte, e.g. bipush, newarray's type tag
	OperandShort            // signed short, e.g. sipush
	OperandLocal            // a local-slot index, e.g. iload 3
	OperandConst            // a constant-pool entry resolved to a typed value
	OperandFieldRef
	OperandMethodRef
	OperandClassRef // NEW / ANEWARRAY / CHECKCAST / INSTANCEOF: a class name
	OperandBranch   // a branch target, resolved to an instruction index
	OperandSwitch
	OperandIncrement // IINC: (slot, delta)
	OperandWide      // a widened (opcode, slot, value) triple, pre-decoded
	OperandDims      // MULTIANEWARRAY: (class array type, dimension count)
)

// ConstKind tags the variant of a resolved constant-pool value.
type ConstKind int

const (
	ConstNull ConstKind = iota
	ConstInt
	ConstLong
	ConstFloat
	ConstDouble
	ConstString
	ConstClass
)

// ConstValue is a pre-resolved constant-pool entry: a literal value, or a
// reference to a pool-interned string/class. Exactly one of the typed
// fields is meaningful, selected by Kind.
type ConstValue struct {
	Kind       ConstKind
	IntValue   int32
	LongValue  int64
	FloatValue float32
	DoubleValue float64
	StringValue string // ConstString: the pool-interned string's contents
	ClassName   string // ConstClass: the class-literal's qualified name
}

// SwitchEntry is one (key, target) pair of a decoded switch table.
type SwitchEntry struct {
	Key    int32
	Target int // instruction index
}

// SwitchTable is the fully decoded operand of a TABLESWITCH/LOOKUPSWITCH:
// an ordered list of (key, target) pairs plus a default target.
type SwitchTable struct {
	Entries []SwitchEntry
	Default int // instruction index
}

// IncrementOperand is IINC's (slot, delta) pair.
type IncrementOperand struct {
	Slot  int
	Delta int32
}

// WideOperand is the pre-decoded (opcode, slot, value) triple for the
// width-prefixed form (WIDE + a 16-bit local index, with an extra 16-bit
// immediate for WIDE IINC). InnerOpcode is the opcode being widened
// (ILOAD, ISTORE, IINC, ...); Value is only meaningful for WIDE IINC.
type WideOperand struct {
	InnerOpcode Opcode
	Slot        int
	Value       int32
}

// DimsOperand is MULTIANEWARRAY's operand: the fully resolved array type
// name (element type repeated "[" for the declared dimension) plus the
// number of dimension-length expressions the instruction pops.
type DimsOperand struct {
	ArrayClassName string
	Dimensions     int
}

// Operand is the sum type of every decoded immediate operand an
// instruction may carry. Exactly one field is meaningful, selected by
// Kind; constructors below (e.g. NoOperand, ByteOperand) are the only
// supported way to build one, keeping the zero value (OperandNone)
// trivially safe.
type Operand struct {
	Kind      OperandKind
	Byte      int8
	Short     int16
	Local     int
	Const     ConstValue
	Field     symbols.FieldRef
	Method    symbols.MethodRef
	ClassName string
	Branch    int
	Switch    SwitchTable
	Increment IncrementOperand
	Wide      WideOperand
	Dims      DimsOperand
}

func NoOperand() Operand { return Operand{Kind: OperandNone} }

func ByteOperand(v int8) Operand { return Operand{Kind: OperandByte, Byte: v} }

func ShortOperand(v int16) Operand { return Operand{Kind: OperandShort, Short: v} }

func LocalOperand(slot int) Operand { return Operand{Kind: OperandLocal, Local: slot} }

func ConstOperand(v ConstValue) Operand { return Operand{Kind: OperandConst, Const: v} }

func FieldOperand(f symbols.FieldRef) Operand { return Operand{Kind: OperandFieldRef, Field: f} }

func MethodOperand(m symbols.MethodRef) Operand { return Operand{Kind: OperandMethodRef, Method: m} }

func ClassOperand(className string) Operand {
	return Operand{Kind: OperandClassRef, ClassName: className}
}

func BranchOperand(targetIndex int) Operand { return Operand{Kind: OperandBranch, Branch: targetIndex} }

func SwitchOperand(table SwitchTable) Operand { return Operand{Kind: OperandSwitch, Switch: table} }

func IncrementOperandOf(slot int, delta int32) Operand {
	return Operand{Kind: OperandIncrement, Increment: IncrementOperand{Slot: slot, Delta: delta}}
}

func WideOperandOf(inner Opcode, slot int, value int32) Operand {
	return Operand{Kind: OperandWide, Wide: WideOperand{InnerOpcode: inner, Slot: slot, Value: value}}
}

func DimsOperandOf(arrayClassName string, dims int) Operand {
	return Operand{Kind: OperandDims, Dims: DimsOperand{ArrayClassName: arrayClassName, Dimensions: dims}}
}
