package ir

import (
	"fmt"

	"classlift/internal/instr"
	"classlift/internal/symbols"
	"classlift/internal/types"
)

// ArithOp is the operator of a BinaryArithmetic node.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Rem
	Shl
	Shr
	UShr
	And
	Or
	Xor
)

func (op ArithOp) String() string {
	return [...]string{"Add", "Sub", "Mul", "Div", "Rem", "Shl", "Shr", "UShr", "And", "Or", "Xor"}[op]
}

// CompareOp is the operator of a Comparison node.
type CompareOp int

const (
	Eq CompareOp = iota
	Lt
	Gt
)

func (op CompareOp) String() string {
	return [...]string{"Eq", "Lt", "Gt"}[op]
}

// InvokeKind is the dispatch discipline of an Invoke node.
type InvokeKind int

const (
	Static InvokeKind = iota
	Virtual
	Interface
	Special
)

func (k InvokeKind) String() string {
	return [...]string{"Static", "Virtual", "Interface", "Special"}[k]
}

// ErrTypeMismatch is raised by a node constructor (or, where noted, by a
// Type() call) when two operands that must agree in type do not.
type ErrTypeMismatch struct {
	Op       string
	Expected types.Type
	Actual   types.Type
}

func (e ErrTypeMismatch) Error() string {
	return fmt.Sprintf("ir: %s: type mismatch, expected %s, got %s", e.Op, e.Expected, e.Actual)
}

// ErrPhiDisagreement is raised when Phi inputs cannot be unified.
type ErrPhiDisagreement struct {
	Types []types.Type
}

func (e ErrPhiDisagreement) Error() string {
	return fmt.Sprintf("ir: phi: inputs do not unify: %v", e.Types)
}

// --- Argument ---------------------------------------------------------

// Argument is one method parameter, pre-seeded into the local environment
// in declaration order (§3). The non-static receiver, when present,
// is installed as the Argument at slot 0.
type Argument struct {
	nodeBase
	Name         string
	DeclaredType types.Type
}

func (*Argument) isExpression() {}

func (a *Argument) Type() (types.Type, error) { return a.DeclaredType, nil }

// NewArgument allocates an Argument expression.
func (a *Arena) NewArgument(name string, t types.Type) *Argument {
	return &Argument{nodeBase: nodeBase{id: a.allocID()}, Name: name, DeclaredType: t}
}

// --- Constant -----------------------------------------------------------

// Constant is a literal value; its type is derived from the value's
// variant at construction time (§3).
type Constant struct {
	nodeBase
	Value        instr.ConstValue
	declaredType types.Type
}

func (*Constant) isExpression() {}

func (c *Constant) Type() (types.Type, error) { return c.declaredType, nil }

// NewConstant allocates a Constant expression, deriving its type from the
// ConstValue's Kind.
func (a *Arena) NewConstant(v instr.ConstValue) *Constant {
	var t types.Type
	switch v.Kind {
	case instr.ConstNull:
		t = types.Null
	case instr.ConstInt:
		t = types.Int
	case instr.ConstLong:
		t = types.Long
	case instr.ConstFloat:
		t = types.Float
	case instr.ConstDouble:
		t = types.Double
	case instr.ConstString:
		t = types.Reference("java/lang/String")
	case instr.ConstClass:
		t = types.Reference("java/lang/Class")
	}
	return &Constant{nodeBase: nodeBase{id: a.allocID()}, Value: v, declaredType: t}
}

// --- Phi ------------------------------------------------------------

// Phi reconciles differing incoming local-variable bindings at a
// control-flow join (§3, §4.5). Its type is the common unified type of
// all inputs, computed once at construction (§4.3 permits a stored type
// for Phi).
type Phi struct {
	nodeBase
	Inputs      []Expression
	unifiedType types.Type
	finalized   bool
}

func (*Phi) isExpression() {}

// Type returns the Phi's unified type. For a Phi still under construction
// (internal/lift's JoinResolver hasn't seen every predecessor's binding
// yet — a loop body referencing its own induction variable before the
// back edge is lifted), it unifies over whatever inputs are already
// known; once FinalizePhi has run, the cached, fully-unified type is
// returned instead.
func (p *Phi) Type() (types.Type, error) {
	if p.finalized {
		return p.unifiedType, nil
	}
	return unifyInputs(p.Inputs)
}

func unifyInputs(inputs []Expression) (types.Type, error) {
	var unified types.Type
	started := false
	all := make([]types.Type, 0, len(inputs))
	for _, in := range inputs {
		if in == nil {
			continue
		}
		t, err := in.Type()
		if err != nil {
			return types.Type{}, err
		}
		all = append(all, t)
		if !started {
			unified, started = t, true
			continue
		}
		u, ok := types.Unify(unified, t)
		if !ok {
			return types.Type{}, ErrPhiDisagreement{Types: all}
		}
		unified = u
	}
	return unified, nil
}

// NewPhi allocates a Phi over the given inputs (already in deterministic
// predecessor order — see internal/lift's JoinResolver), unifying their
// types via types.Unify. Fails with ErrPhiDisagreement if the inputs do
// not unify, or if inputs is empty.
func (a *Arena) NewPhi(inputs []Expression) (*Phi, error) {
	if len(inputs) == 0 {
		return nil, ErrPhiDisagreement{}
	}
	unified, err := unifyInputs(inputs)
	if err != nil {
		return nil, err
	}
	return &Phi{nodeBase: nodeBase{id: a.allocID()}, Inputs: inputs, unifiedType: unified, finalized: true}, nil
}

// NewIncompletePhi allocates a Phi whose Inputs are not all known yet: one
// or more positions are nil placeholders the JoinResolver fills in as it
// reaches the corresponding predecessor. Callers must invoke FinalizePhi
// once every position is populated; until then Type() recomputes its
// answer from whatever inputs are already bound.
func (a *Arena) NewIncompletePhi(inputs []Expression) *Phi {
	return &Phi{nodeBase: nodeBase{id: a.allocID()}, Inputs: inputs}
}

// FinalizePhi locks in a Phi's unified type once the JoinResolver has
// filled every input position, failing with ErrPhiDisagreement if the
// complete input set does not unify.
func (a *Arena) FinalizePhi(p *Phi) error {
	unified, err := unifyInputs(p.Inputs)
	if err != nil {
		return err
	}
	p.unifiedType, p.finalized = unified, true
	return nil
}

// --- BinaryArithmetic -------------------------------------------------

// BinaryArithmetic is a two-operand arithmetic/bitwise/shift node. Its
// type is lhs.Type(), and the invariant lhs.Type() == rhs.Type() is
// checked at construction (§3, §8 invariant 1).
type BinaryArithmetic struct {
	nodeBase
	Op       ArithOp
	LHS, RHS Expression
}

func (*BinaryArithmetic) isExpression() {}

func (b *BinaryArithmetic) Type() (types.Type, error) { return b.LHS.Type() }

// NewBinaryArithmetic allocates a BinaryArithmetic node, failing with
// ErrTypeMismatch if lhs and rhs disagree in type.
func (a *Arena) NewBinaryArithmetic(op ArithOp, lhs, rhs Expression) (*BinaryArithmetic, error) {
	lt, err := lhs.Type()
	if err != nil {
		return nil, err
	}
	rt, err := rhs.Type()
	if err != nil {
		return nil, err
	}
	if !lt.Equal(rt) {
		return nil, ErrTypeMismatch{Op: op.String(), Expected: lt, Actual: rt}
	}
	return &BinaryArithmetic{nodeBase: nodeBase{id: a.allocID()}, Op: op, LHS: lhs, RHS: rhs}, nil
}

// --- UnaryArithmetic ----------------------------------------------------

// UnaryArithmetic is numeric negation (ineg/lneg/fneg/dneg); its type is
// Inner.Type().
type UnaryArithmetic struct {
	nodeBase
	Inner Expression
}

func (*UnaryArithmetic) isExpression() {}

func (u *UnaryArithmetic) Type() (types.Type, error) { return u.Inner.Type() }

// NewUnaryArithmetic allocates a UnaryArithmetic node.
func (a *Arena) NewUnaryArithmetic(inner Expression) *UnaryArithmetic {
	return &UnaryArithmetic{nodeBase: nodeBase{id: a.allocID()}, Inner: inner}
}

// --- Comparison -------------------------------------------------------

// Comparison is a two-operand relational node; its type is always
// boolean.
type Comparison struct {
	nodeBase
	Op       CompareOp
	LHS, RHS Expression
}

func (*Comparison) isExpression() {}

func (*Comparison) Type() (types.Type, error) { return types.Boolean, nil }

// NewComparison allocates a Comparison node.
func (a *Arena) NewComparison(op CompareOp, lhs, rhs Expression) *Comparison {
	return &Comparison{nodeBase: nodeBase{id: a.allocID()}, Op: op, LHS: lhs, RHS: rhs}
}

// --- LogicalNot -------------------------------------------------------

// LogicalNot negates a boolean expression; its inner operand must be
// boolean, and its type is always boolean.
type LogicalNot struct {
	nodeBase
	Inner Expression
}

func (*LogicalNot) isExpression() {}

func (*LogicalNot) Type() (types.Type, error) { return types.Boolean, nil }

// NewLogicalNot allocates a LogicalNot node, failing with ErrTypeMismatch
// if inner is not boolean.
func (a *Arena) NewLogicalNot(inner Expression) (*LogicalNot, error) {
	t, err := inner.Type()
	if err != nil {
		return nil, err
	}
	if !t.Equal(types.Boolean) {
		return nil, ErrTypeMismatch{Op: "LogicalNot", Expected: types.Boolean, Actual: t}
	}
	return &LogicalNot{nodeBase: nodeBase{id: a.allocID()}, Inner: inner}, nil
}

// --- Cast -------------------------------------------------------------

// Cast covers both widening numeric conversions and checked reference
// casts; its type is always the target type.
type Cast struct {
	nodeBase
	Inner  Expression
	Target types.Type
}

func (*Cast) isExpression() {}

func (c *Cast) Type() (types.Type, error) { return c.Target, nil }

// NewCast allocates a Cast node.
func (a *Arena) NewCast(inner Expression, target types.Type) *Cast {
	return &Cast{nodeBase: nodeBase{id: a.allocID()}, Inner: inner, Target: target}
}

// --- InstanceCheck ------------------------------------------------------

// InstanceCheck is a type test (INSTANCEOF); its type is always boolean.
type InstanceCheck struct {
	nodeBase
	Inner Expression
	Probe types.Type
}

func (*InstanceCheck) isExpression() {}

func (*InstanceCheck) Type() (types.Type, error) { return types.Boolean, nil }

// NewInstanceCheck allocates an InstanceCheck node.
func (a *Arena) NewInstanceCheck(inner Expression, probe types.Type) *InstanceCheck {
	return &InstanceCheck{nodeBase: nodeBase{id: a.allocID()}, Inner: inner, Probe: probe}
}

// --- FieldRead ----------------------------------------------------------

// FieldRead reads a field; Receiver is nil iff the field is static. Its
// type is field.Type.
type FieldRead struct {
	nodeBase
	Field    symbols.FieldRef
	Receiver Expression // nil iff static
}

func (*FieldRead) isExpression() {}

func (f *FieldRead) Type() (types.Type, error) { return f.Field.Type, nil }

// NewFieldRead allocates a FieldRead node.
func (a *Arena) NewFieldRead(field symbols.FieldRef, receiver Expression) *FieldRead {
	return &FieldRead{nodeBase: nodeBase{id: a.allocID()}, Field: field, Receiver: receiver}
}

// --- ArrayLoad ----------------------------------------------------------

// ArrayLoad reads one element of an array; its type is element_of(array.Type()).
type ArrayLoad struct {
	nodeBase
	Array, Index Expression
}

func (*ArrayLoad) isExpression() {}

func (l *ArrayLoad) Type() (types.Type, error) {
	at, err := l.Array.Type()
	if err != nil {
		return types.Type{}, err
	}
	return types.ElementType(at)
}

// NewArrayLoad allocates an ArrayLoad node, failing if array is not of an
// array type.
func (a *Arena) NewArrayLoad(array, index Expression) (*ArrayLoad, error) {
	n := &ArrayLoad{nodeBase: nodeBase{id: a.allocID()}, Array: array, Index: index}
	if _, err := n.Type(); err != nil {
		return nil, err
	}
	return n, nil
}

// --- ArrayLength --------------------------------------------------------

// ArrayLength computes the length of an array; its type is always int.
type ArrayLength struct {
	nodeBase
	Array Expression
}

func (*ArrayLength) isExpression() {}

func (*ArrayLength) Type() (types.Type, error) { return types.Int, nil }

// NewArrayLength allocates an ArrayLength node.
func (a *Arena) NewArrayLength(array Expression) *ArrayLength {
	return &ArrayLength{nodeBase: nodeBase{id: a.allocID()}, Array: array}
}

// --- Allocate -----------------------------------------------------------

// Allocate constructs a new object or array; AllocType may be a reference
// (scalar allocation, Dims empty) or an array type (Dims gives one
// length expression per dimension, length equal to the allocation
// arity). Its type is always AllocType.
type Allocate struct {
	nodeBase
	AllocType types.Type
	Dims      []Expression
}

func (*Allocate) isExpression() {}

func (al *Allocate) Type() (types.Type, error) { return al.AllocType, nil }

// NewAllocate allocates an Allocate node.
func (a *Arena) NewAllocate(allocType types.Type, dims []Expression) *Allocate {
	return &Allocate{nodeBase: nodeBase{id: a.allocID()}, AllocType: allocType, Dims: dims}
}

// --- Invoke ---------------------------------------------------------------

// Invoke calls a method; Receiver is present iff Kind != Static. Its type
// is method.ReturnType. Invoke is the one node that is both an Expression
// and an Operation (§9): a void-returning Invoke is always recorded in
// the operations array, and a non-void Invoke whose result is discarded
// is recorded there too, in addition to being pushed while its result is
// live on the operand stack.
type Invoke struct {
	nodeBase
	Kind      InvokeKind
	Method    symbols.MethodRef
	Arguments []Expression
	Receiver  Expression // nil iff Kind == Static
}

func (*Invoke) isExpression() {}
func (*Invoke) isOperation()  {}

func (i *Invoke) Type() (types.Type, error) { return i.Method.ReturnType, nil }

// NewInvoke allocates an Invoke node, failing if the argument count does
// not match the method's declared argument list (§8 invariant 3).
func (a *Arena) NewInvoke(kind InvokeKind, method symbols.MethodRef, args []Expression, receiver Expression) (*Invoke, error) {
	if len(args) != len(method.ArgTypes) {
		return nil, fmt.Errorf("ir: invoke %s: got %d arguments, want %d", method, len(args), len(method.ArgTypes))
	}
	return &Invoke{
		nodeBase:  nodeBase{id: a.allocID()},
		Kind:      kind,
		Method:    method,
		Arguments: args,
		Receiver:  receiver,
	}, nil
}

// --- ReturnAddress --------------------------------------------------------

// ReturnAddress is the pseudo-value pushed by a subroutine-jump
// instruction (jsr; jsr_w is not lifted). It has no external type: Type() always fails
// with ErrNoType (§3, §9).
type ReturnAddress struct {
	nodeBase
	TargetLabel int
}

func (*ReturnAddress) isExpression() {}

func (*ReturnAddress) Type() (types.Type, error) { return types.Type{}, ErrNoType{} }

// NewReturnAddress allocates a ReturnAddress node.
func (a *Arena) NewReturnAddress(targetLabel int) *ReturnAddress {
	return &ReturnAddress{nodeBase: nodeBase{id: a.allocID()}, TargetLabel: targetLabel}
}
