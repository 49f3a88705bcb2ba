// Package lift implements the abstract interpreter that lifts a decoded
// bytecode method body into the IR graphs of internal/ir: the Lifter walks
// instructions in source order over a simulated operand stack and local
// environment, invoking internal/ir's arena constructors and resolving
// control-flow joins via its JoinResolver (§2, §4).
package lift

import (
	"strconv"

	"classlift/internal/instr"
	"classlift/internal/ir"
	"classlift/internal/liftfail"
	"classlift/internal/types"

	"github.com/google/uuid"
)

// PointerKind tags what, if anything, an instruction's entry in a
// LiftedMethod's Pointers array refers to (§4.6).
type PointerKind int

const (
	// PointerNoOp marks an instruction that neither pushed a new
	// expression nor emitted an operation (a local store, iinc).
	PointerNoOp PointerKind = iota
	// PointerStackOnly marks an instruction that moved values already on
	// the simulated stack around without creating a new node (load, pop,
	// dup, swap).
	PointerStackOnly
	// PointerNode marks an instruction whose pointer is a specific IR
	// node: either the expression it pushed, or the operation it emitted.
	PointerNode
)

// Pointer is one entry of a LiftedMethod's by-instruction pointer array.
type Pointer struct {
	Kind PointerKind
	Node interface{} // ir.Expression or ir.Operation, valid iff Kind == PointerNode
}

// OpEntry pairs an emitted Operation with the source instruction index it
// was produced from.
type OpEntry struct {
	Index int
	Op    ir.Operation
}

// LiftedMethod is the output contract of one Lift call (§6): the seeded
// arguments, the ordered operations array, the debug expression list, the
// by-instruction pointer array, and any diagnostics accumulated before an
// abort (always empty on success — a Failure aborts the lift outright,
// §7).
type LiftedMethod struct {
	SessionID   uuid.UUID
	Arguments   []*ir.Argument
	Operations  []OpEntry
	Expressions []ExprEntry
	Pointers    []Pointer
	Diagnostics []*liftfail.Failure
}

// ExprEntry is one (source_index, pushed_expression) pair recorded for
// debug rendering (§4.6).
type ExprEntry struct {
	Index      int
	Expression ir.Expression
}

// Lifter holds the mutable state of one in-progress lift: the arena, the
// simulated operand stack and local environment, and the bookkeeping the
// JoinResolver needs.
type Lifter struct {
	arena  *ir.Arena
	method instr.Method
	view   instr.View
	cf     *controlFlow
	jr     *joinResolver

	locals []ir.Expression
	stack  []ir.Expression

	localsAtExit [][]ir.Expression

	// pendingInvokes tracks the source instruction index of each
	// non-void Invoke currently sitting on the stack unconsumed, so a
	// later discard (POP) can record it into Operations at the
	// instruction that actually produced it (§9's "recorded in the
	// operations array when their result is unused").
	pendingInvokes map[*ir.Invoke]int

	lifted LiftedMethod
}

// Lift lifts a fully-decoded method body into IR. It returns a
// *liftfail.Failure wrapped as error on the first detected violation; no
// partial LiftedMethod is ever returned alongside a non-nil error (§7).
func Lift(method instr.Method) (*LiftedMethod, error) {
	view := method.Instructions
	n := view.Length()

	lf := &Lifter{
		arena:          ir.NewArena(),
		method:         method,
		view:           view,
		cf:             buildControlFlow(view),
		locals:         make([]ir.Expression, method.MaxLocals),
		stack:          make([]ir.Expression, 0, method.MaxStack),
		localsAtExit:   make([][]ir.Expression, n),
		pendingInvokes: make(map[*ir.Invoke]int),
	}
	lf.jr = newJoinResolver(lf.cf, lf.arena)
	lf.lifted.SessionID = uuid.New()
	lf.lifted.Pointers = make([]Pointer, n)

	if err := lf.seedArguments(); err != nil {
		return nil, err
	}
	entrySnapshot := make([]ir.Expression, len(lf.locals))
	copy(entrySnapshot, lf.locals)

	for i := 0; i < n; i++ {
		if lf.cf.branchTargets[i] && len(lf.stack) != 0 {
			return nil, liftfail.JoinStackNonEmpty(i)
		}
		if lf.cf.isJoin(i) {
			resolved, err := lf.jr.resolve(i, lf.locals, lf.localsAtExit, entrySnapshot)
			if err != nil {
				return nil, liftfail.Wrap(liftfail.KindPhiDisagreement, i, err)
			}
			lf.locals = resolved
		}

		if err := lf.step(i); err != nil {
			return nil, err
		}

		snapshot := make([]ir.Expression, len(lf.locals))
		copy(snapshot, lf.locals)
		lf.localsAtExit[i] = snapshot
		if err := lf.jr.onInstructionLifted(i, snapshot); err != nil {
			return nil, liftfail.Wrap(liftfail.KindPhiDisagreement, i, err)
		}
	}

	return &lf.lifted, nil
}

// seedArguments installs the receiver (if non-static) at slot 0 and the
// declared parameters afterward in declaration order, each occupying one
// or two slots per its width (§3).
func (lf *Lifter) seedArguments() error {
	slot := 0
	argIndex := 0
	if !lf.method.IsStatic {
		recv := lf.arena.NewArgument(argName(argIndex), types.Reference(lf.method.OwningClass))
		if err := lf.bindLocal(-1, slot, recv); err != nil {
			return err
		}
		lf.lifted.Arguments = append(lf.lifted.Arguments, recv)
		slot++
		argIndex++
	}
	for _, t := range lf.method.ArgTypes {
		arg := lf.arena.NewArgument(argName(argIndex), t)
		if err := lf.bindLocal(-1, slot, arg); err != nil {
			return err
		}
		lf.lifted.Arguments = append(lf.lifted.Arguments, arg)
		slot += slotWidth(t)
		argIndex++
	}
	return nil
}

// argName renders the name of the local-slot argument at declaration
// index idx (the receiver, when present, is index 0): "arg0", "arg1", ...
// (§8 scenarios S2, S5).
func argName(idx int) string {
	return "arg" + strconv.Itoa(idx)
}

func slotWidth(t types.Type) int {
	if t.IsWide() {
		return 2
	}
	return 1
}

func (lf *Lifter) bindLocal(instrIndex, slot int, e ir.Expression) error {
	if slot < 0 || slot >= len(lf.locals) {
		return liftfail.LocalOverflow(instrIndex, slot)
	}
	lf.locals[slot] = e
	return nil
}

func (lf *Lifter) getLocal(instrIndex, slot int) (ir.Expression, error) {
	if slot < 0 || slot >= len(lf.locals) {
		return nil, liftfail.LocalOverflow(instrIndex, slot)
	}
	return lf.locals[slot], nil
}

func (lf *Lifter) push(instrIndex int, e ir.Expression) error {
	if len(lf.stack) >= lf.method.MaxStack {
		return liftfail.StackOverflow(instrIndex)
	}
	lf.stack = append(lf.stack, e)
	return nil
}

func (lf *Lifter) pop(instrIndex int) (ir.Expression, error) {
	if len(lf.stack) == 0 {
		return nil, liftfail.StackUnderflow(instrIndex)
	}
	top := lf.stack[len(lf.stack)-1]
	lf.stack = lf.stack[:len(lf.stack)-1]
	return top, nil
}

func (lf *Lifter) peek(instrIndex int) (ir.Expression, error) {
	if len(lf.stack) == 0 {
		return nil, liftfail.StackUnderflow(instrIndex)
	}
	return lf.stack[len(lf.stack)-1], nil
}

func (lf *Lifter) recordOperation(i int, op ir.Operation) {
	lf.lifted.Operations = append(lf.lifted.Operations, OpEntry{Index: i, Op: op})
	lf.lifted.Pointers[i] = Pointer{Kind: PointerNode, Node: op}
}

func (lf *Lifter) recordExpr(i int, e ir.Expression) {
	lf.lifted.Expressions = append(lf.lifted.Expressions, ExprEntry{Index: i, Expression: e})
	lf.lifted.Pointers[i] = Pointer{Kind: PointerNode, Node: e}
}

func (lf *Lifter) recordStackOnly(i int) {
	lf.lifted.Pointers[i] = Pointer{Kind: PointerStackOnly}
}

// typeErr adapts an ir package type-mismatch-shaped error into a
// *liftfail.Failure carrying the instruction index.
func typeErr(i int, err error) error {
	if me, ok := err.(ir.ErrTypeMismatch); ok {
		return liftfail.TypeMismatch(i, me.Op, me.Expected, me.Actual)
	}
	if _, ok := err.(ir.ErrPhiDisagreement); ok {
		return liftfail.Wrap(liftfail.KindPhiDisagreement, i, err)
	}
	return liftfail.Wrap(liftfail.KindTypeMismatch, i, err)
}
