// Package ir is the sum type of every IR node the Lifter can produce: the
// value-producing Expressions and the side-effecting/control-flow
// Operations of spec.md §3. Node construction is the only place types are
// established (§4.3) — the constructors that have an operand rule to
// enforce (NewBinaryArithmetic, NewLogicalNot, NewArrayLoad, NewInvoke,
// NewPhi) check it eagerly and return an error rather than building a
// malformed node; the other constructors accept their operands as given.
package ir

import "classlift/internal/types"

// NodeID is a stable, process-local identity assigned at construction
// time, scoped to one lift. It carries no semantic weight: it is never
// consulted by Type() or by the Lifter's dispatch, only by debug
// rendering and golden-snapshot tests (SPEC_FULL.md §3).
type NodeID int

// Arena assigns NodeIDs and is the append-only owner of every node built
// during one lift. Two distinct pushes of the same program constant get
// distinct nodes and distinct IDs (§5) — the Arena never deduplicates.
type Arena struct {
	next NodeID
}

// NewArena creates an empty, single-lift-scoped arena.
func NewArena() *Arena { return &Arena{} }

func (a *Arena) allocID() NodeID {
	a.next++
	return a.next
}

type nodeBase struct {
	id NodeID
}

// ID returns this node's arena-assigned identity.
func (n nodeBase) ID() NodeID { return n.id }

// Expression is a pure value-producing node: every variant can answer
// Type(), except ReturnAddress, which returns ErrNoType (§3, §9).
type Expression interface {
	ID() NodeID
	Type() (types.Type, error)
	isExpression()
}

// Operation is a side-effecting or control-flow node (§3). Invoke is the
// one node that is both an Expression and an Operation (§9's dual-role
// note): it implements both interfaces, and the Lifter decides whether to
// push it, record it as an operation, or both.
type Operation interface {
	ID() NodeID
	isOperation()
}

// ErrNoType is returned by ReturnAddress.Type(): a subroutine-jump
// pseudo-value has no external type and must not be queried for one.
type ErrNoType struct{}

func (ErrNoType) Error() string {
	return "ir: ReturnAddress has no type"
}
