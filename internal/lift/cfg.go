package lift

import (
	"sort"

	"classlift/internal/instr"

	"golang.org/x/exp/slices"
)

// controlFlow is the pre-pass result the Lifter needs before it can
// resolve Φ nodes while walking in source order: for every instruction
// index, its successor set, and for every instruction index, the sorted,
// deduplicated list of instructions with an edge into it (§4.5).
type controlFlow struct {
	successors   [][]int
	predecessors [][]int
	// branchTargets holds every index that is the explicit destination of
	// a branch/switch/subroutine instruction (not a plain fallthrough
	// successor) — the set invariant 7 (§8) applies to.
	branchTargets map[int]bool
}

func buildControlFlow(view instr.View) *controlFlow {
	n := view.Length()
	cf := &controlFlow{
		successors:    make([][]int, n),
		predecessors:  make([][]int, n),
		branchTargets: make(map[int]bool),
	}

	addEdge := func(from, to int) {
		if to < 0 || to >= n {
			return
		}
		cf.successors[from] = append(cf.successors[from], to)
	}

	for i := 0; i < n; i++ {
		op := view.Opcode(i)
		operand := view.Operand(i)
		switch {
		case isUnconditionalBranch(op):
			addEdge(i, operand.Branch)
			cf.branchTargets[operand.Branch] = true
		case isConditionalBranch(op):
			addEdge(i, operand.Branch)
			addEdge(i, i+1)
			cf.branchTargets[operand.Branch] = true
		case op == instr.TABLESWITCH || op == instr.LOOKUPSWITCH:
			for _, e := range operand.Switch.Entries {
				addEdge(i, e.Target)
				cf.branchTargets[e.Target] = true
			}
			addEdge(i, operand.Switch.Default)
			cf.branchTargets[operand.Switch.Default] = true
		case op == instr.JSR:
			addEdge(i, operand.Branch)
			cf.branchTargets[operand.Branch] = true
			// The instruction after a jsr is the static resumption point
			// once the matching ret executes; we model that edge directly
			// rather than tracking the dynamic return address, since this
			// core does no exception/subroutine region analysis (§1
			// Non-goals).
			addEdge(i, i+1)
		case isTerminal(op):
			// No successor: return/athrow family.
		default:
			addEdge(i, i+1)
		}
	}

	for from, succs := range cf.successors {
		for _, to := range succs {
			cf.predecessors[to] = append(cf.predecessors[to], from)
		}
	}
	for i := range cf.predecessors {
		cf.predecessors[i] = dedupeSorted(cf.predecessors[i])
	}

	// Instruction 0 always has an implicit predecessor: the method's
	// entry, where the locals hold the seeded arguments. It is never
	// itself a listed instruction, so it is represented by the sentinel
	// index entryPredecessor. Without it, a loop whose header is
	// instruction 0 would look like it has only its back edge as a
	// predecessor and would never get a Phi, silently losing the
	// entry-vs-iterated-value join a real loop header needs.
	if n > 0 {
		cf.predecessors[0] = dedupeSorted(append(cf.predecessors[0], entryPredecessor))
	}

	return cf
}

// entryPredecessor is the sentinel predecessor index representing a
// method's entry point (where locals hold the seeded arguments), used
// only as a member of predecessors[0].
const entryPredecessor = -1

func dedupeSorted(xs []int) []int {
	if len(xs) == 0 {
		return xs
	}
	sort.Ints(xs)
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// isJoin reports whether instruction i has more than one distinct
// predecessor and therefore needs Φ resolution before it is lifted (§4.5).
func (cf *controlFlow) isJoin(i int) bool {
	return len(cf.predecessors[i]) > 1
}

func isUnconditionalBranch(op instr.Opcode) bool {
	return op == instr.GOTO || op == instr.GOTO_W
}

func isConditionalBranch(op instr.Opcode) bool {
	switch op {
	case instr.IFEQ, instr.IFNE, instr.IFLT, instr.IFGE, instr.IFGT, instr.IFLE,
		instr.IF_ICMPEQ, instr.IF_ICMPNE, instr.IF_ICMPLT, instr.IF_ICMPGE,
		instr.IF_ICMPGT, instr.IF_ICMPLE, instr.IF_ACMPEQ, instr.IF_ACMPNE,
		instr.IFNULL, instr.IFNONNULL:
		return true
	}
	return false
}

func isTerminal(op instr.Opcode) bool {
	switch op {
	case instr.IRETURN, instr.LRETURN, instr.FRETURN, instr.DRETURN, instr.ARETURN,
		instr.RETURN, instr.ATHROW:
		return true
	}
	return false
}

// predecessorPosition returns the index of p within the sorted predecessor
// list of target, used to place a predecessor's binding at the right
// position in an in-construction Φ's input list.
func (cf *controlFlow) predecessorPosition(target, p int) int {
	return slices.Index(cf.predecessors[target], p)
}
