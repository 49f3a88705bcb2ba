package lift

import "classlift/internal/ir"

// pendingPhi is a Φ under construction whose input list has one or more
// positions still waiting on a predecessor the Lifter has not reached yet
// (a backward branch, almost always a loop back-edge). Until every
// position is filled, the Phi's own pointer stands in as the slot's
// current binding within the loop body — the standard on-the-fly SSA
// construction trick (§4.5).
type pendingPhi struct {
	target   int // join instruction index
	slot     int // local slot this Phi reconciles
	phi      *ir.Phi
	missing  map[int]int // predecessor instruction index -> position in phi.Inputs
}

// joinResolver tracks, per predecessor instruction index, which pending
// Phis are waiting on that predecessor's exit bindings, and patches them in
// as soon as the Lifter finishes that instruction.
type joinResolver struct {
	cf          *controlFlow
	arena       *ir.Arena
	waitingOn   map[int][]*pendingPhi // predecessor index -> phis waiting on it
	disagreements []disagreement
}

type disagreement struct {
	target int
	slot   int
}

func newJoinResolver(cf *controlFlow, arena *ir.Arena) *joinResolver {
	return &joinResolver{cf: cf, arena: arena, waitingOn: make(map[int][]*pendingPhi)}
}

// resolve is called immediately before instruction target is lifted, iff
// cf.isJoin(target). It reconciles the incoming bindings of every
// occupied local slot and returns the new locals array to install as
// target's entry state (§4.5). entrySnapshot is the locals state seeded
// from the method's arguments, used when entryPredecessor (instruction
// 0's implicit predecessor) is one of target's predecessors.
func (jr *joinResolver) resolve(target int, locals []ir.Expression, localsAtExit [][]ir.Expression, entrySnapshot []ir.Expression) ([]ir.Expression, error) {
	preds := jr.cf.predecessors[target]
	known := make([]int, 0, len(preds))
	unknown := make([]int, 0)
	for _, p := range preds {
		if p == entryPredecessor || (p < target && localsAtExit[p] != nil) {
			known = append(known, p)
		} else {
			unknown = append(unknown, p)
		}
	}

	bindingAt := func(p, slot int) ir.Expression {
		if p == entryPredecessor {
			return entrySnapshot[slot]
		}
		return localsAtExit[p][slot]
	}

	out := make([]ir.Expression, len(locals))
	for slot := range out {
		var bindings []ir.Expression
		occupied := false
		for _, p := range known {
			b := bindingAt(p, slot)
			if b != nil {
				occupied = true
			}
			bindings = append(bindings, b)
		}
		if !occupied && len(unknown) == 0 {
			out[slot] = nil
			continue
		}

		if len(unknown) == 0 {
			allSame := true
			for _, b := range bindings[1:] {
				if b != bindings[0] {
					allSame = false
					break
				}
			}
			if allSame {
				out[slot] = bindings[0]
				continue
			}
			phi, err := jr.arena.NewPhi(nonNil(bindings))
			if err != nil {
				jr.disagreements = append(jr.disagreements, disagreement{target, slot})
				return nil, err
			}
			out[slot] = phi
			continue
		}

		// At least one predecessor is not yet known: build an incomplete
		// Phi, eagerly filling the positions we do know and leaving the
		// rest as placeholders patched in by patch() below.
		inputs := make([]ir.Expression, len(preds))
		missing := make(map[int]int)
		for _, p := range unknown {
			missing[p] = jr.cf.predecessorPosition(target, p)
		}
		for idx, p := range known {
			inputs[jr.cf.predecessorPosition(target, p)] = bindings[idx]
		}
		phi := jr.arena.NewIncompletePhi(inputs)
		pp := &pendingPhi{target: target, slot: slot, phi: phi, missing: missing}
		for p := range missing {
			jr.waitingOn[p] = append(jr.waitingOn[p], pp)
		}
		out[slot] = phi
	}
	return out, nil
}

// onInstructionLifted is called right after instruction i is lifted and its
// exit locals snapshot is taken, patching any pending Phis waiting on i.
func (jr *joinResolver) onInstructionLifted(i int, exitLocals []ir.Expression) error {
	waiters := jr.waitingOn[i]
	if len(waiters) == 0 {
		return nil
	}
	delete(jr.waitingOn, i)
	for _, pp := range waiters {
		pos := pp.missing[i]
		pp.phi.Inputs[pos] = exitLocals[pp.slot]
		delete(pp.missing, i)
		if len(pp.missing) == 0 {
			if err := jr.arena.FinalizePhi(pp.phi); err != nil {
				jr.disagreements = append(jr.disagreements, disagreement{pp.target, pp.slot})
				return err
			}
		}
	}
	return nil
}

func nonNil(xs []ir.Expression) []ir.Expression {
	out := make([]ir.Expression, 0, len(xs))
	for _, x := range xs {
		if x != nil {
			out = append(out, x)
		}
	}
	return out
}
