package lift

import (
	"strings"
	"testing"

	"classlift/internal/instr"
	"classlift/internal/ir"
	"classlift/internal/symbols"
	"classlift/internal/types"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	_ = v
}

// dumpLifted renders every recorded operation (recorded expressions are
// not included) into a form a golden snapshot can compare run to run,
// independent of NodeID values (Dump does not print them, §3's "[ADDED]
// Node identity").
func dumpLifted(lifted *LiftedMethod) string {
	var b strings.Builder
	for _, op := range lifted.Operations {
		b.WriteString(ir.Dump(op.Op))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestSnapshotS1ConstantReturn(t *testing.T) {
	ops := []instr.Opcode{instr.ICONST_3, instr.IRETURN}
	m := method(true, "Demo", nil, types.Int, 0, 2, ops, noOperands(2))

	lifted, err := Lift(m)
	if err != nil {
		t.Fatal(err)
	}
	snaps.MatchSnapshot(t, dumpLifted(lifted))
}

func TestSnapshotS2AddTwoArguments(t *testing.T) {
	ops := []instr.Opcode{instr.ILOAD_1, instr.ILOAD_2, instr.IADD, instr.IRETURN}
	m := method(false, "Demo", []types.Type{types.Int, types.Int}, types.Int, 3, 2, ops, noOperands(4))

	lifted, err := Lift(m)
	if err != nil {
		t.Fatal(err)
	}
	snaps.MatchSnapshot(t, dumpLifted(lifted))
}

func TestSnapshotS3StaticFieldIncrement(t *testing.T) {
	field := symbols.FieldRef{OwnerClass: "Demo", Name: "f", Type: types.Int}
	ops := []instr.Opcode{instr.GETSTATIC, instr.ICONST_1, instr.IADD, instr.PUTSTATIC, instr.RETURN}
	operands := []instr.Operand{
		instr.FieldOperand(field), instr.NoOperand(), instr.NoOperand(), instr.FieldOperand(field), instr.NoOperand(),
	}
	m := method(true, "Demo", nil, types.Void, 0, 2, ops, operands)

	lifted, err := Lift(m)
	if err != nil {
		t.Fatal(err)
	}
	snaps.MatchSnapshot(t, dumpLifted(lifted))
}

func TestSnapshotS4LocalIncrementViaIinc(t *testing.T) {
	ops := []instr.Opcode{instr.IINC, instr.ILOAD_1, instr.IRETURN}
	operands := []instr.Operand{instr.IncrementOperandOf(1, 5), instr.NoOperand(), instr.NoOperand()}
	m := method(false, "Demo", []types.Type{types.Int}, types.Int, 2, 2, ops, operands)

	lifted, err := Lift(m)
	if err != nil {
		t.Fatal(err)
	}
	snaps.MatchSnapshot(t, dumpLifted(lifted))
}

func TestSnapshotS5VirtualInvocationDiscardedResult(t *testing.T) {
	mref := symbols.MethodRef{OwnerClass: "Demo", Name: "m", ArgTypes: nil, ReturnType: types.Int}
	ops := []instr.Opcode{instr.ALOAD_0, instr.INVOKEVIRTUAL, instr.POP, instr.RETURN}
	operands := []instr.Operand{
		instr.NoOperand(), instr.MethodOperand(mref), instr.NoOperand(), instr.NoOperand(),
	}
	m := method(false, "Demo", nil, types.Void, 1, 2, ops, operands)

	lifted, err := Lift(m)
	if err != nil {
		t.Fatal(err)
	}
	snaps.MatchSnapshot(t, dumpLifted(lifted))
}

func TestSnapshotS6ArrayStore(t *testing.T) {
	ops := []instr.Opcode{instr.ALOAD_1, instr.ICONST_0, instr.BIPUSH, instr.IASTORE, instr.RETURN}
	operands := []instr.Operand{
		instr.NoOperand(), instr.NoOperand(), instr.ByteOperand(7), instr.NoOperand(), instr.NoOperand(),
	}
	m := method(false, "Demo", []types.Type{types.MakeArray(types.Int, 1)}, types.Void, 2, 3, ops, operands)

	lifted, err := Lift(m)
	if err != nil {
		t.Fatal(err)
	}
	snaps.MatchSnapshot(t, dumpLifted(lifted))
}

// A loop header at instruction 0 forces a Phi reconciling the entry
// predecessor's seeded argument with the looped-back sum (§4.5's
// incomplete-Phi finalization, exercised structurally in lift_test.go's
// TestLoopHeaderAtEntryUsesEntryPredecessor). This snapshot captures the
// Phi's rendered shape rather than re-asserting its fields by hand.
func TestSnapshotLoopHeaderPhiAtEntry(t *testing.T) {
	ops := []instr.Opcode{instr.ILOAD_1, instr.ICONST_1, instr.IADD, instr.ISTORE_1, instr.GOTO}
	operands := []instr.Operand{
		instr.NoOperand(), instr.NoOperand(), instr.NoOperand(), instr.NoOperand(), instr.BranchOperand(0),
	}
	m := method(false, "Demo", []types.Type{types.Int}, types.Void, 2, 2, ops, operands)

	lifted, err := Lift(m)
	if err != nil {
		t.Fatal(err)
	}

	add := lifted.Expressions[len(lifted.Expressions)-1].Expression.(*ir.BinaryArithmetic)
	phi := add.LHS.(*ir.Phi)
	snaps.MatchSnapshot(t, ir.Dump(phi))
}
