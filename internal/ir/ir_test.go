package ir

import (
	"testing"

	"classlift/internal/instr"
	"classlift/internal/symbols"
	"classlift/internal/types"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	_ = v
}

func TestBinaryArithmeticTypeMatchesOperands(t *testing.T) {
	a := NewArena()
	lhs := a.NewConstant(instr.ConstValue{Kind: instr.ConstInt, IntValue: 1})
	rhs := a.NewConstant(instr.ConstValue{Kind: instr.ConstInt, IntValue: 2})

	add, err := a.NewBinaryArithmetic(Add, lhs, rhs)
	if err != nil {
		t.Fatalf("NewBinaryArithmetic: %v", err)
	}
	got, err := add.Type()
	if err != nil {
		t.Fatalf("Type(): %v", err)
	}
	if !got.Equal(types.Int) {
		t.Errorf("Type() = %v, want int", got)
	}
}

func TestBinaryArithmeticRejectsMismatch(t *testing.T) {
	a := NewArena()
	lhs := a.NewConstant(instr.ConstValue{Kind: instr.ConstInt, IntValue: 1})
	rhs := a.NewConstant(instr.ConstValue{Kind: instr.ConstLong, LongValue: 2})

	if _, err := a.NewBinaryArithmetic(Add, lhs, rhs); err == nil {
		t.Fatal("expected a type mismatch error")
	}
}

func TestArrayLoadElementType(t *testing.T) {
	a := NewArena()
	arr := a.NewArgument("xs", types.MakeArray(types.Int, 1))
	idx := a.NewConstant(instr.ConstValue{Kind: instr.ConstInt, IntValue: 0})

	load, err := a.NewArrayLoad(arr, idx)
	if err != nil {
		t.Fatalf("NewArrayLoad: %v", err)
	}
	got, err := load.Type()
	if err != nil {
		t.Fatalf("Type(): %v", err)
	}
	if !got.Equal(types.Int) {
		t.Errorf("Type() = %v, want int", got)
	}
}

func TestArrayLoadRejectsNonArray(t *testing.T) {
	a := NewArena()
	notArray := a.NewArgument("x", types.Int)
	idx := a.NewConstant(instr.ConstValue{Kind: instr.ConstInt, IntValue: 0})
	if _, err := a.NewArrayLoad(notArray, idx); err == nil {
		t.Fatal("expected ErrNotAnArray")
	}
}

func TestInvokeArgumentCount(t *testing.T) {
	a := NewArena()
	method := symbols.MethodRef{
		OwnerClass: "Demo",
		Name:       "add",
		ArgTypes:   []types.Type{types.Int, types.Int},
		ReturnType: types.Int,
	}
	one := a.NewConstant(instr.ConstValue{Kind: instr.ConstInt, IntValue: 1})

	if _, err := a.NewInvoke(Static, method, []Expression{one}, nil); err == nil {
		t.Fatal("expected argument count mismatch error")
	}

	two := a.NewConstant(instr.ConstValue{Kind: instr.ConstInt, IntValue: 2})
	inv, err := a.NewInvoke(Static, method, []Expression{one, two}, nil)
	if err != nil {
		t.Fatalf("NewInvoke: %v", err)
	}
	got, err := inv.Type()
	if err != nil {
		t.Fatalf("Type(): %v", err)
	}
	if !got.Equal(types.Int) {
		t.Errorf("Type() = %v, want int", got)
	}
}

func TestPhiUnifiesIdenticalTypes(t *testing.T) {
	a := NewArena()
	x := a.NewArgument("x", types.Int)
	y := a.NewArgument("y", types.Int)

	phi, err := a.NewPhi([]Expression{x, y})
	if err != nil {
		t.Fatalf("NewPhi: %v", err)
	}
	got, err := phi.Type()
	if err != nil {
		t.Fatalf("Type(): %v", err)
	}
	if !got.Equal(types.Int) {
		t.Errorf("Type() = %v, want int", got)
	}
}

func TestPhiUnifiesNullWithReference(t *testing.T) {
	a := NewArena()
	ref := a.NewArgument("s", types.Reference("java/lang/String"))
	null := a.NewConstant(instr.ConstValue{Kind: instr.ConstNull})

	phi, err := a.NewPhi([]Expression{ref, null})
	if err != nil {
		t.Fatalf("NewPhi: %v", err)
	}
	got, _ := phi.Type()
	if !got.Equal(types.Reference("java/lang/String")) {
		t.Errorf("Type() = %v, want java/lang/String", got)
	}
}

func TestPhiUnrelatedReferencesFallBackToObject(t *testing.T) {
	a := NewArena()
	x := a.NewArgument("x", types.Reference("java/util/ArrayList"))
	y := a.NewArgument("y", types.Reference("java/lang/String"))

	phi, err := a.NewPhi([]Expression{x, y})
	if err != nil {
		t.Fatalf("NewPhi: %v", err)
	}
	got, _ := phi.Type()
	if !got.Equal(types.ObjectType) {
		t.Errorf("Type() = %v, want java/lang/Object", got)
	}
}

func TestPhiDisagreementOnPrimitiveVsReference(t *testing.T) {
	a := NewArena()
	x := a.NewArgument("x", types.Int)
	y := a.NewArgument("y", types.Reference("java/lang/String"))

	if _, err := a.NewPhi([]Expression{x, y}); err == nil {
		t.Fatal("expected PhiDisagreement")
	}
}

func TestReturnAddressHasNoType(t *testing.T) {
	a := NewArena()
	ra := a.NewReturnAddress(7)
	if _, err := ra.Type(); err == nil {
		t.Fatal("expected ErrNoType")
	}
}

func TestDumpConstantReturn(t *testing.T) {
	a := NewArena()
	three := a.NewConstant(instr.ConstValue{Kind: instr.ConstInt, IntValue: 3})
	ret := a.NewReturn(three)

	snaps.MatchSnapshot(t, Dump(ret))
}

func TestDumpBinaryArithmeticReturn(t *testing.T) {
	a := NewArena()
	arg1 := a.NewArgument("arg1", types.Int)
	arg2 := a.NewArgument("arg2", types.Int)
	add, err := a.NewBinaryArithmetic(Add, arg1, arg2)
	if err != nil {
		t.Fatal(err)
	}
	ret := a.NewReturn(add)

	snaps.MatchSnapshot(t, Dump(ret))
}
