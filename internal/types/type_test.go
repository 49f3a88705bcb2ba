package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDescriptorPrimitives(t *testing.T) {
	tests := []struct {
		text string
		want Type
	}{
		{"V", Void},
		{"Z", Boolean},
		{"B", Byte},
		{"C", Char},
		{"S", Short},
		{"I", Int},
		{"J", Long},
		{"F", Float},
		{"D", Double},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			got, err := ParseDescriptor(test.text)
			if err != nil {
				t.Fatalf("ParseDescriptor(%q): %v", test.text, err)
			}
			if !got.Equal(test.want) {
				t.Errorf("ParseDescriptor(%q) = %v, want %v", test.text, got, test.want)
			}
		})
	}
}

func TestParseDescriptorReference(t *testing.T) {
	got, err := ParseDescriptor("Ljava/lang/String;")
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	if got.Kind() != KindReference {
		t.Fatalf("Kind() = %v, want KindReference", got.Kind())
	}
	if got.ClassName() != "java/lang/String" {
		t.Errorf("ClassName() = %q, want java/lang/String", got.ClassName())
	}
	if got.Descriptor() != "Ljava/lang/String;" {
		t.Errorf("Descriptor() round-trip failed: %q", got.Descriptor())
	}
}

func TestParseDescriptorArray(t *testing.T) {
	got, err := ParseDescriptor("[[I")
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	if !got.IsArray() || got.Dim() != 2 {
		t.Fatalf("got = %v, want a 2-dim array", got)
	}
	if !got.IsReference() {
		t.Errorf("array type must satisfy IsReference per the spec invariant")
	}

	elem, err := ElementType(got)
	if err != nil {
		t.Fatalf("ElementType: %v", err)
	}
	if !elem.IsArray() || elem.Dim() != 1 {
		t.Fatalf("ElementType(int[][]) = %v, want int[]", elem)
	}

	inner, err := ElementType(elem)
	if err != nil {
		t.Fatalf("ElementType: %v", err)
	}
	if !inner.Equal(Int) {
		t.Fatalf("ElementType(int[]) = %v, want int", inner)
	}
}

func TestParseDescriptorMalformed(t *testing.T) {
	for _, text := range []string{"", "X", "Ljava/lang/String", "[", "IX"} {
		if _, err := ParseDescriptor(text); err == nil {
			t.Errorf("ParseDescriptor(%q): expected BadDescriptor, got nil error", text)
		}
	}
}

func TestElementTypeNotAnArray(t *testing.T) {
	if _, err := ElementType(Int); err == nil {
		t.Fatal("ElementType(int): expected ErrNotAnArray")
	}
}

func TestArgTypesAndReturnType(t *testing.T) {
	args, err := ArgTypes("(IJLjava/lang/String;[D)V")
	if err != nil {
		t.Fatalf("ArgTypes: %v", err)
	}
	want := []Type{Int, Long, Reference("java/lang/String"), MakeArray(Double, 1)}
	if len(args) != len(want) {
		t.Fatalf("ArgTypes returned %d types, want %d", len(args), len(want))
	}
	for i := range args {
		if !args[i].Equal(want[i]) {
			t.Errorf("arg %d = %v, want %v", i, args[i], want[i])
		}
	}

	ret, err := ReturnType("(IJLjava/lang/String;[D)V")
	if err != nil {
		t.Fatalf("ReturnType: %v", err)
	}
	if !ret.Equal(Void) {
		t.Errorf("ReturnType = %v, want void", ret)
	}

	ret, err = ReturnType("()I")
	if err != nil {
		t.Fatalf("ReturnType: %v", err)
	}
	if !ret.Equal(Int) {
		t.Errorf("ReturnType() = %v, want int", ret)
	}
}

func TestArgTypesNoArgs(t *testing.T) {
	args, err := ArgTypes("()V")
	if err != nil {
		t.Fatalf("ArgTypes: %v", err)
	}
	if len(args) != 0 {
		t.Errorf("ArgTypes(()V) = %v, want empty", args)
	}
}

func TestEqualityIgnoresConstructionPath(t *testing.T) {
	a := Int
	b, err := ParseDescriptor("I")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Errorf("freshly parsed primitive should equal the singleton: %v != %v", a, b)
	}

	arr1 := MakeArray(Reference("java/lang/Object"), 1)
	arr2, _ := ParseDescriptor("[Ljava/lang/Object;")
	if diff := cmp.Diff(arr1.Descriptor(), arr2.Descriptor()); diff != "" {
		t.Errorf("descriptor mismatch (-construct +parse):\n%s", diff)
	}
	if !arr1.Equal(arr2) {
		t.Errorf("arrays built two ways should be Equal")
	}
}

func TestIsWide(t *testing.T) {
	for _, wide := range []Type{Long, Double} {
		if !wide.IsWide() {
			t.Errorf("%v should be wide", wide)
		}
	}
	for _, narrow := range []Type{Int, Boolean, Byte, Char, Short, Float, Void, Reference("x"), MakeArray(Int, 1)} {
		if narrow.IsWide() {
			t.Errorf("%v should not be wide", narrow)
		}
	}
}

func TestUnifyInnerClassWithOuter(t *testing.T) {
	outer := Reference("pkg/Outer")
	inner := Reference("pkg/Outer$Inner")

	got, ok := Unify(outer, inner)
	if !ok {
		t.Fatal("Unify() reported no unification")
	}
	if !got.Equal(outer) {
		t.Errorf("Unify(outer, inner) = %v, want %v", got, outer)
	}
}

func TestUnifySiblingPackageMembersFallBackToObject(t *testing.T) {
	got, ok := Unify(Reference("java/util/ArrayList"), Reference("java/lang/String"))
	if !ok {
		t.Fatal("Unify() reported no unification")
	}
	if !got.Equal(ObjectType) {
		t.Errorf("Unify() = %v, want %v", got, ObjectType)
	}
}

func TestUnifyArraysOfUnrelatedElementsFallsBackToObjectArray(t *testing.T) {
	a := MakeArray(Reference("pkg/A"), 1)
	b := MakeArray(Reference("pkg/B"), 1)

	got, ok := Unify(a, b)
	if !ok {
		t.Fatal("Unify() reported no unification")
	}
	if !got.Equal(MakeArray(ObjectType, 1)) {
		t.Errorf("Unify() = %v, want %v", got, MakeArray(ObjectType, 1))
	}
}
