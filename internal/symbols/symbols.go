// Package symbols holds the lightweight records the constant pool
// resolves field and method references down to: an owning class, a name,
// and the types involved. The core never re-derives these from a pool
// index; they arrive pre-resolved from the collaborator (§6).
package symbols

import "classlift/internal/types"

// FieldRef identifies a field: the class that declares it, its name, and
// its value type.
type FieldRef struct {
	OwnerClass string
	Name       string
	Type       types.Type
}

// MethodRef identifies a method: the class that declares it, its name,
// its ordered argument types, and its return type.
type MethodRef struct {
	OwnerClass string
	Name       string
	ArgTypes   []types.Type
	ReturnType types.Type
}

// String renders a FieldRef as "owner.name:descriptor" for diagnostics.
func (f FieldRef) String() string {
	return f.OwnerClass + "." + f.Name + ":" + f.Type.Descriptor()
}

// String renders a MethodRef as "owner.name(argDescriptors)returnDescriptor"
// for diagnostics.
func (m MethodRef) String() string {
	s := m.OwnerClass + "." + m.Name + "("
	for i, a := range m.ArgTypes {
		if i > 0 {
			s += ","
		}
		s += a.Descriptor()
	}
	return s + ")" + m.ReturnType.Descriptor()
}
