package instr

import "classlift/internal/types"

// Method is the decoded method envelope the core consumes (§6): the
// owning class, the method's name, its argument and return types,
// whether it is static, the declared local/stack maxima, and the
// instruction view itself. Constant-pool resolution has already happened
// by the time a Method reaches the Lifter — Operand values never carry a
// raw pool index.
type Method struct {
	OwningClass  string
	Name         string
	ArgTypes     []types.Type
	ReturnType   types.Type
	IsStatic     bool
	MaxLocals    int
	MaxStack     int
	Instructions View
}
