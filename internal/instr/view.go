package instr

// View is a read-only view over a method body, exposing for each
// instruction index the opcode and its already-decoded operand. Callers
// (the Lifter) never see raw bytes or pool indices — both field/method
// references and numeric constants arrive pre-resolved (§4.2, §6).
type View interface {
	// Length returns the number of instructions in the method body.
	Length() int
	// Opcode returns the opcode at instruction index i.
	Opcode(i int) Opcode
	// Operand returns the decoded immediate operand at instruction index i.
	Operand(i int) Operand
	// ByteOffset returns the source-machine byte offset of instruction i,
	// used only for diagnostics and for matching branch targets expressed
	// as byte offsets in a producer's debug output; the Lifter itself
	// addresses instructions purely by index.
	ByteOffset(i int) int
}

// Instructions is a simple slice-backed View, the form fixtures and tests
// build directly; internal/envelope's loader produces one of these from a
// parsed fixture document.
type Instructions struct {
	Ops      []Opcode
	Operands []Operand
	Offsets  []int
}

var _ View = (*Instructions)(nil)

// NewInstructions builds an Instructions view, computing a byte offset per
// instruction as the simple 1-byte-per-index layout fixtures use; callers
// that need true variable-width offsets should set Offsets directly after
// construction.
func NewInstructions(ops []Opcode, operands []Operand) *Instructions {
	offsets := make([]int, len(ops))
	for i := range offsets {
		offsets[i] = i
	}
	return &Instructions{Ops: ops, Operands: operands, Offsets: offsets}
}

func (v *Instructions) Length() int { return len(v.Ops) }

func (v *Instructions) Opcode(i int) Opcode { return v.Ops[i] }

func (v *Instructions) Operand(i int) Operand {
	if i < len(v.Operands) {
		return v.Operands[i]
	}
	return NoOperand()
}

func (v *Instructions) ByteOffset(i int) int { return v.Offsets[i] }
