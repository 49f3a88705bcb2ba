// Package liftfail defines the lifter's failure taxonomy (§7). A Failure
// is raised at its first detection site, carries the source instruction
// index when known, and aborts the current method's lift — partial
// results are never exposed as a successful LiftedMethod.
package liftfail

import (
	"fmt"

	"classlift/internal/types"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind tags the variant of a Failure.
type Kind int

const (
	KindBadDescriptor Kind = iota
	KindUnimplemented
	KindStackUnderflow
	KindStackOverflow
	KindLocalOverflow
	KindTypeMismatch
	KindJoinStackNonEmpty
	KindPhiDisagreement
)

func (k Kind) String() string {
	switch k {
	case KindBadDescriptor:
		return "BadDescriptor"
	case KindUnimplemented:
		return "Unimplemented"
	case KindStackUnderflow:
		return "StackUnderflow"
	case KindStackOverflow:
		return "StackOverflow"
	case KindLocalOverflow:
		return "LocalOverflow"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindJoinStackNonEmpty:
		return "JoinStackNonEmpty"
	case KindPhiDisagreement:
		return "PhiDisagreement"
	default:
		return "Unknown"
	}
}

var titleCaser = cases.Title(language.English)

// Failure is the error type every exported lift entry point returns on
// failure. It wraps its underlying cause with github.com/pkg/errors so a
// --verbose CLI rendering can show a program-counter stack without
// changing the Kind taxonomy callers switch on.
type Failure struct {
	Kind             Kind
	InstructionIndex int // -1 if not known at the detection site
	Message          string
	Op               string       // TypeMismatch only: the node/operator name
	Expected, Actual types.Type   // TypeMismatch only
	PhiTypes         []types.Type // PhiDisagreement only
	cause            error
}

func (f *Failure) Error() string {
	loc := ""
	if f.InstructionIndex >= 0 {
		loc = fmt.Sprintf(" at instruction %d", f.InstructionIndex)
	}
	return fmt.Sprintf("%s%s: %s", f.Kind, loc, f.Message)
}

// Unwrap exposes the wrapped cause so errors.Is/errors.As work across
// this package's wrapping and github.com/pkg/errors's.
func (f *Failure) Unwrap() error { return f.cause }

func newFailure(kind Kind, index int, cause error) *Failure {
	return &Failure{Kind: kind, InstructionIndex: index, Message: cause.Error(), cause: cause}
}

// BadDescriptor reports a malformed type descriptor.
func BadDescriptor(index int, text string) *Failure {
	return newFailure(KindBadDescriptor, index, errors.Errorf("bad descriptor %q", text))
}

// Unimplemented reports an opcode the lifter does not yet handle. The
// opcode name is rendered in a fixed title case so diagnostics read
// uniformly regardless of how the opcode's own String() capitalizes it.
func Unimplemented(index int, opcodeName string) *Failure {
	cause := errors.Errorf("opcode %s is not implemented", titleCaser.String(opcodeName))
	return newFailure(KindUnimplemented, index, cause)
}

// StackUnderflow reports an attempt to pop more values than the operand
// stack holds.
func StackUnderflow(index int) *Failure {
	return newFailure(KindStackUnderflow, index, errors.New("operand stack underflow"))
}

// StackOverflow reports an attempt to push past the method's declared
// max_stack.
func StackOverflow(index int) *Failure {
	return newFailure(KindStackOverflow, index, errors.New("operand stack overflow"))
}

// LocalOverflow reports an attempt to address a local slot past the
// method's declared max_locals.
func LocalOverflow(index, slot int) *Failure {
	return newFailure(KindLocalOverflow, index, errors.Errorf("local slot %d exceeds max_locals", slot))
}

// TypeMismatch reports a node constructor (or Type() call) rejecting
// operands that must agree in type.
func TypeMismatch(index int, op string, expected, actual types.Type) *Failure {
	cause := errors.Errorf("%s: expected %s, got %s", op, expected, actual)
	f := newFailure(KindTypeMismatch, index, cause)
	f.Op, f.Expected, f.Actual = op, expected, actual
	return f
}

// JoinStackNonEmpty reports a non-empty operand stack at a branch target,
// which conforming input programs never produce (§4.5, §8 invariant 7).
func JoinStackNonEmpty(index int) *Failure {
	return newFailure(KindJoinStackNonEmpty, index, errors.New("operand stack is non-empty at a join point"))
}

// PhiDisagreement reports Phi inputs that could not be unified.
func PhiDisagreement(index int, inputTypes []types.Type) *Failure {
	cause := errors.Errorf("phi inputs do not unify: %v", inputTypes)
	f := newFailure(KindPhiDisagreement, index, cause)
	f.PhiTypes = inputTypes
	return f
}

// Wrap re-raises cause as a Failure of the given kind at the given
// instruction index, always attaching a fresh stack via
// github.com/pkg/errors.WithStack, even when cause already carries one.
func Wrap(kind Kind, index int, cause error) *Failure {
	return newFailure(kind, index, errors.WithStack(cause))
}
