package envelope

import (
	"fmt"

	"classlift/internal/instr"
	"classlift/internal/symbols"
	"classlift/internal/types"
)

// ToInstrMethod converts a fixture Method into the instr.Method the Lifter
// consumes, resolving the method descriptor and every instruction's
// mnemonic and operand. It fails closed: any unrecognized opcode or
// malformed descriptor is reported with the offending instruction index
// rather than silently producing a zero-value operand.
func (m Method) ToInstrMethod() (instr.Method, error) {
	argTypes, err := types.ArgTypes(m.Descriptor)
	if err != nil {
		return instr.Method{}, fmt.Errorf("envelope: %s.%s: descriptor %q: %w", m.OwningClass, m.Name, m.Descriptor, err)
	}
	retType, err := types.ReturnType(m.Descriptor)
	if err != nil {
		return instr.Method{}, fmt.Errorf("envelope: %s.%s: descriptor %q: %w", m.OwningClass, m.Name, m.Descriptor, err)
	}

	ops := make([]instr.Opcode, len(m.Instructions))
	operands := make([]instr.Operand, len(m.Instructions))
	for i, ins := range m.Instructions {
		op, ok := instr.ParseOpcode(ins.Op)
		if !ok {
			return instr.Method{}, fmt.Errorf("envelope: %s.%s: instruction %d: unknown opcode %q", m.OwningClass, m.Name, i, ins.Op)
		}
		ops[i] = op

		operand, err := ins.toOperand()
		if err != nil {
			return instr.Method{}, fmt.Errorf("envelope: %s.%s: instruction %d (%s): %w", m.OwningClass, m.Name, i, ins.Op, err)
		}
		operands[i] = operand
	}

	return instr.Method{
		OwningClass:  m.OwningClass,
		Name:         m.Name,
		ArgTypes:     argTypes,
		ReturnType:   retType,
		IsStatic:     m.IsStatic,
		MaxLocals:    m.MaxLocals,
		MaxStack:     m.MaxStack,
		Instructions: instr.NewInstructions(ops, operands),
	}, nil
}

func (ins Instruction) toOperand() (instr.Operand, error) {
	switch {
	case ins.Local != nil:
		return instr.LocalOperand(*ins.Local), nil
	case ins.Byte != nil:
		return instr.ByteOperand(*ins.Byte), nil
	case ins.Short != nil:
		return instr.ShortOperand(*ins.Short), nil
	case ins.Branch != nil:
		return instr.BranchOperand(*ins.Branch), nil
	case ins.Const != nil:
		cv, err := ins.Const.toConstValue()
		if err != nil {
			return instr.Operand{}, err
		}
		return instr.ConstOperand(cv), nil
	case ins.Field != nil:
		t, err := types.ParseDescriptor(ins.Field.Type)
		if err != nil {
			return instr.Operand{}, fmt.Errorf("field type %q: %w", ins.Field.Type, err)
		}
		return instr.FieldOperand(symbols.FieldRef{OwnerClass: ins.Field.Owner, Name: ins.Field.Name, Type: t}), nil
	case ins.Method != nil:
		mref, err := ins.Method.toMethodRef()
		if err != nil {
			return instr.Operand{}, err
		}
		return instr.MethodOperand(mref), nil
	case ins.Class != "":
		return instr.ClassOperand(ins.Class), nil
	case ins.Increment != nil:
		return instr.IncrementOperandOf(ins.Increment.Slot, ins.Increment.Delta), nil
	case ins.Dims != nil:
		return instr.DimsOperandOf(ins.Dims.Class, ins.Dims.Dims), nil
	case ins.Wide != nil:
		inner, ok := instr.ParseOpcode(ins.Wide.Inner)
		if !ok {
			return instr.Operand{}, fmt.Errorf("wide: unknown inner opcode %q", ins.Wide.Inner)
		}
		return instr.WideOperandOf(inner, ins.Wide.Slot, ins.Wide.Value), nil
	case ins.Switch != nil:
		entries := make([]instr.SwitchEntry, len(ins.Switch.Entries))
		for i, e := range ins.Switch.Entries {
			entries[i] = instr.SwitchEntry{Key: e.Key, Target: e.Target}
		}
		return instr.SwitchOperand(instr.SwitchTable{Entries: entries, Default: ins.Switch.Default}), nil
	default:
		return instr.NoOperand(), nil
	}
}

func (c ConstLit) toConstValue() (instr.ConstValue, error) {
	switch c.Kind {
	case "", "null":
		return instr.ConstValue{Kind: instr.ConstNull}, nil
	case "int":
		return instr.ConstValue{Kind: instr.ConstInt, IntValue: c.Int}, nil
	case "long":
		return instr.ConstValue{Kind: instr.ConstLong, LongValue: c.Long}, nil
	case "float":
		return instr.ConstValue{Kind: instr.ConstFloat, FloatValue: c.Float}, nil
	case "double":
		return instr.ConstValue{Kind: instr.ConstDouble, DoubleValue: c.Double}, nil
	case "string":
		return instr.ConstValue{Kind: instr.ConstString, StringValue: c.String}, nil
	case "class":
		return instr.ConstValue{Kind: instr.ConstClass, ClassName: c.Class}, nil
	default:
		return instr.ConstValue{}, fmt.Errorf("const: unknown kind %q", c.Kind)
	}
}

func (ml MethodLit) toMethodRef() (symbols.MethodRef, error) {
	argTypes := make([]types.Type, len(ml.Args))
	for i, d := range ml.Args {
		t, err := types.ParseDescriptor(d)
		if err != nil {
			return symbols.MethodRef{}, fmt.Errorf("method arg %d %q: %w", i, d, err)
		}
		argTypes[i] = t
	}
	retType, err := types.ParseDescriptor(ml.Return)
	if err != nil {
		return symbols.MethodRef{}, fmt.Errorf("method return %q: %w", ml.Return, err)
	}
	return symbols.MethodRef{OwnerClass: ml.Owner, Name: ml.Name, ArgTypes: argTypes, ReturnType: retType}, nil
}
