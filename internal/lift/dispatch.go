package lift

import (
	"classlift/internal/instr"
	"classlift/internal/ir"
	"classlift/internal/liftfail"
	"classlift/internal/symbols"
	"classlift/internal/types"
)

var arithOps = map[instr.Opcode]ir.ArithOp{
	instr.IADD: ir.Add, instr.LADD: ir.Add, instr.FADD: ir.Add, instr.DADD: ir.Add,
	instr.ISUB: ir.Sub, instr.LSUB: ir.Sub, instr.FSUB: ir.Sub, instr.DSUB: ir.Sub,
	instr.IMUL: ir.Mul, instr.LMUL: ir.Mul, instr.FMUL: ir.Mul, instr.DMUL: ir.Mul,
	instr.IDIV: ir.Div, instr.LDIV: ir.Div, instr.FDIV: ir.Div, instr.DDIV: ir.Div,
	instr.IREM: ir.Rem, instr.LREM: ir.Rem, instr.FREM: ir.Rem, instr.DREM: ir.Rem,
	instr.ISHL: ir.Shl, instr.LSHL: ir.Shl,
	instr.ISHR: ir.Shr, instr.LSHR: ir.Shr,
	instr.IUSHR: ir.UShr, instr.LUSHR: ir.UShr,
	instr.IAND: ir.And, instr.LAND: ir.And,
	instr.IOR: ir.Or, instr.LOR: ir.Or,
	instr.IXOR: ir.Xor, instr.LXOR: ir.Xor,
}

var negOps = map[instr.Opcode]bool{instr.INEG: true, instr.LNEG: true, instr.FNEG: true, instr.DNEG: true}

var conversions = map[instr.Opcode]types.Type{
	instr.I2L: types.Long, instr.I2F: types.Float, instr.I2D: types.Double,
	instr.L2I: types.Int, instr.L2F: types.Float, instr.L2D: types.Double,
	instr.F2I: types.Int, instr.F2L: types.Long, instr.F2D: types.Double,
	instr.D2I: types.Int, instr.D2L: types.Long, instr.D2F: types.Float,
	instr.I2B: types.Byte, instr.I2C: types.Char, instr.I2S: types.Short,
}

// unimplemented lists opcodes this core deliberately does not lift: the
// long/float/double three-way comparisons (their result only ever feeds a
// following if<cond> against zero, which this core does not fuse), the
// rarely-emitted stack-juggling forms beyond plain dup/dup2, the wide
// subroutine jump, and invokedynamic.
var unimplemented = map[instr.Opcode]bool{
	instr.LCMP: true, instr.FCMPL: true, instr.FCMPG: true, instr.DCMPL: true, instr.DCMPG: true,
	instr.DUP_X1: true, instr.DUP_X2: true, instr.DUP2_X1: true, instr.DUP2_X2: true,
	instr.JSR_W: true, instr.INVOKEDYNAMIC: true,
}

func (lf *Lifter) step(i int) error {
	op := lf.view.Opcode(i)
	operand := lf.view.Operand(i)

	if unimplemented[op] {
		return liftfail.Unimplemented(i, op.String())
	}

	if arith, ok := arithOps[op]; ok {
		return lf.liftArithmetic(i, arith)
	}
	if negOps[op] {
		return lf.liftNegate(i)
	}
	if target, ok := conversions[op]; ok {
		return lf.liftConversion(i, target)
	}

	switch op {
	case instr.NOP:
		return nil

	case instr.ACONST_NULL:
		return lf.pushConstant(i, instr.ConstValue{Kind: instr.ConstNull})
	case instr.ICONST_M1:
		return lf.pushConstant(i, intConst(-1))
	case instr.ICONST_0:
		return lf.pushConstant(i, intConst(0))
	case instr.ICONST_1:
		return lf.pushConstant(i, intConst(1))
	case instr.ICONST_2:
		return lf.pushConstant(i, intConst(2))
	case instr.ICONST_3:
		return lf.pushConstant(i, intConst(3))
	case instr.ICONST_4:
		return lf.pushConstant(i, intConst(4))
	case instr.ICONST_5:
		return lf.pushConstant(i, intConst(5))
	case instr.LCONST_0:
		return lf.pushConstant(i, instr.ConstValue{Kind: instr.ConstLong, LongValue: 0})
	case instr.LCONST_1:
		return lf.pushConstant(i, instr.ConstValue{Kind: instr.ConstLong, LongValue: 1})
	case instr.FCONST_0:
		return lf.pushConstant(i, instr.ConstValue{Kind: instr.ConstFloat, FloatValue: 0})
	case instr.FCONST_1:
		return lf.pushConstant(i, instr.ConstValue{Kind: instr.ConstFloat, FloatValue: 1})
	case instr.FCONST_2:
		return lf.pushConstant(i, instr.ConstValue{Kind: instr.ConstFloat, FloatValue: 2})
	case instr.DCONST_0:
		return lf.pushConstant(i, instr.ConstValue{Kind: instr.ConstDouble, DoubleValue: 0})
	case instr.DCONST_1:
		return lf.pushConstant(i, instr.ConstValue{Kind: instr.ConstDouble, DoubleValue: 1})
	case instr.BIPUSH:
		return lf.pushConstant(i, intConst(int32(operand.Byte)))
	case instr.SIPUSH:
		return lf.pushConstant(i, intConst(int32(operand.Short)))
	case instr.LDC, instr.LDC_W, instr.LDC2_W:
		return lf.pushConstant(i, operand.Const)

	case instr.ILOAD, instr.LLOAD, instr.FLOAD, instr.DLOAD, instr.ALOAD:
		return lf.liftLoad(i, operand.Local)
	case instr.ILOAD_0, instr.LLOAD_0, instr.FLOAD_0, instr.DLOAD_0, instr.ALOAD_0:
		return lf.liftLoad(i, 0)
	case instr.ILOAD_1, instr.LLOAD_1, instr.FLOAD_1, instr.DLOAD_1, instr.ALOAD_1:
		return lf.liftLoad(i, 1)
	case instr.ILOAD_2, instr.LLOAD_2, instr.FLOAD_2, instr.DLOAD_2, instr.ALOAD_2:
		return lf.liftLoad(i, 2)
	case instr.ILOAD_3, instr.LLOAD_3, instr.FLOAD_3, instr.DLOAD_3, instr.ALOAD_3:
		return lf.liftLoad(i, 3)

	case instr.ISTORE, instr.LSTORE, instr.FSTORE, instr.DSTORE, instr.ASTORE:
		return lf.liftStore(i, operand.Local)
	case instr.ISTORE_0, instr.LSTORE_0, instr.FSTORE_0, instr.DSTORE_0, instr.ASTORE_0:
		return lf.liftStore(i, 0)
	case instr.ISTORE_1, instr.LSTORE_1, instr.FSTORE_1, instr.DSTORE_1, instr.ASTORE_1:
		return lf.liftStore(i, 1)
	case instr.ISTORE_2, instr.LSTORE_2, instr.FSTORE_2, instr.DSTORE_2, instr.ASTORE_2:
		return lf.liftStore(i, 2)
	case instr.ISTORE_3, instr.LSTORE_3, instr.FSTORE_3, instr.DSTORE_3, instr.ASTORE_3:
		return lf.liftStore(i, 3)

	case instr.IINC:
		return lf.liftIinc(i, operand.Increment.Slot, operand.Increment.Delta)

	case instr.IALOAD, instr.LALOAD, instr.FALOAD, instr.DALOAD, instr.AALOAD, instr.BALOAD, instr.CALOAD, instr.SALOAD:
		return lf.liftArrayLoad(i)
	case instr.IASTORE, instr.LASTORE, instr.FASTORE, instr.DASTORE, instr.AASTORE, instr.BASTORE, instr.CASTORE, instr.SASTORE:
		return lf.liftArrayStore(i)

	case instr.POP:
		v, err := lf.pop(i)
		if err != nil {
			return err
		}
		lf.discardIfInvoke(v)
		lf.recordStackOnly(i)
		return nil
	case instr.POP2:
		top, err := lf.peek(i)
		if err != nil {
			return err
		}
		wide, err := isWide(i, top)
		if err != nil {
			return err
		}
		a, err := lf.pop(i)
		if err != nil {
			return err
		}
		lf.discardIfInvoke(a)
		if !wide {
			b, err := lf.pop(i)
			if err != nil {
				return err
			}
			lf.discardIfInvoke(b)
		}
		lf.recordStackOnly(i)
		return nil
	case instr.DUP:
		top, err := lf.peek(i)
		if err != nil {
			return err
		}
		if err := lf.push(i, top); err != nil {
			return err
		}
		lf.recordStackOnly(i)
		return nil
	case instr.DUP2:
		top, err := lf.peek(i)
		if err != nil {
			return err
		}
		wide, err := isWide(i, top)
		if err != nil {
			return err
		}
		if wide {
			a, err := lf.pop(i)
			if err != nil {
				return err
			}
			for _, v := range []ir.Expression{a, a} {
				if err := lf.push(i, v); err != nil {
					return err
				}
			}
			lf.recordStackOnly(i)
			return nil
		}
		a, err := lf.pop(i)
		if err != nil {
			return err
		}
		b, err := lf.pop(i)
		if err != nil {
			return err
		}
		for _, v := range []ir.Expression{b, a, b, a} {
			if err := lf.push(i, v); err != nil {
				return err
			}
		}
		lf.recordStackOnly(i)
		return nil
	case instr.SWAP:
		a, err := lf.pop(i)
		if err != nil {
			return err
		}
		b, err := lf.pop(i)
		if err != nil {
			return err
		}
		if err := lf.push(i, a); err != nil {
			return err
		}
		if err := lf.push(i, b); err != nil {
			return err
		}
		lf.recordStackOnly(i)
		return nil

	case instr.IFEQ, instr.IFNE, instr.IFLT, instr.IFGE, instr.IFGT, instr.IFLE:
		return lf.liftIfZero(i, op, operand.Branch)
	case instr.IF_ICMPEQ, instr.IF_ICMPNE, instr.IF_ICMPLT, instr.IF_ICMPGE, instr.IF_ICMPGT, instr.IF_ICMPLE:
		return lf.liftIfCompare(i, op, operand.Branch)
	case instr.IF_ACMPEQ, instr.IF_ACMPNE:
		return lf.liftIfAcmp(i, op, operand.Branch)
	case instr.IFNULL, instr.IFNONNULL:
		return lf.liftIfNull(i, op, operand.Branch)

	case instr.GOTO:
		lf.recordOperation(i, lf.arena.NewBranch(nil, operand.Branch))
		return nil
	case instr.GOTO_W:
		lf.recordOperation(i, lf.arena.NewBranch(nil, operand.Branch))
		return nil

	case instr.JSR:
		ra := lf.arena.NewReturnAddress(i + 1)
		if err := lf.push(i, ra); err != nil {
			return err
		}
		lf.recordOperation(i, lf.arena.NewSubroutineCall(operand.Branch))
		return nil
	case instr.RET:
		lf.recordOperation(i, lf.arena.NewSubroutineReturn())
		return nil

	case instr.TABLESWITCH, instr.LOOKUPSWITCH:
		return lf.liftSwitch(i, operand)

	case instr.IRETURN, instr.LRETURN, instr.FRETURN, instr.DRETURN, instr.ARETURN:
		v, err := lf.pop(i)
		if err != nil {
			return err
		}
		lf.recordOperation(i, lf.arena.NewReturn(v))
		return nil
	case instr.RETURN:
		lf.recordOperation(i, lf.arena.NewReturn(nil))
		return nil

	case instr.GETSTATIC:
		return lf.liftFieldRead(i, operand.Field, false)
	case instr.GETFIELD:
		return lf.liftFieldRead(i, operand.Field, true)
	case instr.PUTSTATIC:
		return lf.liftFieldWrite(i, operand.Field, false)
	case instr.PUTFIELD:
		return lf.liftFieldWrite(i, operand.Field, true)

	case instr.INVOKEVIRTUAL:
		return lf.liftInvoke(i, ir.Virtual, operand.Method)
	case instr.INVOKESPECIAL:
		return lf.liftInvoke(i, ir.Special, operand.Method)
	case instr.INVOKESTATIC:
		return lf.liftInvoke(i, ir.Static, operand.Method)
	case instr.INVOKEINTERFACE:
		return lf.liftInvoke(i, ir.Interface, operand.Method)

	case instr.NEW:
		n := lf.arena.NewAllocate(types.Reference(operand.ClassName), nil)
		lf.recordExpr(i, n)
		return lf.push(i, n)
	case instr.NEWARRAY:
		return lf.liftNewArray(i, operand.Byte)
	case instr.ANEWARRAY:
		return lf.liftANewArray(i, operand.ClassName)
	case instr.MULTIANEWARRAY:
		return lf.liftMultiANewArray(i, operand.Dims)
	case instr.ARRAYLENGTH:
		arr, err := lf.pop(i)
		if err != nil {
			return err
		}
		al := lf.arena.NewArrayLength(arr)
		lf.recordExpr(i, al)
		return lf.push(i, al)

	case instr.ATHROW:
		v, err := lf.pop(i)
		if err != nil {
			return err
		}
		lf.recordOperation(i, lf.arena.NewThrow(v))
		return nil

	case instr.CHECKCAST:
		return lf.liftCast(i, operand.ClassName)
	case instr.INSTANCEOF:
		return lf.liftInstanceOf(i, operand.ClassName)

	case instr.MONITORENTER:
		v, err := lf.pop(i)
		if err != nil {
			return err
		}
		lf.recordOperation(i, lf.arena.NewMonitorEnter(v))
		return nil
	case instr.MONITOREXIT:
		v, err := lf.pop(i)
		if err != nil {
			return err
		}
		lf.recordOperation(i, lf.arena.NewMonitorExit(v))
		return nil

	case instr.WIDE:
		return lf.liftWide(i, operand.Wide)

	default:
		return liftfail.Unimplemented(i, op.String())
	}
}

func intConst(v int32) instr.ConstValue { return instr.ConstValue{Kind: instr.ConstInt, IntValue: v} }

// isWide reports whether e occupies a width-2 stack slot, so POP2/DUP2 can
// tell a single long/double apart from two width-1 values.
func isWide(i int, e ir.Expression) (bool, error) {
	t, err := e.Type()
	if err != nil {
		return false, typeErr(i, err)
	}
	return t.IsWide(), nil
}

// discardIfInvoke promotes a popped, still-unrecorded non-void Invoke into
// an Operation at the instruction that produced it, since a discard is
// exactly the "result is unused" case (§9).
func (lf *Lifter) discardIfInvoke(v ir.Expression) {
	inv, ok := v.(*ir.Invoke)
	if !ok {
		return
	}
	if invIndex, pending := lf.pendingInvokes[inv]; pending {
		delete(lf.pendingInvokes, inv)
		lf.recordOperation(invIndex, inv)
	}
}

func (lf *Lifter) pushConstant(i int, v instr.ConstValue) error {
	c := lf.arena.NewConstant(v)
	lf.recordExpr(i, c)
	return lf.push(i, c)
}

func (lf *Lifter) liftLoad(i, slot int) error {
	v, err := lf.getLocal(i, slot)
	if err != nil {
		return err
	}
	lf.recordStackOnly(i)
	return lf.push(i, v)
}

func (lf *Lifter) liftStore(i, slot int) error {
	v, err := lf.pop(i)
	if err != nil {
		return err
	}
	return lf.bindLocal(i, slot, v)
}

func (lf *Lifter) liftIinc(i, slot int, delta int32) error {
	cur, err := lf.getLocal(i, slot)
	if err != nil {
		return err
	}
	d := lf.arena.NewConstant(intConst(delta))
	sum, err := lf.arena.NewBinaryArithmetic(ir.Add, cur, d)
	if err != nil {
		return typeErr(i, err)
	}
	return lf.bindLocal(i, slot, sum)
}

func (lf *Lifter) liftArithmetic(i int, op ir.ArithOp) error {
	rhs, err := lf.pop(i)
	if err != nil {
		return err
	}
	lhs, err := lf.pop(i)
	if err != nil {
		return err
	}
	// A shift's count operand is always int regardless of the shifted
	// value's width (lshl's rhs is int, not long); make that implicit
	// widening explicit as a Cast rather than relaxing
	// NewBinaryArithmetic's type-equality invariant for everyone else.
	if op == ir.Shl || op == ir.Shr || op == ir.UShr {
		lt, err := lhs.Type()
		if err != nil {
			return typeErr(i, err)
		}
		rt, err := rhs.Type()
		if err != nil {
			return typeErr(i, err)
		}
		if !lt.Equal(rt) {
			rhs = lf.arena.NewCast(rhs, lt)
		}
	}
	n, err := lf.arena.NewBinaryArithmetic(op, lhs, rhs)
	if err != nil {
		return typeErr(i, err)
	}
	lf.recordExpr(i, n)
	return lf.push(i, n)
}

func (lf *Lifter) liftNegate(i int) error {
	v, err := lf.pop(i)
	if err != nil {
		return err
	}
	n := lf.arena.NewUnaryArithmetic(v)
	lf.recordExpr(i, n)
	return lf.push(i, n)
}

func (lf *Lifter) liftConversion(i int, target types.Type) error {
	v, err := lf.pop(i)
	if err != nil {
		return err
	}
	n := lf.arena.NewCast(v, target)
	lf.recordExpr(i, n)
	return lf.push(i, n)
}

func (lf *Lifter) liftArrayLoad(i int) error {
	idx, err := lf.pop(i)
	if err != nil {
		return err
	}
	arr, err := lf.pop(i)
	if err != nil {
		return err
	}
	n, err := lf.arena.NewArrayLoad(arr, idx)
	if err != nil {
		return typeErr(i, err)
	}
	lf.recordExpr(i, n)
	return lf.push(i, n)
}

func (lf *Lifter) liftArrayStore(i int) error {
	val, err := lf.pop(i)
	if err != nil {
		return err
	}
	idx, err := lf.pop(i)
	if err != nil {
		return err
	}
	arr, err := lf.pop(i)
	if err != nil {
		return err
	}
	lf.recordOperation(i, lf.arena.NewArrayStore(arr, idx, val))
	return nil
}

// liftIfZero lifts the single-operand if<cond> family, comparing the
// popped value against an implicit int zero constant, whatever the popped
// value's own type.
func (lf *Lifter) liftIfZero(i int, op instr.Opcode, target int) error {
	v, err := lf.pop(i)
	if err != nil {
		return err
	}
	zero := lf.arena.NewConstant(intConst(0))
	cond, err := lf.buildCompare(op, v, zero, map[instr.Opcode]ir.CompareOp{
		instr.IFEQ: ir.Eq, instr.IFNE: ir.Eq,
		instr.IFLT: ir.Lt, instr.IFGE: ir.Lt,
		instr.IFGT: ir.Gt, instr.IFLE: ir.Gt,
	}, map[instr.Opcode]bool{instr.IFNE: true, instr.IFGE: true, instr.IFLE: true})
	if err != nil {
		return err
	}
	lf.recordOperation(i, lf.arena.NewBranch(cond, target))
	return nil
}

func (lf *Lifter) liftIfCompare(i int, op instr.Opcode, target int) error {
	rhs, err := lf.pop(i)
	if err != nil {
		return err
	}
	lhs, err := lf.pop(i)
	if err != nil {
		return err
	}
	cond, err := lf.buildCompare(op, lhs, rhs, map[instr.Opcode]ir.CompareOp{
		instr.IF_ICMPEQ: ir.Eq, instr.IF_ICMPNE: ir.Eq,
		instr.IF_ICMPLT: ir.Lt, instr.IF_ICMPGE: ir.Lt,
		instr.IF_ICMPGT: ir.Gt, instr.IF_ICMPLE: ir.Gt,
	}, map[instr.Opcode]bool{instr.IF_ICMPNE: true, instr.IF_ICMPGE: true, instr.IF_ICMPLE: true})
	if err != nil {
		return err
	}
	lf.recordOperation(i, lf.arena.NewBranch(cond, target))
	return nil
}

func (lf *Lifter) liftIfAcmp(i int, op instr.Opcode, target int) error {
	rhs, err := lf.pop(i)
	if err != nil {
		return err
	}
	lhs, err := lf.pop(i)
	if err != nil {
		return err
	}
	cmp := lf.arena.NewComparison(ir.Eq, lhs, rhs)
	var cond ir.Expression = cmp
	if op == instr.IF_ACMPNE {
		n, err := lf.arena.NewLogicalNot(cmp)
		if err != nil {
			return typeErr(i, err)
		}
		cond = n
	}
	lf.recordOperation(i, lf.arena.NewBranch(cond, target))
	return nil
}

func (lf *Lifter) liftIfNull(i int, op instr.Opcode, target int) error {
	v, err := lf.pop(i)
	if err != nil {
		return err
	}
	null := lf.arena.NewConstant(instr.ConstValue{Kind: instr.ConstNull})
	cmp := lf.arena.NewComparison(ir.Eq, v, null)
	var cond ir.Expression = cmp
	if op == instr.IFNONNULL {
		n, err := lf.arena.NewLogicalNot(cmp)
		if err != nil {
			return typeErr(i, err)
		}
		cond = n
	}
	lf.recordOperation(i, lf.arena.NewBranch(cond, target))
	return nil
}

// buildCompare builds the Comparison node for op's base relation and
// wraps it in LogicalNot when negate[op] is set, implementing the
// complementary forms (!=, >=, <=) atop the three-valued CompareOp.
func (lf *Lifter) buildCompare(op instr.Opcode, lhs, rhs ir.Expression, base map[instr.Opcode]ir.CompareOp, negate map[instr.Opcode]bool) (ir.Expression, error) {
	cmp := lf.arena.NewComparison(base[op], lhs, rhs)
	if !negate[op] {
		return cmp, nil
	}
	return lf.arena.NewLogicalNot(cmp)
}

func (lf *Lifter) liftSwitch(i int, operand instr.Operand) error {
	selector, err := lf.pop(i)
	if err != nil {
		return err
	}
	entries := make([]ir.SwitchEntry, len(operand.Switch.Entries))
	for j, e := range operand.Switch.Entries {
		entries[j] = ir.SwitchEntry{Key: e.Key, Target: e.Target}
	}
	lf.recordOperation(i, lf.arena.NewSwitch(selector, entries, operand.Switch.Default))
	return nil
}

func (lf *Lifter) liftFieldRead(i int, field symbols.FieldRef, hasReceiver bool) error {
	var receiver ir.Expression
	if hasReceiver {
		var err error
		receiver, err = lf.pop(i)
		if err != nil {
			return err
		}
	}
	n := lf.arena.NewFieldRead(field, receiver)
	lf.recordExpr(i, n)
	return lf.push(i, n)
}

func (lf *Lifter) liftFieldWrite(i int, field symbols.FieldRef, hasReceiver bool) error {
	value, err := lf.pop(i)
	if err != nil {
		return err
	}
	var receiver ir.Expression
	if hasReceiver {
		r, err := lf.pop(i)
		if err != nil {
			return err
		}
		receiver = r
	}
	lf.recordOperation(i, lf.arena.NewFieldWrite(field, value, receiver))
	return nil
}

func (lf *Lifter) liftInvoke(i int, kind ir.InvokeKind, method symbols.MethodRef) error {
	args := make([]ir.Expression, len(method.ArgTypes))
	for j := len(args) - 1; j >= 0; j-- {
		v, err := lf.pop(i)
		if err != nil {
			return err
		}
		args[j] = v
	}
	var receiver ir.Expression
	if kind != ir.Static {
		var err error
		receiver, err = lf.pop(i)
		if err != nil {
			return err
		}
	}
	inv, err := lf.arena.NewInvoke(kind, method, args, receiver)
	if err != nil {
		return typeErr(i, err)
	}
	if method.ReturnType.Equal(types.Void) {
		lf.recordOperation(i, inv)
		return nil
	}
	// A non-void invoke is only an Operation if its result later goes
	// unused (e.g. at a consuming POP); record it as a plain Expression
	// here and let the discard site promote it.
	lf.recordExpr(i, inv)
	lf.pendingInvokes[inv] = i
	return lf.push(i, inv)
}

func (lf *Lifter) liftNewArray(i int, typeTag int8) error {
	count, err := lf.pop(i)
	if err != nil {
		return err
	}
	elem := primitiveArrayType(typeTag)
	n := lf.arena.NewAllocate(types.MakeArray(elem, 1), []ir.Expression{count})
	lf.recordExpr(i, n)
	return lf.push(i, n)
}

func (lf *Lifter) liftANewArray(i int, className string) error {
	count, err := lf.pop(i)
	if err != nil {
		return err
	}
	n := lf.arena.NewAllocate(types.MakeArray(types.Reference(className), 1), []ir.Expression{count})
	lf.recordExpr(i, n)
	return lf.push(i, n)
}

func (lf *Lifter) liftMultiANewArray(i int, dims instr.DimsOperand) error {
	allocType, err := types.ParseDescriptor(dims.ArrayClassName)
	if err != nil || !allocType.IsArray() {
		return liftfail.BadDescriptor(i, dims.ArrayClassName)
	}
	lengths := make([]ir.Expression, dims.Dimensions)
	for j := dims.Dimensions - 1; j >= 0; j-- {
		v, err := lf.pop(i)
		if err != nil {
			return err
		}
		lengths[j] = v
	}
	n := lf.arena.NewAllocate(allocType, lengths)
	lf.recordExpr(i, n)
	return lf.push(i, n)
}

func (lf *Lifter) liftCast(i int, className string) error {
	v, err := lf.pop(i)
	if err != nil {
		return err
	}
	n := lf.arena.NewCast(v, types.Reference(className))
	lf.recordExpr(i, n)
	return lf.push(i, n)
}

func (lf *Lifter) liftInstanceOf(i int, className string) error {
	v, err := lf.pop(i)
	if err != nil {
		return err
	}
	n := lf.arena.NewInstanceCheck(v, types.Reference(className))
	lf.recordExpr(i, n)
	return lf.push(i, n)
}

func (lf *Lifter) liftWide(i int, w instr.WideOperand) error {
	switch w.InnerOpcode {
	case instr.ILOAD, instr.LLOAD, instr.FLOAD, instr.DLOAD, instr.ALOAD:
		return lf.liftLoad(i, w.Slot)
	case instr.ISTORE, instr.LSTORE, instr.FSTORE, instr.DSTORE, instr.ASTORE:
		return lf.liftStore(i, w.Slot)
	case instr.IINC:
		return lf.liftIinc(i, w.Slot, w.Value)
	case instr.RET:
		lf.recordOperation(i, lf.arena.NewSubroutineReturn())
		return nil
	default:
		return liftfail.Unimplemented(i, "wide "+w.InnerOpcode.String())
	}
}

// primitiveArrayType maps newarray's atype tag (JVM Spec Table 6.5) to the
// element type.
func primitiveArrayType(tag int8) types.Type {
	switch tag {
	case 4:
		return types.Boolean
	case 5:
		return types.Char
	case 6:
		return types.Float
	case 7:
		return types.Double
	case 8:
		return types.Byte
	case 9:
		return types.Short
	case 10:
		return types.Int
	case 11:
		return types.Long
	default:
		return types.ObjectType
	}
}
