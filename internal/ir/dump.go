package ir

import (
	"fmt"
	"strings"

	"classlift/internal/instr"

	"github.com/kr/pretty"
	"github.com/kr/text"
)

// Dump renders a node as an indented tree for debug output and golden
// snapshot tests. It queries Type() only on Constant nodes and prints no
// type errors, so a node whose Type() fails (such as a ReturnAddress)
// still renders; Dump is a diagnostic tool, not a validity check.
func Dump(node interface{}) string {
	var sb strings.Builder
	dumpNode(&sb, node, 0)
	return sb.String()
}

func dumpNode(sb *strings.Builder, node interface{}, depth int) {
	switch n := node.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *Argument:
		fmt.Fprintf(sb, "Argument(%s, %s)", n.Name, n.DeclaredType)
	case *Constant:
		fmt.Fprintf(sb, "Constant(%s)", describeConstant(n))
	case *Phi:
		sb.WriteString("Phi(\n")
		for _, in := range n.Inputs {
			sb.WriteString(text.Indent("  ", dumpChild(in, depth+1)))
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *BinaryArithmetic:
		fmt.Fprintf(sb, "BinaryArithmetic(%s,\n", n.Op)
		writeChild(sb, n.LHS, depth)
		writeChild(sb, n.RHS, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *UnaryArithmetic:
		sb.WriteString("UnaryArithmetic(\n")
		writeChild(sb, n.Inner, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *Comparison:
		fmt.Fprintf(sb, "Comparison(%s,\n", n.Op)
		writeChild(sb, n.LHS, depth)
		writeChild(sb, n.RHS, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *LogicalNot:
		sb.WriteString("LogicalNot(\n")
		writeChild(sb, n.Inner, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *Cast:
		fmt.Fprintf(sb, "Cast(%s,\n", n.Target)
		writeChild(sb, n.Inner, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *InstanceCheck:
		fmt.Fprintf(sb, "InstanceCheck(%s,\n", n.Probe)
		writeChild(sb, n.Inner, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *FieldRead:
		fmt.Fprintf(sb, "FieldRead(%s,\n", n.Field)
		writeChild(sb, n.Receiver, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *ArrayLoad:
		sb.WriteString("ArrayLoad(\n")
		writeChild(sb, n.Array, depth)
		writeChild(sb, n.Index, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *ArrayLength:
		sb.WriteString("ArrayLength(\n")
		writeChild(sb, n.Array, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *Allocate:
		fmt.Fprintf(sb, "Allocate(%s,\n", n.AllocType)
		for _, d := range n.Dims {
			writeChild(sb, d, depth)
		}
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *Invoke:
		fmt.Fprintf(sb, "Invoke(%s, %s,\n", n.Kind, n.Method)
		if n.Receiver != nil {
			writeChild(sb, n.Receiver, depth)
		}
		for _, arg := range n.Arguments {
			writeChild(sb, arg, depth)
		}
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *ReturnAddress:
		fmt.Fprintf(sb, "ReturnAddress(%d)", n.TargetLabel)
	case *FieldWrite:
		fmt.Fprintf(sb, "FieldWrite(%s,\n", n.Field)
		writeChild(sb, n.Value, depth)
		writeChild(sb, n.Receiver, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *ArrayStore:
		sb.WriteString("ArrayStore(\n")
		writeChild(sb, n.Array, depth)
		writeChild(sb, n.Index, depth)
		writeChild(sb, n.Value, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *Return:
		if n.Value == nil {
			sb.WriteString("Return()")
		} else {
			sb.WriteString("Return(\n")
			writeChild(sb, n.Value, depth)
			sb.WriteString(strings.Repeat("  ", depth) + ")")
		}
	case *Throw:
		sb.WriteString("Throw(\n")
		writeChild(sb, n.Value, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *Branch:
		fmt.Fprintf(sb, "Branch(-> %d,\n", n.Destination)
		if n.Condition != nil {
			writeChild(sb, n.Condition, depth)
		}
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *SubroutineCall:
		fmt.Fprintf(sb, "SubroutineCall(-> %d)", n.Destination)
	case *SubroutineReturn:
		sb.WriteString("SubroutineReturn()")
	case *Switch:
		fmt.Fprintf(sb, "Switch(default -> %d, %d entries,\n", n.Default, len(n.Table))
		writeChild(sb, n.Selector, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *MonitorEnter:
		sb.WriteString("MonitorEnter(\n")
		writeChild(sb, n.Value, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	case *MonitorExit:
		sb.WriteString("MonitorExit(\n")
		writeChild(sb, n.Value, depth)
		sb.WriteString(strings.Repeat("  ", depth) + ")")
	default:
		// Fallback for anything not explicitly handled above: kr/pretty's
		// %# v gives a stable, deep rendering useful while a new node kind
		// is under development.
		fmt.Fprintf(sb, "%# v", pretty.Formatter(node))
	}
}

func writeChild(sb *strings.Builder, child Expression, depth int) {
	sb.WriteString(text.Indent("  ", dumpChild(child, depth+1)))
	sb.WriteString("\n")
}

func dumpChild(child interface{}, depth int) string {
	var sb strings.Builder
	dumpNode(&sb, child, depth)
	return sb.String()
}

func describeConstant(c *Constant) string {
	t, _ := c.Type()
	v := c.Value
	var rendered string
	switch v.Kind {
	case instr.ConstNull:
		rendered = "null"
	case instr.ConstInt:
		rendered = fmt.Sprintf("%d", v.IntValue)
	case instr.ConstLong:
		rendered = fmt.Sprintf("%d", v.LongValue)
	case instr.ConstFloat:
		rendered = fmt.Sprintf("%g", v.FloatValue)
	case instr.ConstDouble:
		rendered = fmt.Sprintf("%g", v.DoubleValue)
	case instr.ConstString:
		rendered = fmt.Sprintf("%q", v.StringValue)
	case instr.ConstClass:
		rendered = v.ClassName
	default:
		rendered = fmt.Sprintf("%# v", pretty.Formatter(v))
	}
	return fmt.Sprintf("%s: %s", rendered, t)
}
