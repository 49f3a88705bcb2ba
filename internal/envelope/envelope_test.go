package envelope

import (
	"testing"

	"classlift/internal/instr"
	"classlift/internal/ir"
	"classlift/internal/lift"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
methods:
  - owning_class: Demo
    name: add
    descriptor: "(II)I"
    is_static: false
    max_locals: 3
    max_stack: 2
    instructions:
      - op: iload_1
      - op: iload_2
      - op: iadd
      - op: ireturn
`

func TestLoadParsesFixtureDocument(t *testing.T) {
	doc, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)
	require.Len(t, doc.Methods, 1)

	m, ok := doc.Find("Demo", "add")
	require.True(t, ok)
	assert.Equal(t, "(II)I", m.Descriptor)
	assert.Len(t, m.Instructions, 4)
}

func TestToInstrMethodRoundTripsThroughLift(t *testing.T) {
	doc, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)
	m, ok := doc.Find("Demo", "add")
	require.True(t, ok)

	im, err := m.ToInstrMethod()
	require.NoError(t, err)
	assert.Equal(t, 4, im.Instructions.Length())
	assert.Equal(t, instr.ILOAD_1, im.Instructions.Opcode(0))

	lifted, err := lift.Lift(im)
	require.NoError(t, err)
	require.Len(t, lifted.Operations, 1)

	ret := lifted.Operations[0].Op.(*ir.Return)
	add, ok := ret.Value.(*ir.BinaryArithmetic)
	require.True(t, ok)
	assert.Equal(t, ir.Add, add.Op)
}

func TestToInstrMethodRejectsUnknownOpcode(t *testing.T) {
	doc, err := Load([]byte(`
methods:
  - owning_class: Demo
    name: bogus
    descriptor: "()V"
    is_static: true
    max_locals: 0
    max_stack: 0
    instructions:
      - op: not_a_real_opcode
`))
	require.NoError(t, err)
	m, ok := doc.Find("Demo", "bogus")
	require.True(t, ok)

	_, err = m.ToInstrMethod()
	assert.Error(t, err)
}

func TestToInstrMethodRejectsMalformedDescriptor(t *testing.T) {
	doc, err := Load([]byte(`
methods:
  - owning_class: Demo
    name: bad
    descriptor: "(Q)V"
    is_static: true
    max_locals: 0
    max_stack: 0
    instructions:
      - op: return
`))
	require.NoError(t, err)
	m, ok := doc.Find("Demo", "bad")
	require.True(t, ok)

	_, err = m.ToInstrMethod()
	assert.Error(t, err)
}

func TestInspectAndPatchOperateOnFixtureJSON(t *testing.T) {
	doc, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)

	blob, err := doc.JSON()
	require.NoError(t, err)

	assert.Equal(t, "add", Inspect(blob, "methods.0.name"))

	patched := Patch(blob, "methods.0.name", "sum")
	assert.Equal(t, "sum", Inspect(patched, "methods.0.name"))

	pretty, err := PrettyJSON(doc)
	require.NoError(t, err)
	assert.Contains(t, pretty, "\"add\"")
}

func TestFieldAndMethodOperandsConvert(t *testing.T) {
	doc, err := Load([]byte(`
methods:
  - owning_class: Demo
    name: touch
    descriptor: "()V"
    is_static: true
    max_locals: 0
    max_stack: 2
    instructions:
      - op: getstatic
        field:
          owner: Demo
          name: f
          type: "I"
      - op: invokestatic
        method:
          owner: Demo
          name: helper
          args: ["I"]
          return: "V"
      - op: return
`))
	require.NoError(t, err)
	m, ok := doc.Find("Demo", "touch")
	require.True(t, ok)

	im, err := m.ToInstrMethod()
	require.NoError(t, err)

	fieldOperand := im.Instructions.Operand(0)
	assert.Equal(t, "f", fieldOperand.Field.Name)

	methodOperand := im.Instructions.Operand(1)
	assert.Equal(t, "helper", methodOperand.Method.Name)
	require.Len(t, methodOperand.Method.ArgTypes, 1)
}
