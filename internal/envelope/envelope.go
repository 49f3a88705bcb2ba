// Package envelope loads the method envelopes the core consumes (§6) from
// a YAML or JSON fixture document: one or more methods, each with its
// argument/return descriptor and a flat instruction list, parsed with
// goccy/go-yaml into plain Go structs and then converted into the
// instr.Method values internal/lift walks.
package envelope

// Document is the top-level fixture shape: a named set of methods, each
// independently convertible to an instr.Method.
type Document struct {
	Methods []Method `yaml:"methods" json:"methods"`
}

// Method mirrors instr.Method in source form: a class-file-style method
// descriptor ("(II)I") instead of separately typed argument/return fields,
// and a flat instruction list instead of a compiled View.
type Method struct {
	OwningClass  string        `yaml:"owning_class" json:"owning_class"`
	Name         string        `yaml:"name" json:"name"`
	Descriptor   string        `yaml:"descriptor" json:"descriptor"`
	IsStatic     bool          `yaml:"is_static" json:"is_static"`
	MaxLocals    int           `yaml:"max_locals" json:"max_locals"`
	MaxStack     int           `yaml:"max_stack" json:"max_stack"`
	Instructions []Instruction `yaml:"instructions" json:"instructions"`
}

// Instruction is one fixture instruction: a mnemonic plus whichever single
// operand field applies to that opcode. Exactly one of the pointer/non-zero
// fields is expected to be set per instruction; toOperand decides which.
type Instruction struct {
	Op        string        `yaml:"op" json:"op"`
	Local     *int          `yaml:"local,omitempty" json:"local,omitempty"`
	Byte      *int8         `yaml:"byte,omitempty" json:"byte,omitempty"`
	Short     *int16        `yaml:"short,omitempty" json:"short,omitempty"`
	Branch    *int          `yaml:"branch,omitempty" json:"branch,omitempty"`
	Const     *ConstLit     `yaml:"const,omitempty" json:"const,omitempty"`
	Field     *FieldLit     `yaml:"field,omitempty" json:"field,omitempty"`
	Method    *MethodLit    `yaml:"method,omitempty" json:"method,omitempty"`
	Class     string        `yaml:"class,omitempty" json:"class,omitempty"`
	Increment *IncrementLit `yaml:"increment,omitempty" json:"increment,omitempty"`
	Dims      *DimsLit      `yaml:"dims,omitempty" json:"dims,omitempty"`
	Wide      *WideLit      `yaml:"wide,omitempty" json:"wide,omitempty"`
	Switch    *SwitchLit    `yaml:"switch,omitempty" json:"switch,omitempty"`
}

// ConstLit is a fixture-form constant-pool value; Kind selects which typed
// field is meaningful, mirroring instr.ConstValue.
type ConstLit struct {
	Kind   string  `yaml:"kind" json:"kind"`
	Int    int32   `yaml:"int,omitempty" json:"int,omitempty"`
	Long   int64   `yaml:"long,omitempty" json:"long,omitempty"`
	Float  float32 `yaml:"float,omitempty" json:"float,omitempty"`
	Double float64 `yaml:"double,omitempty" json:"double,omitempty"`
	String string  `yaml:"string,omitempty" json:"string,omitempty"`
	Class  string  `yaml:"class,omitempty" json:"class,omitempty"`
}

// FieldLit is a fixture-form field reference; Type is a raw descriptor
// string ("I", "Ljava/lang/String;").
type FieldLit struct {
	Owner string `yaml:"owner" json:"owner"`
	Name  string `yaml:"name" json:"name"`
	Type  string `yaml:"type" json:"type"`
}

// MethodLit is a fixture-form method reference.
type MethodLit struct {
	Owner  string   `yaml:"owner" json:"owner"`
	Name   string   `yaml:"name" json:"name"`
	Args   []string `yaml:"args" json:"args"`
	Return string   `yaml:"return" json:"return"`
}

// IncrementLit is IINC's fixture-form operand.
type IncrementLit struct {
	Slot  int   `yaml:"slot" json:"slot"`
	Delta int32 `yaml:"delta" json:"delta"`
}

// DimsLit is MULTIANEWARRAY's fixture-form operand.
type DimsLit struct {
	Class string `yaml:"class" json:"class"`
	Dims  int    `yaml:"dims" json:"dims"`
}

// WideLit is WIDE's fixture-form operand: the mnemonic of the instruction
// being widened, its slot, and (WIDE IINC only) its delta.
type WideLit struct {
	Inner string `yaml:"inner" json:"inner"`
	Slot  int    `yaml:"slot" json:"slot"`
	Value int32  `yaml:"value" json:"value"`
}

// SwitchLit is TABLESWITCH/LOOKUPSWITCH's fixture-form operand.
type SwitchLit struct {
	Entries []SwitchEntryLit `yaml:"entries" json:"entries"`
	Default int              `yaml:"default" json:"default"`
}

// SwitchEntryLit is one (key, target) pair of a SwitchLit.
type SwitchEntryLit struct {
	Key    int32 `yaml:"key" json:"key"`
	Target int   `yaml:"target" json:"target"`
}
