package cache

import (
	"path/filepath"
	"testing"
	"time"

	"classlift/internal/instr"
	"classlift/internal/lift"
	"classlift/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lift.db")
	c, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func demoMethod() instr.Method {
	ops := []instr.Opcode{instr.ICONST_3, instr.IRETURN}
	operands := []instr.Operand{instr.NoOperand(), instr.NoOperand()}
	return instr.Method{
		OwningClass: "Demo",
		Name:        "three",
		ArgTypes:    nil,
		ReturnType:  types.Int,
		IsStatic:    true,
		MaxLocals:   0,
		MaxStack:    2,
		Instructions: instr.NewInstructions(ops, operands),
	}
}

func TestLookupMissesOnEmptyCache(t *testing.T) {
	c := openTestCache(t)
	m := demoMethod()
	digest := Digest(m, "()I")

	_, found, err := c.Lookup(digest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	c := openTestCache(t)
	m := demoMethod()
	digest := Digest(m, "()I")

	lifted, err := lift.Lift(m)
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	summary := Summarize(m, "()I", lifted, 5*time.Millisecond, now)
	require.NoError(t, c.Store(digest, summary))

	got, found, err := c.Lookup(digest)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Demo", got.OwningClass)
	assert.Equal(t, "three", got.MethodName)
	assert.Equal(t, 1, got.OpCount)
	assert.Equal(t, 5*time.Millisecond, got.Duration)
}

func TestDigestChangesWithInstructionStream(t *testing.T) {
	m := demoMethod()
	d1 := Digest(m, "()I")

	m2 := m
	m2.Instructions = instr.NewInstructions(
		[]instr.Opcode{instr.ICONST_4, instr.IRETURN},
		[]instr.Operand{instr.NoOperand(), instr.NoOperand()},
	)
	d2 := Digest(m2, "()I")

	assert.NotEqual(t, d1, d2)
}

func TestStatReflectsStoredEntries(t *testing.T) {
	c := openTestCache(t)
	m := demoMethod()
	digest := Digest(m, "()I")

	now := time.Unix(1700000000, 0)

	real, err := lift.Lift(m)
	require.NoError(t, err)
	require.NoError(t, c.Store(digest, Summarize(m, "()I", real, time.Millisecond, now)))

	stats, err := c.Stat(now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, time.Hour, stats.OldestAge)
}
