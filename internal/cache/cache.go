// Package cache stores a compact per-method summary of the last successful
// lift in an embedded modernc.org/sqlite database, which a caller can look
// up by digest (Lookup) instead of re-running the abstract interpretation.
// The classlift CLI does not read entries back that way: "cache warm"
// always re-lifts and stores, and "cache stat" prints aggregates. It never
// stores IR nodes themselves — only counts and timing.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"classlift/internal/instr"
	"classlift/internal/lift"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS lift_summary (
	digest       TEXT PRIMARY KEY,
	owning_class TEXT NOT NULL,
	method_name  TEXT NOT NULL,
	descriptor   TEXT NOT NULL,
	op_count     INTEGER NOT NULL,
	expr_count   INTEGER NOT NULL,
	diag_count   INTEGER NOT NULL,
	duration_ns  INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);
`

// Summary is what a lift result is reduced to for caching purposes.
type Summary struct {
	OwningClass string
	MethodName  string
	Descriptor  string
	OpCount     int
	ExprCount   int
	DiagCount   int
	Duration    time.Duration
	UpdatedAt   time.Time
}

// Cache wraps a *sql.DB opened against a modernc.org/sqlite database file.
// A single Cache may be shared across goroutines; all access goes through
// database/sql's own connection pooling and locking.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: migrate schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Digest computes the cache key for a method: owning class, name,
// descriptor, and instruction stream, so that any change to the method
// body (including an operand, not just an opcode) invalidates the entry.
func Digest(m instr.Method, descriptor string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s.%s %s\n", m.OwningClass, m.Name, descriptor)
	var buf [8]byte
	v := m.Instructions
	for i := 0; i < v.Length(); i++ {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(v.Opcode(i)))
		h.Write(buf[0:4])
		fmt.Fprintf(h, "%+v\n", v.Operand(i))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the stored summary for digest, if any.
func (c *Cache) Lookup(digest string) (Summary, bool, error) {
	row := c.db.QueryRow(`SELECT owning_class, method_name, descriptor, op_count, expr_count, diag_count, duration_ns, updated_at
		FROM lift_summary WHERE digest = ?`, digest)

	var s Summary
	var updatedAtUnix int64
	var durationNs int64
	if err := row.Scan(&s.OwningClass, &s.MethodName, &s.Descriptor, &s.OpCount, &s.ExprCount, &s.DiagCount, &durationNs, &updatedAtUnix); err != nil {
		if err == sql.ErrNoRows {
			return Summary{}, false, nil
		}
		return Summary{}, false, fmt.Errorf("cache: lookup %s: %w", digest, err)
	}
	s.Duration = time.Duration(durationNs)
	s.UpdatedAt = time.Unix(updatedAtUnix, 0)
	return s, true, nil
}

// Store upserts the summary for digest.
func (c *Cache) Store(digest string, s Summary) error {
	_, err := c.db.Exec(`INSERT INTO lift_summary (digest, owning_class, method_name, descriptor, op_count, expr_count, diag_count, duration_ns, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(digest) DO UPDATE SET
			op_count = excluded.op_count,
			expr_count = excluded.expr_count,
			diag_count = excluded.diag_count,
			duration_ns = excluded.duration_ns,
			updated_at = excluded.updated_at`,
		digest, s.OwningClass, s.MethodName, s.Descriptor, s.OpCount, s.ExprCount, s.DiagCount, int64(s.Duration), s.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("cache: store %s: %w", digest, err)
	}
	return nil
}

// Summarize reduces a completed lift to the fields Store persists.
func Summarize(m instr.Method, descriptor string, lifted *lift.LiftedMethod, elapsed time.Duration, now time.Time) Summary {
	return Summary{
		OwningClass: m.OwningClass,
		MethodName:  m.Name,
		Descriptor:  descriptor,
		OpCount:     len(lifted.Operations),
		ExprCount:   len(lifted.Expressions),
		DiagCount:   len(lifted.Diagnostics),
		Duration:    elapsed,
		UpdatedAt:   now,
	}
}

// Stats is the handful of aggregate numbers the "cache stat" CLI
// subcommand renders, with sizes and ages humanized by dustin/go-humanize
// in the caller.
type Stats struct {
	Entries   int
	TotalOps  int64
	OldestAge time.Duration
	NewestAge time.Duration
}

// Stat computes aggregate statistics over the whole cache, relative to now.
func (c *Cache) Stat(now time.Time) (Stats, error) {
	row := c.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(op_count), 0), COALESCE(MIN(updated_at), 0), COALESCE(MAX(updated_at), 0) FROM lift_summary`)

	var entries int
	var totalOps int64
	var oldestUnix, newestUnix int64
	if err := row.Scan(&entries, &totalOps, &oldestUnix, &newestUnix); err != nil {
		return Stats{}, fmt.Errorf("cache: stat: %w", err)
	}
	if entries == 0 {
		return Stats{}, nil
	}
	return Stats{
		Entries:   entries,
		TotalOps:  totalOps,
		OldestAge: now.Sub(time.Unix(oldestUnix, 0)),
		NewestAge: now.Sub(time.Unix(newestUnix, 0)),
	}, nil
}
