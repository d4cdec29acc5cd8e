/*
constraint.go - Status-scoped uniqueness constraint descriptors

PURPOSE:
  Describes the per-key uniqueness guarantee as data: which table, which
  key columns, which statuses count as active, and which index names the
  engine owns. The sqlite store creates the constraint from a descriptor
  on a fresh database; the reconciler migrates existing databases toward
  the same descriptor.

WHY A DESCRIPTOR?
  The active-status set is configuration. When it changes, the expected
  index shape changes with it, and the reconciler detects the persisted
  index no longer matches the descriptor and reshapes it. No record rows
  are touched.

OWNERSHIP:
  The engine only ever drops indexes it recognizes by name (Index or
  LegacyIndex). A unique index over the same key columns under any other
  name is someone else's, and the reconciler halts instead of guessing.

SEE ALSO:
  - store/sqlite/sqlite.go: Creates constraints on migrate
  - reconcile/reconcile.go: Migrates legacy constraints
*/
package statutory

import (
	"fmt"
	"strings"
)

// =============================================================================
// CONSTRAINT - Expected shape of the per-key uniqueness guarantee
// =============================================================================

type Constraint struct {
	Table       string
	Index       string   // status-scoped unique index the engine maintains
	LegacyIndex string   // retired absolute-unique predecessor
	Columns     []string // key columns, in order
	Active      StatusSet
}

// CreateSQL returns the DDL for the status-scoped unique index.
func (c Constraint) CreateSQL() string {
	return fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s(%s) WHERE %s",
		c.Index, c.Table, strings.Join(c.Columns, ", "), c.Filter())
}

// LegacyCreateSQL returns the DDL of the retired absolute-unique form.
// Only used by tests and tooling that need to reproduce the legacy shape.
func (c Constraint) LegacyCreateSQL() string {
	return fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s(%s)",
		c.LegacyIndex, c.Table, strings.Join(c.Columns, ", "))
}

// Filter returns the status predicate of the partial index.
func (c Constraint) Filter() string {
	quoted := make([]string, len(c.Active))
	for i, s := range c.Active.Strings() {
		quoted[i] = "'" + s + "'"
	}
	return fmt.Sprintf("status IN (%s)", strings.Join(quoted, ", "))
}

// MatchesSQL reports whether stored index DDL has the expected shape,
// ignoring case and whitespace differences.
func (c Constraint) MatchesSQL(sql string) bool {
	return NormalizeSQL(sql) == NormalizeSQL(c.CreateSQL())
}

// NormalizeSQL lowercases and collapses whitespace for DDL comparison.
func NormalizeSQL(sql string) string {
	return strings.Join(strings.Fields(strings.ToLower(sql)), " ")
}
