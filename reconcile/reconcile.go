/*
Package reconcile migrates record-store uniqueness constraints into their
status-scoped shape.

PURPOSE:
  Early deployments enforced "one record ever per key" with an absolute
  unique index. That collides with the record lifecycle: a superseded
  computation must coexist with its replacement. This package repairs a
  database in place, moving each table from the legacy absolute index to
  the status-scoped partial index described by a statutory.Constraint,
  without touching record rows.

ALGORITHM (per constraint):
  1. If the legacy absolute-unique index exists, drop it.
  2. If the target status-scoped index exists and matches the expected
     shape, leave it alone.
  3. If the target exists but is mismatched (e.g. the configured active
     set changed), drop it.
  4. Create the target if it is now missing.

SAFETY:
  - Idempotent: a second consecutive run performs zero drop/create.
  - All changes for one constraint happen in one transaction; a failure
    rolls back to the pre-run state.
  - Any unique index over the same key columns under a name the engine
    does not own halts the run with ErrReconciliationMismatch before any
    change. Somebody else's constraint is never guessed at or dropped.

OPERABILITY:
  Run administratively (cmd/reconcile), not on the request path, and not
  concurrently with itself. The Report carries the before/after index
  listing for the operator.

SEE ALSO:
  - statutory/constraint.go: The expected-shape descriptor
  - store/sqlite: Creates the target shape directly on fresh databases
*/
package reconcile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// REPORT
// =============================================================================

// IndexInfo is one unique index as found in the database.
type IndexInfo struct {
	Name string
	SQL  string
}

// Report describes what one constraint reconciliation did.
type Report struct {
	Table   string
	Before  []IndexInfo
	After   []IndexInfo
	Dropped []string
	Created []string
}

// Changed reports whether the run performed any drop/create.
func (r Report) Changed() bool { return len(r.Dropped) > 0 || len(r.Created) > 0 }

// =============================================================================
// RECONCILER
// =============================================================================

type Reconciler struct {
	db          *sql.DB
	constraints []statutory.Constraint
}

func New(db *sql.DB, constraints ...statutory.Constraint) *Reconciler {
	return &Reconciler{db: db, constraints: constraints}
}

// Run reconciles every configured constraint, in order. It stops at the
// first failure; constraints already reconciled stay reconciled, the
// failed one is rolled back.
func (r *Reconciler) Run(ctx context.Context) ([]Report, error) {
	reports := make([]Report, 0, len(r.constraints))
	for _, c := range r.constraints {
		report, err := r.reconcile(ctx, c)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (r *Reconciler) reconcile(ctx context.Context, c statutory.Constraint) (Report, error) {
	report := Report{Table: c.Table}

	before, err := uniqueIndexes(ctx, r.db, c.Table)
	if err != nil {
		return report, err
	}
	report.Before = before

	var legacy, target *IndexInfo
	for i := range before {
		idx := before[i]
		if !sameColumns(indexColumns(idx.SQL), c.Columns) {
			continue // a constraint over other columns is not ours to judge
		}
		switch {
		case idx.Name == c.Index:
			target = &before[i]
		case idx.Name == c.LegacyIndex && !hasFilter(idx.SQL):
			legacy = &before[i]
		default:
			return report, &statutory.ConstraintMismatch{Table: c.Table, Name: idx.Name, SQL: idx.SQL}
		}
	}

	var drops, creates []string
	if legacy != nil {
		drops = append(drops, legacy.Name)
	}
	switch {
	case target == nil:
		creates = append(creates, c.Index)
	case !c.MatchesSQL(target.SQL):
		drops = append(drops, target.Name)
		creates = append(creates, c.Index)
	}

	if len(drops) > 0 || len(creates) > 0 {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return report, fmt.Errorf("failed to begin reconciliation: %w", err)
		}
		defer tx.Rollback()

		for _, name := range drops {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP INDEX %s", name)); err != nil {
				return report, fmt.Errorf("failed to drop index %s: %w", name, err)
			}
		}
		for range creates {
			if _, err := tx.ExecContext(ctx, c.CreateSQL()); err != nil {
				return report, fmt.Errorf("failed to create index %s: %w", c.Index, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return report, fmt.Errorf("failed to commit reconciliation: %w", err)
		}
		report.Dropped = drops
		report.Created = creates
	}

	after, err := uniqueIndexes(ctx, r.db, c.Table)
	if err != nil {
		return report, err
	}
	report.After = after
	return report, nil
}

// =============================================================================
// INDEX INSPECTION
// =============================================================================

// uniqueIndexes lists the unique indexes on table, with their DDL.
// Auto-indexes (PRIMARY KEY backing) carry no DDL and are skipped.
func uniqueIndexes(ctx context.Context, db *sql.DB, table string) ([]IndexInfo, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT name, COALESCE(sql, '') FROM sqlite_master WHERE type = 'index' AND tbl_name = ? ORDER BY name",
		table,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes on %s: %w", table, err)
	}
	defer rows.Close()

	var indexes []IndexInfo
	for rows.Next() {
		var idx IndexInfo
		if err := rows.Scan(&idx.Name, &idx.SQL); err != nil {
			return nil, err
		}
		if strings.HasPrefix(statutory.NormalizeSQL(idx.SQL), "create unique index") {
			indexes = append(indexes, idx)
		}
	}
	return indexes, rows.Err()
}

// indexColumns extracts the indexed column list from index DDL.
func indexColumns(ddl string) []string {
	normalized := statutory.NormalizeSQL(ddl)
	start := strings.Index(normalized, "(")
	end := strings.Index(normalized, ")")
	if start < 0 || end < start {
		return nil
	}
	parts := strings.Split(normalized[start+1:end], ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, strings.TrimSpace(p))
	}
	return cols
}

func hasFilter(ddl string) bool {
	return strings.Contains(statutory.NormalizeSQL(ddl), " where ")
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != strings.ToLower(b[i]) {
			return false
		}
	}
	return true
}
