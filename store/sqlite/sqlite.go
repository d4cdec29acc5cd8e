/*
Package sqlite provides the SQLite-backed implementation of the record
stores.

PURPOSE:
  Implements bonus.Store and gratuity.Store using SQLite. In production
  the same patterns apply to PostgreSQL - partial unique indexes and the
  transactional upsert translate directly.

KEY TABLES:
  bonus_records:    One row per bonus computation, history retained
  gratuity_records: One row per gratuity computation, history retained

THE CONSTRAINT:
  Each table carries a status-scoped partial unique index over its key
  columns, filtered to the configured active statuses:

    CREATE UNIQUE INDEX idx_bonus_active_unique
      ON bonus_records(employee_id, financial_year)
      WHERE status IN ('PENDING', 'APPROVED', 'PAID')

  This is the mechanism that guarantees exactly one active row per key
  under concurrent submits. Superseded rows fall outside the filter and
  coexist as audit history. Index shape is derived from the configured
  StatusSet; databases created before the filter existed are migrated by
  the reconcile package.

UPSERT DISCIPLINE:
  UpsertActive runs select-then-insert-or-update inside one database
  transaction. If two calls race past the select, the partial unique
  index rejects the second insert and the error is mapped to
  statutory.ErrConstraintViolation for the caller to retry.

CONCURRENCY:
  Uses sync.Mutex around writes, as SQLite allows a single writer. With
  PostgreSQL, database-level concurrency control takes over.

WAL MODE:
  Opened with WAL so readers don't block behind the writer.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  bonusSvc := bonus.NewService(store.Bonus())

SEE ALSO:
  - statutory/constraint.go: Constraint descriptors
  - reconcile/reconcile.go: Legacy constraint migration
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/bonus"
	"github.com/warp/payroll-engine/gratuity"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// CONSTRAINT DESCRIPTORS
// =============================================================================

// BonusConstraint describes the expected uniqueness constraint on
// bonus_records for the given active-status set.
func BonusConstraint(active statutory.StatusSet) statutory.Constraint {
	return statutory.Constraint{
		Table:       "bonus_records",
		Index:       "idx_bonus_active_unique",
		LegacyIndex: "idx_bonus_employee_period",
		Columns:     []string{"employee_id", "financial_year"},
		Active:      active,
	}
}

// GratuityConstraint describes the expected uniqueness constraint on
// gratuity_records for the given active-status set.
func GratuityConstraint(active statutory.StatusSet) statutory.Constraint {
	return statutory.Constraint{
		Table:       "gratuity_records",
		Index:       "idx_gratuity_active_unique",
		LegacyIndex: "idx_gratuity_employee",
		Columns:     []string{"employee_id"},
		Active:      active,
	}
}

// Config carries the per-entity active-status sets. They are
// configuration, not schema: changing a set and re-running the
// reconciler reshapes the index without touching record rows.
type Config struct {
	BonusActive    statutory.StatusSet
	GratuityActive statutory.StatusSet
}

func DefaultConfig() Config {
	return Config{
		BonusActive:    bonus.ActiveStatuses,
		GratuityActive: gratuity.ActiveStatuses,
	}
}

// =============================================================================
// STORE
// =============================================================================

type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	cfg Config
}

// New opens (or creates) the database at dbPath with the default
// active-status configuration. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	return NewWithConfig(dbPath, DefaultConfig())
}

func NewWithConfig(dbPath string, cfg Config) (*Store, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, cfg: cfg}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Open returns a raw connection with the engine's pragmas, for callers
// that operate below the store (the reconcile CLI).
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single pooled connection: SQLite allows one writer, and :memory:
	// databases are per-connection.
	db.SetMaxOpenConns(1)
	return db, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for maintenance tooling.
func (s *Store) DB() *sql.DB { return s.db }

// Bonus returns the bonus.Store view.
func (s *Store) Bonus() bonus.Store { return &bonusStore{s} }

// Gratuity returns the gratuity.Store view.
func (s *Store) Gratuity() gratuity.Store { return &gratuityStore{s} }

// Constraints returns the store's expected constraint descriptors.
func (s *Store) Constraints() []statutory.Constraint {
	return []statutory.Constraint{
		BonusConstraint(s.cfg.BonusActive),
		GratuityConstraint(s.cfg.GratuityActive),
	}
}

// migrate creates the schema. Fresh databases get the status-scoped
// constraint directly; pre-existing databases keep whatever constraint
// they have until the reconciler runs.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bonus_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		branch_id TEXT,
		financial_year TEXT NOT NULL,
		basic_salary TEXT NOT NULL,
		is_eligible BOOLEAN NOT NULL,
		bonus_rate TEXT NOT NULL,
		calculation_base TEXT NOT NULL,
		months_worked INTEGER NOT NULL,
		bonus_amount TEXT NOT NULL,
		status TEXT NOT NULL,
		paid_on TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bonus_employee
		ON bonus_records(employee_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_bonus_status
		ON bonus_records(status);

	CREATE TABLE IF NOT EXISTS gratuity_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date_of_joining TEXT NOT NULL,
		date_of_exit TEXT,
		years_of_service TEXT NOT NULL,
		is_eligible BOOLEAN NOT NULL,
		last_drawn_basic_plus_da TEXT NOT NULL,
		gratuity_amount TEXT NOT NULL,
		capped_amount TEXT NOT NULL,
		status TEXT NOT NULL,
		paid_on TEXT,
		remarks TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_gratuity_employee_history
		ON gratuity_records(employee_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_gratuity_status
		ON gratuity_records(status);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	for _, c := range s.Constraints() {
		if err := ensureIndex(s.db, c); err != nil {
			return err
		}
	}
	return nil
}

// ensureIndex creates the status-scoped unique index if no index of that
// name exists yet. It never drops anything; reshaping a wrong index is
// the reconciler's job.
func ensureIndex(db *sql.DB, c statutory.Constraint) error {
	var existing string
	err := db.QueryRow(
		"SELECT COALESCE(sql, '') FROM sqlite_master WHERE type = 'index' AND name = ?",
		c.Index,
	).Scan(&existing)
	if err == sql.ErrNoRows {
		_, err := db.Exec(c.CreateSQL())
		return err
	}
	return err
}

// =============================================================================
// BONUS STORE VIEW
// =============================================================================

type bonusStore struct{ s *Store }

const bonusColumns = `id, employee_id, branch_id, financial_year, basic_salary, is_eligible,
	bonus_rate, calculation_base, months_worked, bonus_amount, status, paid_on, created_at, updated_at`

func (b *bonusStore) UpsertActive(ctx context.Context, rec *bonus.Record) (*bonus.Record, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	tx, err := b.s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := b.findActive(ctx, tx, rec.Key())
	if err != nil {
		return nil, err
	}

	var saved *bonus.Record
	if existing == nil {
		query := fmt.Sprintf("INSERT INTO bonus_records (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", bonusColumns)
		_, err = tx.ExecContext(ctx, query,
			rec.ID, rec.EmployeeID, nullString(string(rec.BranchID)), rec.FinancialYear,
			rec.BasicSalary.String(), rec.IsEligible, rec.BonusRate.String(),
			rec.CalculationBase.String(), rec.MonthsWorked, rec.BonusAmount.String(),
			rec.Status, nullTime(rec.PaidOn), formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return nil, statutory.ErrConstraintViolation
			}
			return nil, fmt.Errorf("failed to insert bonus record: %w", err)
		}
		saved = rec
	} else {
		// Recompute in place: facts and derived fields only. Status,
		// CreatedAt and PaidOn belong to the lifecycle, not the run.
		_, err = tx.ExecContext(ctx, `
			UPDATE bonus_records
			SET branch_id = ?, basic_salary = ?, is_eligible = ?, bonus_rate = ?,
			    calculation_base = ?, months_worked = ?, bonus_amount = ?, updated_at = ?
			WHERE id = ?`,
			nullString(string(rec.BranchID)), rec.BasicSalary.String(), rec.IsEligible,
			rec.BonusRate.String(), rec.CalculationBase.String(), rec.MonthsWorked,
			rec.BonusAmount.String(), formatTime(rec.UpdatedAt), existing.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update bonus record: %w", err)
		}
		updated := *existing
		updated.BranchID = rec.BranchID
		updated.BasicSalary = rec.BasicSalary
		updated.IsEligible = rec.IsEligible
		updated.BonusRate = rec.BonusRate
		updated.CalculationBase = rec.CalculationBase
		updated.MonthsWorked = rec.MonthsWorked
		updated.BonusAmount = rec.BonusAmount
		updated.UpdatedAt = rec.UpdatedAt
		saved = &updated
	}

	if err := tx.Commit(); err != nil {
		if isUniqueConstraintError(err) {
			return nil, statutory.ErrConstraintViolation
		}
		return nil, fmt.Errorf("failed to commit bonus upsert: %w", err)
	}
	return saved, nil
}

func (b *bonusStore) FindActive(ctx context.Context, key bonus.Key) (*bonus.Record, error) {
	return b.findActive(ctx, b.s.db, key)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (b *bonusStore) findActive(ctx context.Context, q querier, key bonus.Key) (*bonus.Record, error) {
	placeholders, args := statusArgs(b.s.cfg.BonusActive)
	query := fmt.Sprintf(`
		SELECT %s FROM bonus_records
		WHERE employee_id = ? AND financial_year = ? AND status IN (%s)`,
		bonusColumns, placeholders)
	row := q.QueryRowContext(ctx, query, append([]any{key.EmployeeID, key.FinancialYear}, args...)...)
	rec, err := scanBonus(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

func (b *bonusStore) Get(ctx context.Context, id statutory.RecordID) (*bonus.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM bonus_records WHERE id = ?", bonusColumns)
	rec, err := scanBonus(b.s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, statutory.ErrRecordNotFound
	}
	return rec, err
}

func (b *bonusStore) ListByEmployee(ctx context.Context, employeeID statutory.EmployeeID) ([]bonus.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bonus_records
		WHERE employee_id = ?
		ORDER BY created_at DESC, id`, bonusColumns)
	rows, err := b.s.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bonus records: %w", err)
	}
	defer rows.Close()

	var records []bonus.Record
	for rows.Next() {
		rec, err := scanBonus(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (b *bonusStore) Transition(ctx context.Context, id statutory.RecordID, from, to statutory.Status, paidOn *time.Time) error {
	return b.s.transition(ctx, "bonus_records", id, from, to, paidOn, func(ctx context.Context) (statutory.Status, error) {
		rec, err := b.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return rec.Status, nil
	})
}

func (b *bonusStore) ConstraintActive(ctx context.Context) (bool, error) {
	return b.s.constraintActive(ctx, BonusConstraint(b.s.cfg.BonusActive))
}

// =============================================================================
// GRATUITY STORE VIEW
// =============================================================================

type gratuityStore struct{ s *Store }

const gratuityColumns = `id, employee_id, date_of_joining, date_of_exit, years_of_service,
	is_eligible, last_drawn_basic_plus_da, gratuity_amount, capped_amount, status, paid_on,
	remarks, created_at, updated_at`

func (g *gratuityStore) UpsertActive(ctx context.Context, rec *gratuity.Record) (*gratuity.Record, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()

	tx, err := g.s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := g.findActive(ctx, tx, rec.EmployeeID)
	if err != nil {
		return nil, err
	}

	var saved *gratuity.Record
	if existing == nil {
		query := fmt.Sprintf("INSERT INTO gratuity_records (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", gratuityColumns)
		_, err = tx.ExecContext(ctx, query,
			rec.ID, rec.EmployeeID, formatTime(rec.DateOfJoining), nullTime(rec.DateOfExit),
			rec.YearsOfService.String(), rec.IsEligible, rec.LastDrawnBasicPlusDa.String(),
			rec.GratuityAmount.String(), rec.CappedAmount.String(), rec.Status,
			nullTime(rec.PaidOn), nullString(rec.Remarks), formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return nil, statutory.ErrConstraintViolation
			}
			return nil, fmt.Errorf("failed to insert gratuity record: %w", err)
		}
		saved = rec
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE gratuity_records
			SET date_of_joining = ?, date_of_exit = ?, years_of_service = ?, is_eligible = ?,
			    last_drawn_basic_plus_da = ?, gratuity_amount = ?, capped_amount = ?,
			    remarks = ?, updated_at = ?
			WHERE id = ?`,
			formatTime(rec.DateOfJoining), nullTime(rec.DateOfExit), rec.YearsOfService.String(),
			rec.IsEligible, rec.LastDrawnBasicPlusDa.String(), rec.GratuityAmount.String(),
			rec.CappedAmount.String(), nullString(rec.Remarks), formatTime(rec.UpdatedAt), existing.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update gratuity record: %w", err)
		}
		updated := *existing
		updated.DateOfJoining = rec.DateOfJoining
		updated.DateOfExit = rec.DateOfExit
		updated.YearsOfService = rec.YearsOfService
		updated.IsEligible = rec.IsEligible
		updated.LastDrawnBasicPlusDa = rec.LastDrawnBasicPlusDa
		updated.GratuityAmount = rec.GratuityAmount
		updated.CappedAmount = rec.CappedAmount
		updated.Remarks = rec.Remarks
		updated.UpdatedAt = rec.UpdatedAt
		saved = &updated
	}

	if err := tx.Commit(); err != nil {
		if isUniqueConstraintError(err) {
			return nil, statutory.ErrConstraintViolation
		}
		return nil, fmt.Errorf("failed to commit gratuity upsert: %w", err)
	}
	return saved, nil
}

func (g *gratuityStore) FindActive(ctx context.Context, employeeID statutory.EmployeeID) (*gratuity.Record, error) {
	return g.findActive(ctx, g.s.db, employeeID)
}

func (g *gratuityStore) findActive(ctx context.Context, q querier, employeeID statutory.EmployeeID) (*gratuity.Record, error) {
	placeholders, args := statusArgs(g.s.cfg.GratuityActive)
	query := fmt.Sprintf(`
		SELECT %s FROM gratuity_records
		WHERE employee_id = ? AND status IN (%s)`,
		gratuityColumns, placeholders)
	row := q.QueryRowContext(ctx, query, append([]any{employeeID}, args...)...)
	rec, err := scanGratuity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

func (g *gratuityStore) Get(ctx context.Context, id statutory.RecordID) (*gratuity.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM gratuity_records WHERE id = ?", gratuityColumns)
	rec, err := scanGratuity(g.s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, statutory.ErrRecordNotFound
	}
	return rec, err
}

func (g *gratuityStore) ListByEmployee(ctx context.Context, employeeID statutory.EmployeeID) ([]gratuity.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM gratuity_records
		WHERE employee_id = ?
		ORDER BY created_at DESC, id`, gratuityColumns)
	rows, err := g.s.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gratuity records: %w", err)
	}
	defer rows.Close()

	var records []gratuity.Record
	for rows.Next() {
		rec, err := scanGratuity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (g *gratuityStore) Transition(ctx context.Context, id statutory.RecordID, from, to statutory.Status, paidOn *time.Time) error {
	return g.s.transition(ctx, "gratuity_records", id, from, to, paidOn, func(ctx context.Context) (statutory.Status, error) {
		rec, err := g.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return rec.Status, nil
	})
}

func (g *gratuityStore) ConstraintActive(ctx context.Context) (bool, error) {
	return g.s.constraintActive(ctx, GratuityConstraint(g.s.cfg.GratuityActive))
}

// =============================================================================
// SHARED OPERATIONS
// =============================================================================

// transition is a compare-and-set on status. Zero rows affected means
// the record is gone or already moved on; currentStatus distinguishes.
func (s *Store) transition(ctx context.Context, table string, id statutory.RecordID, from, to statutory.Status, paidOn *time.Time, currentStatus func(context.Context) (statutory.Status, error)) error {
	s.mu.Lock()
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET status = ?, paid_on = COALESCE(?, paid_on), updated_at = ? WHERE id = ? AND status = ?", table),
		to, nullTime(paidOn), formatTime(time.Now().UTC()), id, from,
	)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to transition record %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		actual, err := currentStatus(ctx)
		if err != nil {
			return err
		}
		return &statutory.TransitionError{RecordID: id, From: actual, To: to}
	}
	return nil
}

func (s *Store) constraintActive(ctx context.Context, c statutory.Constraint) (bool, error) {
	var ddl string
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(sql, '') FROM sqlite_master WHERE type = 'index' AND name = ?", c.Index,
	).Scan(&ddl)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.MatchesSQL(ddl), nil
}

// =============================================================================
// SCANNING AND HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBonus(row rowScanner) (*bonus.Record, error) {
	var (
		rec                     bonus.Record
		branchID                sql.NullString
		basicSalary, bonusRate  string
		calculationBase, amount string
		paidOn                  sql.NullString
		createdAt, updatedAt    string
	)
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &branchID, &rec.FinancialYear, &basicSalary, &rec.IsEligible,
		&bonusRate, &calculationBase, &rec.MonthsWorked, &amount, &rec.Status, &paidOn,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.BranchID = statutory.BranchID(branchID.String)
	if rec.BasicSalary, err = statutory.RupeesFromString(basicSalary); err != nil {
		return nil, corruptRecord("bonus_records", rec.ID, err)
	}
	if rec.BonusRate, err = decimal.NewFromString(bonusRate); err != nil {
		return nil, corruptRecord("bonus_records", rec.ID, err)
	}
	if rec.CalculationBase, err = statutory.RupeesFromString(calculationBase); err != nil {
		return nil, corruptRecord("bonus_records", rec.ID, err)
	}
	if rec.BonusAmount, err = statutory.RupeesFromString(amount); err != nil {
		return nil, corruptRecord("bonus_records", rec.ID, err)
	}
	if rec.PaidOn, err = parseNullTime(paidOn); err != nil {
		return nil, corruptRecord("bonus_records", rec.ID, err)
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, corruptRecord("bonus_records", rec.ID, err)
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, corruptRecord("bonus_records", rec.ID, err)
	}
	return &rec, nil
}

func scanGratuity(row rowScanner) (*gratuity.Record, error) {
	var (
		rec                   gratuity.Record
		joining               string
		exit, paidOn, remarks sql.NullString
		years, lastDrawn      string
		amount, capped        string
		createdAt, updatedAt  string
	)
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &joining, &exit, &years, &rec.IsEligible, &lastDrawn,
		&amount, &capped, &rec.Status, &paidOn, &remarks, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rec.DateOfJoining, err = parseTime(joining); err != nil {
		return nil, corruptRecord("gratuity_records", rec.ID, err)
	}
	if rec.DateOfExit, err = parseNullTime(exit); err != nil {
		return nil, corruptRecord("gratuity_records", rec.ID, err)
	}
	if rec.YearsOfService, err = decimal.NewFromString(years); err != nil {
		return nil, corruptRecord("gratuity_records", rec.ID, err)
	}
	if rec.LastDrawnBasicPlusDa, err = statutory.RupeesFromString(lastDrawn); err != nil {
		return nil, corruptRecord("gratuity_records", rec.ID, err)
	}
	if rec.GratuityAmount, err = statutory.RupeesFromString(amount); err != nil {
		return nil, corruptRecord("gratuity_records", rec.ID, err)
	}
	if rec.CappedAmount, err = statutory.RupeesFromString(capped); err != nil {
		return nil, corruptRecord("gratuity_records", rec.ID, err)
	}
	if rec.PaidOn, err = parseNullTime(paidOn); err != nil {
		return nil, corruptRecord("gratuity_records", rec.ID, err)
	}
	rec.Remarks = remarks.String
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, corruptRecord("gratuity_records", rec.ID, err)
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, corruptRecord("gratuity_records", rec.ID, err)
	}
	return &rec, nil
}

func statusArgs(set statutory.StatusSet) (string, []any) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(set)), ", ")
	args := make([]any, len(set))
	for i, s := range set {
		args[i] = string(s)
	}
	return placeholders, args
}

// corruptRecord flags a stored value the scanner could not parse back.
// Coercing it to a zero value would let a damaged row round-trip as
// zero rupees with no signal.
func corruptRecord(table string, id statutory.RecordID, err error) error {
	return fmt.Errorf("corrupt record %s in %s: %w", id, table, err)
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
