/*
service.go - Bonus record lifecycle

PURPOSE:
  Drives a bonus record through PENDING -> APPROVED -> PAID and owns the
  submit discipline: one active record per (employee, financial year),
  recomputed in place on re-runs, never duplicated.

SUBMIT RETRY:
  The store signals a concurrent-submit race for the same key with
  ErrConstraintViolation. That is not fatal: the service re-reads and
  retries up to maxSubmitAttempts before surfacing the error.

PAID RECORDS:
  A paid record is closed. Re-submitting identical facts is a no-op
  (idempotent); re-submitting different facts is refused. Corrections go
  through Supersede, which demotes the record out of the active set and
  frees the key for a fresh submit.

SEE ALSO:
  - bonus.go: The pure formula
  - store.go: Persistence contract
*/
package bonus

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warp/payroll-engine/statutory"
)

const maxSubmitAttempts = 3

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	store    Store
	notifier statutory.PaymentNotifier
	now      func() time.Time
}

type Option func(*Service)

// WithNotifier wires the downstream payment consumer.
func WithNotifier(n statutory.PaymentNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: statutory.NopNotifier{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// SUBMIT - Create or recompute the active record for a key
// =============================================================================

// Submit computes bonus entitlement from facts and makes it the active
// record for (employee, financial year). Idempotent: identical facts
// leave the record unchanged apart from UpdatedAt.
func (s *Service) Submit(ctx context.Context, facts Facts) (*Record, error) {
	if facts.EmployeeID == "" {
		return nil, fmt.Errorf("submit bonus: employee id is required")
	}
	if !facts.FinancialYear.IsValid() {
		return nil, fmt.Errorf("submit bonus: malformed financial year %q", facts.FinancialYear)
	}
	if facts.BonusRate.IsZero() {
		facts.BonusRate = DefaultRate
	}

	comp, err := Compute(facts.BasicSalary, facts.MonthsWorked, facts.BonusRate)
	if err != nil {
		return nil, fmt.Errorf("submit bonus for %s/%s: %w", facts.EmployeeID, facts.FinancialYear, err)
	}

	var lastErr error
	for attempt := 0; attempt < maxSubmitAttempts; attempt++ {
		existing, err := s.store.FindActive(ctx, Key{EmployeeID: facts.EmployeeID, FinancialYear: facts.FinancialYear})
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Status == StatusPaid {
			if existing.SameFacts(facts) {
				return existing, nil
			}
			return nil, &statutory.TransitionError{RecordID: existing.ID, From: StatusPaid, To: StatusPending}
		}

		rec := s.buildRecord(facts, comp)
		saved, err := s.store.UpsertActive(ctx, rec)
		if err == nil {
			return saved, nil
		}
		if !statutory.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("submit bonus for %s/%s: %w", facts.EmployeeID, facts.FinancialYear, lastErr)
}

func (s *Service) buildRecord(facts Facts, comp Computation) *Record {
	now := s.now()
	return &Record{
		ID:              statutory.RecordID(uuid.NewString()),
		EmployeeID:      facts.EmployeeID,
		BranchID:        facts.BranchID,
		FinancialYear:   facts.FinancialYear,
		BasicSalary:     facts.BasicSalary,
		IsEligible:      comp.IsEligible,
		BonusRate:       facts.BonusRate,
		CalculationBase: comp.CalculationBase,
		MonthsWorked:    facts.MonthsWorked,
		BonusAmount:     comp.BonusAmount,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// =============================================================================
// LIFECYCLE TRANSITIONS
// =============================================================================

// Approve moves a PENDING record to APPROVED.
func (s *Service) Approve(ctx context.Context, id statutory.RecordID) (*Record, error) {
	return s.transition(ctx, id, StatusApproved, nil)
}

// MarkPaid moves an APPROVED record to PAID, stamping paidOn, and hands
// the payment to the downstream notifier.
func (s *Service) MarkPaid(ctx context.Context, id statutory.RecordID, paidOn time.Time) (*Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if paidOn.Before(rec.CreatedAt) {
		return nil, &statutory.PaidBeforeCreatedError{RecordID: id, PaidOn: paidOn, CreatedAt: rec.CreatedAt}
	}

	rec, err = s.transition(ctx, id, StatusPaid, &paidOn)
	if err != nil {
		return nil, err
	}
	s.notifier.RecordPaid(ctx, statutory.PaymentNotice{
		RecordID:   rec.ID,
		EmployeeID: rec.EmployeeID,
		Kind:       "bonus",
		Amount:     rec.BonusAmount,
		PaidOn:     paidOn,
	})
	return rec, nil
}

// Supersede demotes a record to the terminal SUPERSEDED status,
// preserving it as history and freeing the key for a corrected re-run.
// Administrative: bypasses the forward-only lifecycle table.
func (s *Service) Supersede(ctx context.Context, id statutory.RecordID) (*Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == statutory.StatusSuperseded {
		return rec, nil
	}
	if err := s.store.Transition(ctx, id, rec.Status, statutory.StatusSuperseded, nil); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) transition(ctx context.Context, id statutory.RecordID, to statutory.Status, paidOn *time.Time) (*Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Lifecycle.Allowed(rec.Status, to) {
		return nil, &statutory.TransitionError{RecordID: id, From: rec.Status, To: to}
	}
	if err := s.store.Transition(ctx, id, rec.Status, to, paidOn); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// ListByEmployee returns the employee's audit trail, history included.
func (s *Service) ListByEmployee(ctx context.Context, employeeID statutory.EmployeeID) ([]Record, error) {
	return s.store.ListByEmployee(ctx, employeeID)
}

// Get returns a record by ID.
func (s *Service) Get(ctx context.Context, id statutory.RecordID) (*Record, error) {
	return s.store.Get(ctx, id)
}
