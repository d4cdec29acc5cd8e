/*
service.go - Gratuity record lifecycle

PURPOSE:
  Drives the single per-employee gratuity record through
  ACCRUING -> ELIGIBLE -> PAID. The ELIGIBLE transition is taken by
  recomputation (an accrual run, or exit processing supplying a
  dateOfExit), never requested directly: eligibility is a derived fact,
  not an operator decision.

SUBMIT RETRY:
  Same discipline as bonus: ErrConstraintViolation from the store means
  a concurrent submit raced on the employee; re-read and retry, bounded.

SEE ALSO:
  - gratuity.go: The pure formula
  - bonus/service.go: The sibling lifecycle
*/
package gratuity

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
// SUBMIT - Create or recompute the employee's active record
// =============================================================================

// Submit computes gratuity entitlement from facts as of the exit date,
// or today for a still-employed accrual check, and makes it the
// employee's active record. A record sitting at ACCRUING moves to
// ELIGIBLE when the recomputation crosses the five-year mark.
func (s *Service) Submit(ctx context.Context, facts Facts) (*Record, error) {
	if facts.EmployeeID == "" {
		return nil, fmt.Errorf("submit gratuity: employee id is required")
	}
	if facts.DateOfJoining.IsZero() {
		return nil, fmt.Errorf("submit gratuity: date of joining is required")
	}

	reference := s.now()
	if facts.DateOfExit != nil {
		reference = *facts.DateOfExit
	}
	comp, err := Compute(facts.DateOfJoining, reference, facts.LastDrawnBasicPlusDa)
	if err != nil {
		return nil, fmt.Errorf("submit gratuity for %s: %w", facts.EmployeeID, err)
	}

	var lastErr error
	for attempt := 0; attempt < maxSubmitAttempts; attempt++ {
		existing, err := s.store.FindActive(ctx, facts.EmployeeID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Status == StatusPaid {
			if existing.SameFacts(facts) {
				return existing, nil
			}
			return nil, &statutory.TransitionError{RecordID: existing.ID, From: StatusPaid, To: StatusAccruing}
		}

		saved, err := s.store.UpsertActive(ctx, s.buildRecord(facts, comp))
		if err == nil {
			return s.gateEligible(ctx, saved)
		}
		if !statutory.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("submit gratuity for %s: %w", facts.EmployeeID, lastErr)
}

// gateEligible advances ACCRUING to ELIGIBLE once the derived
// eligibility flag is set.
func (s *Service) gateEligible(ctx context.Context, rec *Record) (*Record, error) {
	if !rec.IsEligible || rec.Status != StatusAccruing {
		return rec, nil
	}
	if err := s.store.Transition(ctx, rec.ID, StatusAccruing, StatusEligible, nil); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, rec.ID)
}

func (s *Service) buildRecord(facts Facts, comp Computation) *Record {
	now := s.now()
	return &Record{
		ID:                   statutory.RecordID(uuid.NewString()),
		EmployeeID:           facts.EmployeeID,
		DateOfJoining:        facts.DateOfJoining,
		DateOfExit:           facts.DateOfExit,
		YearsOfService:       comp.YearsOfService,
		IsEligible:           comp.IsEligible,
		LastDrawnBasicPlusDa: facts.LastDrawnBasicPlusDa,
		GratuityAmount:       comp.GratuityAmount,
		CappedAmount:         comp.CappedAmount,
		Status:               StatusAccruing,
		Remarks:              facts.Remarks,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// =============================================================================
// LIFECYCLE TRANSITIONS
// =============================================================================

// MarkPaid moves an ELIGIBLE record to PAID, stamping paidOn, and hands
// the payment (the capped amount) to the downstream notifier.
func (s *Service) MarkPaid(ctx context.Context, id statutory.RecordID, paidOn time.Time) (*Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if paidOn.Before(rec.CreatedAt) {
		return nil, &statutory.PaidBeforeCreatedError{RecordID: id, PaidOn: paidOn, CreatedAt: rec.CreatedAt}
	}
	if !Lifecycle.Allowed(rec.Status, StatusPaid) {
		return nil, &statutory.TransitionError{RecordID: id, From: rec.Status, To: StatusPaid}
	}
	if err := s.store.Transition(ctx, id, rec.Status, StatusPaid, &paidOn); err != nil {
		return nil, err
	}
	rec, err = s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.RecordPaid(ctx, statutory.PaymentNotice{
		RecordID:   rec.ID,
		EmployeeID: rec.EmployeeID,
		Kind:       "gratuity",
		Amount:     rec.CappedAmount,
		PaidOn:     paidOn,
	})
	return rec, nil
}

// Supersede demotes a record to the terminal SUPERSEDED status,
// preserving it as history and freeing the employee for a fresh spell.
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

// ListByEmployee returns the employee's audit trail, history included.
func (s *Service) ListByEmployee(ctx context.Context, employeeID statutory.EmployeeID) ([]Record, error) {
	return s.store.ListByEmployee(ctx, employeeID)
}

// Get returns a record by ID.
func (s *Service) Get(ctx context.Context, id statutory.RecordID) (*Record, error) {
	return s.store.Get(ctx, id)
}
