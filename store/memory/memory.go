// Package memory provides an in-memory implementation of the record
// stores, for tests and development. It enforces the same
// active-uniqueness invariant the sqlite store gets from its partial
// unique indexes.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/bonus"
	"github.com/warp/payroll-engine/gratuity"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Store struct {
	mu             sync.Mutex
	bonusRecords   map[statutory.RecordID]*bonus.Record
	gratRecords    map[statutory.RecordID]*gratuity.Record
	bonusActive    statutory.StatusSet
	gratuityActive statutory.StatusSet
}

func New() *Store {
	return &Store{
		bonusRecords:   make(map[statutory.RecordID]*bonus.Record),
		gratRecords:    make(map[statutory.RecordID]*gratuity.Record),
		bonusActive:    bonus.ActiveStatuses,
		gratuityActive: gratuity.ActiveStatuses,
	}
}

func (s *Store) Bonus() bonus.Store       { return &bonusStore{s} }
func (s *Store) Gratuity() gratuity.Store { return &gratuityStore{s} }

// =============================================================================
// BONUS VIEW
// =============================================================================

type bonusStore struct{ s *Store }

func (b *bonusStore) UpsertActive(_ context.Context, rec *bonus.Record) (*bonus.Record, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	existing := b.activeLocked(rec.Key())
	if existing == nil {
		clone := *rec
		b.s.bonusRecords[rec.ID] = &clone
		out := clone
		return &out, nil
	}
	existing.BranchID = rec.BranchID
	existing.BasicSalary = rec.BasicSalary
	existing.IsEligible = rec.IsEligible
	existing.BonusRate = rec.BonusRate
	existing.CalculationBase = rec.CalculationBase
	existing.MonthsWorked = rec.MonthsWorked
	existing.BonusAmount = rec.BonusAmount
	existing.UpdatedAt = rec.UpdatedAt
	out := *existing
	return &out, nil
}

func (b *bonusStore) activeLocked(key bonus.Key) *bonus.Record {
	for _, rec := range b.s.bonusRecords {
		if rec.Key() == key && b.s.bonusActive.Contains(rec.Status) {
			return rec
		}
	}
	return nil
}

func (b *bonusStore) FindActive(_ context.Context, key bonus.Key) (*bonus.Record, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if rec := b.activeLocked(key); rec != nil {
		out := *rec
		return &out, nil
	}
	return nil, nil
}

func (b *bonusStore) Get(_ context.Context, id statutory.RecordID) (*bonus.Record, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	rec, ok := b.s.bonusRecords[id]
	if !ok {
		return nil, statutory.ErrRecordNotFound
	}
	out := *rec
	return &out, nil
}

func (b *bonusStore) ListByEmployee(_ context.Context, employeeID statutory.EmployeeID) ([]bonus.Record, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	var records []bonus.Record
	for _, rec := range b.s.bonusRecords {
		if rec.EmployeeID == employeeID {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (b *bonusStore) Transition(_ context.Context, id statutory.RecordID, from, to statutory.Status, paidOn *time.Time) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	rec, ok := b.s.bonusRecords[id]
	if !ok {
		return statutory.ErrRecordNotFound
	}
	if rec.Status != from {
		return &statutory.TransitionError{RecordID: id, From: rec.Status, To: to}
	}
	rec.Status = to
	if paidOn != nil {
		t := *paidOn
		rec.PaidOn = &t
	}
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

func (b *bonusStore) ConstraintActive(context.Context) (bool, error) { return true, nil }

// =============================================================================
// GRATUITY VIEW
// =============================================================================

type gratuityStore struct{ s *Store }

func (g *gratuityStore) UpsertActive(_ context.Context, rec *gratuity.Record) (*gratuity.Record, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()

	existing := g.activeLocked(rec.EmployeeID)
	if existing == nil {
		clone := *rec
		g.s.gratRecords[rec.ID] = &clone
		out := clone
		return &out, nil
	}
	existing.DateOfJoining = rec.DateOfJoining
	existing.DateOfExit = rec.DateOfExit
	existing.YearsOfService = rec.YearsOfService
	existing.IsEligible = rec.IsEligible
	existing.LastDrawnBasicPlusDa = rec.LastDrawnBasicPlusDa
	existing.GratuityAmount = rec.GratuityAmount
	existing.CappedAmount = rec.CappedAmount
	existing.Remarks = rec.Remarks
	existing.UpdatedAt = rec.UpdatedAt
	out := *existing
	return &out, nil
}

func (g *gratuityStore) activeLocked(employeeID statutory.EmployeeID) *gratuity.Record {
	for _, rec := range g.s.gratRecords {
		if rec.EmployeeID == employeeID && g.s.gratuityActive.Contains(rec.Status) {
			return rec
		}
	}
	return nil
}

func (g *gratuityStore) FindActive(_ context.Context, employeeID statutory.EmployeeID) (*gratuity.Record, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if rec := g.activeLocked(employeeID); rec != nil {
		out := *rec
		return &out, nil
	}
	return nil, nil
}

func (g *gratuityStore) Get(_ context.Context, id statutory.RecordID) (*gratuity.Record, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	rec, ok := g.s.gratRecords[id]
	if !ok {
		return nil, statutory.ErrRecordNotFound
	}
	out := *rec
	return &out, nil
}

func (g *gratuityStore) ListByEmployee(_ context.Context, employeeID statutory.EmployeeID) ([]gratuity.Record, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	var records []gratuity.Record
	for _, rec := range g.s.gratRecords {
		if rec.EmployeeID == employeeID {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (g *gratuityStore) Transition(_ context.Context, id statutory.RecordID, from, to statutory.Status, paidOn *time.Time) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	rec, ok := g.s.gratRecords[id]
	if !ok {
		return statutory.ErrRecordNotFound
	}
	if rec.Status != from {
		return &statutory.TransitionError{RecordID: id, From: rec.Status, To: to}
	}
	rec.Status = to
	if paidOn != nil {
		t := *paidOn
		rec.PaidOn = &t
	}
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

func (g *gratuityStore) ConstraintActive(context.Context) (bool, error) { return true, nil }
