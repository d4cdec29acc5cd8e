package gratuity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/gratuity"
	"github.com/warp/payroll-engine/statutory"
	"github.com/warp/payroll-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// fixedClock pins "today" so accrual checks are reproducible.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(today time.Time) *gratuity.Service {
	return gratuity.NewService(memory.New().Gratuity(), gratuity.WithClock(fixedClock(today)))
}

func accrualFacts(employeeID string, joined time.Time) gratuity.Facts {
	return gratuity.Facts{
		EmployeeID:           statutory.EmployeeID(employeeID),
		DateOfJoining:        joined,
		LastDrawnBasicPlusDa: statutory.RupeesFromInt(30000),
	}
}

// =============================================================================
// SUBMIT AND ELIGIBILITY GATING
// =============================================================================

func TestSubmit_ShortTenure_Accruing(t *testing.T) {
	svc := newTestService(date(2024, time.January, 1))
	ctx := context.Background()

	rec, err := svc.Submit(ctx, accrualFacts("emp-1", date(2021, time.March, 1)))
	require.NoError(t, err)

	assert.Equal(t, gratuity.StatusAccruing, rec.Status)
	assert.False(t, rec.IsEligible)
	assert.True(t, rec.GratuityAmount.IsZero())
}

func TestSubmit_RecomputeGatesEligible(t *testing.T) {
	// GIVEN: an accruing record for an employee at 4.5 years
	// WHEN: a later accrual run recomputes past the five-year mark
	// THEN: the same record moves to ELIGIBLE with a non-zero amount

	joined := date(2019, time.June, 1)
	store := memory.New().Gratuity()
	ctx := context.Background()

	before := gratuity.NewService(store, gratuity.WithClock(fixedClock(date(2024, time.January, 1))))
	rec, err := before.Submit(ctx, accrualFacts("emp-1", joined))
	require.NoError(t, err)
	require.Equal(t, gratuity.StatusAccruing, rec.Status)

	after := gratuity.NewService(store, gratuity.WithClock(fixedClock(date(2024, time.July, 1))))
	rec2, err := after.Submit(ctx, accrualFacts("emp-1", joined))
	require.NoError(t, err)

	assert.Equal(t, rec.ID, rec2.ID, "recompute must update in place")
	assert.Equal(t, gratuity.StatusEligible, rec2.Status)
	assert.True(t, rec2.IsEligible)
	assert.False(t, rec2.GratuityAmount.IsZero())
}

func TestSubmit_ExitDate_DrivesComputation(t *testing.T) {
	// Exit processing supplies dateOfExit; the reference date is the exit,
	// not today.
	exit := date(2024, time.January, 1)
	svc := newTestService(date(2030, time.January, 1))
	ctx := context.Background()

	f := accrualFacts("emp-1", date(2018, time.January, 1))
	f.DateOfExit = &exit

	rec, err := svc.Submit(ctx, f)
	require.NoError(t, err)

	assert.Equal(t, gratuity.StatusEligible, rec.Status)
	assert.True(t, rec.GratuityAmount.Equal(statutory.RupeesFromFloat(103846.15)),
		"expected 103846.15 as of exit, got %s", rec.GratuityAmount)
}

func TestSubmit_Twice_SameFacts_OneRecord(t *testing.T) {
	svc := newTestService(date(2024, time.January, 1))
	ctx := context.Background()

	f := accrualFacts("emp-1", date(2018, time.January, 1))
	first, err := svc.Submit(ctx, f)
	require.NoError(t, err)
	second, err := svc.Submit(ctx, f)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	records, err := svc.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSubmit_InvalidDateRange_Rejected(t *testing.T) {
	exit := date(2017, time.January, 1)
	svc := newTestService(date(2024, time.January, 1))

	f := accrualFacts("emp-1", date(2018, time.January, 1))
	f.DateOfExit = &exit

	_, err := svc.Submit(context.Background(), f)
	assert.ErrorIs(t, err, statutory.ErrInvalidDateRange)
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestMarkPaid_FromEligible(t *testing.T) {
	svc := newTestService(date(2024, time.January, 1))
	ctx := context.Background()

	rec, err := svc.Submit(ctx, accrualFacts("emp-1", date(2015, time.January, 1)))
	require.NoError(t, err)
	require.Equal(t, gratuity.StatusEligible, rec.Status)

	paidOn := date(2024, time.February, 1)
	rec, err = svc.MarkPaid(ctx, rec.ID, paidOn)
	require.NoError(t, err)

	assert.Equal(t, gratuity.StatusPaid, rec.Status)
	require.NotNil(t, rec.PaidOn)
	assert.True(t, rec.PaidOn.Equal(paidOn))
}

func TestMarkPaid_FromAccruing_Refused(t *testing.T) {
	svc := newTestService(date(2024, time.January, 1))
	ctx := context.Background()

	rec, err := svc.Submit(ctx, accrualFacts("emp-1", date(2022, time.January, 1)))
	require.NoError(t, err)
	require.Equal(t, gratuity.StatusAccruing, rec.Status)

	_, err = svc.MarkPaid(ctx, rec.ID, date(2024, time.February, 1))
	assert.ErrorIs(t, err, statutory.ErrInvalidTransition,
		"an accruing record has no payable entitlement")
}

type recordingNotifier struct {
	notices []statutory.PaymentNotice
}

func (r *recordingNotifier) RecordPaid(_ context.Context, notice statutory.PaymentNotice) {
	r.notices = append(r.notices, notice)
}

func TestMarkPaid_NotifiesCappedAmount(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := gratuity.NewService(memory.New().Gratuity(),
		gratuity.WithClock(fixedClock(date(2024, time.January, 1))),
		gratuity.WithNotifier(notifier))
	ctx := context.Background()

	// 34 years at 200000/month overshoots the statutory ceiling; the
	// payment hook must carry the capped figure, not the raw one.
	f := accrualFacts("emp-1", date(1990, time.January, 1))
	f.LastDrawnBasicPlusDa = statutory.RupeesFromInt(200000)

	rec, err := svc.Submit(ctx, f)
	require.NoError(t, err)
	require.Equal(t, gratuity.StatusEligible, rec.Status)

	_, err = svc.MarkPaid(ctx, rec.ID, date(2024, time.February, 1))
	require.NoError(t, err)

	require.Len(t, notifier.notices, 1)
	notice := notifier.notices[0]
	assert.Equal(t, "gratuity", notice.Kind)
	assert.Equal(t, rec.EmployeeID, notice.EmployeeID)
	assert.True(t, notice.Amount.Equal(statutory.RupeesFromInt(2000000)),
		"expected the capped payable, got %s", notice.Amount)
}

func TestSupersede_FreesEmployeeForNewSpell(t *testing.T) {
	// Rehire after a paid-out exit: the old spell's record is history,
	// the new spell starts a fresh record.
	store := memory.New().Gratuity()
	svc := gratuity.NewService(store, gratuity.WithClock(fixedClock(date(2024, time.January, 1))))
	ctx := context.Background()

	exit := date(2024, time.January, 1)
	f := accrualFacts("emp-1", date(2015, time.January, 1))
	f.DateOfExit = &exit

	rec, err := svc.Submit(ctx, f)
	require.NoError(t, err)
	_, err = svc.MarkPaid(ctx, rec.ID, exit)
	require.NoError(t, err)

	_, err = svc.Supersede(ctx, rec.ID)
	require.NoError(t, err)

	// The rehire's accrual check runs after the new joining date.
	later := gratuity.NewService(store, gratuity.WithClock(fixedClock(date(2024, time.February, 1))))
	rehired, err := later.Submit(ctx, accrualFacts("emp-1", date(2024, time.January, 15)))
	require.NoError(t, err)
	assert.NotEqual(t, rec.ID, rehired.ID)
	assert.Equal(t, gratuity.StatusAccruing, rehired.Status)

	records, err := later.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
