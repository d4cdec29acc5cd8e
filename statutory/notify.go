package statutory

import (
	"context"
	"time"
)

// =============================================================================
// PAYMENT NOTIFIER - Downstream consumer hook
// =============================================================================

// PaymentNotice is handed to the downstream consumer when a record is
// marked paid. Rendering (letters, emails) is external to this engine.
type PaymentNotice struct {
	RecordID   RecordID
	EmployeeID EmployeeID
	Kind       string // "bonus" or "gratuity"
	Amount     Money
	PaidOn     time.Time
}

// PaymentNotifier receives a notice after a successful markPaid. Failures
// are the consumer's problem: the payment has already happened and is not
// rolled back for a notification error.
type PaymentNotifier interface {
	RecordPaid(ctx context.Context, notice PaymentNotice)
}

// NopNotifier discards notices. Default when no consumer is wired.
type NopNotifier struct{}

func (NopNotifier) RecordPaid(context.Context, PaymentNotice) {}
