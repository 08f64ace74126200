package gst

import (
	"context"
	"fmt"
	"time"

	"taxdesk/internal/domain"
)

// CancellationWindow is the regulated deadline after acknowledgment
// within which an e-invoice may still be cancelled.
const CancellationWindow = 24 * time.Hour

// Acknowledgment is the result of registering a document with the IRP.
type Acknowledgment struct {
	IRN       string
	AckNo     string
	AckDate   time.Time
	QRPayload string
}

// Registrar registers a document with the (simulated) invoice
// registration portal and returns its acknowledgment.
type Registrar interface {
	Register(ctx context.Context, e *domain.EInvoice) (*Acknowledgment, error)
}

// Lifecycle is the e-invoice status state machine:
//
//	draft → generated → submitted → acknowledged → cancelled
//
// with failed reachable from any pre-acknowledgment state when
// submission fails. Failed is terminal for the state machine itself;
// a failed document must be edited back into shape before it can be
// submitted again.
type Lifecycle struct {
	registrar Registrar
	now       func() time.Time
}

// NewLifecycle creates a Lifecycle on the given registrar. A nil clock
// defaults to time.Now; the cancellation window must be evaluated
// against a trusted clock at the moment Cancel is invoked.
func NewLifecycle(registrar Registrar, now func() time.Time) *Lifecycle {
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{registrar: registrar, now: now}
}

// submittable lists the statuses from which Submit is legal.
var submittable = map[domain.EInvoiceStatus]bool{
	domain.StatusDraft:     true,
	domain.StatusGenerated: true,
}

// Submit registers the document and transitions it to acknowledged.
// The transition is atomic from the caller's point of view: either all
// acknowledgment fields are applied together with the status, or the
// document is marked failed with a diagnostic and ErrSubmissionFailed
// is returned alongside the mutated aggregate.
func (l *Lifecycle) Submit(ctx context.Context, e *domain.EInvoice) error {
	if !submittable[e.Status] {
		return fmt.Errorf("%w: cannot submit from status %q", domain.ErrIllegalTransition, e.Status)
	}

	ack, err := l.registrar.Register(ctx, e)
	if err != nil {
		e.Status = domain.StatusFailed
		e.ErrorDetail = err.Error()
		return fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}

	now := l.now().UTC()
	ackDate := ack.AckDate
	e.IRN = ack.IRN
	e.AckNo = ack.AckNo
	e.AckDate = &ackDate
	e.QRPayload = ack.QRPayload
	e.SubmittedAt = &now
	e.ErrorDetail = ""
	e.Status = domain.StatusAcknowledged
	return nil
}

// Cancel transitions an acknowledged document to cancelled. It is
// legal only while the elapsed time since AckDate is at most
// CancellationWindow; exactly 24 hours is still within the window.
func (l *Lifecycle) Cancel(e *domain.EInvoice, reason string) error {
	if reason == "" {
		return domain.ErrCancellationReasonRequired
	}
	if e.Status == domain.StatusCancelled {
		return fmt.Errorf("%w: e-invoice is already cancelled", domain.ErrIllegalTransition)
	}
	if e.Status != domain.StatusAcknowledged || e.AckDate == nil {
		return fmt.Errorf("%w: cannot cancel from status %q", domain.ErrIllegalTransition, e.Status)
	}

	now := l.now().UTC()
	if now.Sub(*e.AckDate) > CancellationWindow {
		return domain.ErrCancellationWindowExpired
	}

	e.Status = domain.StatusCancelled
	e.CancelledAt = &now
	e.CancellationReason = reason
	return nil
}
