// Package irp simulates the GST Invoice Registration Portal exchange.
// It derives the IRN fingerprint and acknowledgment metadata locally;
// the real portal additionally returns a signed QR payload, which this
// simulation does not produce.
package irp

import (
	"context"
	"fmt"

	"taxdesk/internal/domain"
	"taxdesk/internal/gst"
)

// Simulator is a local stand-in for the IRP.
type Simulator struct {
	seq *gst.AckSequencer
}

// NewSimulator creates a Simulator. A nil sequencer defaults to the
// system clock and a time-seeded random source.
func NewSimulator(seq *gst.AckSequencer) *Simulator {
	if seq == nil {
		seq = gst.NewAckSequencer()
	}
	return &Simulator{seq: seq}
}

// Register computes the IRN for the document and synthesizes its
// acknowledgment. The portal rejects documents missing the identity
// fields the fingerprint is derived from.
func (s *Simulator) Register(_ context.Context, e *domain.EInvoice) (*gst.Acknowledgment, error) {
	if e.Supplier.GSTIN == "" {
		return nil, fmt.Errorf("irp: supplier GSTIN is required for registration")
	}
	if e.InvoiceNumber == "" {
		return nil, fmt.Errorf("irp: invoice number is required for registration")
	}
	if e.InvoiceDate.IsZero() {
		return nil, fmt.Errorf("irp: invoice date is required for registration")
	}

	irn := gst.ComputeIRN(e.Supplier.GSTIN, e.InvoiceNumber, e.InvoiceDate)
	ackNo, ackDate := s.seq.Next()

	qr, err := gst.BuildQRPayload(e, irn, ackNo, ackDate)
	if err != nil {
		return nil, fmt.Errorf("irp: building qr payload: %w", err)
	}

	return &gst.Acknowledgment{
		IRN:       irn,
		AckNo:     ackNo,
		AckDate:   ackDate,
		QRPayload: qr,
	}, nil
}
