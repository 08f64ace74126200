package gst

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"taxdesk/internal/domain"
)

// ComputeIRN derives the Invoice Reference Number as
// SHA-256(supplierGSTIN + invoiceNumber + invoiceDateEpoch), rendered
// as 64 lowercase hex characters. The function is pure: identical
// inputs always produce the identical fingerprint.
func ComputeIRN(supplierGSTIN, invoiceNumber string, invoiceDate time.Time) string {
	input := fmt.Sprintf("%s%s%d", supplierGSTIN, invoiceNumber, invoiceDate.Unix())
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// AckSequencer synthesizes acknowledgment numbers from the current
// time plus random digits. Unlike the IRN it is not derivable from the
// document; callers must invoke it at most once per submission. The
// clock and random source are injectable for tests.
type AckSequencer struct {
	Now  func() time.Time
	Rand *rand.Rand
}

// NewAckSequencer returns a sequencer on the system clock and a
// time-seeded random source.
func NewAckSequencer() *AckSequencer {
	return &AckSequencer{
		Now:  time.Now,
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns a fresh acknowledgment number and its timestamp.
func (s *AckSequencer) Next() (string, time.Time) {
	now := s.Now().UTC()
	return fmt.Sprintf("%d%04d", now.Unix(), s.Rand.Intn(10000)), now
}

// qrPayload is the compact scan summary embedded in the QR code.
// The real scheme signs this payload; the local simulation emits it
// unsigned.
type qrPayload struct {
	IRN           string  `json:"irn"`
	AckNo         string  `json:"ack_no"`
	AckDate       string  `json:"ack_date"`
	InvoiceNumber string  `json:"doc_no"`
	InvoiceDate   string  `json:"doc_date"`
	DocumentType  string  `json:"doc_type"`
	SupplierGSTIN string  `json:"supplier_gstin"`
	BuyerGSTIN    string  `json:"buyer_gstin"`
	InvoiceValue  float64 `json:"total_value"`
	PrimaryHSN    string  `json:"main_hsn"`
	IssuedAt      int64   `json:"issued_at"`
}

// BuildQRPayload serializes the QR summary for an acknowledged
// document.
func BuildQRPayload(e *domain.EInvoice, irn, ackNo string, ackDate time.Time) (string, error) {
	payload := qrPayload{
		IRN:           irn,
		AckNo:         ackNo,
		AckDate:       ackDate.Format(time.RFC3339),
		InvoiceNumber: e.InvoiceNumber,
		InvoiceDate:   e.InvoiceDate.Format("2006-01-02"),
		DocumentType:  string(e.DocumentType),
		SupplierGSTIN: e.Supplier.GSTIN,
		BuyerGSTIN:    e.Buyer.GSTIN,
		InvoiceValue:  e.Totals.InvoiceValue,
		PrimaryHSN:    e.PrimaryHSNCode(),
		IssuedAt:      ackDate.Unix(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling qr payload: %w", err)
	}
	return string(raw), nil
}
