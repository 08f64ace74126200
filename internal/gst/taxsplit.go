package gst

import (
	"math"

	"taxdesk/internal/domain"
)

// ComputeTotals aggregates line items (already processed by
// RecomputeLineItem) into the invoice totals and renders the grand
// total in words. The rounding strategy applies to the grand total
// only; the delta is stored in RoundOffAmount.
func ComputeTotals(items []domain.LineItem, rounding domain.RoundingStrategy) domain.Totals {
	var t domain.Totals
	for i := range items {
		item := &items[i]
		t.AssessableValue += item.AssessableValue
		t.CGSTValue += item.CGSTAmount
		t.SGSTValue += item.SGSTAmount
		t.IGSTValue += item.IGSTAmount
		t.CessValue += item.CessAmount
		t.OtherCharges += item.OtherCharges
		t.InvoiceValue += item.ItemTotal
	}

	// Component sums minus the round-off always equal the grand total.
	if rounding == domain.RoundingNearestRupee {
		rounded := math.Round(t.InvoiceValue)
		t.RoundOffAmount = t.InvoiceValue - rounded
		t.InvoiceValue = rounded
	}

	t.InWords = AmountInWords(t.InvoiceValue)
	return t
}

// Recompute runs the full computation pass over an e-invoice: the
// interstate decision is made once by comparing supplier and buyer
// state codes, then applied to every line so a single document cannot
// mix interstate and intrastate lines.
func Recompute(e *domain.EInvoice, rounding domain.RoundingStrategy) {
	interstate := e.Interstate()
	for i := range e.LineItems {
		RecomputeLineItem(&e.LineItems[i], interstate)
	}
	e.Totals = ComputeTotals(e.LineItems, rounding)
}
