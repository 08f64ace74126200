// Package gst implements the computation core of the e-invoice engine:
// line-item recomputation, the CGST/SGST/IGST tax split, the IRN
// fingerprint with its acknowledgment metadata, and the document
// lifecycle state machine.
package gst

import "taxdesk/internal/domain"

// RecomputeLineItem derives every monetary field of a line item from
// quantity, unit price, discount, tax rate and the interstate flag, in
// a fixed order. No rounding is applied at the line level; rounding
// happens once at the aggregate (see ComputeTotals).
//
// Inputs are treated as already-validated numbers: negative quantities,
// discounts or rates above 100% propagate into the result unchanged.
func RecomputeLineItem(item *domain.LineItem, interstate bool) {
	item.TotalAmount = item.Quantity * item.UnitPrice
	item.PreTaxValue = item.TotalAmount - item.Discount
	item.AssessableValue = item.PreTaxValue

	taxAmount := item.AssessableValue * item.GSTRate / 100
	if interstate {
		item.IGSTAmount = taxAmount
		item.CGSTAmount = 0
		item.SGSTAmount = 0
	} else {
		item.IGSTAmount = 0
		item.CGSTAmount = taxAmount / 2
		item.SGSTAmount = taxAmount / 2
	}

	item.CessAmount = item.AssessableValue * item.CessRate / 100
	item.ItemTotal = item.AssessableValue + taxAmount + item.CessAmount + item.OtherCharges
}
