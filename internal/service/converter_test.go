package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxdesk/internal/domain"
	"taxdesk/internal/service"
)

func testSupplier() domain.Party {
	return domain.Party{
		GSTIN:     "29AAACC1206D1ZM",
		LegalName: "Acme Components Pvt Ltd",
		Location:  "Bengaluru",
		PINCode:   "560001",
		StateCode: "29",
	}
}

func TestConverter_Convert_RegularBuyer(t *testing.T) {
	conv := service.NewConverter(testSupplier(), domain.RoundingNone)

	inv := &domain.Invoice{
		InvoiceNumber: "INV-2025-001",
		InvoiceDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Customer: domain.Customer{
			Name:    "Umbrella Traders",
			GSTIN:   "07AABCU9603R1ZP",
			State:   "Delhi",
			PINCode: "110001",
		},
		Items: []domain.InvoiceItem{
			{Description: "Widget", HSNCode: "8471", Quantity: 10, UnitPrice: 100, GSTRate: 18},
		},
	}

	e := conv.Convert(inv)

	assert.Equal(t, domain.StatusDraft, e.Status)
	assert.Equal(t, domain.BuyerTypeRegular, e.BuyerType)
	assert.Equal(t, "INV-2025-001", e.InvoiceNumber)
	assert.Equal(t, testSupplier(), e.Supplier)
	assert.Equal(t, "Umbrella Traders", e.Buyer.LegalName)
	assert.Equal(t, "07", e.Buyer.StateCode)
	assert.Equal(t, "07", e.PlaceOfSupply)

	// Karnataka supplier, Delhi buyer: interstate, so IGST only.
	require.Len(t, e.LineItems, 1)
	assert.Equal(t, 180.0, e.LineItems[0].IGSTAmount)
	assert.Zero(t, e.LineItems[0].CGSTAmount)
	assert.Equal(t, 1180.0, e.Totals.InvoiceValue)
}

func TestConverter_Convert_ConsumerBuyer(t *testing.T) {
	conv := service.NewConverter(testSupplier(), domain.RoundingNone)

	inv := &domain.Invoice{
		InvoiceNumber: "INV-2025-002",
		InvoiceDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Customer:      domain.Customer{Name: "Walk-in Customer"},
		Items: []domain.InvoiceItem{
			{Description: "Widget", Quantity: 1, UnitPrice: 100, GSTRate: 18},
		},
	}

	e := conv.Convert(inv)

	assert.Equal(t, domain.BuyerTypeConsumer, e.BuyerType)
	assert.Empty(t, e.Buyer.GSTIN)
	// Unknown buyer state: place of supply falls back to the supplier's
	// state, which makes the supply intrastate.
	assert.Equal(t, "29", e.PlaceOfSupply)
	assert.Equal(t, 9.0, e.LineItems[0].CGSTAmount)
	assert.Equal(t, 9.0, e.LineItems[0].SGSTAmount)
}

func TestConverter_Convert_RecomputesRatherThanTrustsUpstreamTotals(t *testing.T) {
	conv := service.NewConverter(testSupplier(), domain.RoundingNone)

	inv := &domain.Invoice{
		InvoiceNumber: "INV-2025-003",
		InvoiceDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Customer:      domain.Customer{Name: "Umbrella Traders", State: "Karnataka"},
		Items: []domain.InvoiceItem{
			{Description: "Widget", Quantity: 2, UnitPrice: 500, GSTRate: 18},
		},
		// Deliberately wrong upstream figures.
		Subtotal:   1,
		GrandTotal: 1,
	}

	e := conv.Convert(inv)

	assert.Equal(t, 1000.0, e.Totals.AssessableValue)
	assert.Equal(t, 1180.0, e.Totals.InvoiceValue)
}

func TestConverter_Convert_AssignsSerialNumbersByPosition(t *testing.T) {
	conv := service.NewConverter(testSupplier(), domain.RoundingNone)

	inv := &domain.Invoice{
		InvoiceNumber: "INV-2025-004",
		InvoiceDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Customer:      domain.Customer{Name: "Umbrella Traders"},
		Items: []domain.InvoiceItem{
			{Description: "A", Quantity: 1, UnitPrice: 10},
			{Description: "B", Quantity: 1, UnitPrice: 20},
			{Description: "C", Quantity: 1, UnitPrice: 30},
		},
	}

	e := conv.Convert(inv)

	require.Len(t, e.LineItems, 3)
	for i, item := range e.LineItems {
		assert.Equal(t, i+1, item.SerialNumber)
	}
}
