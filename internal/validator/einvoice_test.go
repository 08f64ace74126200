package validator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taxdesk/internal/domain"
	"taxdesk/internal/validator"
)

func validEInvoice() *domain.EInvoice {
	return &domain.EInvoice{
		InvoiceNumber: "INV-2025-001",
		InvoiceDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Supplier: domain.Party{
			GSTIN:     "29AAACC1206D1ZM",
			LegalName: "Acme Components Pvt Ltd",
			PINCode:   "560001",
			StateCode: "29",
		},
		Buyer: domain.Party{
			GSTIN:     "07AABCU9603R1ZP",
			LegalName: "Umbrella Traders",
			PINCode:   "110001",
			StateCode: "07",
		},
		LineItems: []domain.LineItem{
			{SerialNumber: 1, Description: "Widget", Quantity: 1, UnitPrice: 100, GSTRate: 18},
		},
	}
}

func TestValidateEInvoice_Valid(t *testing.T) {
	assert.Empty(t, validator.ValidateEInvoice(validEInvoice()))
}

func TestValidateEInvoice_MandatoryFields(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(e *domain.EInvoice)
		expected string
	}{
		{
			name:     "missing invoice number",
			mutate:   func(e *domain.EInvoice) { e.InvoiceNumber = "" },
			expected: "invoice number is required",
		},
		{
			name:     "missing invoice date",
			mutate:   func(e *domain.EInvoice) { e.InvoiceDate = time.Time{} },
			expected: "invoice date is required",
		},
		{
			name:     "missing supplier GSTIN",
			mutate:   func(e *domain.EInvoice) { e.Supplier.GSTIN = "" },
			expected: "supplier GSTIN is required",
		},
		{
			name:     "missing supplier legal name",
			mutate:   func(e *domain.EInvoice) { e.Supplier.LegalName = "" },
			expected: "supplier legal name is required",
		},
		{
			name:     "missing buyer legal name",
			mutate:   func(e *domain.EInvoice) { e.Buyer.LegalName = "" },
			expected: "buyer legal name is required",
		},
		{
			name:     "no line items",
			mutate:   func(e *domain.EInvoice) { e.LineItems = nil },
			expected: "at least one line item is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEInvoice()
			tt.mutate(e)
			errs := validator.ValidateEInvoice(e)
			assert.Equal(t, []string{tt.expected}, errs)
		})
	}
}

func TestValidateEInvoice_GSTINFormat(t *testing.T) {
	e := validEInvoice()
	e.Supplier.GSTIN = "29AAACC1206D1Z"

	errs := validator.ValidateEInvoice(e)

	assert.Equal(t, []string{`supplier GSTIN "29AAACC1206D1Z" is not a valid 15-character GSTIN`}, errs)
}

func TestValidateEInvoice_BuyerGSTINOptional(t *testing.T) {
	e := validEInvoice()
	e.Buyer.GSTIN = ""

	assert.Empty(t, validator.ValidateEInvoice(e))
}

func TestValidateEInvoice_BuyerGSTINFormatWhenPresent(t *testing.T) {
	e := validEInvoice()
	e.Buyer.GSTIN = "not-a-gstin"

	errs := validator.ValidateEInvoice(e)

	assert.Equal(t, []string{`buyer GSTIN "not-a-gstin" is not a valid 15-character GSTIN`}, errs)
}

func TestValidateEInvoice_PINFormat(t *testing.T) {
	e := validEInvoice()
	e.Supplier.PINCode = "5600"
	e.Buyer.PINCode = "11000A"

	errs := validator.ValidateEInvoice(e)

	assert.Equal(t, []string{
		`supplier PIN code "5600" must be exactly 6 digits`,
		`buyer PIN code "11000A" must be exactly 6 digits`,
	}, errs)
}

func TestValidateEInvoice_CollectsAllErrorsInOrder(t *testing.T) {
	e := &domain.EInvoice{}

	errs := validator.ValidateEInvoice(e)

	assert.Equal(t, []string{
		"invoice number is required",
		"invoice date is required",
		"supplier GSTIN is required",
		"supplier legal name is required",
		"buyer legal name is required",
		"at least one line item is required",
	}, errs)
}
