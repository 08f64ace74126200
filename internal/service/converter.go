package service

import (
	"github.com/google/uuid"

	"taxdesk/internal/domain"
	"taxdesk/internal/gst"
)

// Converter maps a generic sales invoice from the billing feature into
// an e-invoice draft. The supplier block comes from process-wide
// configuration; totals are recomputed through the engine rather than
// trusted from the upstream invoice, so both derivation paths always
// agree.
type Converter struct {
	supplier domain.Party
	rounding domain.RoundingStrategy
}

// NewConverter creates a Converter with the configured default
// supplier block.
func NewConverter(supplier domain.Party, rounding domain.RoundingStrategy) *Converter {
	return &Converter{supplier: supplier, rounding: rounding}
}

// Convert builds an unsaved e-invoice draft from a generic invoice.
// A customer without a GSTIN yields a consumer-type buyer.
func (c *Converter) Convert(inv *domain.Invoice) *domain.EInvoice {
	buyer := domain.Party{
		GSTIN:     inv.Customer.GSTIN,
		LegalName: inv.Customer.Name,
		Address1:  inv.Customer.Address,
		Location:  inv.Customer.State,
		PINCode:   inv.Customer.PINCode,
		StateCode: domain.StateCodeFor(inv.Customer.State),
		Phone:     inv.Customer.Phone,
		Email:     inv.Customer.Email,
	}

	buyerType := domain.BuyerTypeRegular
	if buyer.GSTIN == "" {
		buyerType = domain.BuyerTypeConsumer
	}

	items := make([]domain.LineItem, 0, len(inv.Items))
	for i, item := range inv.Items {
		items = append(items, domain.LineItem{
			SerialNumber: i + 1,
			Description:  item.Description,
			IsService:    item.IsService,
			HSNCode:      item.HSNCode,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			UnitPrice:    item.UnitPrice,
			Discount:     item.Discount,
			GSTRate:      item.GSTRate,
		})
	}

	placeOfSupply := buyer.StateCode
	if placeOfSupply == "" {
		placeOfSupply = c.supplier.StateCode
	}

	e := &domain.EInvoice{
		ID:            uuid.New(),
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		InvoiceType:   domain.InvoiceTypeRegular,
		DocumentType:  domain.DocumentTypeINV,
		BuyerType:     buyerType,
		Supplier:      c.supplier,
		Buyer:         buyer,
		LineItems:     items,
		PlaceOfSupply: placeOfSupply,
		Status:        domain.StatusDraft,
	}

	gst.Recompute(e, c.rounding)
	return e
}
