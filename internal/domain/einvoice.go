package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Party is a supplier, buyer, dispatch-from or ship-to block on an e-invoice.
type Party struct {
	GSTIN     string `json:"gstin"`
	LegalName string `json:"legal_name"`
	TradeName string `json:"trade_name"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	Location  string `json:"location"`
	PINCode   string `json:"pin_code"`
	StateCode string `json:"state_code"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// LineItem is a single goods or services line on an e-invoice.
// SerialNumber is 1-based and contiguous; it is reassigned whenever
// items are removed from the parent document.
type LineItem struct {
	SerialNumber    int     `json:"serial_number"`
	Description     string  `json:"description"`
	IsService       bool    `json:"is_service"`
	HSNCode         string  `json:"hsn_code"`
	Quantity        float64 `json:"quantity"`
	FreeQuantity    float64 `json:"free_quantity"`
	Unit            string  `json:"unit"`
	UnitPrice       float64 `json:"unit_price"`
	TotalAmount     float64 `json:"total_amount"`
	Discount        float64 `json:"discount"`
	PreTaxValue     float64 `json:"pre_tax_value"`
	AssessableValue float64 `json:"assessable_value"`
	GSTRate         float64 `json:"gst_rate"`
	IGSTAmount      float64 `json:"igst_amount"`
	CGSTAmount      float64 `json:"cgst_amount"`
	SGSTAmount      float64 `json:"sgst_amount"`
	CessRate        float64 `json:"cess_rate"`
	CessAmount      float64 `json:"cess_amount"`
	OtherCharges    float64 `json:"other_charges"`
	ItemTotal       float64 `json:"item_total"`
}

// Totals holds the aggregate monetary fields of an e-invoice.
// RoundOffAmount records what rounding removed from the component sum:
// the per-head sums minus RoundOffAmount equal InvoiceValue.
type Totals struct {
	AssessableValue float64 `json:"assessable_value"`
	CGSTValue       float64 `json:"cgst_value"`
	SGSTValue       float64 `json:"sgst_value"`
	IGSTValue       float64 `json:"igst_value"`
	CessValue       float64 `json:"cess_value"`
	OtherCharges    float64 `json:"other_charges"`
	RoundOffAmount  float64 `json:"round_off_amount"`
	InvoiceValue    float64 `json:"invoice_value"`
	InWords         string  `json:"in_words"`
}

// PaymentTerms holds optional payment metadata.
type PaymentTerms struct {
	Terms       string     `json:"terms"`
	DueDate     *time.Time `json:"due_date"`
	AdvancePaid float64    `json:"advance_paid"`
}

// Transport holds optional transport details for e-way-bill style movement.
type Transport struct {
	Mode        string  `json:"mode"`
	VehicleNo   string  `json:"vehicle_no"`
	VehicleType string  `json:"vehicle_type"`
	Carrier     string  `json:"carrier"`
	DistanceKM  float64 `json:"distance_km"`
}

// EInvoice is the electronic-invoice aggregate root.
//
// IRN, AckNo and AckDate are empty until the document is acknowledged;
// CancelledAt and CancellationReason are set only when it is cancelled.
type EInvoice struct {
	ID      uuid.UUID      `db:"id" json:"id"`
	Version int            `db:"version" json:"version"`
	IRN     string         `db:"irn" json:"irn"`
	AckNo   string         `db:"ack_no" json:"ack_no"`
	AckDate *time.Time     `db:"ack_date" json:"ack_date"`

	InvoiceNumber string       `db:"invoice_number" json:"invoice_number"`
	InvoiceDate   time.Time    `db:"invoice_date" json:"invoice_date"`
	InvoiceType   InvoiceType  `db:"invoice_type" json:"invoice_type"`
	DocumentType  DocumentType `db:"document_type" json:"document_type"`
	BuyerType     BuyerType    `db:"buyer_type" json:"buyer_type"`

	Supplier Party  `db:"-" json:"supplier"`
	Buyer    Party  `db:"-" json:"buyer"`
	Dispatch *Party `db:"-" json:"dispatch,omitempty"`
	ShipTo   *Party `db:"-" json:"ship_to,omitempty"`

	LineItems []LineItem `db:"-" json:"line_items"`
	Totals    Totals     `db:"-" json:"totals"`

	Payment   *PaymentTerms `db:"-" json:"payment,omitempty"`
	Transport *Transport    `db:"-" json:"transport,omitempty"`

	ReverseCharge bool   `db:"reverse_charge" json:"reverse_charge"`
	PlaceOfSupply string `db:"place_of_supply" json:"place_of_supply"`

	Status             EInvoiceStatus `db:"status" json:"status"`
	SubmittedAt        *time.Time     `db:"submitted_at" json:"submitted_at"`
	CancelledAt        *time.Time     `db:"cancelled_at" json:"cancelled_at"`
	CancellationReason string         `db:"cancellation_reason" json:"cancellation_reason"`
	ErrorDetail        string         `db:"error_detail" json:"error_detail"`
	QRPayload          string         `db:"qr_payload" json:"qr_payload"`

	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Interstate reports whether the supply crosses state lines, comparing
// supplier and buyer state codes. A missing buyer state code falls back
// to the place of supply.
func (e *EInvoice) Interstate() bool {
	buyerState := e.Buyer.StateCode
	if buyerState == "" {
		buyerState = e.PlaceOfSupply
	}
	return e.Supplier.StateCode != buyerState
}

// RenumberLineItems reassigns contiguous 1-based serial numbers in order.
func (e *EInvoice) RenumberLineItems() {
	for i := range e.LineItems {
		e.LineItems[i].SerialNumber = i + 1
	}
}

// PrimaryHSNCode returns the HSN/SAC code of the first line item, or "".
func (e *EInvoice) PrimaryHSNCode() string {
	if len(e.LineItems) == 0 {
		return ""
	}
	return e.LineItems[0].HSNCode
}

// EInvoiceRow is the flattened persistence shape: nested blocks are
// stored as JSONB columns.
type EInvoiceRow struct {
	EInvoice
	SupplierJSON  json.RawMessage `db:"supplier"`
	BuyerJSON     json.RawMessage `db:"buyer"`
	DispatchJSON  json.RawMessage `db:"dispatch"`
	ShipToJSON    json.RawMessage `db:"ship_to"`
	LineItemsJSON json.RawMessage `db:"line_items"`
	TotalsJSON    json.RawMessage `db:"totals"`
	PaymentJSON   json.RawMessage `db:"payment"`
	TransportJSON json.RawMessage `db:"transport"`
}

// Invoice is the generic sales invoice produced by the billing feature.
// The e-invoice engine only reads it; it is owned elsewhere.
type Invoice struct {
	ID            uuid.UUID     `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	InvoiceDate   time.Time     `json:"invoice_date"`
	Customer      Customer      `json:"customer"`
	Items         []InvoiceItem `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	CGSTTotal     float64       `json:"cgst_total"`
	SGSTTotal     float64       `json:"sgst_total"`
	IGSTTotal     float64       `json:"igst_total"`
	GrandTotal    float64       `json:"grand_total"`
}

// Customer is the billing customer referenced by a generic invoice.
type Customer struct {
	Name      string `json:"name"`
	GSTIN     string `json:"gstin"`
	Address   string `json:"address"`
	State     string `json:"state"`
	PINCode   string `json:"pin_code"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// InvoiceItem is a line on a generic sales invoice.
type InvoiceItem struct {
	Description string  `json:"description"`
	HSNCode     string  `json:"hsn_code"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	GSTRate     float64 `json:"gst_rate"`
	IsService   bool    `json:"is_service"`
}
