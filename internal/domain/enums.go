package domain

// EInvoiceStatus represents the regulated lifecycle of an e-invoice.
type EInvoiceStatus string

const (
	StatusDraft        EInvoiceStatus = "draft"
	StatusGenerated    EInvoiceStatus = "generated"
	StatusSubmitted    EInvoiceStatus = "submitted"
	StatusAcknowledged EInvoiceStatus = "acknowledged"
	StatusCancelled    EInvoiceStatus = "cancelled"
	StatusFailed       EInvoiceStatus = "failed"
)

// ValidStatuses is the closed set of e-invoice statuses.
var ValidStatuses = map[EInvoiceStatus]bool{
	StatusDraft:        true,
	StatusGenerated:    true,
	StatusSubmitted:    true,
	StatusAcknowledged: true,
	StatusCancelled:    true,
	StatusFailed:       true,
}

// InvoiceType distinguishes regular invoices from credit/debit notes.
type InvoiceType string

const (
	InvoiceTypeRegular    InvoiceType = "regular"
	InvoiceTypeCreditNote InvoiceType = "credit_note"
	InvoiceTypeDebitNote  InvoiceType = "debit_note"
)

// DocumentType is the e-invoicing scheme document type code.
type DocumentType string

const (
	DocumentTypeINV DocumentType = "INV"
	DocumentTypeCRN DocumentType = "CRN"
	DocumentTypeDBN DocumentType = "DBN"
)

// BuyerType marks whether the buyer is GST-registered.
type BuyerType string

const (
	BuyerTypeRegular  BuyerType = "regular"
	BuyerTypeConsumer BuyerType = "consumer"
)

// RoundingStrategy selects how the grand total is rounded at the
// aggregate level. Line items are never rounded.
type RoundingStrategy string

const (
	// RoundingNone leaves the grand total as computed.
	RoundingNone RoundingStrategy = "none"
	// RoundingNearestRupee rounds the grand total to the nearest whole
	// rupee and stores the delta in RoundOffAmount.
	RoundingNearestRupee RoundingStrategy = "nearest_rupee"
)
