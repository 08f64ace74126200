package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
	"taxdesk/internal/gst"
	"taxdesk/internal/port"
	"taxdesk/internal/validator"
)

// LineItemInput is the caller-supplied shape of a line item. Monetary
// fields are derived by the engine, never accepted from the caller.
type LineItemInput struct {
	Description  string  `json:"description"`
	IsService    bool    `json:"is_service"`
	HSNCode      string  `json:"hsn_code"`
	Quantity     float64 `json:"quantity"`
	FreeQuantity float64 `json:"free_quantity"`
	Unit         string  `json:"unit"`
	UnitPrice    float64 `json:"unit_price"`
	Discount     float64 `json:"discount"`
	GSTRate      float64 `json:"gst_rate"`
	CessRate     float64 `json:"cess_rate"`
	OtherCharges float64 `json:"other_charges"`
}

// CreateEInvoiceInput is the DTO for creating an e-invoice draft.
type CreateEInvoiceInput struct {
	InvoiceNumber string               `json:"invoice_number" binding:"required"`
	InvoiceDate   time.Time            `json:"invoice_date" binding:"required"`
	InvoiceType   domain.InvoiceType   `json:"invoice_type"`
	DocumentType  domain.DocumentType  `json:"document_type"`
	Supplier      domain.Party         `json:"supplier"`
	Buyer         domain.Party         `json:"buyer"`
	Dispatch      *domain.Party        `json:"dispatch"`
	ShipTo        *domain.Party        `json:"ship_to"`
	LineItems     []LineItemInput      `json:"line_items"`
	Payment       *domain.PaymentTerms `json:"payment"`
	Transport     *domain.Transport    `json:"transport"`
	ReverseCharge bool                 `json:"reverse_charge"`
	PlaceOfSupply string               `json:"place_of_supply"`
	CreatedBy     string               `json:"created_by"`
}

// UpdateEInvoiceInput is the typed patch for updating a draft. Nil
// fields are left unchanged; a non-nil LineItems replaces the whole
// sequence and serial numbers are reassigned by position.
type UpdateEInvoiceInput struct {
	InvoiceNumber *string              `json:"invoice_number"`
	InvoiceDate   *time.Time           `json:"invoice_date"`
	InvoiceType   *domain.InvoiceType  `json:"invoice_type"`
	DocumentType  *domain.DocumentType `json:"document_type"`
	Supplier      *domain.Party        `json:"supplier"`
	Buyer         *domain.Party        `json:"buyer"`
	Dispatch      *domain.Party        `json:"dispatch"`
	ShipTo        *domain.Party        `json:"ship_to"`
	LineItems     *[]LineItemInput     `json:"line_items"`
	Payment       *domain.PaymentTerms `json:"payment"`
	Transport     *domain.Transport    `json:"transport"`
	ReverseCharge *bool                `json:"reverse_charge"`
	PlaceOfSupply *string              `json:"place_of_supply"`
}

// EInvoiceService is the engine's public contract.
type EInvoiceService interface {
	Create(ctx context.Context, input *CreateEInvoiceInput) (*domain.EInvoice, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateEInvoiceInput) (*domain.EInvoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Submit registers the document with the portal. On a submission
	// fault the returned aggregate carries the failed status and
	// diagnostic alongside the error.
	Submit(ctx context.Context, id uuid.UUID) (*domain.EInvoice, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*domain.EInvoice, error)
	Convert(inv *domain.Invoice) *domain.EInvoice
	Validate(e *domain.EInvoice) []string
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EInvoice, error)
	List(ctx context.Context, offset, limit int) ([]domain.EInvoice, int, error)
	ListByStatus(ctx context.Context, status domain.EInvoiceStatus, offset, limit int) ([]domain.EInvoice, int, error)
	Search(ctx context.Context, query string, offset, limit int) ([]domain.EInvoice, int, error)
	Summary(ctx context.Context) (map[domain.EInvoiceStatus]int, error)
}

type einvoiceService struct {
	repo      port.EInvoiceRepository
	lifecycle *gst.Lifecycle
	converter *Converter
	rounding  domain.RoundingStrategy
}

// NewEInvoiceService creates the e-invoice engine service.
func NewEInvoiceService(
	repo port.EInvoiceRepository,
	lifecycle *gst.Lifecycle,
	converter *Converter,
	rounding domain.RoundingStrategy,
) EInvoiceService {
	return &einvoiceService{
		repo:      repo,
		lifecycle: lifecycle,
		converter: converter,
		rounding:  rounding,
	}
}

func (s *einvoiceService) Create(ctx context.Context, input *CreateEInvoiceInput) (*domain.EInvoice, error) {
	e := &domain.EInvoice{
		ID:            uuid.New(),
		InvoiceNumber: input.InvoiceNumber,
		InvoiceDate:   input.InvoiceDate,
		InvoiceType:   input.InvoiceType,
		DocumentType:  input.DocumentType,
		Supplier:      input.Supplier,
		Buyer:         input.Buyer,
		Dispatch:      input.Dispatch,
		ShipTo:        input.ShipTo,
		LineItems:     buildLineItems(input.LineItems),
		Payment:       input.Payment,
		Transport:     input.Transport,
		ReverseCharge: input.ReverseCharge,
		PlaceOfSupply: input.PlaceOfSupply,
		Status:        domain.StatusDraft,
		CreatedBy:     input.CreatedBy,
	}
	if e.InvoiceType == "" {
		e.InvoiceType = domain.InvoiceTypeRegular
	}
	if e.DocumentType == "" {
		e.DocumentType = domain.DocumentTypeINV
	}
	e.BuyerType = buyerTypeFor(e.Buyer)

	gst.Recompute(e, s.rounding)

	if errs := validator.ValidateEInvoice(e); len(errs) > 0 {
		return nil, domain.NewValidationError(errs)
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	log.Printf("einvoiceService.Create: created e-invoice %s (%s)", e.ID, e.InvoiceNumber)
	return e, nil
}

// mutable lists the statuses in which a document may still be edited.
var mutable = map[domain.EInvoiceStatus]bool{
	domain.StatusDraft:     true,
	domain.StatusGenerated: true,
	domain.StatusFailed:    true,
}

func (s *einvoiceService) Update(ctx context.Context, id uuid.UUID, input *UpdateEInvoiceInput) (*domain.EInvoice, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mutable[e.Status] {
		return nil, domain.ErrIllegalTransition
	}

	if input.InvoiceNumber != nil {
		e.InvoiceNumber = *input.InvoiceNumber
	}
	if input.InvoiceDate != nil {
		e.InvoiceDate = *input.InvoiceDate
	}
	if input.InvoiceType != nil {
		e.InvoiceType = *input.InvoiceType
	}
	if input.DocumentType != nil {
		e.DocumentType = *input.DocumentType
	}
	if input.Supplier != nil {
		e.Supplier = *input.Supplier
	}
	if input.Buyer != nil {
		e.Buyer = *input.Buyer
		e.BuyerType = buyerTypeFor(e.Buyer)
	}
	if input.Dispatch != nil {
		e.Dispatch = input.Dispatch
	}
	if input.ShipTo != nil {
		e.ShipTo = input.ShipTo
	}
	if input.LineItems != nil {
		e.LineItems = buildLineItems(*input.LineItems)
	}
	if input.Payment != nil {
		e.Payment = input.Payment
	}
	if input.Transport != nil {
		e.Transport = input.Transport
	}
	if input.ReverseCharge != nil {
		e.ReverseCharge = *input.ReverseCharge
	}
	if input.PlaceOfSupply != nil {
		e.PlaceOfSupply = *input.PlaceOfSupply
	}

	e.RenumberLineItems()
	gst.Recompute(e, s.rounding)

	if errs := validator.ValidateEInvoice(e); len(errs) > 0 {
		return nil, domain.NewValidationError(errs)
	}

	// Editing a failed document revives it as a draft; the recorded
	// diagnostic no longer describes the current content.
	if e.Status == domain.StatusFailed {
		e.Status = domain.StatusDraft
		e.ErrorDetail = ""
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *einvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *einvoiceService) Submit(ctx context.Context, id uuid.UUID) (*domain.EInvoice, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	submitErr := s.lifecycle.Submit(ctx, e)
	if submitErr != nil {
		// A submission fault is recorded on the aggregate before being
		// surfaced; an illegal transition leaves it untouched.
		if e.Status == domain.StatusFailed {
			if updateErr := s.repo.Update(ctx, e); updateErr != nil {
				log.Printf("einvoiceService.Submit: persisting failed status for %s: %v", id, updateErr)
			}
			return e, submitErr
		}
		return nil, submitErr
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	log.Printf("einvoiceService.Submit: e-invoice %s acknowledged, irn=%s ack_no=%s", e.ID, e.IRN, e.AckNo)
	return e, nil
}

func (s *einvoiceService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*domain.EInvoice, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.lifecycle.Cancel(e, reason); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	log.Printf("einvoiceService.Cancel: e-invoice %s cancelled: %s", e.ID, reason)
	return e, nil
}

func (s *einvoiceService) Convert(inv *domain.Invoice) *domain.EInvoice {
	return s.converter.Convert(inv)
}

func (s *einvoiceService) Validate(e *domain.EInvoice) []string {
	return validator.ValidateEInvoice(e)
}

func (s *einvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.EInvoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *einvoiceService) List(ctx context.Context, offset, limit int) ([]domain.EInvoice, int, error) {
	offset, limit = clampPage(offset, limit)
	return s.repo.List(ctx, offset, limit)
}

func (s *einvoiceService) ListByStatus(ctx context.Context, status domain.EInvoiceStatus, offset, limit int) ([]domain.EInvoice, int, error) {
	offset, limit = clampPage(offset, limit)
	return s.repo.ListByStatus(ctx, status, offset, limit)
}

func (s *einvoiceService) Search(ctx context.Context, query string, offset, limit int) ([]domain.EInvoice, int, error) {
	offset, limit = clampPage(offset, limit)
	return s.repo.Search(ctx, query, offset, limit)
}

func (s *einvoiceService) Summary(ctx context.Context) (map[domain.EInvoiceStatus]int, error) {
	return s.repo.CountByStatus(ctx)
}

// buildLineItems maps caller inputs to domain items with 1-based
// serial numbers assigned by position. Monetary fields are filled by
// the computation pass.
func buildLineItems(inputs []LineItemInput) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, domain.LineItem{
			SerialNumber: i + 1,
			Description:  in.Description,
			IsService:    in.IsService,
			HSNCode:      in.HSNCode,
			Quantity:     in.Quantity,
			FreeQuantity: in.FreeQuantity,
			Unit:         in.Unit,
			UnitPrice:    in.UnitPrice,
			Discount:     in.Discount,
			GSTRate:      in.GSTRate,
			CessRate:     in.CessRate,
			OtherCharges: in.OtherCharges,
		})
	}
	return items
}

// clampPage floors paging inputs at zero so the stores never see a
// negative OFFSET or LIMIT regardless of which caller reached the
// service. The HTTP layer applies its own defaults before this.
func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	return offset, limit
}

func buyerTypeFor(buyer domain.Party) domain.BuyerType {
	if buyer.GSTIN == "" {
		return domain.BuyerTypeConsumer
	}
	return domain.BuyerTypeRegular
}
