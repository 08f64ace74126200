package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxdesk/internal/domain"
	"taxdesk/internal/gst"
	"taxdesk/internal/service"
	"taxdesk/mocks"
)

func newService(repo *mocks.MockEInvoiceRepo, registrar *mocks.MockRegistrar) service.EInvoiceService {
	lifecycle := gst.NewLifecycle(registrar, nil)
	converter := service.NewConverter(testSupplier(), domain.RoundingNone)
	return service.NewEInvoiceService(repo, lifecycle, converter, domain.RoundingNone)
}

func validCreateInput() *service.CreateEInvoiceInput {
	return &service.CreateEInvoiceInput{
		InvoiceNumber: "INV-2025-001",
		InvoiceDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Supplier:      testSupplier(),
		Buyer: domain.Party{
			GSTIN:     "07AABCU9603R1ZP",
			LegalName: "Umbrella Traders",
			PINCode:   "110001",
			StateCode: "07",
		},
		LineItems: []service.LineItemInput{
			{Description: "Widget", HSNCode: "8471", Quantity: 10, UnitPrice: 100, GSTRate: 18},
		},
	}
}

func TestEInvoiceService_Create_Success(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	svc := newService(repo, nil)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.EInvoice")).Return(nil)

	e, err := svc.Create(context.Background(), validCreateInput())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, e.Status)
	assert.Equal(t, domain.InvoiceTypeRegular, e.InvoiceType)
	assert.Equal(t, domain.DocumentTypeINV, e.DocumentType)
	assert.Equal(t, domain.BuyerTypeRegular, e.BuyerType)
	assert.NotEqual(t, uuid.Nil, e.ID)
	// Interstate supply: totals carry IGST only.
	assert.Equal(t, 180.0, e.Totals.IGSTValue)
	assert.Zero(t, e.Totals.CGSTValue)
	assert.Equal(t, 1180.0, e.Totals.InvoiceValue)
	repo.AssertExpectations(t)
}

func TestEInvoiceService_Create_ConsumerBuyer(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	svc := newService(repo, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	input := validCreateInput()
	input.Buyer.GSTIN = ""

	e, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, domain.BuyerTypeConsumer, e.BuyerType)
}

func TestEInvoiceService_Create_ValidationFailure(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	svc := newService(repo, nil)

	input := validCreateInput()
	input.Supplier.GSTIN = ""
	input.LineItems = nil

	e, err := svc.Create(context.Background(), input)

	assert.Nil(t, e)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"supplier GSTIN is required",
		"at least one line item is required",
	}, verr.Errors)
	repo.AssertNotCalled(t, "Create")
}

func TestEInvoiceService_Update_RenumbersLineItems(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	svc := newService(repo, nil)

	id := uuid.New()
	existing := &domain.EInvoice{
		ID:            id,
		Status:        domain.StatusDraft,
		InvoiceNumber: "INV-2025-001",
		InvoiceDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Supplier:      testSupplier(),
		Buyer:         domain.Party{LegalName: "Umbrella Traders"},
		LineItems: []domain.LineItem{
			{SerialNumber: 1, Description: "A", Quantity: 1, UnitPrice: 10},
			{SerialNumber: 2, Description: "B", Quantity: 1, UnitPrice: 20},
			{SerialNumber: 3, Description: "C", Quantity: 1, UnitPrice: 30},
		},
	}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.EInvoice")).Return(nil)

	// Drop the middle line.
	items := []service.LineItemInput{
		{Description: "A", Quantity: 1, UnitPrice: 10},
		{Description: "C", Quantity: 1, UnitPrice: 30},
	}
	e, err := svc.Update(context.Background(), id, &service.UpdateEInvoiceInput{LineItems: &items})

	require.NoError(t, err)
	require.Len(t, e.LineItems, 2)
	assert.Equal(t, 1, e.LineItems[0].SerialNumber)
	assert.Equal(t, "A", e.LineItems[0].Description)
	assert.Equal(t, 2, e.LineItems[1].SerialNumber)
	assert.Equal(t, "C", e.LineItems[1].Description)
	assert.Equal(t, 40.0, e.Totals.InvoiceValue)
}

func TestEInvoiceService_Update_NotEditableAfterAcknowledgment(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	svc := newService(repo, nil)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.EInvoice{ID: id, Status: domain.StatusAcknowledged}, nil)

	e, err := svc.Update(context.Background(), id, &service.UpdateEInvoiceInput{})

	assert.Nil(t, e)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	repo.AssertNotCalled(t, "Update")
}

func TestEInvoiceService_Update_RevivesFailedDocument(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	svc := newService(repo, nil)

	id := uuid.New()
	failed := &domain.EInvoice{
		ID:            id,
		Status:        domain.StatusFailed,
		ErrorDetail:   "portal rejected the document",
		InvoiceNumber: "INV-2025-001",
		InvoiceDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Supplier:      testSupplier(),
		Buyer:         domain.Party{LegalName: "Umbrella Traders"},
		LineItems:     []domain.LineItem{{SerialNumber: 1, Quantity: 1, UnitPrice: 10}},
	}
	repo.On("GetByID", mock.Anything, id).Return(failed, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	number := "INV-2025-001-A"
	e, err := svc.Update(context.Background(), id, &service.UpdateEInvoiceInput{InvoiceNumber: &number})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, e.Status)
	assert.Empty(t, e.ErrorDetail)
}

func TestEInvoiceService_Submit_Success(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	registrar := new(mocks.MockRegistrar)
	svc := newService(repo, registrar)

	id := uuid.New()
	draft := &domain.EInvoice{ID: id, Status: domain.StatusDraft, InvoiceNumber: "INV-2025-001"}
	ackDate := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	ack := &gst.Acknowledgment{IRN: "abc123", AckNo: "17499", AckDate: ackDate, QRPayload: "{}"}

	repo.On("GetByID", mock.Anything, id).Return(draft, nil)
	registrar.On("Register", mock.Anything, draft).Return(ack, nil)
	repo.On("Update", mock.Anything, draft).Return(nil)

	e, err := svc.Submit(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusAcknowledged, e.Status)
	assert.Equal(t, "abc123", e.IRN)
	repo.AssertExpectations(t)
	registrar.AssertExpectations(t)
}

func TestEInvoiceService_Submit_FailurePersistsFaultedAggregate(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	registrar := new(mocks.MockRegistrar)
	svc := newService(repo, registrar)

	id := uuid.New()
	draft := &domain.EInvoice{ID: id, Status: domain.StatusDraft}
	repo.On("GetByID", mock.Anything, id).Return(draft, nil)
	registrar.On("Register", mock.Anything, draft).Return(nil, errors.New("portal unavailable"))
	repo.On("Update", mock.Anything, draft).Return(nil)

	e, err := svc.Submit(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
	require.NotNil(t, e)
	assert.Equal(t, domain.StatusFailed, e.Status)
	assert.Equal(t, "portal unavailable", e.ErrorDetail)
	repo.AssertExpectations(t)
}

func TestEInvoiceService_Submit_NotFound(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	svc := newService(repo, new(mocks.MockRegistrar))

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	e, err := svc.Submit(context.Background(), id)

	assert.Nil(t, e)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEInvoiceService_Cancel_Success(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	svc := newService(repo, nil)

	id := uuid.New()
	ackDate := time.Now().UTC().Add(-time.Hour)
	acked := &domain.EInvoice{ID: id, Status: domain.StatusAcknowledged, AckDate: &ackDate}
	repo.On("GetByID", mock.Anything, id).Return(acked, nil)
	repo.On("Update", mock.Anything, acked).Return(nil)

	e, err := svc.Cancel(context.Background(), id, "duplicate invoice")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, e.Status)
	assert.Equal(t, "duplicate invoice", e.CancellationReason)
	repo.AssertExpectations(t)
}

func TestEInvoiceService_Cancel_WindowExpired(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	svc := newService(repo, nil)

	id := uuid.New()
	ackDate := time.Now().UTC().Add(-25 * time.Hour)
	acked := &domain.EInvoice{ID: id, Status: domain.StatusAcknowledged, AckDate: &ackDate}
	repo.On("GetByID", mock.Anything, id).Return(acked, nil)

	e, err := svc.Cancel(context.Background(), id, "too late")

	assert.Nil(t, e)
	assert.ErrorIs(t, err, domain.ErrCancellationWindowExpired)
	repo.AssertNotCalled(t, "Update")
}

func TestEInvoiceService_List_ClampsNegativePaging(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	svc := newService(repo, nil)

	// The stores must never receive a negative offset or limit,
	// whichever caller reached the service.
	repo.On("List", mock.Anything, 0, 0).Return([]domain.EInvoice{}, 0, nil)
	repo.On("Search", mock.Anything, "umbrella", 0, 10).Return([]domain.EInvoice{}, 0, nil)

	_, _, err := svc.List(context.Background(), -1, -5)
	require.NoError(t, err)

	_, _, err = svc.Search(context.Background(), "umbrella", -3, 10)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestEInvoiceService_Summary(t *testing.T) {
	repo := new(mocks.MockEInvoiceRepo)
	svc := newService(repo, nil)

	expected := map[domain.EInvoiceStatus]int{
		domain.StatusDraft:        3,
		domain.StatusAcknowledged: 1,
	}
	repo.On("CountByStatus", mock.Anything).Return(expected, nil)

	counts, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, expected, counts)
}
