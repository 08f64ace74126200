package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
	"taxdesk/internal/service"
)

// MockEInvoiceService is a mock implementation of service.EInvoiceService.
type MockEInvoiceService struct {
	mock.Mock
}

func (m *MockEInvoiceService) Create(ctx context.Context, input *service.CreateEInvoiceInput) (*domain.EInvoice, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EInvoice), args.Error(1)
}

func (m *MockEInvoiceService) Update(ctx context.Context, id uuid.UUID, input *service.UpdateEInvoiceInput) (*domain.EInvoice, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EInvoice), args.Error(1)
}

func (m *MockEInvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEInvoiceService) Submit(ctx context.Context, id uuid.UUID) (*domain.EInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EInvoice), args.Error(1)
}

func (m *MockEInvoiceService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*domain.EInvoice, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EInvoice), args.Error(1)
}

func (m *MockEInvoiceService) Convert(inv *domain.Invoice) *domain.EInvoice {
	args := m.Called(inv)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.EInvoice)
}

func (m *MockEInvoiceService) Validate(e *domain.EInvoice) []string {
	args := m.Called(e)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockEInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.EInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EInvoice), args.Error(1)
}

func (m *MockEInvoiceService) List(ctx context.Context, offset, limit int) ([]domain.EInvoice, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.EInvoice), args.Int(1), args.Error(2)
}

func (m *MockEInvoiceService) ListByStatus(ctx context.Context, status domain.EInvoiceStatus, offset, limit int) ([]domain.EInvoice, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.EInvoice), args.Int(1), args.Error(2)
}

func (m *MockEInvoiceService) Search(ctx context.Context, query string, offset, limit int) ([]domain.EInvoice, int, error) {
	args := m.Called(ctx, query, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.EInvoice), args.Int(1), args.Error(2)
}

func (m *MockEInvoiceService) Summary(ctx context.Context) (map[domain.EInvoiceStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.EInvoiceStatus]int), args.Error(1)
}
