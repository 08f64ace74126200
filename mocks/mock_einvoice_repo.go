package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
)

// MockEInvoiceRepo is a mock implementation of port.EInvoiceRepository.
type MockEInvoiceRepo struct {
	mock.Mock
}

func (m *MockEInvoiceRepo) Create(ctx context.Context, e *domain.EInvoice) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EInvoice), args.Error(1)
}

func (m *MockEInvoiceRepo) Update(ctx context.Context, e *domain.EInvoice) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEInvoiceRepo) List(ctx context.Context, offset, limit int) ([]domain.EInvoice, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.EInvoice), args.Int(1), args.Error(2)
}

func (m *MockEInvoiceRepo) ListByStatus(ctx context.Context, status domain.EInvoiceStatus, offset, limit int) ([]domain.EInvoice, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.EInvoice), args.Int(1), args.Error(2)
}

func (m *MockEInvoiceRepo) Search(ctx context.Context, query string, offset, limit int) ([]domain.EInvoice, int, error) {
	args := m.Called(ctx, query, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.EInvoice), args.Int(1), args.Error(2)
}

func (m *MockEInvoiceRepo) CountByStatus(ctx context.Context) (map[domain.EInvoiceStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.EInvoiceStatus]int), args.Error(1)
}
