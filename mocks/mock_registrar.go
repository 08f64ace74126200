package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxdesk/internal/domain"
	"taxdesk/internal/gst"
)

// MockRegistrar is a mock implementation of gst.Registrar.
type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Register(ctx context.Context, e *domain.EInvoice) (*gst.Acknowledgment, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gst.Acknowledgment), args.Error(1)
}
