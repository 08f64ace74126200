package port

import (
	"context"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
)

// EInvoiceRepository defines the contract a durable e-invoice store
// must satisfy. The engine itself performs no concurrency control;
// implementations must arbitrate concurrent access. Update performs an
// optimistic-concurrency check on the aggregate's Version and returns
// domain.ErrVersionConflict when the stored version has moved on.
type EInvoiceRepository interface {
	Create(ctx context.Context, e *domain.EInvoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EInvoice, error)
	Update(ctx context.Context, e *domain.EInvoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]domain.EInvoice, int, error)
	ListByStatus(ctx context.Context, status domain.EInvoiceStatus, offset, limit int) ([]domain.EInvoice, int, error)
	// Search matches query case-insensitively as a substring of invoice
	// number, buyer legal name, IRN and acknowledgment number.
	Search(ctx context.Context, query string, offset, limit int) ([]domain.EInvoice, int, error)
	CountByStatus(ctx context.Context) (map[domain.EInvoiceStatus]int, error)
}
