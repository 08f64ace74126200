// Package memory provides an in-memory EInvoiceRepository. It backs
// tests and single-process deployments; unlike the durable store it
// keeps everything in one map guarded by a mutex.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

type einvoiceRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domain.EInvoice
}

// NewEInvoiceRepo creates an empty in-memory EInvoiceRepository.
func NewEInvoiceRepo() port.EInvoiceRepository {
	return &einvoiceRepo{items: make(map[uuid.UUID]*domain.EInvoice)}
}

func (r *einvoiceRepo) Create(_ context.Context, e *domain.EInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	e.Version = 1
	r.items[e.ID] = clone(e)
	return nil
}

func (r *einvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.EInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(e), nil
}

func (r *einvoiceRepo) Update(_ context.Context, e *domain.EInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != e.Version {
		return domain.ErrVersionConflict
	}
	e.UpdatedAt = time.Now().UTC()
	e.Version++
	r.items[e.ID] = clone(e)
	return nil
}

func (r *einvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *einvoiceRepo) List(_ context.Context, offset, limit int) ([]domain.EInvoice, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(r.collect(func(*domain.EInvoice) bool { return true }), offset, limit)
}

func (r *einvoiceRepo) ListByStatus(_ context.Context, status domain.EInvoiceStatus, offset, limit int) ([]domain.EInvoice, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(r.collect(func(e *domain.EInvoice) bool { return e.Status == status }), offset, limit)
}

func (r *einvoiceRepo) Search(_ context.Context, query string, offset, limit int) ([]domain.EInvoice, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	matches := func(e *domain.EInvoice) bool {
		return strings.Contains(strings.ToLower(e.InvoiceNumber), q) ||
			strings.Contains(strings.ToLower(e.Buyer.LegalName), q) ||
			strings.Contains(strings.ToLower(e.IRN), q) ||
			strings.Contains(strings.ToLower(e.AckNo), q)
	}
	return paginate(r.collect(matches), offset, limit)
}

func (r *einvoiceRepo) CountByStatus(_ context.Context) (map[domain.EInvoiceStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.EInvoiceStatus]int)
	for _, e := range r.items {
		counts[e.Status]++
	}
	return counts, nil
}

// collect returns matching aggregates sorted newest-first, mirroring
// the durable store's ordering.
func (r *einvoiceRepo) collect(match func(*domain.EInvoice) bool) []domain.EInvoice {
	var list []domain.EInvoice
	for _, e := range r.items {
		if match(e) {
			list = append(list, *clone(e))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func paginate(list []domain.EInvoice, offset, limit int) ([]domain.EInvoice, int, error) {
	total := len(list)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []domain.EInvoice{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return list[offset:end], total, nil
}

// clone deep-copies an aggregate so callers never share slices or
// pointers with the stored copy.
func clone(e *domain.EInvoice) *domain.EInvoice {
	out := *e
	out.LineItems = append([]domain.LineItem(nil), e.LineItems...)
	if e.AckDate != nil {
		d := *e.AckDate
		out.AckDate = &d
	}
	if e.SubmittedAt != nil {
		d := *e.SubmittedAt
		out.SubmittedAt = &d
	}
	if e.CancelledAt != nil {
		d := *e.CancelledAt
		out.CancelledAt = &d
	}
	if e.Dispatch != nil {
		p := *e.Dispatch
		out.Dispatch = &p
	}
	if e.ShipTo != nil {
		p := *e.ShipTo
		out.ShipTo = &p
	}
	if e.Payment != nil {
		p := *e.Payment
		out.Payment = &p
	}
	if e.Transport != nil {
		t := *e.Transport
		out.Transport = &t
	}
	return &out
}
