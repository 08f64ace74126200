package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
	"taxdesk/internal/repository/memory"
)

func newEInvoice(number, buyerName string) *domain.EInvoice {
	return &domain.EInvoice{
		ID:            uuid.New(),
		InvoiceNumber: number,
		Status:        domain.StatusDraft,
		Buyer:         domain.Party{LegalName: buyerName},
	}
}

func seed(t *testing.T, repo port.EInvoiceRepository, docs ...*domain.EInvoice) {
	t.Helper()
	for _, d := range docs {
		require.NoError(t, repo.Create(context.Background(), d))
	}
}

func TestEInvoiceRepo_CreateAndGetByID(t *testing.T) {
	repo := memory.NewEInvoiceRepo()
	e := newEInvoice("INV-2025-001", "Umbrella Traders")

	require.NoError(t, repo.Create(context.Background(), e))
	assert.Equal(t, 1, e.Version)
	assert.False(t, e.CreatedAt.IsZero())

	got, err := repo.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-001", got.InvoiceNumber)

	// The stored copy must not share memory with the caller's aggregate.
	got.Buyer.LegalName = "mutated"
	again, err := repo.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Umbrella Traders", again.Buyer.LegalName)
}

func TestEInvoiceRepo_GetByID_NotFound(t *testing.T) {
	repo := memory.NewEInvoiceRepo()

	_, err := repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEInvoiceRepo_Update_VersionConflict(t *testing.T) {
	repo := memory.NewEInvoiceRepo()
	e := newEInvoice("INV-2025-001", "Umbrella Traders")
	seed(t, repo, e)

	first, err := repo.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(context.Background(), e.ID)
	require.NoError(t, err)

	first.InvoiceNumber = "INV-2025-001-A"
	require.NoError(t, repo.Update(context.Background(), first))
	assert.Equal(t, 2, first.Version)

	second.InvoiceNumber = "INV-2025-001-B"
	err = repo.Update(context.Background(), second)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	got, err := repo.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-001-A", got.InvoiceNumber)
}

func TestEInvoiceRepo_Update_NotFound(t *testing.T) {
	repo := memory.NewEInvoiceRepo()
	e := newEInvoice("INV-2025-001", "Umbrella Traders")

	assert.ErrorIs(t, repo.Update(context.Background(), e), domain.ErrNotFound)
}

func TestEInvoiceRepo_Delete(t *testing.T) {
	repo := memory.NewEInvoiceRepo()
	e := newEInvoice("INV-2025-001", "Umbrella Traders")
	seed(t, repo, e)

	require.NoError(t, repo.Delete(context.Background(), e.ID))

	_, err := repo.GetByID(context.Background(), e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), e.ID), domain.ErrNotFound)
}

func TestEInvoiceRepo_ListAndPagination(t *testing.T) {
	repo := memory.NewEInvoiceRepo()
	seed(t, repo,
		newEInvoice("INV-1", "A"),
		newEInvoice("INV-2", "B"),
		newEInvoice("INV-3", "C"),
	)

	list, total, err := repo.List(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 2)

	rest, total, err := repo.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, rest, 1)

	empty, total, err := repo.List(context.Background(), 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, empty)
}

func TestEInvoiceRepo_List_NegativeOffsetTreatedAsZero(t *testing.T) {
	repo := memory.NewEInvoiceRepo()

	list, total, err := repo.List(context.Background(), -1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	seed(t, repo, newEInvoice("INV-1", "A"), newEInvoice("INV-2", "B"))

	list, total, err = repo.List(context.Background(), -5, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 1)
}

func TestEInvoiceRepo_ListByStatus(t *testing.T) {
	repo := memory.NewEInvoiceRepo()
	acked := newEInvoice("INV-2", "B")
	acked.Status = domain.StatusAcknowledged
	seed(t, repo, newEInvoice("INV-1", "A"), acked, newEInvoice("INV-3", "C"))

	list, total, err := repo.ListByStatus(context.Background(), domain.StatusAcknowledged, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "INV-2", list[0].InvoiceNumber)
}

func TestEInvoiceRepo_Search_CaseInsensitiveSubstring(t *testing.T) {
	repo := memory.NewEInvoiceRepo()
	e := newEInvoice("INV-2025-001", "Umbrella Traders")
	e.IRN = "abc123def456"
	e.AckNo = "17499000010042"
	seed(t, repo, e, newEInvoice("DOC-77", "Acme"))

	for _, q := range []string{"inv-2025-001", "UMBRELLA", "Abc123", "9900001"} {
		list, total, err := repo.Search(context.Background(), q, 0, 10)
		require.NoError(t, err, "query %q", q)
		assert.Equal(t, 1, total, "query %q", q)
		require.Len(t, list, 1, "query %q", q)
		assert.Equal(t, "INV-2025-001", list[0].InvoiceNumber, "query %q", q)
	}

	_, total, err := repo.Search(context.Background(), "no-such-document", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestEInvoiceRepo_CountByStatus(t *testing.T) {
	repo := memory.NewEInvoiceRepo()
	cancelled := newEInvoice("INV-3", "C")
	cancelled.Status = domain.StatusCancelled
	seed(t, repo, newEInvoice("INV-1", "A"), newEInvoice("INV-2", "B"), cancelled)

	counts, err := repo.CountByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[domain.EInvoiceStatus]int{
		domain.StatusDraft:     2,
		domain.StatusCancelled: 1,
	}, counts)
}
