package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxdesk/internal/domain"
	"taxdesk/internal/port"
)

type einvoiceRepo struct {
	db *sqlx.DB
}

// NewEInvoiceRepo creates a new PostgreSQL-backed EInvoiceRepository.
func NewEInvoiceRepo(db *sqlx.DB) port.EInvoiceRepository {
	return &einvoiceRepo{db: db}
}

const einvoiceColumns = `
	id, version, irn, ack_no, ack_date,
	invoice_number, invoice_date, invoice_type, document_type, buyer_type,
	supplier, buyer, dispatch, ship_to, line_items, totals, payment, transport,
	reverse_charge, place_of_supply,
	status, submitted_at, cancelled_at, cancellation_reason, error_detail, qr_payload,
	created_by, created_at, updated_at`

func (r *einvoiceRepo) Create(ctx context.Context, e *domain.EInvoice) error {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	e.Version = 1

	row, err := toRow(e)
	if err != nil {
		return fmt.Errorf("einvoiceRepo.Create: %w", err)
	}

	query := `INSERT INTO einvoices (` + einvoiceColumns + `) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, $18,
		$19, $20,
		$21, $22, $23, $24, $25, $26,
		$27, $28, $29
	)`

	_, err = r.db.ExecContext(ctx, query,
		e.ID, e.Version, e.IRN, e.AckNo, e.AckDate,
		e.InvoiceNumber, e.InvoiceDate, e.InvoiceType, e.DocumentType, e.BuyerType,
		row.SupplierJSON, row.BuyerJSON, row.DispatchJSON, row.ShipToJSON,
		row.LineItemsJSON, row.TotalsJSON, row.PaymentJSON, row.TransportJSON,
		e.ReverseCharge, e.PlaceOfSupply,
		e.Status, e.SubmittedAt, e.CancelledAt, e.CancellationReason, e.ErrorDetail, e.QRPayload,
		e.CreatedBy, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("einvoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *einvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EInvoice, error) {
	var row domain.EInvoiceRow
	err := r.db.GetContext(ctx, &row,
		"SELECT "+einvoiceColumns+" FROM einvoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("einvoiceRepo.GetByID: %w", err)
	}
	return fromRow(&row)
}

// Update writes the full aggregate back, guarded by an optimistic
// version check. The stored version must equal e.Version; on success
// the version is bumped on both the row and the aggregate.
func (r *einvoiceRepo) Update(ctx context.Context, e *domain.EInvoice) error {
	e.UpdatedAt = time.Now().UTC()

	row, err := toRow(e)
	if err != nil {
		return fmt.Errorf("einvoiceRepo.Update: %w", err)
	}

	query := `UPDATE einvoices SET
		version = version + 1, irn = $1, ack_no = $2, ack_date = $3,
		invoice_number = $4, invoice_date = $5, invoice_type = $6, document_type = $7, buyer_type = $8,
		supplier = $9, buyer = $10, dispatch = $11, ship_to = $12,
		line_items = $13, totals = $14, payment = $15, transport = $16,
		reverse_charge = $17, place_of_supply = $18,
		status = $19, submitted_at = $20, cancelled_at = $21,
		cancellation_reason = $22, error_detail = $23, qr_payload = $24,
		updated_at = $25
	 WHERE id = $26 AND version = $27`

	result, err := r.db.ExecContext(ctx, query,
		e.IRN, e.AckNo, e.AckDate,
		e.InvoiceNumber, e.InvoiceDate, e.InvoiceType, e.DocumentType, e.BuyerType,
		row.SupplierJSON, row.BuyerJSON, row.DispatchJSON, row.ShipToJSON,
		row.LineItemsJSON, row.TotalsJSON, row.PaymentJSON, row.TransportJSON,
		e.ReverseCharge, e.PlaceOfSupply,
		e.Status, e.SubmittedAt, e.CancelledAt,
		e.CancellationReason, e.ErrorDetail, e.QRPayload,
		e.UpdatedAt,
		e.ID, e.Version)
	if err != nil {
		return fmt.Errorf("einvoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Distinguish a missing row from a stale version.
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM einvoices WHERE id = $1)", e.ID); err != nil {
			return fmt.Errorf("einvoiceRepo.Update: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrVersionConflict
	}
	e.Version++
	return nil
}

func (r *einvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM einvoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("einvoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *einvoiceRepo) List(ctx context.Context, offset, limit int) ([]domain.EInvoice, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM einvoices"); err != nil {
		return nil, 0, fmt.Errorf("einvoiceRepo.List count: %w", err)
	}

	var rows []domain.EInvoiceRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT "+einvoiceColumns+" FROM einvoices ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("einvoiceRepo.List: %w", err)
	}
	list, err := fromRows(rows)
	return list, total, err
}

func (r *einvoiceRepo) ListByStatus(ctx context.Context, status domain.EInvoiceStatus, offset, limit int) ([]domain.EInvoice, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM einvoices WHERE status = $1", status)
	if err != nil {
		return nil, 0, fmt.Errorf("einvoiceRepo.ListByStatus count: %w", err)
	}

	var rows []domain.EInvoiceRow
	err = r.db.SelectContext(ctx, &rows,
		`SELECT `+einvoiceColumns+` FROM einvoices WHERE status = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("einvoiceRepo.ListByStatus: %w", err)
	}
	list, err := fromRows(rows)
	return list, total, err
}

func (r *einvoiceRepo) Search(ctx context.Context, query string, offset, limit int) ([]domain.EInvoice, int, error) {
	pattern := likePattern(query)
	where := `invoice_number ILIKE $1 OR buyer->>'legal_name' ILIKE $1
		OR irn ILIKE $1 OR ack_no ILIKE $1`

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM einvoices WHERE "+where, pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("einvoiceRepo.Search count: %w", err)
	}

	var rows []domain.EInvoiceRow
	err = r.db.SelectContext(ctx, &rows,
		`SELECT `+einvoiceColumns+` FROM einvoices WHERE `+where+`
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("einvoiceRepo.Search: %w", err)
	}
	list, err := fromRows(rows)
	return list, total, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a contains-anywhere ILIKE pattern, escaping the
// wildcard metacharacters so the user's query matches literally.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func (r *einvoiceRepo) CountByStatus(ctx context.Context) (map[domain.EInvoiceStatus]int, error) {
	rows, err := r.db.QueryxContext(ctx,
		"SELECT status, COUNT(*) FROM einvoices GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("einvoiceRepo.CountByStatus: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.EInvoiceStatus]int)
	for rows.Next() {
		var status domain.EInvoiceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("einvoiceRepo.CountByStatus scan: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// toRow marshals the nested blocks of an aggregate into JSONB columns.
func toRow(e *domain.EInvoice) (*domain.EInvoiceRow, error) {
	row := &domain.EInvoiceRow{EInvoice: *e}
	var err error
	if row.SupplierJSON, err = json.Marshal(e.Supplier); err != nil {
		return nil, err
	}
	if row.BuyerJSON, err = json.Marshal(e.Buyer); err != nil {
		return nil, err
	}
	if row.LineItemsJSON, err = json.Marshal(e.LineItems); err != nil {
		return nil, err
	}
	if row.TotalsJSON, err = json.Marshal(e.Totals); err != nil {
		return nil, err
	}
	if e.Dispatch != nil {
		if row.DispatchJSON, err = json.Marshal(e.Dispatch); err != nil {
			return nil, err
		}
	}
	if e.ShipTo != nil {
		if row.ShipToJSON, err = json.Marshal(e.ShipTo); err != nil {
			return nil, err
		}
	}
	if e.Payment != nil {
		if row.PaymentJSON, err = json.Marshal(e.Payment); err != nil {
			return nil, err
		}
	}
	if e.Transport != nil {
		if row.TransportJSON, err = json.Marshal(e.Transport); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// fromRow unmarshals JSONB columns back into the aggregate.
func fromRow(row *domain.EInvoiceRow) (*domain.EInvoice, error) {
	e := row.EInvoice
	if err := json.Unmarshal(row.SupplierJSON, &e.Supplier); err != nil {
		return nil, fmt.Errorf("unmarshaling supplier: %w", err)
	}
	if err := json.Unmarshal(row.BuyerJSON, &e.Buyer); err != nil {
		return nil, fmt.Errorf("unmarshaling buyer: %w", err)
	}
	if err := json.Unmarshal(row.LineItemsJSON, &e.LineItems); err != nil {
		return nil, fmt.Errorf("unmarshaling line items: %w", err)
	}
	if err := json.Unmarshal(row.TotalsJSON, &e.Totals); err != nil {
		return nil, fmt.Errorf("unmarshaling totals: %w", err)
	}
	if len(row.DispatchJSON) > 0 && string(row.DispatchJSON) != "null" {
		e.Dispatch = &domain.Party{}
		if err := json.Unmarshal(row.DispatchJSON, e.Dispatch); err != nil {
			return nil, fmt.Errorf("unmarshaling dispatch: %w", err)
		}
	}
	if len(row.ShipToJSON) > 0 && string(row.ShipToJSON) != "null" {
		e.ShipTo = &domain.Party{}
		if err := json.Unmarshal(row.ShipToJSON, e.ShipTo); err != nil {
			return nil, fmt.Errorf("unmarshaling ship_to: %w", err)
		}
	}
	if len(row.PaymentJSON) > 0 && string(row.PaymentJSON) != "null" {
		e.Payment = &domain.PaymentTerms{}
		if err := json.Unmarshal(row.PaymentJSON, e.Payment); err != nil {
			return nil, fmt.Errorf("unmarshaling payment: %w", err)
		}
	}
	if len(row.TransportJSON) > 0 && string(row.TransportJSON) != "null" {
		e.Transport = &domain.Transport{}
		if err := json.Unmarshal(row.TransportJSON, e.Transport); err != nil {
			return nil, fmt.Errorf("unmarshaling transport: %w", err)
		}
	}
	return &e, nil
}

func fromRows(rows []domain.EInvoiceRow) ([]domain.EInvoice, error) {
	list := make([]domain.EInvoice, 0, len(rows))
	for i := range rows {
		e, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, nil
}
