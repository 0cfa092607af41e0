package pg

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

func (s *Store) CreateInvoice(ctx context.Context, inv *core.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return core.ErrInvalid
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO invoice (id, tenant_id, visit_id, status, total_amount, items)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		inv.ID, inv.TenantID, inv.VisitID, inv.Status, inv.TotalAmount, items)
	return mapErr(err)
}

func scanInvoice(row interface{ Scan(...any) error }) (*core.Invoice, error) {
	var inv core.Invoice
	var items []byte
	if err := row.Scan(&inv.ID, &inv.TenantID, &inv.VisitID, &inv.Status,
		&inv.TotalAmount, &items, &inv.CreatedAt, &inv.PaidAt); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		_ = json.Unmarshal(items, &inv.Items)
	}
	return &inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, tenantID, id string) (*core.Invoice, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, visit_id, status, total_amount, items, created_at, paid_at
		FROM invoice WHERE id = $1 AND ($2 = '' OR tenant_id = $2)`,
		id, tenantID)
	inv, err := scanInvoice(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, tenantID, status string) ([]core.Invoice, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, visit_id, status, total_amount, items, created_at, paid_at
		FROM invoice
		WHERE ($1 = '' OR tenant_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`,
		tenantID, status)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, mapErr(err)
		}
		out = append(out, *inv)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) MarkInvoicePaid(ctx context.Context, tenantID, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE invoice SET status = 'PAID', paid_at = $3
		 WHERE id = $1 AND tenant_id = $2 AND status = 'PENDING'`,
		id, tenantID, at)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
